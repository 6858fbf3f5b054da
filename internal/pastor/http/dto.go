package http

import (
	"time"

	"github.com/pastoragenda/backend/internal/pastor"
	"github.com/pastoragenda/backend/internal/pkg/request"
)

// RegisterRequest defines the payload for account registration.
type RegisterRequest struct {
	Username    string `json:"username" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

// LoginRequest defines the payload for login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest defines fields allowed to be updated via PATCH /me.
// Pointers distinguish "field not sent" from "field sent as empty".
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name"`
	Bio         *string `json:"bio"`
}

// PrefsRequest is the payload for PUT /me/preferences.
type PrefsRequest struct {
	EmailOnBooked       bool `json:"email_on_booked"`
	EmailOnCancelled    bool `json:"email_on_cancelled"`
	ReminderHoursBefore int  `json:"reminder_hours_before" binding:"min=0,max=168"`
}

// ListPastorsRequest defines query parameters for the admin listing.
type ListPastorsRequest struct {
	request.ListParams
	Email       string `form:"email"`
	DisplayName string `form:"display_name"`
	IsActive    *bool  `form:"is_active"`
	SortBy      string `form:"sort_by" binding:"omitempty,oneof=username email created_at"`
}

// PastorResponse is the account owner's (and admin's) view of an account.
type PastorResponse struct {
	ID            string                   `json:"id"`
	Username      string                   `json:"username"`
	Email         string                   `json:"email"`
	DisplayName   *string                  `json:"display_name"`
	Bio           string                   `json:"bio"`
	AvatarFileID  *string                  `json:"avatar_file_id"`
	IsActive      bool                     `json:"is_active"`
	IsSystemAdmin bool                     `json:"is_system_admin"`
	Prefs         pastor.NotificationPrefs `json:"notification_preferences"`
	CreatedAt     time.Time                `json:"created_at"`
	LastLoginAt   *time.Time               `json:"last_login_at"`
}

// ProfileResponse is the public view of a pastor, served without auth.
// Email and preferences stay private.
type ProfileResponse struct {
	Username     string  `json:"username"`
	DisplayName  *string `json:"display_name"`
	Bio          string  `json:"bio"`
	AvatarFileID *string `json:"avatar_file_id"`
}

// PastorTag is a brief representation of a pastor.
type PastorTag struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse returns the token and account info.
type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	Pastor      PastorResponse `json:"pastor"`
}

// MeResponse returns the current account info.
type MeResponse struct {
	Pastor PastorResponse `json:"pastor"`
}

// NewPastorResponse converts a domain pastor.Pastor to its API shape.
func NewPastorResponse(p *pastor.Pastor) PastorResponse {
	var lastLoginAt *time.Time
	if p.LastLoginAt != nil {
		ll := *p.LastLoginAt
		lastLoginAt = &ll
	}

	return PastorResponse{
		ID:            p.ID,
		Username:      p.Username,
		Email:         p.Email,
		DisplayName:   p.DisplayName,
		Bio:           p.Bio,
		AvatarFileID:  p.AvatarFileID,
		IsActive:      p.IsActive,
		IsSystemAdmin: p.IsSystemAdmin,
		Prefs:         p.Prefs,
		CreatedAt:     p.CreatedAt,
		LastLoginAt:   lastLoginAt,
	}
}

// NewProfileResponse converts a domain pastor.Pastor to its public shape.
func NewProfileResponse(p *pastor.Pastor) ProfileResponse {
	return ProfileResponse{
		Username:     p.Username,
		DisplayName:  p.DisplayName,
		Bio:          p.Bio,
		AvatarFileID: p.AvatarFileID,
	}
}

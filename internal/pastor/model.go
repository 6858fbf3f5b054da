package pastor

import (
	"errors"
	"time"
)

var (
	ErrNotFound            = errors.New("pastor not found")
	ErrEmailAlreadyUsed    = errors.New("email already used")
	ErrUsernameAlreadyUsed = errors.New("username already used")
	ErrInvalidUsername     = errors.New("username must be 3-30 lowercase letters, digits or hyphens")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInactive            = errors.New("account is inactive")
	ErrInvalidReminder     = errors.New("reminder hours must be between 0 and 168")
)

// Pastor is an account that publishes bookable event types.
type Pastor struct {
	ID            string // UUID
	Username      string // URL slug for the public profile
	Email         string
	PasswordHash  string
	DisplayName   *string
	Bio           string
	AvatarFileID  *string
	IsActive      bool
	IsSystemAdmin bool
	Prefs         NotificationPrefs
	CreatedAt     time.Time
	LastLoginAt   *time.Time
}

// NotificationPrefs controls which transactional emails a pastor receives.
// ReminderHoursBefore of 0 disables booking reminders.
type NotificationPrefs struct {
	EmailOnBooked       bool `json:"email_on_booked"`
	EmailOnCancelled    bool `json:"email_on_cancelled"`
	ReminderHoursBefore int  `json:"reminder_hours_before"`
}

// DefaultPrefs are applied to new accounts.
func DefaultPrefs() NotificationPrefs {
	return NotificationPrefs{
		EmailOnBooked:       true,
		EmailOnCancelled:    true,
		ReminderHoursBefore: 24,
	}
}

// Filter defines filter options for listing pastors (admin only).
type Filter struct {
	Email       string
	DisplayName string
	IsActive    *bool // Use pointer to distinguish between false and nil (not set)

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}

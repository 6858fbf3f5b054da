package pastor

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/pastoragenda/backend/internal/auth"
)

// Service defines business logic related to pastor accounts.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Pastor, error)
	Login(ctx context.Context, email, password string) (*Pastor, error)
	GetByID(ctx context.Context, id string) (*Pastor, error)
	GetByUsername(ctx context.Context, username string) (*Pastor, error)
	UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Pastor, error)
	UpdatePrefs(ctx context.Context, id string, prefs NotificationPrefs) (*Pastor, error)
	SetAvatar(ctx context.Context, id string, fileID *string) (*Pastor, error)
	List(ctx context.Context, filter Filter) ([]*Pastor, int, error)
}

// RegisterRequest carries the fields needed to create an account.
type RegisterRequest struct {
	Username    string
	Email       string
	Password    string
	DisplayName string
}

// UpdateProfileRequest defines the profile fields an account owner may change.
type UpdateProfileRequest struct {
	DisplayName *string
	Bio         *string
}

var usernameRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{2,29}$`)

type service struct {
	repo   Repository
	hasher auth.PasswordHasher

	minPasswordLength int
}

// NewService creates a new pastor Service.
func NewService(repo Repository, hasher auth.PasswordHasher) Service {
	return &service{
		repo:              repo,
		hasher:            hasher,
		minPasswordLength: 8,
	}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*Pastor, error) {
	cleanEmail := normalizeEmail(req.Email)
	if cleanEmail == "" {
		return nil, fmt.Errorf("email is required")
	}

	username := strings.ToLower(strings.TrimSpace(req.Username))
	if !usernameRe.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	if len(req.Password) < s.minPasswordLength {
		return nil, fmt.Errorf("password must be at least %d characters", s.minPasswordLength)
	}

	// Check if email is already used.
	_, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err == nil {
		return nil, ErrEmailAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	// Check if the profile slug is taken.
	_, err = s.repo.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameAlreadyUsed
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing username: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var displayNamePtr *string
	if strings.TrimSpace(req.DisplayName) != "" {
		d := strings.TrimSpace(req.DisplayName)
		displayNamePtr = &d
	}

	p := &Pastor{
		Username:     username,
		Email:        cleanEmail,
		PasswordHash: hash,
		DisplayName:  displayNamePtr,
		IsActive:     true,
		Prefs:        DefaultPrefs(),
	}

	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Pastor, error) {
	cleanEmail := normalizeEmail(email)
	if cleanEmail == "" || strings.TrimSpace(password) == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := s.repo.GetByEmail(ctx, cleanEmail)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to fetch pastor by email: %w", err)
	}

	if !p.IsActive {
		return nil, ErrInactive
	}

	if err := s.hasher.Compare(p.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	// Best effort; a failed timestamp update must not fail the login.
	now := time.Now().UTC()
	_ = s.repo.UpdateLastLogin(ctx, p.ID, now)

	return p, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Pastor, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetByUsername(ctx context.Context, username string) (*Pastor, error) {
	return s.repo.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
}

func (s *service) UpdateProfile(ctx context.Context, id string, req UpdateProfileRequest) (*Pastor, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		if strings.TrimSpace(*req.DisplayName) == "" {
			p.DisplayName = nil
		} else {
			d := strings.TrimSpace(*req.DisplayName)
			p.DisplayName = &d
		}
	}
	if req.Bio != nil {
		p.Bio = strings.TrimSpace(*req.Bio)
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) UpdatePrefs(ctx context.Context, id string, prefs NotificationPrefs) (*Pastor, error) {
	// A reminder horizon beyond one week is almost certainly a client bug.
	if prefs.ReminderHoursBefore < 0 || prefs.ReminderHoursBefore > 168 {
		return nil, ErrInvalidReminder
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.Prefs = prefs
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) SetAvatar(ctx context.Context, id string, fileID *string) (*Pastor, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	p.AvatarFileID = fileID
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Pastor, int, error) {
	return s.repo.List(ctx, filter)
}

// normalizeEmail trims spaces and lowercases the email.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

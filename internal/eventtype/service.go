package eventtype

import (
	"context"
	"regexp"
	"strings"

	"github.com/pastoragenda/backend/internal/availability"
	"github.com/pastoragenda/backend/internal/delegation"
	"github.com/pastoragenda/backend/internal/pastor"
)

type CreateRequest struct {
	Slug            string
	Title           string
	Description     string
	DurationMinutes int
	Availability    availability.Weekly
	Questions       []Question
}

type UpdateRequest struct {
	Slug            *string
	Title           *string
	Description     *string
	DurationMinutes *int
	Availability    *availability.Weekly
	Questions       *[]Question
	IsActive        *bool
}

type Service interface {
	Create(ctx context.Context, pastorID string, req CreateRequest) (*EventType, error)
	GetByID(ctx context.Context, id string) (*EventType, error)
	// GetPublic resolves an active event type by pastor username and slug,
	// for the unauthenticated booking page.
	GetPublic(ctx context.Context, username, slug string) (*EventType, error)
	ListPublic(ctx context.Context, username string, page, pageSize int) ([]*EventType, int, error)
	// ListFor lists a pastor's event types for the owner or an accepted delegate.
	ListFor(ctx context.Context, requesterID, pastorID string, filter Filter) ([]*EventType, int, error)
	Update(ctx context.Context, id, requesterID string, req UpdateRequest) (*EventType, error)
	Delete(ctx context.Context, id, requesterID string) error
}

var slugRe = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{1,49}$`)

type service struct {
	repo          Repository
	pastorService pastor.Service
	delegations   delegation.Service
}

func NewService(repo Repository, pastorService pastor.Service, delegations delegation.Service) Service {
	return &service{
		repo:          repo,
		pastorService: pastorService,
		delegations:   delegations,
	}
}

func (s *service) Create(ctx context.Context, pastorID string, req CreateRequest) (*EventType, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugRe.MatchString(slug) {
		return nil, ErrInvalidSlug
	}
	if strings.TrimSpace(req.Title) == "" {
		return nil, ErrTitleRequired
	}
	if req.DurationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	et := &EventType{
		PastorID:        pastorID,
		Slug:            slug,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		Availability:    req.Availability,
		Questions:       req.Questions,
		IsActive:        true,
	}

	if err := s.repo.Create(ctx, et); err != nil {
		return nil, err
	}
	return et, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*EventType, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) GetPublic(ctx context.Context, username, slug string) (*EventType, error) {
	p, err := s.pastorService.GetByUsername(ctx, username)
	if err != nil {
		return nil, ErrNotFound
	}
	if !p.IsActive {
		return nil, ErrNotFound
	}

	et, err := s.repo.GetByPastorAndSlug(ctx, p.ID, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !et.IsActive {
		return nil, ErrNotFound
	}
	return et, nil
}

func (s *service) ListPublic(ctx context.Context, username string, page, pageSize int) ([]*EventType, int, error) {
	p, err := s.pastorService.GetByUsername(ctx, username)
	if err != nil || !p.IsActive {
		return nil, 0, ErrNotFound
	}

	return s.repo.List(ctx, Filter{
		PastorID:   p.ID,
		ActiveOnly: true,
		Page:       page,
		PageSize:   pageSize,
	})
}

func (s *service) ListFor(ctx context.Context, requesterID, pastorID string, filter Filter) ([]*EventType, int, error) {
	if pastorID == "" {
		pastorID = requesterID
	}
	if pastorID != requesterID {
		allowed, err := s.delegations.CanAccess(ctx, pastorID, requesterID)
		if err != nil {
			return nil, 0, err
		}
		if !allowed {
			return nil, 0, ErrPermissionDenied
		}
	}

	filter.PastorID = pastorID
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id, requesterID string, req UpdateRequest) (*EventType, error) {
	et, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the owning pastor edits templates; delegates get read access.
	if et.PastorID != requesterID {
		return nil, ErrPermissionDenied
	}

	if req.Slug != nil {
		slug := strings.ToLower(strings.TrimSpace(*req.Slug))
		if !slugRe.MatchString(slug) {
			return nil, ErrInvalidSlug
		}
		et.Slug = slug
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return nil, ErrTitleRequired
		}
		et.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		et.Description = *req.Description
	}
	if req.DurationMinutes != nil {
		if *req.DurationMinutes <= 0 {
			return nil, ErrInvalidDuration
		}
		et.DurationMinutes = *req.DurationMinutes
	}
	if req.Availability != nil {
		et.Availability = *req.Availability
	}
	if req.Questions != nil {
		et.Questions = *req.Questions
	}
	if req.IsActive != nil {
		et.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, et); err != nil {
		return nil, err
	}
	return et, nil
}

func (s *service) Delete(ctx context.Context, id, requesterID string) error {
	et, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if et.PastorID != requesterID {
		return ErrPermissionDenied
	}
	return s.repo.Delete(ctx, id)
}

package eventtype

import (
	"net/http"
	"time"

	"github.com/pastoragenda/backend/internal/availability"
	"github.com/pastoragenda/backend/internal/pkg/apperror"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "event type not found")
	ErrSlugTaken        = apperror.New(http.StatusConflict, "an event type with this slug already exists")
	ErrInvalidSlug      = apperror.New(http.StatusBadRequest, "slug must be 2-50 lowercase letters, digits or hyphens")
	ErrTitleRequired    = apperror.New(http.StatusBadRequest, "title is required")
	ErrInvalidDuration  = apperror.New(http.StatusBadRequest, "duration must be a positive number of minutes")
	ErrPermissionDenied = apperror.New(http.StatusForbidden, "permission denied")
)

// Question is a custom prompt the booker answers when reserving a slot.
type Question struct {
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

// EventType is a pastor-defined bookable appointment template.
type EventType struct {
	ID              string
	PastorID        string
	PastorUsername  string // joined on read
	Slug            string
	Title           string
	Description     string
	DurationMinutes int
	Availability    availability.Weekly
	Questions       []Question
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing event types.
type Filter struct {
	PastorID   string
	ActiveOnly bool
	Page       int
	PageSize   int
}

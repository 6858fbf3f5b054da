package booking

import (
	"net/http"
	"time"

	"github.com/pastoragenda/backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrEventTypeNotFound = apperror.New(http.StatusNotFound, "event type not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrSlotUnavailable   = apperror.New(http.StatusConflict, "requested time is not an available slot")
	ErrStartTimePast     = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrMissingAnswer     = apperror.New(http.StatusBadRequest, "a required question was not answered")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrAlreadyCancelled  = apperror.New(http.StatusConflict, "booking is already cancelled")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
)

// Answer is the booker's reply to one of the event type's custom questions.
type Answer struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Booking is a visitor's reservation of one slot of a pastor's event type.
type Booking struct {
	ID             string
	EventTypeID    string
	EventTitle     string // joined on read
	EventSlug      string // joined on read
	PastorID       string
	PastorUsername string // joined on read
	BookerName     string
	BookerEmail    string
	Answers        []Answer
	StartTime      time.Time
	EndTime        time.Time
	Status         Status
	ReminderSentAt *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Filter struct {
	PastorID    string
	EventTypeID string
	Status      string
	StartTime   *time.Time // Filter bookings ending after this time
	EndTime     *time.Time // Filter bookings starting before this time
	Page        int
	PageSize    int
	SortBy      string
	SortOrder   string
}

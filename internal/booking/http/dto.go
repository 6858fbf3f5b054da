package http

import (
	"time"

	"github.com/pastoragenda/backend/internal/availability"
	"github.com/pastoragenda/backend/internal/booking"
	"github.com/pastoragenda/backend/internal/pkg/request"
)

type AnswerPayload struct {
	Label string `json:"label" binding:"required"`
	Value string `json:"value"`
}

// CreateBookingRequest is the unauthenticated visitor's payload for
// POST /bookings.
type CreateBookingRequest struct {
	Username    string          `json:"username" binding:"required"`
	EventSlug   string          `json:"event_slug" binding:"required"`
	StartTime   time.Time       `json:"start_time" binding:"required"`
	BookerName  string          `json:"booker_name" binding:"required"`
	BookerEmail string          `json:"booker_email" binding:"required,email"`
	Answers     []AnswerPayload `json:"answers"`
}

// ListBookingsRequest defines query parameters for the agenda listing.
type ListBookingsRequest struct {
	request.ListParams
	PastorID    string     `form:"pastor_id" binding:"omitempty,uuid"`
	EventTypeID string     `form:"event_type_id" binding:"omitempty,uuid"`
	Status      string     `form:"status" binding:"omitempty,oneof=pending confirmed cancelled"`
	From        *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To          *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	SortBy      string     `form:"sort_by" binding:"omitempty,oneof=start_time created_at"`
	SortOrder   string     `form:"sort_order" binding:"omitempty,oneof=asc desc"`
}

// SlotsRequest defines the query for the public slot listing.
type SlotsRequest struct {
	Date string `form:"date" binding:"required,datetime=2006-01-02"`
}

type BookingResponse struct {
	ID             string            `json:"id"`
	EventTypeID    string            `json:"event_type_id"`
	EventTitle     string            `json:"event_title"`
	EventSlug      string            `json:"event_slug"`
	PastorID       string            `json:"pastor_id"`
	PastorUsername string            `json:"pastor_username"`
	BookerName     string            `json:"booker_name"`
	BookerEmail    string            `json:"booker_email"`
	Answers        []booking.Answer  `json:"answers"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Status         string            `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
}

// SlotResponse is one bookable (or taken) interval on the booking page.
type SlotResponse struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	IsBooked  bool      `json:"is_booked"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	answers := b.Answers
	if answers == nil {
		answers = []booking.Answer{}
	}
	return BookingResponse{
		ID:             b.ID,
		EventTypeID:    b.EventTypeID,
		EventTitle:     b.EventTitle,
		EventSlug:      b.EventSlug,
		PastorID:       b.PastorID,
		PastorUsername: b.PastorUsername,
		BookerName:     b.BookerName,
		BookerEmail:    b.BookerEmail,
		Answers:        answers,
		StartTime:      b.StartTime,
		EndTime:        b.EndTime,
		Status:         string(b.Status),
		CreatedAt:      b.CreatedAt,
	}
}

func NewSlotResponse(s availability.Slot) SlotResponse {
	return SlotResponse{StartTime: s.Start, EndTime: s.End, IsBooked: s.Booked}
}

package http

import (
	"time"

	"github.com/pastoragenda/backend/internal/availability"
	"github.com/pastoragenda/backend/internal/eventtype"
	"github.com/pastoragenda/backend/internal/pkg/request"
)

type QuestionPayload struct {
	Label    string `json:"label" binding:"required"`
	Required bool   `json:"required"`
}

// CreateEventTypeRequest is the payload for POST /event-types.
type CreateEventTypeRequest struct {
	Slug            string                           `json:"slug" binding:"required"`
	Title           string                           `json:"title" binding:"required"`
	Description     string                           `json:"description"`
	DurationMinutes int                              `json:"duration_minutes" binding:"required"`
	Availability    map[string][]TimeWindowPayload   `json:"availability"`
	Questions       []QuestionPayload                `json:"questions"`
}

// UpdateEventTypeRequest is the payload for PATCH /event-types/:id.
// Pointer fields distinguish "absent" from zero values.
type UpdateEventTypeRequest struct {
	Slug            *string                         `json:"slug"`
	Title           *string                         `json:"title"`
	Description     *string                         `json:"description"`
	DurationMinutes *int                            `json:"duration_minutes"`
	Availability    *map[string][]TimeWindowPayload `json:"availability"`
	Questions       *[]QuestionPayload              `json:"questions"`
	IsActive        *bool                           `json:"is_active"`
}

// TimeWindowPayload is one daily opening window in "HH:MM" wall-clock form.
type TimeWindowPayload struct {
	From string `json:"from" binding:"required"`
	To   string `json:"to" binding:"required"`
}

// ListEventTypesRequest defines query parameters for the authed listing.
type ListEventTypesRequest struct {
	request.ListParams
	PastorID string `form:"pastor_id" binding:"omitempty,uuid"`
}

type EventTypeResponse struct {
	ID              string                         `json:"id"`
	PastorID        string                         `json:"pastor_id"`
	PastorUsername  string                         `json:"pastor_username"`
	Slug            string                         `json:"slug"`
	Title           string                         `json:"title"`
	Description     string                         `json:"description"`
	DurationMinutes int                            `json:"duration_minutes"`
	Availability    map[string][]TimeWindowPayload `json:"availability"`
	Questions       []QuestionPayload              `json:"questions"`
	IsActive        bool                           `json:"is_active"`
	CreatedAt       time.Time                      `json:"created_at"`
	UpdatedAt       time.Time                      `json:"updated_at"`
}

func toWeekly(payload map[string][]TimeWindowPayload) availability.Weekly {
	if payload == nil {
		return availability.Weekly{}
	}
	weekly := make(availability.Weekly, len(payload))
	for day, windows := range payload {
		converted := make([]availability.TimeWindow, len(windows))
		for i, w := range windows {
			converted[i] = availability.TimeWindow{From: w.From, To: w.To}
		}
		weekly[day] = converted
	}
	return weekly
}

func fromWeekly(weekly availability.Weekly) map[string][]TimeWindowPayload {
	payload := make(map[string][]TimeWindowPayload, len(weekly))
	for day, windows := range weekly {
		converted := make([]TimeWindowPayload, len(windows))
		for i, w := range windows {
			converted[i] = TimeWindowPayload{From: w.From, To: w.To}
		}
		payload[day] = converted
	}
	return payload
}

func toQuestions(payload []QuestionPayload) []eventtype.Question {
	questions := make([]eventtype.Question, len(payload))
	for i, q := range payload {
		questions[i] = eventtype.Question{Label: q.Label, Required: q.Required}
	}
	return questions
}

func NewEventTypeResponse(et *eventtype.EventType) EventTypeResponse {
	questions := make([]QuestionPayload, len(et.Questions))
	for i, q := range et.Questions {
		questions[i] = QuestionPayload{Label: q.Label, Required: q.Required}
	}
	return EventTypeResponse{
		ID:              et.ID,
		PastorID:        et.PastorID,
		PastorUsername:  et.PastorUsername,
		Slug:            et.Slug,
		Title:           et.Title,
		Description:     et.Description,
		DurationMinutes: et.DurationMinutes,
		Availability:    fromWeekly(et.Availability),
		Questions:       questions,
		IsActive:        et.IsActive,
		CreatedAt:       et.CreatedAt,
		UpdatedAt:       et.UpdatedAt,
	}
}

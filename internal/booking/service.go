package booking

import (
	"context"
	"strings"
	"time"

	"github.com/pastoragenda/backend/internal/availability"
	"github.com/pastoragenda/backend/internal/delegation"
	"github.com/pastoragenda/backend/internal/eventtype"
	"github.com/pastoragenda/backend/internal/mailer"
	"github.com/pastoragenda/backend/internal/notifier"
)

// CreateRequest is an unauthenticated visitor's booking submission.
type CreateRequest struct {
	Username    string
	EventSlug   string
	StartTime   time.Time
	BookerName  string
	BookerEmail string
	Answers     []Answer
}

type Service interface {
	// Create books a slot on behalf of an unauthenticated visitor. The
	// requested start must match an open slot generated from the event
	// type's weekly availability.
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Get(ctx context.Context, id, requesterID string) (*Booking, error)
	// List returns bookings of filter.PastorID's agenda; the requester
	// must be that pastor or an accepted delegate.
	List(ctx context.Context, requesterID string, filter Filter) ([]*Booking, int, error)
	// Cancel sets the booking to cancelled and notifies both parties.
	// Only the owning pastor may cancel.
	Cancel(ctx context.Context, id, requesterID string) (*Booking, error)
	// Slots generates the bookable slots of an event type for one UTC day.
	Slots(ctx context.Context, username, slug string, date time.Time) ([]availability.Slot, error)
	// SendDueReminders mails bookers whose appointments fall within their
	// pastor's reminder window and stamps each booking exactly once.
	SendDueReminders(ctx context.Context, now time.Time) (int, error)
}

type service struct {
	repo        Repository
	eventTypes  eventtype.Service
	delegations delegation.Service
	notifier    notifier.Service
	now         func() time.Time
}

func NewService(repo Repository, eventTypes eventtype.Service, delegations delegation.Service, n notifier.Service) Service {
	return &service{
		repo:        repo,
		eventTypes:  eventTypes,
		delegations: delegations,
		notifier:    n,
		now:         time.Now,
	}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	et, err := s.eventTypes.GetPublic(ctx, req.Username, req.EventSlug)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.BookerName)
	email := strings.TrimSpace(strings.ToLower(req.BookerEmail))
	if name == "" || email == "" {
		return nil, ErrMissingAnswer
	}

	start := req.StartTime.UTC()
	if !start.After(s.now().UTC()) {
		return nil, ErrStartTimePast
	}

	answers, err := matchAnswers(et.Questions, req.Answers)
	if err != nil {
		return nil, err
	}

	slots, err := s.slotsFor(ctx, et, start.Truncate(24*time.Hour))
	if err != nil {
		return nil, err
	}
	var found *availability.Slot
	for i := range slots {
		if slots[i].Start.Equal(start) {
			found = &slots[i]
			break
		}
	}
	if found == nil {
		return nil, ErrSlotUnavailable
	}
	if found.Booked {
		return nil, ErrTimeConflict
	}

	end := start.Add(time.Duration(et.DurationMinutes) * time.Minute)

	// Re-check against the database right before insert to narrow the
	// race window between two visitors grabbing the same slot.
	conflict, err := s.repo.HasOverlap(ctx, et.ID, start, end)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	b := &Booking{
		EventTypeID:    et.ID,
		EventTitle:     et.Title,
		EventSlug:      et.Slug,
		PastorID:       et.PastorID,
		PastorUsername: et.PastorUsername,
		BookerName:     name,
		BookerEmail:    email,
		Answers:        answers,
		StartTime:      start,
		EndTime:        end,
		Status:         StatusConfirmed,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.notifier.BookingCreated(ctx, s.event(b))
	return b, nil
}

// matchAnswers keeps answers in question order and rejects submissions
// that skip a required question.
func matchAnswers(questions []eventtype.Question, answers []Answer) ([]Answer, error) {
	byLabel := make(map[string]string, len(answers))
	for _, a := range answers {
		byLabel[a.Label] = strings.TrimSpace(a.Value)
	}

	out := make([]Answer, 0, len(questions))
	for _, q := range questions {
		value := byLabel[q.Label]
		if q.Required && value == "" {
			return nil, ErrMissingAnswer
		}
		out = append(out, Answer{Label: q.Label, Value: value})
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id, requesterID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed, err := s.delegations.CanAccess(ctx, b.PastorID, requesterID)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, ErrPermissionDenied
	}
	return b, nil
}

func (s *service) List(ctx context.Context, requesterID string, filter Filter) ([]*Booking, int, error) {
	if filter.PastorID == "" {
		filter.PastorID = requesterID
	}
	allowed, err := s.delegations.CanAccess(ctx, filter.PastorID, requesterID)
	if err != nil {
		return nil, 0, err
	}
	if !allowed {
		return nil, 0, ErrPermissionDenied
	}
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, id, requesterID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.PastorID != requesterID {
		return nil, ErrPermissionDenied
	}
	if b.Status == StatusCancelled {
		return nil, ErrAlreadyCancelled
	}
	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled

	s.notifier.BookingCancelled(ctx, s.event(b))
	return b, nil
}

func (s *service) Slots(ctx context.Context, username, slug string, date time.Time) ([]availability.Slot, error) {
	et, err := s.eventTypes.GetPublic(ctx, username, slug)
	if err != nil {
		return nil, err
	}
	return s.slotsFor(ctx, et, date)
}

func (s *service) slotsFor(ctx context.Context, et *eventtype.EventType, date time.Time) ([]availability.Slot, error) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	existing, err := s.repo.ConfirmedOnDay(ctx, et.ID, day)
	if err != nil {
		return nil, err
	}
	reserved := make([]availability.Interval, 0, len(existing))
	for _, b := range existing {
		reserved = append(reserved, availability.Interval{Start: b.StartTime, End: b.EndTime})
	}
	return availability.Slots(day, et.Availability, et.DurationMinutes, reserved)
}

func (s *service) SendDueReminders(ctx context.Context, now time.Time) (int, error) {
	due, err := s.repo.DueReminders(ctx, now.UTC())
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, b := range due {
		// Stamp first so a crash mid-loop cannot double-send later.
		if err := s.repo.MarkReminderSent(ctx, b.ID, now.UTC()); err != nil {
			return sent, err
		}
		s.notifier.BookingReminder(ctx, s.event(b))
		sent++
	}
	return sent, nil
}

func (s *service) event(b *Booking) notifier.BookingEvent {
	answers := make([]mailer.Answer, 0, len(b.Answers))
	for _, a := range b.Answers {
		answers = append(answers, mailer.Answer{Label: a.Label, Value: a.Value})
	}
	return notifier.BookingEvent{
		BookingID:   b.ID,
		EventTitle:  b.EventTitle,
		PastorID:    b.PastorID,
		BookerName:  b.BookerName,
		BookerEmail: b.BookerEmail,
		StartTime:   b.StartTime,
		EndTime:     b.EndTime,
		Answers:     answers,
	}
}

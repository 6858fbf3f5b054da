// Package notifier dispatches booking-related email, honoring each
// pastor's notification preferences. Delivery is best effort: failures
// are logged and never propagate into the booking flow.
package notifier

import (
	"context"
	"log"
	"time"

	"github.com/pastoragenda/backend/internal/mailer"
	"github.com/pastoragenda/backend/internal/pastor"
)

// BookingEvent carries everything the notifier needs about a booking,
// decoupled from the booking package.
type BookingEvent struct {
	BookingID   string
	EventTitle  string
	PastorID    string
	BookerName  string
	BookerEmail string
	StartTime   time.Time
	EndTime     time.Time
	Answers     []mailer.Answer
}

type Service interface {
	// BookingCreated mails a confirmation to the booker and, preferences
	// permitting, a notification to the pastor.
	BookingCreated(ctx context.Context, ev BookingEvent)
	// BookingCancelled mails the booker and, preferences permitting, the pastor.
	BookingCancelled(ctx context.Context, ev BookingEvent)
	// BookingReminder mails the booker ahead of the appointment.
	BookingReminder(ctx context.Context, ev BookingEvent)
}

type service struct {
	pastors pastor.Service
	sender  mailer.Sender
}

func NewService(pastors pastor.Service, sender mailer.Sender) Service {
	return &service{pastors: pastors, sender: sender}
}

func (s *service) pastorFor(ctx context.Context, ev BookingEvent) *pastor.Pastor {
	p, err := s.pastors.GetByID(ctx, ev.PastorID)
	if err != nil {
		log.Printf("notifier: resolve pastor %s for booking %s failed: %v", ev.PastorID, ev.BookingID, err)
		return nil
	}
	return p
}

func pastorName(p *pastor.Pastor) string {
	if p.DisplayName != nil {
		return *p.DisplayName
	}
	return p.Username
}

func (s *service) send(to, subject, body, kind, bookingID string) {
	if err := s.sender.Send(to, subject, body); err != nil {
		log.Printf("notifier: send %s mail for booking %s to %s failed: %v", kind, bookingID, to, err)
	}
}

func (s *service) BookingCreated(ctx context.Context, ev BookingEvent) {
	p := s.pastorFor(ctx, ev)
	if p == nil {
		return
	}

	subject, body := mailer.BookingConfirmed(ev.EventTitle, pastorName(p), ev.StartTime, ev.EndTime)
	s.send(ev.BookerEmail, subject, body, "confirmation", ev.BookingID)

	if p.Prefs.EmailOnBooked {
		subject, body = mailer.BookingReceived(ev.EventTitle, ev.BookerName, ev.StartTime, ev.EndTime, ev.Answers)
		s.send(p.Email, subject, body, "new-booking", ev.BookingID)
	}
}

func (s *service) BookingCancelled(ctx context.Context, ev BookingEvent) {
	p := s.pastorFor(ctx, ev)
	if p == nil {
		return
	}

	subject, body := mailer.BookingCancelled(ev.EventTitle, ev.BookerName, ev.StartTime, ev.EndTime)
	s.send(ev.BookerEmail, subject, body, "cancellation", ev.BookingID)

	if p.Prefs.EmailOnCancelled {
		s.send(p.Email, subject, body, "cancellation", ev.BookingID)
	}
}

func (s *service) BookingReminder(ctx context.Context, ev BookingEvent) {
	p := s.pastorFor(ctx, ev)
	if p == nil {
		return
	}

	subject, body := mailer.BookingReminder(ev.EventTitle, pastorName(p), ev.StartTime, ev.EndTime)
	s.send(ev.BookerEmail, subject, body, "reminder", ev.BookingID)
}

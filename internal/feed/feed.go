// Package feed renders a pastor's confirmed bookings as an iCalendar
// feed for subscription from external calendar apps.
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/pastoragenda/backend/internal/booking"
)

const productID = "-//PastorAgenda//Agenda Feed//EN"

type Service interface {
	// Agenda renders the upcoming confirmed bookings of pastorID's agenda
	// as an iCalendar document. The requester must be the pastor or an
	// accepted delegate; access is enforced by the booking service.
	Agenda(ctx context.Context, requesterID, pastorID string) (string, error)
}

type service struct {
	bookings booking.Service
	now      func() time.Time
}

func NewService(bookings booking.Service) Service {
	return &service{bookings: bookings, now: time.Now}
}

func (s *service) Agenda(ctx context.Context, requesterID, pastorID string) (string, error) {
	from := s.now().UTC()
	to := from.AddDate(0, 3, 0)
	items, _, err := s.bookings.List(ctx, requesterID, booking.Filter{
		PastorID:  pastorID,
		Status:    string(booking.StatusConfirmed),
		StartTime: &from,
		EndTime:   &to,
		SortBy:    "start_time",
	})
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetName("PastorAgenda")

	for _, b := range items {
		ev := cal.AddEvent(fmt.Sprintf("%s@pastoragenda", b.ID))
		ev.SetDtStampTime(from)
		ev.SetStartAt(b.StartTime)
		ev.SetEndAt(b.EndTime)
		ev.SetSummary(fmt.Sprintf("%s with %s", b.EventTitle, b.BookerName))
		ev.SetDescription(eventDescription(b))
		ev.SetStatus(ics.ObjectStatusConfirmed)
	}

	return cal.Serialize(), nil
}

func eventDescription(b *booking.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Booked by %s <%s>", b.BookerName, b.BookerEmail)
	for _, a := range b.Answers {
		if a.Value == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n%s: %s", a.Label, a.Value)
	}
	return sb.String()
}

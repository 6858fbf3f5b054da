package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/pastoragenda/backend/internal/availability"
)

// Answer is a booker's reply to one custom question, rendered into the
// notification body.
type Answer struct {
	Label string
	Value string
}

func formatWhen(start, end time.Time) string {
	return fmt.Sprintf("%s, %s – %s",
		start.Format("Monday, January 2, 2006"),
		availability.Clock12(start),
		availability.Clock12(end),
	)
}

func formatAnswers(answers []Answer) string {
	if len(answers) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n")
	for _, a := range answers {
		fmt.Fprintf(&b, "%s: %s\n", a.Label, a.Value)
	}
	return b.String()
}

// BookingReceived notifies the pastor of a new booking.
func BookingReceived(eventTitle, bookerName string, start, end time.Time, answers []Answer) (subject, body string) {
	subject = fmt.Sprintf("New booking: %s with %s", eventTitle, bookerName)
	body = fmt.Sprintf(
		"%s has booked \"%s\".\n\nWhen: %s\n%s",
		bookerName, eventTitle, formatWhen(start, end), formatAnswers(answers),
	)
	return subject, body
}

// BookingConfirmed confirms the reservation to the booker.
func BookingConfirmed(eventTitle, pastorName string, start, end time.Time) (subject, body string) {
	subject = fmt.Sprintf("Booking confirmed: %s", eventTitle)
	body = fmt.Sprintf(
		"Your booking \"%s\" with %s is confirmed.\n\nWhen: %s\n",
		eventTitle, pastorName, formatWhen(start, end),
	)
	return subject, body
}

// BookingCancelled informs the recipient that a booking was cancelled.
func BookingCancelled(eventTitle, bookerName string, start, end time.Time) (subject, body string) {
	subject = fmt.Sprintf("Booking cancelled: %s", eventTitle)
	body = fmt.Sprintf(
		"The booking \"%s\" with %s has been cancelled.\n\nWhen it was scheduled: %s\n",
		eventTitle, bookerName, formatWhen(start, end),
	)
	return subject, body
}

// BookingReminder reminds the booker of an upcoming appointment.
func BookingReminder(eventTitle, pastorName string, start, end time.Time) (subject, body string) {
	subject = fmt.Sprintf("Reminder: %s", eventTitle)
	body = fmt.Sprintf(
		"This is a reminder of your upcoming booking \"%s\" with %s.\n\nWhen: %s\n",
		eventTitle, pastorName, formatWhen(start, end),
	)
	return subject, body
}

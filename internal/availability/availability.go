// Package availability generates the bookable time slots for a single
// calendar date from a pastor's weekly availability template, flagging
// each slot that collides with an existing reservation.
package availability

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Candidate slots step forward from a window's start in fixed 30-minute
// increments, independent of the appointment duration.
const slotStrideMinutes = 30

var ErrInvalidDuration = errors.New("duration must be a positive number of minutes")

// TimeWindow is one open interval within a day, wall-clock "HH:MM" strings.
type TimeWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Weekly maps a lowercase English weekday name (e.g. "monday") to the
// windows configured for that day. A missing or empty entry means the
// pastor is unavailable that weekday. Windows are not required to be
// sorted or disjoint.
type Weekly map[string][]TimeWindow

// Interval is a half-open reservation interval [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// Slot is a candidate appointment window of fixed duration. Booked slots
// are kept in the output so callers can render them as occupied.
type Slot struct {
	Start  time.Time
	End    time.Time
	Booked bool
}

// ParseClock parses a wall-clock time in "HH:MM" form (a single-digit hour
// is tolerated). It rejects hours outside 0-23 and minutes outside 0-59.
func ParseClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid time format: %q", s)
	}
	hour, err = parseClockPart(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err = parseClockPart(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("time out of range: %q", s)
	}
	return hour, minute, nil
}

// parseClockPart parses a clock component from decimal digits only, so
// signed forms like "+5" that Atoi would accept are rejected.
func parseClockPart(s string) (int, error) {
	if s == "" {
		return 0, errors.New("empty component")
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit character in %q", s)
		}
	}
	return strconv.Atoi(s)
}

// Clock12 formats a time's wall-clock component for 12-hour display,
// e.g. "9:00 AM" or "12:30 PM".
func Clock12(t time.Time) string {
	return t.Format("3:04 PM")
}

// DayName returns the lowercase English weekday name used as a Weekly key.
func DayName(date time.Time) string {
	return strings.ToLower(date.Weekday().String())
}

// Slots enumerates every candidate slot for the given date.
//
// The weekday's windows are walked in the order given; within a window,
// candidates start at From and advance in 30-minute steps, and a candidate
// is emitted only while its end fits inside the window. A window with a
// malformed From or To is skipped entirely; sibling windows still produce
// slots. Overlapping windows are enumerated independently, so the same
// absolute time may appear more than once.
//
// A candidate [s, e) is marked Booked when some reservation [rs, re)
// satisfies s < re && e > rs. Reservations are expected to be confirmed
// ones for this same date; cancelled bookings must not be passed in.
//
// The result is deterministic and the inputs are never mutated.
func Slots(date time.Time, weekly Weekly, durationMinutes int, reserved []Interval) ([]Slot, error) {
	if durationMinutes <= 0 {
		return nil, ErrInvalidDuration
	}

	windows := weekly[DayName(date)]
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	duration := time.Duration(durationMinutes) * time.Minute
	stride := slotStrideMinutes * time.Minute
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	slots := make([]Slot, 0)
	for _, w := range windows {
		fromH, fromM, err := ParseClock(w.From)
		if err != nil {
			continue
		}
		toH, toM, err := ParseClock(w.To)
		if err != nil {
			continue
		}

		open := midnight.Add(time.Duration(fromH)*time.Hour + time.Duration(fromM)*time.Minute)
		close := midnight.Add(time.Duration(toH)*time.Hour + time.Duration(toM)*time.Minute)

		for start := open; !start.Add(duration).After(close); start = start.Add(stride) {
			end := start.Add(duration)
			slots = append(slots, Slot{
				Start:  start,
				End:    end,
				Booked: overlapsAny(start, end, reserved),
			})
		}
	}

	return slots, nil
}

// overlapsAny reports whether [start, end) intersects any reservation,
// using the half-open interval test start < r.End && end > r.Start.
func overlapsAny(start, end time.Time, reserved []Interval) bool {
	for _, r := range reserved {
		if start.Before(r.End) && end.After(r.Start) {
			return true
		}
	}
	return false
}

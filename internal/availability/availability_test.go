package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2026-03-02 is a Monday.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
}

func TestSlots(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		weekly   Weekly
		duration int
		reserved []Interval
		want     []Slot
	}{
		{
			name:     "one hour window, no reservations",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "10:00"}}},
			duration: 30,
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30)},
				{Start: at(9, 30), End: at(10, 0)},
			},
		},
		{
			name:     "first slot booked",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "10:00"}}},
			duration: 30,
			reserved: []Interval{{Start: at(9, 0), End: at(9, 30)}},
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30), Booked: true},
				{Start: at(9, 30), End: at(10, 0)},
			},
		},
		{
			name:     "slot that would overflow the window is dropped",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "09:45"}}},
			duration: 30,
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30)},
			},
		},
		{
			name:     "weekday absent from template",
			date:     monday.AddDate(0, 0, 1), // tuesday
			weekly:   Weekly{"monday": {{From: "09:00", To: "10:00"}}},
			duration: 30,
			want:     []Slot{},
		},
		{
			name:     "weekday mapped to empty window list",
			date:     monday,
			weekly:   Weekly{"monday": {}},
			duration: 30,
			want:     []Slot{},
		},
		{
			name: "malformed window skipped, sibling still enumerated",
			date: monday,
			weekly: Weekly{"monday": {
				{From: "bad", To: "10:00"},
				{From: "13:00", To: "14:00"},
			}},
			duration: 60,
			want: []Slot{
				{Start: at(13, 0), End: at(14, 0)},
			},
		},
		{
			name:     "invalid hour treated as malformed",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "25:00", To: "26:00"}}},
			duration: 30,
			want:     []Slot{},
		},
		{
			name:     "signed clock component treated as malformed",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:+0", To: "10:00"}}},
			duration: 30,
			want:     []Slot{},
		},
		{
			name:     "reservation ending before the window blocks nothing",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "10:00"}}},
			duration: 30,
			reserved: []Interval{{Start: at(8, 0), End: at(8, 30)}},
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30)},
				{Start: at(9, 30), End: at(10, 0)},
			},
		},
		{
			name:     "back to back reservation does not conflict",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "10:00"}}},
			duration: 30,
			reserved: []Interval{{Start: at(8, 30), End: at(9, 0)}},
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30)},
				{Start: at(9, 30), End: at(10, 0)},
			},
		},
		{
			name:     "partial overlap on the leading edge marks booked",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "10:00"}}},
			duration: 30,
			reserved: []Interval{{Start: at(8, 45), End: at(9, 15)}},
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30), Booked: true},
				{Start: at(9, 30), End: at(10, 0)},
			},
		},
		{
			name:     "reservation containing the slot marks booked",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "10:00"}}},
			duration: 30,
			reserved: []Interval{{Start: at(8, 0), End: at(12, 0)}},
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30), Booked: true},
				{Start: at(9, 30), End: at(10, 0), Booked: true},
			},
		},
		{
			name:     "stride stays 30 minutes for longer durations",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "11:00"}}},
			duration: 60,
			want: []Slot{
				{Start: at(9, 0), End: at(10, 0)},
				{Start: at(9, 30), End: at(10, 30)},
				{Start: at(10, 0), End: at(11, 0)},
			},
		},
		{
			name: "overlapping windows emit duplicate candidates",
			date: monday,
			weekly: Weekly{"monday": {
				{From: "09:00", To: "10:00"},
				{From: "09:30", To: "10:30"},
			}},
			duration: 30,
			want: []Slot{
				{Start: at(9, 0), End: at(9, 30)},
				{Start: at(9, 30), End: at(10, 0)},
				{Start: at(9, 30), End: at(10, 0)},
				{Start: at(10, 0), End: at(10, 30)},
			},
		},
		{
			name:     "window shorter than duration yields nothing",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "09:00", To: "09:15"}}},
			duration: 30,
			want:     []Slot{},
		},
		{
			name:     "inverted window yields nothing",
			date:     monday,
			weekly:   Weekly{"monday": {{From: "14:00", To: "09:00"}}},
			duration: 30,
			want:     []Slot{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Slots(tt.date, tt.weekly, tt.duration, tt.reserved)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSlotsInvalidDuration(t *testing.T) {
	weekly := Weekly{"monday": {{From: "09:00", To: "10:00"}}}

	_, err := Slots(monday, weekly, 0, nil)
	require.ErrorIs(t, err, ErrInvalidDuration)

	_, err = Slots(monday, weekly, -15, nil)
	require.ErrorIs(t, err, ErrInvalidDuration)
}

func TestSlotsDeterministicAndPure(t *testing.T) {
	weekly := Weekly{"monday": {
		{From: "09:00", To: "11:00"},
		{From: "14:00", To: "15:00"},
	}}
	reserved := []Interval{{Start: at(9, 30), End: at(10, 0)}}

	first, err := Slots(monday, weekly, 30, reserved)
	require.NoError(t, err)
	second, err := Slots(monday, weekly, 30, reserved)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Duration and containment invariants.
	for _, s := range first {
		assert.Equal(t, 30*time.Minute, s.End.Sub(s.Start))
	}

	// Inputs untouched.
	assert.Equal(t, []Interval{{Start: at(9, 30), End: at(10, 0)}}, reserved)
	assert.Equal(t, TimeWindow{From: "09:00", To: "11:00"}, weekly["monday"][0])
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		hour    int
		minute  int
		wantErr bool
	}{
		{in: "09:00", hour: 9},
		{in: "9:05", hour: 9, minute: 5},
		{in: "23:59", hour: 23, minute: 59},
		{in: "00:00"},
		{in: "24:00", wantErr: true},
		{in: "12:60", wantErr: true},
		{in: "-1:00", wantErr: true},
		{in: "+9:00", wantErr: true},
		{in: "09:+5", wantErr: true},
		{in: "-0:30", wantErr: true},
		{in: "bad", wantErr: true},
		{in: "12", wantErr: true},
		{in: "12:00:00", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		h, m, err := ParseClock(tt.in)
		if tt.wantErr {
			assert.Error(t, err, "input %q", tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.hour, h, "input %q", tt.in)
		assert.Equal(t, tt.minute, m, "input %q", tt.in)
	}
}

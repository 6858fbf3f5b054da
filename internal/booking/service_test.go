package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pastoragenda/backend/internal/availability"
	"github.com/pastoragenda/backend/internal/delegation"
	"github.com/pastoragenda/backend/internal/eventtype"
	"github.com/pastoragenda/backend/internal/notifier"
)

type fakeRepo struct {
	bookings []*Booking
	nextID   int
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	r.nextID++
	b.ID = time.Now().Format("20060102") + "-" + string(rune('a'+r.nextID))
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.bookings = append(r.bookings, &clone)
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	for _, b := range r.bookings {
		if b.ID == id {
			clone := *b
			return &clone, nil
		}
	}
	return nil, ErrNotFound
}

func (r *fakeRepo) List(_ context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if filter.PastorID != "" && b.PastorID != filter.PastorID {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		out = append(out, b)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, id string, status Status) error {
	for _, b := range r.bookings {
		if b.ID == id {
			b.Status = status
			return nil
		}
	}
	return ErrNotFound
}

func (r *fakeRepo) HasOverlap(_ context.Context, eventTypeID string, start, end time.Time) (bool, error) {
	for _, b := range r.bookings {
		if b.EventTypeID != eventTypeID || b.Status == StatusCancelled {
			continue
		}
		if b.StartTime.Before(end) && b.EndTime.After(start) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeRepo) ConfirmedOnDay(_ context.Context, eventTypeID string, dayStart time.Time) ([]*Booking, error) {
	dayEnd := dayStart.Add(24 * time.Hour)
	var out []*Booking
	for _, b := range r.bookings {
		if b.EventTypeID != eventTypeID || b.Status != StatusConfirmed {
			continue
		}
		if !b.StartTime.Before(dayStart) && b.StartTime.Before(dayEnd) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) DueReminders(_ context.Context, now time.Time) ([]*Booking, error) {
	var out []*Booking
	for _, b := range r.bookings {
		if b.Status != StatusConfirmed || b.ReminderSentAt != nil {
			continue
		}
		if b.StartTime.After(now) && !b.StartTime.After(now.Add(24*time.Hour)) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeRepo) MarkReminderSent(_ context.Context, id string, at time.Time) error {
	for _, b := range r.bookings {
		if b.ID == id {
			t := at
			b.ReminderSentAt = &t
			return nil
		}
	}
	return ErrNotFound
}

type fakeEventTypes struct {
	et *eventtype.EventType
}

func (f *fakeEventTypes) Create(context.Context, string, eventtype.CreateRequest) (*eventtype.EventType, error) {
	panic("not used")
}
func (f *fakeEventTypes) GetByID(context.Context, string) (*eventtype.EventType, error) {
	panic("not used")
}
func (f *fakeEventTypes) GetPublic(_ context.Context, username, slug string) (*eventtype.EventType, error) {
	if f.et == nil || f.et.PastorUsername != username || f.et.Slug != slug {
		return nil, eventtype.ErrNotFound
	}
	return f.et, nil
}
func (f *fakeEventTypes) ListPublic(context.Context, string, int, int) ([]*eventtype.EventType, int, error) {
	panic("not used")
}
func (f *fakeEventTypes) ListFor(context.Context, string, string, eventtype.Filter) ([]*eventtype.EventType, int, error) {
	panic("not used")
}
func (f *fakeEventTypes) Update(context.Context, string, string, eventtype.UpdateRequest) (*eventtype.EventType, error) {
	panic("not used")
}
func (f *fakeEventTypes) Delete(context.Context, string, string) error {
	panic("not used")
}

type fakeDelegations struct {
	// delegate -> owner pairs with accepted access
	accepted map[string]string
}

func (f *fakeDelegations) Invite(context.Context, string, string) (*delegation.Invitation, error) {
	panic("not used")
}
func (f *fakeDelegations) ListSent(context.Context, string, delegation.Filter) ([]*delegation.Invitation, int, error) {
	panic("not used")
}
func (f *fakeDelegations) ListReceived(context.Context, string, delegation.Filter) ([]*delegation.Invitation, int, error) {
	panic("not used")
}
func (f *fakeDelegations) Respond(context.Context, string, string, bool) (*delegation.Invitation, error) {
	panic("not used")
}
func (f *fakeDelegations) Revoke(context.Context, string, string) error {
	panic("not used")
}
func (f *fakeDelegations) CanAccess(_ context.Context, ownerID, requesterID string) (bool, error) {
	if ownerID == requesterID {
		return true, nil
	}
	return f.accepted[requesterID] == ownerID, nil
}

type fakeNotifier struct {
	created   []notifier.BookingEvent
	cancelled []notifier.BookingEvent
	reminded  []notifier.BookingEvent
}

func (f *fakeNotifier) BookingCreated(_ context.Context, ev notifier.BookingEvent) {
	f.created = append(f.created, ev)
}
func (f *fakeNotifier) BookingCancelled(_ context.Context, ev notifier.BookingEvent) {
	f.cancelled = append(f.cancelled, ev)
}
func (f *fakeNotifier) BookingReminder(_ context.Context, ev notifier.BookingEvent) {
	f.reminded = append(f.reminded, ev)
}

func testEventType() *eventtype.EventType {
	return &eventtype.EventType{
		ID:              "et-1",
		PastorID:        "pastor-1",
		PastorUsername:  "john",
		Slug:            "counseling",
		Title:           "Counseling Session",
		DurationMinutes: 30,
		Availability: availability.Weekly{
			"monday": {{From: "09:00", To: "11:00"}},
		},
		Questions: []eventtype.Question{
			{Label: "Reason for visit", Required: true},
			{Label: "Phone", Required: false},
		},
		IsActive: true,
	}
}

// 2030-01-07 is a Monday.
var testDay = time.Date(2030, 1, 7, 0, 0, 0, 0, time.UTC)

func newTestService() (*service, *fakeRepo, *fakeNotifier) {
	repo := &fakeRepo{}
	n := &fakeNotifier{}
	svc := NewService(repo, &fakeEventTypes{et: testEventType()}, &fakeDelegations{accepted: map[string]string{}}, n).(*service)
	svc.now = func() time.Time { return testDay }
	return svc, repo, n
}

func validRequest(start time.Time) CreateRequest {
	return CreateRequest{
		Username:    "john",
		EventSlug:   "counseling",
		StartTime:   start,
		BookerName:  "Alice",
		BookerEmail: "Alice@Example.com",
		Answers:     []Answer{{Label: "Reason for visit", Value: "prayer"}},
	}
}

func TestCreateBooking(t *testing.T) {
	svc, repo, n := newTestService()

	start := testDay.Add(9 * time.Hour)
	b, err := svc.Create(context.Background(), validRequest(start))
	require.NoError(t, err)

	assert.Equal(t, StatusConfirmed, b.Status)
	assert.Equal(t, start, b.StartTime)
	assert.Equal(t, start.Add(30*time.Minute), b.EndTime)
	assert.Equal(t, "alice@example.com", b.BookerEmail)
	assert.Equal(t, "pastor-1", b.PastorID)
	// Unanswered optional questions are kept with empty values.
	require.Len(t, b.Answers, 2)
	assert.Equal(t, "prayer", b.Answers[0].Value)
	assert.Equal(t, "", b.Answers[1].Value)

	// The persisted record must already carry the event and pastor
	// identity, so later reads can enforce ownership.
	require.Len(t, repo.bookings, 1)
	stored := repo.bookings[0]
	assert.Equal(t, "pastor-1", stored.PastorID)
	assert.Equal(t, "john", stored.PastorUsername)
	assert.Equal(t, "Counseling Session", stored.EventTitle)
	assert.Equal(t, "counseling", stored.EventSlug)

	require.Len(t, n.created, 1)
	assert.Equal(t, "Counseling Session", n.created[0].EventTitle)
}

func TestCreateBookingRejectsTakenSlot(t *testing.T) {
	svc, _, n := newTestService()

	start := testDay.Add(9 * time.Hour)
	_, err := svc.Create(context.Background(), validRequest(start))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validRequest(start))
	assert.ErrorIs(t, err, ErrTimeConflict)
	assert.Len(t, n.created, 1)
}

func TestCreateBookingRejectsOffGridStart(t *testing.T) {
	svc, _, _ := newTestService()

	// 09:15 is not on the 30-minute grid.
	_, err := svc.Create(context.Background(), validRequest(testDay.Add(9*time.Hour+15*time.Minute)))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBookingRejectsOutsideWindow(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), validRequest(testDay.Add(14*time.Hour)))
	assert.ErrorIs(t, err, ErrSlotUnavailable)
}

func TestCreateBookingRejectsPastStart(t *testing.T) {
	svc, _, _ := newTestService()
	svc.now = func() time.Time { return testDay.Add(10 * time.Hour) }

	_, err := svc.Create(context.Background(), validRequest(testDay.Add(9*time.Hour)))
	assert.ErrorIs(t, err, ErrStartTimePast)
}

func TestCreateBookingRequiresAnswer(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRequest(testDay.Add(9 * time.Hour))
	req.Answers = []Answer{{Label: "Reason for visit", Value: "   "}}
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrMissingAnswer)
}

func TestCreateBookingUnknownEvent(t *testing.T) {
	svc, _, _ := newTestService()

	req := validRequest(testDay.Add(9 * time.Hour))
	req.EventSlug = "nope"
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, eventtype.ErrNotFound)
}

func TestSlotsMarksBookedIntervals(t *testing.T) {
	svc, _, _ := newTestService()

	start := testDay.Add(9*time.Hour + 30*time.Minute)
	_, err := svc.Create(context.Background(), validRequest(start))
	require.NoError(t, err)

	slots, err := svc.Slots(context.Background(), "john", "counseling", testDay)
	require.NoError(t, err)
	require.Len(t, slots, 4) // 09:00-11:00 at 30-minute stride

	assert.False(t, slots[0].Booked)
	assert.True(t, slots[1].Booked)
	assert.False(t, slots[2].Booked)
}

func TestCancelBooking(t *testing.T) {
	svc, _, n := newTestService()

	b, err := svc.Create(context.Background(), validRequest(testDay.Add(9*time.Hour)))
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), b.ID, "pastor-1")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, cancelled.Status)
	assert.Len(t, n.cancelled, 1)

	// A cancelled booking frees its slot.
	slots, err := svc.Slots(context.Background(), "john", "counseling", testDay)
	require.NoError(t, err)
	assert.False(t, slots[0].Booked)

	_, err = svc.Cancel(context.Background(), b.ID, "pastor-1")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancelRequiresOwner(t *testing.T) {
	svc, _, _ := newTestService()

	b, err := svc.Create(context.Background(), validRequest(testDay.Add(9*time.Hour)))
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), b.ID, "pastor-2")
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestListDelegateAccess(t *testing.T) {
	repo := &fakeRepo{}
	delegations := &fakeDelegations{accepted: map[string]string{"delegate-1": "pastor-1"}}
	svc := NewService(repo, &fakeEventTypes{et: testEventType()}, delegations, &fakeNotifier{}).(*service)
	svc.now = func() time.Time { return testDay }

	_, err := svc.Create(context.Background(), validRequest(testDay.Add(9*time.Hour)))
	require.NoError(t, err)

	// An accepted delegate reads the owner's agenda.
	bookings, total, err := svc.List(context.Background(), "delegate-1", Filter{PastorID: "pastor-1"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, bookings, 1)

	// A stranger does not.
	_, _, err = svc.List(context.Background(), "stranger", Filter{PastorID: "pastor-1"})
	assert.ErrorIs(t, err, ErrPermissionDenied)
}

func TestSendDueReminders(t *testing.T) {
	svc, repo, n := newTestService()

	b, err := svc.Create(context.Background(), validRequest(testDay.Add(9*time.Hour)))
	require.NoError(t, err)

	now := testDay.Add(-2 * time.Hour)
	sent, err := svc.SendDueReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	require.Len(t, n.reminded, 1)
	assert.Equal(t, b.ID, n.reminded[0].BookingID)

	// Second run finds nothing: the booking is stamped.
	sent, err = svc.SendDueReminders(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	require.NotNil(t, repo.bookings[0].ReminderSentAt)
}

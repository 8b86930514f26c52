package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var march2025 = Month{Year: 2025, Month: time.March}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func at(d, hour int) time.Time {
	return time.Date(2025, time.March, d, hour, 0, 0, 0, time.UTC)
}

func event(staffID string, status BookingStatus, bookedAt time.Time) StatusEvent {
	return StatusEvent{StaffID: staffID, Status: status, BookedAt: bookedAt}
}

func rejectedEvent(staffID string, bookedAt, rejectedAt time.Time) StatusEvent {
	e := event(staffID, BookingStatusRejected, bookedAt)
	e.RejectedAt = &rejectedAt
	return e
}

func TestSlotsTaken_IgnoresRejected(t *testing.T) {
	s := Shift{
		Quantity: 5,
		StatusEvents: []StatusEvent{
			event("a", BookingStatusApproved, at(1, 8)),
			event("b", BookingStatusApproved, at(1, 9)),
			event("c", BookingStatusRejected, at(1, 10)),
			event("d", BookingStatusPending, at(1, 11)),
		},
	}

	assert.Equal(t, 3, SlotsTaken(s))
	assert.Equal(t, 2, SlotsAvailable(s))
}

func TestSlotsAvailable_ClampsToZero(t *testing.T) {
	cases := []struct {
		name     string
		quantity int
		events   []StatusEvent
		want     int
	}{
		{name: "no events", quantity: 3, want: 3},
		{name: "overbooked", quantity: 1, events: []StatusEvent{
			event("a", BookingStatusApproved, at(1, 8)),
			event("b", BookingStatusPending, at(1, 9)),
		}, want: 0},
		{name: "negative quantity", quantity: -2, want: 0},
		{name: "all rejected", quantity: 2, events: []StatusEvent{
			event("a", BookingStatusRejected, at(1, 8)),
			event("b", BookingStatusRejected, at(1, 9)),
		}, want: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := Shift{Quantity: tc.quantity, StatusEvents: tc.events}
			got := SlotsAvailable(s)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)

			expected := tc.quantity - SlotsTaken(s)
			if expected < 0 {
				expected = 0
			}
			assert.Equal(t, expected, got)
		})
	}
}

func TestIsAvailableForStaff(t *testing.T) {
	base := Shift{Date: day(10), Quantity: 1, Published: true}

	assert.True(t, IsAvailableForStaff(base, march2025))

	unpublished := base
	unpublished.Published = false
	assert.False(t, IsAvailableForStaff(unpublished, march2025))

	full := base
	full.StatusEvents = []StatusEvent{event("a", BookingStatusPending, at(1, 8))}
	assert.False(t, IsAvailableForStaff(full, march2025))

	otherMonth := base
	otherMonth.Date = time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)
	assert.False(t, IsAvailableForStaff(otherMonth, march2025))
}

func TestCategorizeForStaff(t *testing.T) {
	s := Shift{
		Quantity: 4,
		StatusEvents: []StatusEvent{
			rejectedEvent("rebooker", at(1, 8), at(1, 12)),
			event("rebooker", BookingStatusPending, at(2, 8)),
			event("approved", BookingStatusApproved, at(1, 9)),
			rejectedEvent("rejected", at(1, 9), at(1, 10)),
		},
	}

	assert.Equal(t, CategoryPending, CategorizeForStaff(s, "rebooker"))
	assert.Equal(t, CategoryApproved, CategorizeForStaff(s, "approved"))
	assert.Equal(t, CategoryRejected, CategorizeForStaff(s, "rejected"))
	assert.Equal(t, CategoryNone, CategorizeForStaff(s, "stranger"))
}

func TestCategorizeForStaff_RejectionAfterRebookWins(t *testing.T) {
	// The second booking was made before the first was rejected.
	s := Shift{
		StatusEvents: []StatusEvent{
			event("x", BookingStatusPending, at(2, 8)),
			rejectedEvent("x", at(1, 8), at(3, 8)),
		},
	}

	assert.Equal(t, CategoryRejected, CategorizeForStaff(s, "x"))
}

func TestLatestEventFor_TieGoesToLastRecorded(t *testing.T) {
	first := event("x", BookingStatusRejected, at(1, 8))
	first.ID = "first"
	second := event("x", BookingStatusPending, at(1, 8))
	second.ID = "second"

	latest, ok := LatestEventFor(Shift{StatusEvents: []StatusEvent{first, second}}, "x")
	require.True(t, ok)
	assert.Equal(t, "second", latest.ID)
}

func TestDashboardCounters(t *testing.T) {
	assert.Equal(t, Counters{}, DashboardCounters(nil))

	shifts := []Shift{
		{Quantity: 3, Published: true, StatusEvents: []StatusEvent{event("a", BookingStatusPending, at(1, 8))}},
	}
	got := DashboardCounters(shifts)
	assert.Equal(t, 3, got.TotalSlotsUploaded)
	assert.Equal(t, 2, got.AvailableSlots)
	assert.Equal(t, 1, got.PendingApprovals)
	assert.Equal(t, 1, got.TotalRequests)

	shifts = append(shifts, Shift{
		Quantity: 2,
		StatusEvents: []StatusEvent{
			event("b", BookingStatusApproved, at(1, 8)),
			event("c", BookingStatusRejected, at(1, 9)),
		},
	})
	got = DashboardCounters(shifts)
	assert.Equal(t, Counters{TotalSlotsUploaded: 5, AvailableSlots: 3, TotalRequests: 2, PendingApprovals: 1}, got)
}

func TestHoursWorked(t *testing.T) {
	cases := []struct {
		start, end string
		want       float64
	}{
		{"09:00", "17:00", 8},
		{"22:00", "06:00", 8},
		{"", "17:00", 0},
		{"09:00", "", 0},
		{"08:15", "12:35", 4.33},
		{"23:30", "00:10", 0.67},
		{"9am", "17:00", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HoursWorked(tc.start, tc.end), "%s-%s", tc.start, tc.end)
	}
}

func TestAvailableForStaff_ExcludesOwnBookings(t *testing.T) {
	shifts := []Shift{
		{ID: "later", Date: day(20), StartTime: "08:00", Quantity: 2, Published: true},
		{ID: "mine-pending", Date: day(5), Quantity: 2, Published: true,
			StatusEvents: []StatusEvent{event("me", BookingStatusPending, at(1, 8))}},
		{ID: "mine-rejected", Date: day(6), Quantity: 2, Published: true,
			StatusEvents: []StatusEvent{rejectedEvent("me", at(1, 8), at(1, 9))}},
		{ID: "earlier", Date: day(3), StartTime: "18:00", Quantity: 1, Published: true},
		{ID: "hidden", Date: day(3), Quantity: 1},
	}

	got := AvailableForStaff(shifts, "me", march2025)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"earlier", "mine-rejected", "later"}, ids)
}

func TestForStaff_FiltersByCategoryAndMonth(t *testing.T) {
	shifts := []Shift{
		{ID: "pending", Date: day(8), StatusEvents: []StatusEvent{event("me", BookingStatusPending, at(1, 8))}},
		{ID: "rejected", Date: day(2), StatusEvents: []StatusEvent{rejectedEvent("me", at(1, 8), at(1, 9))}},
		{ID: "approved", Date: day(4), StatusEvents: []StatusEvent{event("me", BookingStatusApproved, at(1, 8))}},
		{ID: "april", Date: time.Date(2025, time.April, 2, 0, 0, 0, 0, time.UTC),
			StatusEvents: []StatusEvent{event("me", BookingStatusPending, at(1, 8))}},
	}

	got := ForStaff(shifts, "me", march2025, CategoryPending, CategoryRejected)
	require.Len(t, got, 2)
	assert.Equal(t, "rejected", got[0].Shift.ID)
	assert.Equal(t, CategoryRejected, got[0].Category)
	require.NotNil(t, got[0].Event)
	assert.Equal(t, "pending", got[1].Shift.ID)
	assert.Equal(t, CategoryPending, got[1].Category)
}

func TestPendingQueue_OrdersByBookingTime(t *testing.T) {
	shifts := []Shift{
		{ID: "s1", StatusEvents: []StatusEvent{
			event("late", BookingStatusPending, at(3, 8)),
			event("done", BookingStatusApproved, at(1, 8)),
		}},
		{ID: "s2", StatusEvents: []StatusEvent{event("early", BookingStatusPending, at(2, 8))}},
	}

	got := PendingQueue(shifts)
	require.Len(t, got, 2)
	assert.Equal(t, "early", got[0].Event.StaffID)
	assert.Equal(t, "s2", got[0].Shift.ID)
	assert.Equal(t, "late", got[1].Event.StaffID)
}

func TestReconcile_Idempotent(t *testing.T) {
	shifts := []Shift{
		{ID: "b", Date: day(9), Quantity: 3, Published: true, StatusEvents: []StatusEvent{event("x", BookingStatusPending, at(1, 8))}},
		{ID: "a", Date: day(1), Quantity: 1, Published: true},
	}

	assert.Equal(t, DashboardCounters(shifts), DashboardCounters(shifts))
	assert.Equal(t, AvailableForStaff(shifts, "y", march2025), AvailableForStaff(shifts, "y", march2025))
	assert.Equal(t, PendingQueue(shifts), PendingQueue(shifts))
	// Input order is untouched.
	assert.Equal(t, "b", shifts[0].ID)
}

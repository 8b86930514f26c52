package shift

import (
	"sort"

	"github.com/Samamatip/dh-workflow/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Category is how a shift looks to one staff member.
type Category string

const (
	CategoryNone     Category = "none"
	CategoryPending  Category = "pending"
	CategoryApproved Category = "approved"
	CategoryRejected Category = "rejected"
)

// SlotsTaken counts pending and approved bookings. Rejected bookings release their seat.
func SlotsTaken(s Shift) int {
	taken := 0
	for _, e := range s.StatusEvents {
		if e.Status == BookingStatusPending || e.Status == BookingStatusApproved {
			taken++
		}
	}
	return taken
}

// SlotsAvailable is quantity minus taken seats, never below zero.
func SlotsAvailable(s Shift) int {
	available := s.Quantity - SlotsTaken(s)
	if available < 0 {
		return 0
	}
	return available
}

// IsAvailableForStaff reports whether staff may see s as bookable in month m.
func IsAvailableForStaff(s Shift, m Month) bool {
	return s.Published && SlotsAvailable(s) > 0 && m.Contains(s.Date)
}

// LatestEventFor returns the most recent event for staffID. Events with the same
// timestamp resolve to the one recorded last.
func LatestEventFor(s Shift, staffID string) (StatusEvent, bool) {
	var (
		latest StatusEvent
		found  bool
	)
	for _, e := range s.StatusEvents {
		if e.StaffID != staffID {
			continue
		}
		if !found || !e.OccurredAt().Before(latest.OccurredAt()) {
			latest = e
			found = true
		}
	}
	return latest, found
}

// CategorizeForStaff classifies s by the staff member's latest booking event.
func CategorizeForStaff(s Shift, staffID string) Category {
	e, ok := LatestEventFor(s, staffID)
	if !ok {
		return CategoryNone
	}
	switch e.Status {
	case BookingStatusPending:
		return CategoryPending
	case BookingStatusApproved:
		return CategoryApproved
	case BookingStatusRejected:
		return CategoryRejected
	}
	return CategoryNone
}

// Counters aggregates a month of shifts for the admin dashboard.
type Counters struct {
	TotalSlotsUploaded int `json:"totalSlotsUploaded"`
	AvailableSlots     int `json:"availableSlots"`
	TotalRequests      int `json:"totalRequests"`
	PendingApprovals   int `json:"pendingApprovals"`
}

func DashboardCounters(shifts []Shift) Counters {
	var c Counters
	for _, s := range shifts {
		c.TotalSlotsUploaded += s.Quantity
		c.AvailableSlots += SlotsAvailable(s)
		for _, e := range s.StatusEvents {
			switch e.Status {
			case BookingStatusPending:
				c.PendingApprovals++
				c.TotalRequests++
			case BookingStatusApproved:
				c.TotalRequests++
			}
		}
	}
	return c
}

// HoursWorked returns the hours between two HH:MM times rounded to two decimals.
// An end at or before the start crosses midnight. Malformed or empty input yields 0.
func HoursWorked(startTime, endTime string) float64 {
	start, ok := validator.ParseClock(startTime)
	if !ok {
		return 0
	}
	end, ok := validator.ParseClock(endTime)
	if !ok {
		return 0
	}
	if end <= start {
		end += 24 * 60
	}
	hours, _ := decimal.NewFromInt(int64(end - start)).
		Div(decimal.NewFromInt(60)).
		Round(2).
		Float64()
	return hours
}

// StaffShift pairs a shift with the viewing staff member's category and latest event.
type StaffShift struct {
	Shift    Shift
	Category Category
	Event    *StatusEvent
}

// ForStaff returns the shifts dated in m whose category for staffID is one of categories,
// ordered by date then start time.
func ForStaff(shifts []Shift, staffID string, m Month, categories ...Category) []StaffShift {
	result := make([]StaffShift, 0)
	for _, s := range shifts {
		if !m.Contains(s.Date) {
			continue
		}
		category := CategorizeForStaff(s, staffID)
		if !containsCategory(categories, category) {
			continue
		}
		item := StaffShift{Shift: s, Category: category}
		if e, ok := LatestEventFor(s, staffID); ok {
			item.Event = &e
		}
		result = append(result, item)
	}
	sortStaffShifts(result)
	return result
}

// AvailableForStaff returns the shifts staffID can still book in month m.
// Shifts the staff member already holds a pending or approved booking on are left out.
func AvailableForStaff(shifts []Shift, staffID string, m Month) []Shift {
	result := make([]Shift, 0)
	for _, s := range shifts {
		if !IsAvailableForStaff(s, m) {
			continue
		}
		switch CategorizeForStaff(s, staffID) {
		case CategoryPending, CategoryApproved:
			continue
		}
		result = append(result, s)
	}
	sortShifts(result)
	return result
}

// PendingBooking is one row of the admin approval queue.
type PendingBooking struct {
	Shift Shift
	Event StatusEvent
}

// PendingQueue lists every pending event, oldest booking first.
func PendingQueue(shifts []Shift) []PendingBooking {
	result := make([]PendingBooking, 0)
	for _, s := range shifts {
		for _, e := range s.StatusEvents {
			if e.Status == BookingStatusPending {
				result = append(result, PendingBooking{Shift: s, Event: e})
			}
		}
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Event.BookedAt.Before(result[j].Event.BookedAt)
	})
	return result
}

func containsCategory(categories []Category, c Category) bool {
	for _, candidate := range categories {
		if candidate == c {
			return true
		}
	}
	return false
}

func sortShifts(shifts []Shift) {
	sort.SliceStable(shifts, func(i, j int) bool {
		return shiftLess(shifts[i], shifts[j])
	})
}

func sortStaffShifts(items []StaffShift) {
	sort.SliceStable(items, func(i, j int) bool {
		return shiftLess(items[i].Shift, items[j].Shift)
	})
}

func shiftLess(a, b Shift) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.Before(b.Date)
	}
	return a.StartTime < b.StartTime
}

package booking

import (
	"slices"

	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

// HasConflict reports whether any booking in existing occupies carID on date
// during a range overlapping [start, end). Bookings on other cars and the
// booking identified by excludeID are skipped, which lets an update be
// validated against everything except its own previous version.
//
// Ranges are half-open: a booking ending at 12:00 does not collide with one
// starting at 12:00.
func HasConflict(date recurrence.Date, start, end recurrence.TimeOfDay, carID, excludeID string, existing []*Booking) bool {
	for _, b := range existing {
		if b.CarID != carID || (excludeID != "" && b.ID == excludeID) {
			continue
		}
		if !occursOn(b.Rule, date) {
			continue
		}
		if start < b.EndTime && end > b.StartTime {
			return true
		}
	}
	return false
}

// FirstConflict expands candidate over its whole lifetime and returns the
// earliest date on which it collides with existing.
func FirstConflict(candidate *Booking, existing []*Booking) (recurrence.Date, bool) {
	for _, d := range recurrence.Expand(candidate.Rule, nil) {
		if HasConflict(d, candidate.StartTime, candidate.EndTime, candidate.CarID, candidate.ID, existing) {
			return d, true
		}
	}
	return recurrence.Date{}, false
}

func occursOn(rule recurrence.Rule, date recurrence.Date) bool {
	_, found := slices.BinarySearchFunc(recurrence.Expand(rule, nil), date, recurrence.Date.Compare)
	return found
}

package booking

import (
	"cmp"
	"slices"

	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

// CalendarEntry is one occurrence of a booking.
type CalendarEntry struct {
	BookingID string
	CarID     string
	CarModel  string
	Date      recurrence.Date
	StartTime recurrence.TimeOfDay
	EndTime   recurrence.TimeOfDay
}

// Project flattens bookings into their occurrences inside window, ordered by
// date and then start time. Entries that tie on both keep input order.
func Project(bookings []*Booking, window recurrence.DateRange) []CalendarEntry {
	var entries []CalendarEntry
	for _, b := range bookings {
		for _, d := range recurrence.Expand(b.Rule, &window) {
			entries = append(entries, CalendarEntry{
				BookingID: b.ID,
				CarID:     b.CarID,
				CarModel:  b.CarModel,
				Date:      d,
				StartTime: b.StartTime,
				EndTime:   b.EndTime,
			})
		}
	}

	slices.SortStableFunc(entries, func(a, b CalendarEntry) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.StartTime, b.StartTime)
	})
	return entries
}

package booking

import (
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
)

const icsProductID = "-//car-booking-backend//calendar//EN"

// CalendarICS renders projected entries as an iCalendar document. Times of
// day are interpreted in loc; each entry becomes its own VEVENT.
func CalendarICS(entries []CalendarEntry, loc *time.Location, stamp time.Time) string {
	if loc == nil {
		loc = time.UTC
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, e := range entries {
		event := cal.AddEvent(fmt.Sprintf("%s-%s@car-booking", e.BookingID, e.Date))
		event.SetDtStampTime(stamp)
		event.SetStartAt(e.StartTime.On(e.Date, loc))
		event.SetEndAt(e.EndTime.On(e.Date, loc))
		event.SetSummary(fmt.Sprintf("%s booked", e.CarModel))
	}

	return cal.Serialize()
}

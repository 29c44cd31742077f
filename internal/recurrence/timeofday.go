package recurrence

import (
	"fmt"
	"time"
)

// TimeOfDay is an offset from midnight with second precision. Valid values
// lie in [00:00:00, 24:00:00).
type TimeOfDay time.Duration

const day = TimeOfDay(24 * time.Hour)

func NewTimeOfDay(hour, minute, second int) TimeOfDay {
	return TimeOfDay(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute + time.Duration(second)*time.Second)
}

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return NewTimeOfDay(t.Hour(), t.Minute(), t.Second()), nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", s)
}

func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < day
}

// On places t on date d in loc.
func (t TimeOfDay) On(d Date, loc *time.Location) time.Time {
	total := int(time.Duration(t) / time.Second)
	return time.Date(d.Year, d.Month, d.Day, total/3600, total/60%60, total%60, 0, loc)
}

func (t TimeOfDay) String() string {
	total := int(time.Duration(t) / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, total/60%60, total%60)
}

package recurrence

import (
	"net/http"
	"strings"
	"time"

	"github.com/nekogravitycat/car-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidRecurrenceRange = apperror.New(http.StatusBadRequest, "end repeat date must not be before the booking date")
	ErrInvalidRepeatOption    = apperror.New(http.StatusBadRequest, "invalid repeat option")
	ErrInvalidWeekdays        = apperror.New(http.StatusBadRequest, "days to repeat on must be between 0 and 127")
	ErrInvalidWindow          = apperror.New(http.StatusBadRequest, "start date must not be after end date")
)

// RepeatOption selects the cadence of a Rule. The numeric values are stored
// in the database and must not change.
type RepeatOption int

const (
	DoesNotRepeat RepeatOption = 1
	Daily         RepeatOption = 2
	Weekly        RepeatOption = 3
)

var repeatOptionNames = map[RepeatOption]string{
	DoesNotRepeat: "does_not_repeat",
	Daily:         "daily",
	Weekly:        "weekly",
}

func ParseRepeatOption(s string) (RepeatOption, error) {
	for opt, name := range repeatOptionNames {
		if strings.EqualFold(s, name) {
			return opt, nil
		}
	}
	return 0, ErrInvalidRepeatOption
}

func (o RepeatOption) Valid() bool {
	_, ok := repeatOptionNames[o]
	return ok
}

func (o RepeatOption) String() string {
	if name, ok := repeatOptionNames[o]; ok {
		return name
	}
	return "unknown"
}

// Weekdays is a set of days of the week, one bit per day (Sunday=1 … Saturday=64).
type Weekdays uint8

const (
	Sunday Weekdays = 1 << iota
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday

	NoWeekdays  Weekdays = 0
	AllWeekdays          = Sunday | Monday | Tuesday | Wednesday | Thursday | Friday | Saturday
)

// WeekdayBit returns the bit for wd.
func WeekdayBit(wd time.Weekday) Weekdays {
	return Weekdays(1) << uint(wd)
}

// ParseWeekdays converts the stored integer form into a Weekdays set.
func ParseWeekdays(v int) (Weekdays, error) {
	if v < 0 || v > int(AllWeekdays) {
		return NoWeekdays, ErrInvalidWeekdays
	}
	return Weekdays(v), nil
}

func (w Weekdays) Has(wd time.Weekday) bool {
	return w&WeekdayBit(wd) != 0
}

func (w Weekdays) IsEmpty() bool {
	return w&AllWeekdays == 0
}

// Days returns the members of w from Sunday to Saturday.
func (w Weekdays) Days() []time.Weekday {
	var days []time.Weekday
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if w.Has(wd) {
			days = append(days, wd)
		}
	}
	return days
}

func (w Weekdays) String() string {
	if w.IsEmpty() {
		return "none"
	}
	names := make([]string, 0, 7)
	for _, wd := range w.Days() {
		names = append(names, wd.String())
	}
	return strings.Join(names, ",")
}

// Rule describes on which calendar days a booking occurs.
type Rule struct {
	// AnchorDate is the first possible occurrence.
	AnchorDate Date
	Repeat     RepeatOption
	// EndRepeatDate is the last possible occurrence of a Daily or Weekly rule.
	// Nil means the rule repeats indefinitely.
	EndRepeatDate *Date
	// DaysOfWeek is only consulted for Weekly rules. Nil or empty means the
	// anchor's weekday.
	DaysOfWeek *Weekdays
}

func (r Rule) Validate() error {
	if !r.Repeat.Valid() {
		return ErrInvalidRepeatOption
	}
	if r.EndRepeatDate != nil && r.EndRepeatDate.Before(r.AnchorDate) {
		return ErrInvalidRecurrenceRange
	}
	if r.DaysOfWeek != nil && *r.DaysOfWeek > AllWeekdays {
		return ErrInvalidWeekdays
	}
	return nil
}

// Unbounded reports whether expanding r over window has no natural upper
// bound. Expand collapses such rules to the anchor date alone, which is
// almost always a caller mistake when it happens on a listing path.
func (r Rule) Unbounded(window *DateRange) bool {
	return r.Repeat != DoesNotRepeat && r.EndRepeatDate == nil && window == nil
}

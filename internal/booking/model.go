package booking

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/car-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

var (
	ErrNotFound         = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict     = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidTimeRange = apperror.New(http.StatusBadRequest, "end time must be after start time")
	ErrCarNotFound      = apperror.New(http.StatusNotFound, "car not found")
	ErrDuplicateID      = apperror.New(http.StatusConflict, "booking id already exists")
	ErrInvalidInput     = apperror.New(http.StatusBadRequest, "invalid input parameters")
)

// NewConflictError reports the first date on which a candidate collides with
// an existing booking. errors.Is(err, ErrTimeConflict) holds for the result.
func NewConflictError(date recurrence.Date) error {
	msg := fmt.Sprintf("booking conflicts with existing reservation on %s", date)
	return apperror.Wrap(ErrTimeConflict, http.StatusConflict, msg).
		WithDetails(map[string]any{"conflict_date": date.String()})
}

// Booking reserves a car for the same time range on every day its rule occurs.
type Booking struct {
	ID          string
	CarID       string
	CarModel    string
	StartTime   recurrence.TimeOfDay
	EndTime     recurrence.TimeOfDay
	Rule        recurrence.Rule
	RequestedOn time.Time
}

// Validate checks the time range first and the recurrence range second,
// before any expansion takes place.
func (b *Booking) Validate() error {
	if !b.StartTime.Valid() || !b.EndTime.Valid() || b.StartTime >= b.EndTime {
		return ErrInvalidTimeRange
	}
	return b.Rule.Validate()
}

type Filter struct {
	CarID    string
	Page     int
	PageSize int
}

package car

import (
	"net/http"

	"github.com/nekogravitycat/car-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound  = apperror.New(http.StatusNotFound, "car not found")
	ErrEmptyName = apperror.New(http.StatusBadRequest, "make and model cannot be empty")
)

// Car is the bookable resource.
type Car struct {
	ID    string
	Make  string
	Model string
}

// Label is the display name used on calendar entries.
func (c *Car) Label() string {
	return c.Model
}

// Filter defines parameters for listing cars.
type Filter struct {
	Page     int
	PageSize int
}

package http

import (
	"github.com/nekogravitycat/car-booking-backend/internal/car"
	"github.com/nekogravitycat/car-booking-backend/internal/pkg/request"
)

// ListCarsRequest defines query parameters for listing cars.
type ListCarsRequest struct {
	request.ListParams
}

type CarResponse struct {
	ID    string `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
}

func NewResponse(c *car.Car) CarResponse {
	return CarResponse{
		ID:    c.ID,
		Make:  c.Make,
		Model: c.Model,
	}
}

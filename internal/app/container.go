package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/car-booking-backend/internal/api"
	"github.com/nekogravitycat/car-booking-backend/internal/booking"
	"github.com/nekogravitycat/car-booking-backend/internal/car"
	"github.com/nekogravitycat/car-booking-backend/internal/config"
)

// Config holds the dependencies and settings required to start the application.
type Config struct {
	IsProduction     bool
	CORSOrigins      []string
	CalendarLocation *time.Location
	DBPool           *pgxpool.Pool
}

// ConfigFrom builds the container settings from the loaded configuration so
// every command starts the modules the same way.
func ConfigFrom(cfg *config.Config, pool *pgxpool.Pool) Config {
	return Config{
		IsProduction:     cfg.IsProduction,
		CORSOrigins:      cfg.CORSOrigins,
		CalendarLocation: cfg.CalendarLocation,
		DBPool:           pool,
	}
}

// Container holds the initialized components that are needed externally.
type Container struct {
	Router         *gin.Engine
	CarService     car.Service
	BookingService booking.Service
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg Config) *Container {
	// Car Module
	carRepo := car.NewPgxRepository(cfg.DBPool)
	carService := car.NewService(carRepo)

	// Booking Module
	bookingRepo := booking.NewPgxRepository(cfg.DBPool)
	bookingService := booking.NewService(bookingRepo, carService)

	router := api.NewRouter(api.Config{
		IsProduction:     cfg.IsProduction,
		CORSOrigins:      cfg.CORSOrigins,
		CalendarLocation: cfg.CalendarLocation,
		CarService:       carService,
		BookingService:   bookingService,
	})

	return &Container{
		Router:         router,
		CarService:     carService,
		BookingService: bookingService,
	}
}

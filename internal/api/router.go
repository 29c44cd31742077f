package api

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/car-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/car-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/car-booking-backend/internal/car"
	carHttp "github.com/nekogravitycat/car-booking-backend/internal/car/http"
)

// Config holds what the router needs to build its handlers.
type Config struct {
	IsProduction     bool
	CORSOrigins      []string
	CalendarLocation *time.Location
	CarService       car.Service
	BookingService   booking.Service
}

// NewRouter initializes the HTTP router engine.
// It assembles the global middleware and registers the routes of each module under /v1.
func NewRouter(cfg Config) *gin.Engine {
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type"}
	r.Use(cors.New(corsConfig))

	carHandler := carHttp.NewHandler(cfg.CarService)
	bookingHandler := bookingHttp.NewHandler(cfg.BookingService, cfg.CalendarLocation)

	v1 := r.Group("/v1")
	{
		carHttp.RegisterRoutes(v1, carHandler)
		bookingHttp.RegisterRoutes(v1, bookingHandler)
	}

	return r
}

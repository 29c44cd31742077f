// Command seed applies the schema and loads the sample cars and bookings that
// are not in the database yet.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nekogravitycat/car-booking-backend/internal/app"
	"github.com/nekogravitycat/car-booking-backend/internal/config"
	"github.com/nekogravitycat/car-booking-backend/internal/db"
	"github.com/nekogravitycat/car-booking-backend/internal/seed"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	container := app.NewContainer(app.ConfigFrom(cfg, pool))

	cars, bookings, err := seed.Run(ctx, container.CarService, container.BookingService)
	if err != nil {
		log.Fatalf("seed failed after %d cars and %d bookings: %v", cars, bookings, err)
	}
}

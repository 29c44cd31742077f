// Package seed loads a small fleet and a handful of bookings covering every
// repeat option.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nekogravitycat/car-booking-backend/internal/booking"
	"github.com/nekogravitycat/car-booking-backend/internal/car"
	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

var sampleCars = []car.CreateRequest{
	{Make: "Toyota", Model: "Corolla"},
	{Make: "Honda", Model: "Civic"},
	{Make: "Ford", Model: "Focus"},
}

type bookingSeed struct {
	id         string
	car        int
	date       recurrence.Date
	start, end recurrence.TimeOfDay
	repeat     recurrence.RepeatOption
	until      *recurrence.Date
	days       *recurrence.Weekdays
}

func date(m time.Month, d int) recurrence.Date {
	return recurrence.NewDate(2025, m, d)
}

func until(m time.Month, d int) *recurrence.Date {
	v := date(m, d)
	return &v
}

func days(w recurrence.Weekdays) *recurrence.Weekdays {
	return &w
}

func at(h, m int) recurrence.TimeOfDay {
	return recurrence.NewTimeOfDay(h, m, 0)
}

var sampleBookings = []bookingSeed{
	{id: "5eed0000-0000-4000-8000-000000000001", car: 0, date: date(time.February, 5), start: at(10, 0), end: at(12, 0), repeat: recurrence.DoesNotRepeat},
	{id: "5eed0000-0000-4000-8000-000000000002", car: 1, date: date(time.February, 10), start: at(14, 0), end: at(16, 0), repeat: recurrence.Daily, until: until(time.February, 20)},
	{id: "5eed0000-0000-4000-8000-000000000003", car: 2, date: date(time.February, 15), start: at(9, 0), end: at(10, 30), repeat: recurrence.Weekly, until: until(time.March, 31), days: days(recurrence.Monday)},
	{id: "5eed0000-0000-4000-8000-000000000004", car: 0, date: date(time.March, 1), start: at(11, 0), end: at(13, 0), repeat: recurrence.DoesNotRepeat},
	{id: "5eed0000-0000-4000-8000-000000000005", car: 1, date: date(time.March, 7), start: at(8, 0), end: at(10, 0), repeat: recurrence.Weekly, until: until(time.March, 28), days: days(recurrence.Friday)},
	{id: "5eed0000-0000-4000-8000-000000000006", car: 2, date: date(time.March, 15), start: at(15, 0), end: at(17, 0), repeat: recurrence.Daily, until: until(time.March, 20)},
}

// Run inserts whatever part of the sample data is missing and reports how
// many cars and bookings it wrote. Sample cars are matched by make and model,
// sample bookings by their fixed IDs, so a run that failed halfway is completed
// by the next one instead of being skipped. Bookings go through the booking
// service so they are validated and conflict checked like any other request.
func Run(ctx context.Context, carService car.Service, bookingService booking.Service) (cars, bookings int, err error) {
	ids, cars, err := ensureCars(ctx, carService)
	if err != nil {
		return cars, 0, err
	}

	for i, s := range sampleBookings {
		_, err := bookingService.GetByID(ctx, s.id)
		if err == nil {
			continue
		}
		if !errors.Is(err, booking.ErrNotFound) {
			return cars, bookings, fmt.Errorf("look up booking %s: %w", s.id, err)
		}

		_, err = bookingService.Create(ctx, booking.CreateRequest{
			ID:             s.id,
			CarID:          ids[s.car],
			BookingDate:    s.date,
			StartTime:      s.start,
			EndTime:        s.end,
			RepeatOption:   s.repeat,
			EndRepeatDate:  s.until,
			DaysToRepeatOn: s.days,
		})
		if errors.Is(err, booking.ErrDuplicateID) {
			continue
		}
		if err != nil {
			return cars, bookings, fmt.Errorf("create booking %d: %w", i, err)
		}
		bookings++
	}

	log.Printf("seed: created %d cars and %d bookings", cars, bookings)
	return cars, bookings, nil
}

// ensureCars returns the IDs of the sample cars in sampleCars order, creating
// the ones that do not exist yet.
func ensureCars(ctx context.Context, carService car.Service) ([]string, int, error) {
	existing := map[string]string{}

	n, err := carService.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("count cars: %w", err)
	}
	for page, seen := 1, 0; seen < n; page++ {
		list, _, err := carService.List(ctx, car.Filter{Page: page, PageSize: 100})
		if err != nil {
			return nil, 0, fmt.Errorf("list cars: %w", err)
		}
		if len(list) == 0 {
			break
		}
		seen += len(list)
		for _, c := range list {
			existing[carKey(c.Make, c.Model)] = c.ID
		}
	}

	ids := make([]string, len(sampleCars))
	created := 0
	for i, req := range sampleCars {
		if id, ok := existing[carKey(req.Make, req.Model)]; ok {
			ids[i] = id
			continue
		}
		c, err := carService.Create(ctx, req)
		if err != nil {
			return nil, created, fmt.Errorf("create car %s %s: %w", req.Make, req.Model, err)
		}
		ids[i] = c.ID
		created++
	}
	return ids, created, nil
}

func carKey(brand, model string) string {
	return brand + "\x00" + model
}

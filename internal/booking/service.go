package booking

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"github.com/nekogravitycat/car-booking-backend/internal/car"
	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

type CreateRequest struct {
	// ID is optional; a new UUID is assigned when empty.
	ID             string
	CarID          string
	BookingDate    recurrence.Date
	StartTime      recurrence.TimeOfDay
	EndTime        recurrence.TimeOfDay
	RepeatOption   recurrence.RepeatOption
	EndRepeatDate  *recurrence.Date
	DaysToRepeatOn *recurrence.Weekdays
}

// UpdateRequest replaces every field of a booking.
type UpdateRequest struct {
	CarID          string
	BookingDate    recurrence.Date
	StartTime      recurrence.TimeOfDay
	EndTime        recurrence.TimeOfDay
	RepeatOption   recurrence.RepeatOption
	EndRepeatDate  *recurrence.Date
	DaysToRepeatOn *recurrence.Weekdays
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error)
	Delete(ctx context.Context, id string) error

	// Calendar returns the occurrences of the car's bookings inside window.
	Calendar(ctx context.Context, carID string, window recurrence.DateRange) ([]CalendarEntry, error)
}

type service struct {
	repo       Repository
	carService car.Service
}

func NewService(repo Repository, carService car.Service) Service {
	return &service{
		repo:       repo,
		carService: carService,
	}
}

func (s *service) getCar(ctx context.Context, id string) (*car.Car, error) {
	c, err := s.carService.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, car.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, err
	}
	return c, nil
}

// save validates b and writes it while holding the car lock. write is the
// repository operation (create or update) to run once b is known to be free.
func (s *service) save(ctx context.Context, b *Booking, write func(ctx context.Context, tx Repository, b *Booking) error) error {
	// 1. Validate time range, then recurrence range
	if err := b.Validate(); err != nil {
		return err
	}
	if b.Rule.Unbounded(nil) {
		log.Printf("warning: booking %s repeats %s without an end repeat date; conflicts are only checked on %s",
			b.ID, b.Rule.Repeat, b.Rule.AnchorDate)
	}

	// 2. Validate car exists
	c, err := s.getCar(ctx, b.CarID)
	if err != nil {
		return err
	}
	b.CarModel = c.Label()

	// 3. Check for conflicts and write under the car lock
	return s.repo.WithCarLock(ctx, b.CarID, func(ctx context.Context, tx Repository) error {
		existing, err := tx.ListByCar(ctx, b.CarID)
		if err != nil {
			return err
		}
		if date, ok := FirstConflict(b, existing); ok {
			return NewConflictError(date)
		}
		return write(ctx, tx, b)
	})
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	b := &Booking{
		ID:        req.ID,
		CarID:     req.CarID,
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Rule: recurrence.Rule{
			AnchorDate:    req.BookingDate,
			Repeat:        req.RepeatOption,
			EndRepeatDate: req.EndRepeatDate,
			DaysOfWeek:    req.DaysToRepeatOn,
		},
	}
	if b.ID == "" {
		b.ID = uuid.NewString()
	}

	err := s.save(ctx, b, func(ctx context.Context, tx Repository, b *Booking) error {
		return tx.Create(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Booking, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b := &Booking{
		ID:          current.ID,
		CarID:       req.CarID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		RequestedOn: current.RequestedOn,
		Rule: recurrence.Rule{
			AnchorDate:    req.BookingDate,
			Repeat:        req.RepeatOption,
			EndRepeatDate: req.EndRepeatDate,
			DaysOfWeek:    req.DaysToRepeatOn,
		},
	}

	err = s.save(ctx, b, func(ctx context.Context, tx Repository, b *Booking) error {
		return tx.Update(ctx, b)
	})
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Calendar(ctx context.Context, carID string, window recurrence.DateRange) ([]CalendarEntry, error) {
	if err := window.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.getCar(ctx, carID); err != nil {
		return nil, err
	}

	bookings, err := s.repo.ListByCar(ctx, carID)
	if err != nil {
		return nil, err
	}
	return Project(bookings, window), nil
}

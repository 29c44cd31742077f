package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-booking-backend/internal/car"
	"github.com/nekogravitycat/car-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

type stubCarService struct {
	car.Service
	cars map[string]*car.Car
}

func (s *stubCarService) GetByID(_ context.Context, id string) (*car.Car, error) {
	if c, ok := s.cars[id]; ok {
		return c, nil
	}
	return nil, car.ErrNotFound
}

// memRepository keeps bookings in memory and serializes WithCarLock per car.
type memRepository struct {
	mu       sync.Mutex
	carLocks map[string]*sync.Mutex
	bookings map[string]*Booking
	cars     map[string]bool
}

func newMemRepository(carIDs ...string) *memRepository {
	r := &memRepository{
		carLocks: map[string]*sync.Mutex{},
		bookings: map[string]*Booking{},
		cars:     map[string]bool{},
	}
	for _, id := range carIDs {
		r.cars[id] = true
		r.carLocks[id] = &sync.Mutex{}
	}
	return r
}

func (r *memRepository) Create(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; ok {
		return ErrDuplicateID
	}
	b.RequestedOn = time.Now().UTC()
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepository) GetByID(_ context.Context, id string) (*Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	var out []*Booking
	r.mu.Lock()
	for _, b := range r.bookings {
		if filter.CarID == "" || b.CarID == filter.CarID {
			cp := *b
			out = append(out, &cp)
		}
	}
	r.mu.Unlock()
	return out, len(out), nil
}

func (r *memRepository) ListByCar(ctx context.Context, carID string) ([]*Booking, error) {
	out, _, err := r.List(ctx, Filter{CarID: carID})
	return out, err
}

func (r *memRepository) Update(_ context.Context, b *Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[b.ID]; !ok {
		return ErrNotFound
	}
	cp := *b
	r.bookings[b.ID] = &cp
	return nil
}

func (r *memRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.bookings[id]; !ok {
		return ErrNotFound
	}
	delete(r.bookings, id)
	return nil
}

func (r *memRepository) WithCarLock(ctx context.Context, carID string, fn func(ctx context.Context, tx Repository) error) error {
	if !r.cars[carID] {
		return ErrCarNotFound
	}
	lock := r.carLocks[carID]
	lock.Lock()
	defer lock.Unlock()
	return fn(ctx, r)
}

func newTestService(t *testing.T) (Service, *memRepository) {
	t.Helper()
	repo := newMemRepository(carA, carB)
	cars := &stubCarService{cars: map[string]*car.Car{
		carA: {ID: carA, Make: "Honda", Model: "Civic"},
		carB: {ID: carB, Make: "Ford", Model: "Focus"},
	}}
	return NewService(repo, cars), repo
}

func dailySeries() CreateRequest {
	return CreateRequest{
		CarID:         carA,
		BookingDate:   on(2025, time.February, 10),
		StartTime:     at(14, 0),
		EndTime:       at(16, 0),
		RepeatOption:  recurrence.Daily,
		EndRepeatDate: ptr(on(2025, time.February, 20)),
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Assigns an ID and the car model", func(t *testing.T) {
		svc, _ := newTestService(t)
		b, err := svc.Create(ctx, dailySeries())
		require.NoError(t, err)
		assert.NotEmpty(t, b.ID)
		assert.Equal(t, "Civic", b.CarModel)
		assert.False(t, b.RequestedOn.IsZero())
	})

	t.Run("Keeps a caller supplied ID", func(t *testing.T) {
		svc, _ := newTestService(t)
		req := dailySeries()
		req.ID = "33333333-3333-3333-3333-333333333333"
		b, err := svc.Create(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, req.ID, b.ID)
	})

	t.Run("Conflict reports the first clashing date", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, dailySeries())
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			CarID:        carA,
			BookingDate:  on(2025, time.February, 15),
			StartTime:    at(15, 0),
			EndTime:      at(17, 0),
			RepeatOption: recurrence.DoesNotRepeat,
		})
		require.ErrorIs(t, err, ErrTimeConflict)

		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, 409, appErr.Code)
		assert.Equal(t, "2025-02-15", appErr.Details["conflict_date"])
		assert.Equal(t, "booking conflicts with existing reservation on 2025-02-15", appErr.Message)
	})

	t.Run("Same slot on another car is fine", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, dailySeries())
		require.NoError(t, err)

		req := dailySeries()
		req.CarID = carB
		_, err = svc.Create(ctx, req)
		assert.NoError(t, err)
	})

	t.Run("Touching ranges do not conflict", func(t *testing.T) {
		svc, _ := newTestService(t)
		_, err := svc.Create(ctx, dailySeries())
		require.NoError(t, err)

		_, err = svc.Create(ctx, CreateRequest{
			CarID:        carA,
			BookingDate:  on(2025, time.February, 12),
			StartTime:    at(16, 0),
			EndTime:      at(18, 0),
			RepeatOption: recurrence.DoesNotRepeat,
		})
		assert.NoError(t, err)
	})

	t.Run("Rejects inverted time range before anything else", func(t *testing.T) {
		svc, _ := newTestService(t)
		req := dailySeries()
		req.CarID = "99999999-9999-9999-9999-999999999999"
		req.StartTime, req.EndTime = at(16, 0), at(16, 0)
		req.EndRepeatDate = ptr(on(2025, time.January, 1))
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("Rejects end repeat date before booking date", func(t *testing.T) {
		svc, _ := newTestService(t)
		req := dailySeries()
		req.EndRepeatDate = ptr(on(2025, time.February, 9))
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, recurrence.ErrInvalidRecurrenceRange)
	})

	t.Run("Open-ended weekly series is checked on its anchor", func(t *testing.T) {
		svc, _ := newTestService(t)
		req := CreateRequest{
			CarID:          carA,
			BookingDate:    on(2025, time.February, 15),
			StartTime:      at(9, 0),
			EndTime:        at(10, 0),
			RepeatOption:   recurrence.Weekly,
			DaysToRepeatOn: ptr(recurrence.Monday),
		}
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)

		_, err = svc.Create(ctx, req)
		require.ErrorIs(t, err, ErrTimeConflict)
		var appErr *apperror.AppError
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, "2025-02-15", appErr.Details["conflict_date"])

		window := recurrence.DateRange{Start: on(2025, time.February, 17), End: on(2025, time.February, 17)}
		entries, err := svc.Calendar(ctx, carA, window)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Unknown car", func(t *testing.T) {
		svc, _ := newTestService(t)
		req := dailySeries()
		req.CarID = "99999999-9999-9999-9999-999999999999"
		_, err := svc.Create(ctx, req)
		assert.ErrorIs(t, err, ErrCarNotFound)
	})
}

func TestService_ConcurrentCreatesOnOneCar(t *testing.T) {
	svc, repo := newTestService(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, dailySeries())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var ok, conflicts int
	for err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, ErrTimeConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, writers-1, conflicts)

	stored, err := repo.ListByCar(ctx, carA)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	original, err := svc.Create(ctx, dailySeries())
	require.NoError(t, err)

	other, err := svc.Create(ctx, CreateRequest{
		CarID:        carA,
		BookingDate:  on(2025, time.February, 21),
		StartTime:    at(9, 0),
		EndTime:      at(10, 0),
		RepeatOption: recurrence.DoesNotRepeat,
	})
	require.NoError(t, err)

	t.Run("Overlapping its own previous version is allowed", func(t *testing.T) {
		updated, err := svc.Update(ctx, original.ID, UpdateRequest{
			CarID:         carA,
			BookingDate:   on(2025, time.February, 10),
			StartTime:     at(15, 0),
			EndTime:       at(17, 0),
			RepeatOption:  recurrence.Daily,
			EndRepeatDate: ptr(on(2025, time.February, 20)),
		})
		require.NoError(t, err)
		assert.Equal(t, original.ID, updated.ID)
		assert.Equal(t, original.RequestedOn, updated.RequestedOn)
		assert.Equal(t, at(15, 0), updated.StartTime)
	})

	t.Run("Extending into another booking conflicts", func(t *testing.T) {
		_, err := svc.Update(ctx, original.ID, UpdateRequest{
			CarID:         carA,
			BookingDate:   on(2025, time.February, 10),
			StartTime:     at(8, 0),
			EndTime:       at(17, 0),
			RepeatOption:  recurrence.Daily,
			EndRepeatDate: ptr(on(2025, time.February, 28)),
		})
		require.ErrorIs(t, err, ErrTimeConflict)
		assert.Contains(t, err.Error(), other.Rule.AnchorDate.String())
	})

	t.Run("Moving to another car", func(t *testing.T) {
		updated, err := svc.Update(ctx, other.ID, UpdateRequest{
			CarID:        carB,
			BookingDate:  on(2025, time.February, 21),
			StartTime:    at(9, 0),
			EndTime:      at(10, 0),
			RepeatOption: recurrence.DoesNotRepeat,
		})
		require.NoError(t, err)
		assert.Equal(t, "Focus", updated.CarModel)
	})

	t.Run("Unknown booking", func(t *testing.T) {
		_, err := svc.Update(ctx, "44444444-4444-4444-4444-444444444444", UpdateRequest{})
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_Calendar(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	_, err := svc.Create(ctx, dailySeries())
	require.NoError(t, err)
	_, err = svc.Create(ctx, CreateRequest{
		CarID:          carA,
		BookingDate:    on(2025, time.February, 15),
		StartTime:      at(9, 0),
		EndTime:        at(10, 30),
		RepeatOption:   recurrence.Weekly,
		EndRepeatDate:  ptr(on(2025, time.March, 31)),
		DaysToRepeatOn: ptr(recurrence.Monday),
	})
	require.NoError(t, err)

	window := recurrence.DateRange{Start: on(2025, time.February, 17), End: on(2025, time.February, 18)}
	entries, err := svc.Calendar(ctx, carA, window)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, at(9, 0), entries[0].StartTime)
	assert.Equal(t, on(2025, time.February, 17), entries[0].Date)
	assert.Equal(t, at(14, 0), entries[1].StartTime)
	assert.Equal(t, on(2025, time.February, 18), entries[2].Date)

	_, err = svc.Calendar(ctx, carA, recurrence.DateRange{Start: window.End, End: window.Start})
	assert.ErrorIs(t, err, recurrence.ErrInvalidWindow)

	_, err = svc.Calendar(ctx, "99999999-9999-9999-9999-999999999999", window)
	assert.ErrorIs(t, err, ErrCarNotFound)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService(t)

	b, err := svc.Create(ctx, dailySeries())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, b.ID))

	_, err = svc.GetByID(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), ErrNotFound)
}

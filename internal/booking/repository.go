package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/car-booking-backend/internal/db"
	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	// ListByCar returns every booking of the car, unpaginated.
	ListByCar(ctx context.Context, carID string) ([]*Booking, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id string) error

	// WithCarLock runs fn in a transaction holding a row lock on the car, so
	// concurrent writers for the same car are serialized between their
	// conflict check and their write. fn receives a repository bound to the
	// transaction. Returns ErrCarNotFound if the car does not exist.
	WithCarLock(ctx context.Context, carID string, fn func(ctx context.Context, tx Repository) error) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
	q    db.Querier
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, q: pool}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

var bookingColumns = []string{
	"b.id", "b.car_id", "c.model",
	"b.booking_date::text", "b.start_time::text", "b.end_time::text",
	"b.repeat_option", "b.end_repeat_date::text", "b.days_to_repeat_on",
	"b.requested_on",
}

func selectBookings(extra ...string) squirrel.SelectBuilder {
	return psql.Select(append(bookingColumns, extra...)...).
		From("public.bookings b").
		Join("public.cars c ON b.car_id = c.id")
}

// row is the text form of a booking as it travels to and from Postgres.
type row struct {
	id, carID, carModel     string
	bookingDate, start, end string
	repeat                  int16
	endRepeatDate           *string
	daysToRepeatOn          *int16
	requestedOn             time.Time
}

func (rw *row) targets(extra ...any) []any {
	return append([]any{
		&rw.id, &rw.carID, &rw.carModel,
		&rw.bookingDate, &rw.start, &rw.end,
		&rw.repeat, &rw.endRepeatDate, &rw.daysToRepeatOn,
		&rw.requestedOn,
	}, extra...)
}

func (rw *row) booking() (*Booking, error) {
	b := &Booking{
		ID:          rw.id,
		CarID:       rw.carID,
		CarModel:    rw.carModel,
		RequestedOn: rw.requestedOn,
	}

	var err error
	if b.Rule.AnchorDate, err = recurrence.ParseDate(rw.bookingDate); err != nil {
		return nil, err
	}
	if b.StartTime, err = recurrence.ParseTimeOfDay(rw.start); err != nil {
		return nil, err
	}
	if b.EndTime, err = recurrence.ParseTimeOfDay(rw.end); err != nil {
		return nil, err
	}
	b.Rule.Repeat = recurrence.RepeatOption(rw.repeat)
	if rw.endRepeatDate != nil {
		d, err := recurrence.ParseDate(*rw.endRepeatDate)
		if err != nil {
			return nil, err
		}
		b.Rule.EndRepeatDate = &d
	}
	if rw.daysToRepeatOn != nil {
		w, err := recurrence.ParseWeekdays(int(*rw.daysToRepeatOn))
		if err != nil {
			return nil, err
		}
		b.Rule.DaysOfWeek = &w
	}
	return b, nil
}

// ruleColumns returns the nullable rule columns in their stored form.
func ruleColumns(rule recurrence.Rule) (endRepeatDate *string, daysToRepeatOn *int16) {
	if rule.EndRepeatDate != nil {
		s := rule.EndRepeatDate.String()
		endRepeatDate = &s
	}
	if rule.DaysOfWeek != nil {
		v := int16(*rule.DaysOfWeek)
		daysToRepeatOn = &v
	}
	return endRepeatDate, daysToRepeatOn
}

func mapWriteError(err error) error {
	var e *pgconn.PgError
	if errors.As(err, &e) {
		switch e.Code {
		case pgerrcode.ForeignKeyViolation:
			return ErrCarNotFound
		case pgerrcode.UniqueViolation:
			return ErrDuplicateID
		}
	}
	return err
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	endRepeatDate, daysToRepeatOn := ruleColumns(b.Rule)
	query, args, err := psql.Insert("public.bookings").
		Columns("id", "car_id", "booking_date", "start_time", "end_time",
			"repeat_option", "end_repeat_date", "days_to_repeat_on").
		Values(b.ID, b.CarID, b.Rule.AnchorDate.String(), b.StartTime.String(), b.EndTime.String(),
			int16(b.Rule.Repeat), endRepeatDate, daysToRepeatOn).
		Suffix("RETURNING requested_on").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create booking query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&b.RequestedOn); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("create booking failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	query, args, err := selectBookings().
		Where(squirrel.Eq{"b.id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get booking query failed: %w", err)
	}

	var rw row
	if err := r.q.QueryRow(ctx, query, args...).Scan(rw.targets()...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get booking failed: %w", err)
	}
	return rw.booking()
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	query := selectBookings("count(*) OVER() as total_count")

	if filter.CarID != "" {
		query = query.Where(squirrel.Eq{"b.car_id": filter.CarID})
	}

	// Pagination
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query = query.OrderBy("b.booking_date ASC", "b.start_time ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset))

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list bookings query failed: %w", err)
	}

	var total int
	bookings, err := r.scanAll(ctx, sql, args, &total)
	if err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *pgxRepository) ListByCar(ctx context.Context, carID string) ([]*Booking, error) {
	sql, args, err := selectBookings().
		Where(squirrel.Eq{"b.car_id": carID}).
		OrderBy("b.booking_date ASC", "b.start_time ASC", "b.requested_on ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list car bookings query failed: %w", err)
	}
	return r.scanAll(ctx, sql, args)
}

func (r *pgxRepository) scanAll(ctx context.Context, sql string, args []any, extra ...any) ([]*Booking, error) {
	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	defer rows.Close()

	var bookings []*Booking
	for rows.Next() {
		var rw row
		if err := rows.Scan(rw.targets(extra...)...); err != nil {
			return nil, fmt.Errorf("scan booking failed: %w", err)
		}
		b, err := rw.booking()
		if err != nil {
			return nil, fmt.Errorf("decode booking %s failed: %w", rw.id, err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list bookings failed: %w", err)
	}
	return bookings, nil
}

func (r *pgxRepository) Update(ctx context.Context, b *Booking) error {
	endRepeatDate, daysToRepeatOn := ruleColumns(b.Rule)
	query, args, err := psql.Update("public.bookings").
		Set("car_id", b.CarID).
		Set("booking_date", b.Rule.AnchorDate.String()).
		Set("start_time", b.StartTime.String()).
		Set("end_time", b.EndTime.String()).
		Set("repeat_option", int16(b.Rule.Repeat)).
		Set("end_repeat_date", endRepeatDate).
		Set("days_to_repeat_on", daysToRepeatOn).
		Where(squirrel.Eq{"id": b.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update booking query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete booking query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete booking failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *pgxRepository) WithCarLock(ctx context.Context, carID string, fn func(ctx context.Context, tx Repository) error) error {
	query, args, err := psql.Select("id").
		From("public.cars").
		Where(squirrel.Eq{"id": carID}).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return fmt.Errorf("build lock car query failed: %w", err)
	}

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		var id string
		if err := tx.QueryRow(ctx, query, args...).Scan(&id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrCarNotFound
			}
			return fmt.Errorf("lock car failed: %w", err)
		}
		return fn(ctx, &pgxRepository{pool: r.pool, q: tx})
	})
}

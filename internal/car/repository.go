package car

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/nekogravitycat/car-booking-backend/internal/db"
)

type Repository interface {
	Create(ctx context.Context, c *Car) error
	GetByID(ctx context.Context, id string) (*Car, error)
	List(ctx context.Context, filter Filter) ([]*Car, int, error)
	Count(ctx context.Context) (int, error)
}

type pgxRepository struct {
	q db.Querier
}

func NewPgxRepository(q db.Querier) Repository {
	return &pgxRepository{q: q}
}

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func (r *pgxRepository) Create(ctx context.Context, c *Car) error {
	query, args, err := psql.Insert("public.cars").
		Columns("make", "model").
		Values(c.Make, c.Model).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create car query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID); err != nil {
		return fmt.Errorf("create car failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Car, error) {
	query, args, err := psql.Select("id", "make", "model").
		From("public.cars").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get car query failed: %w", err)
	}

	var c Car
	if err := r.q.QueryRow(ctx, query, args...).Scan(&c.ID, &c.Make, &c.Model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get car failed: %w", err)
	}
	return &c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Car, int, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	query, args, err := psql.Select("id", "make", "model", "count(*) OVER() as total_count").
		From("public.cars").
		OrderBy("make ASC", "model ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list cars query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list cars failed: %w", err)
	}
	defer rows.Close()

	var cars []*Car
	var total int
	for rows.Next() {
		var c Car
		if err := rows.Scan(&c.ID, &c.Make, &c.Model, &total); err != nil {
			return nil, 0, fmt.Errorf("scan car failed: %w", err)
		}
		cars = append(cars, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("list cars failed: %w", err)
	}

	return cars, total, nil
}

func (r *pgxRepository) Count(ctx context.Context) (int, error) {
	query, args, err := psql.Select("count(*)").From("public.cars").ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count cars query failed: %w", err)
	}

	var n int
	if err := r.q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count cars failed: %w", err)
	}
	return n, nil
}

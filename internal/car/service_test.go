package car

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRepository struct {
	cars []*Car
}

func (m *memRepository) Create(_ context.Context, c *Car) error {
	c.ID = fmt.Sprintf("00000000-0000-0000-0000-%012d", len(m.cars)+1)
	m.cars = append(m.cars, c)
	return nil
}

func (m *memRepository) GetByID(_ context.Context, id string) (*Car, error) {
	for _, c := range m.cars {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memRepository) List(_ context.Context, _ Filter) ([]*Car, int, error) {
	return m.cars, len(m.cars), nil
}

func (m *memRepository) Count(_ context.Context) (int, error) {
	return len(m.cars), nil
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&memRepository{})

	t.Run("Trims and stores", func(t *testing.T) {
		c, err := svc.Create(ctx, CreateRequest{Make: " Toyota ", Model: "Corolla"})
		require.NoError(t, err)
		assert.NotEmpty(t, c.ID)
		assert.Equal(t, "Toyota", c.Make)
		assert.Equal(t, "Corolla", c.Label())

		got, err := svc.GetByID(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c, got)
	})

	t.Run("Rejects blank names", func(t *testing.T) {
		_, err := svc.Create(ctx, CreateRequest{Make: "Honda", Model: "  "})
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		_, err := svc.GetByID(ctx, "00000000-0000-0000-0000-000000000999")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	n, err := svc.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

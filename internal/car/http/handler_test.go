package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/car-booking-backend/internal/car"
	"github.com/nekogravitycat/car-booking-backend/internal/pkg/response"
)

type fakeService struct {
	car.Service
	cars   []*car.Car
	filter car.Filter
}

func (f *fakeService) List(_ context.Context, filter car.Filter) ([]*car.Car, int, error) {
	f.filter = filter
	return f.cars, len(f.cars), nil
}

func (f *fakeService) GetByID(_ context.Context, id string) (*car.Car, error) {
	for _, c := range f.cars {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, car.ErrNotFound
}

func setup(svc car.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc))
	return r
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("GET", path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHandler(t *testing.T) {
	svc := &fakeService{cars: []*car.Car{
		{ID: "aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa", Make: "Toyota", Model: "Corolla"},
		{ID: "bbbbbbbb-bbbb-bbbb-bbbb-bbbbbbbbbbbb", Make: "Honda", Model: "Civic"},
	}}
	r := setup(svc)

	t.Run("List uses default paging", func(t *testing.T) {
		w := get(r, "/v1/cars")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, svc.filter.Page)
		assert.Equal(t, 20, svc.filter.PageSize)

		var page response.PageResponse[CarResponse]
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
		assert.Equal(t, 2, page.Total)
		assert.Equal(t, "Civic", page.Items[1].Model)
	})

	t.Run("List rejects oversized page", func(t *testing.T) {
		w := get(r, "/v1/cars?page_size=500")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Get", func(t *testing.T) {
		w := get(r, "/v1/cars/aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"aaaaaaaa-aaaa-aaaa-aaaa-aaaaaaaaaaaa","make":"Toyota","model":"Corolla"}`, w.Body.String())

		assert.Equal(t, http.StatusNotFound, get(r, "/v1/cars/cccccccc-cccc-cccc-cccc-cccccccccccc").Code)
		assert.Equal(t, http.StatusBadRequest, get(r, "/v1/cars/42").Code)
	})
}

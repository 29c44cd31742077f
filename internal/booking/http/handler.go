package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nekogravitycat/car-booking-backend/internal/booking"
	"github.com/nekogravitycat/car-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/car-booking-backend/internal/pkg/response"
)

type Handler struct {
	service booking.Service
	// loc interprets stored times of day when exporting iCalendar feeds.
	loc *time.Location
	now func() time.Time
}

func NewHandler(service booking.Service, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{
		service: service,
		loc:     loc,
		now:     time.Now,
	}
}

func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		CarID:    req.CarID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := body.ToCreateRequest()
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body UpdateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	req, err := body.ToUpdateRequest()
	if err != nil {
		response.Error(c, err)
		return
	}

	b, err := h.service.Update(c.Request.Context(), uri.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// calendar binds the query and projects the car's bookings, writing an error
// response and returning ok=false on failure.
func (h *Handler) calendar(c *gin.Context) ([]booking.CalendarEntry, bool) {
	var req CalendarRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return nil, false
	}

	window, err := req.Window()
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	entries, err := h.service.Calendar(c.Request.Context(), req.CarID, window)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return entries, true
}

func (h *Handler) Calendar(c *gin.Context) {
	entries, ok := h.calendar(c)
	if !ok {
		return
	}

	items := make([]CalendarEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = NewCalendarEntryResponse(e)
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) CalendarICS(c *gin.Context) {
	entries, ok := h.calendar(c)
	if !ok {
		return
	}

	body := booking.CalendarICS(entries, h.loc, h.now())
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

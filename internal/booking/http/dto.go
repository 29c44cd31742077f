package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nekogravitycat/car-booking-backend/internal/booking"
	"github.com/nekogravitycat/car-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/car-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/car-booking-backend/internal/recurrence"
)

// maxCalendarDays bounds the work a single calendar query can request.
const maxCalendarDays = 731

func invalid(field string, err error) error {
	return apperror.Wrap(booking.ErrInvalidInput, http.StatusBadRequest, fmt.Sprintf("invalid %s: %v", field, err))
}

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	CarID string `form:"car_id" binding:"omitempty,uuid"`
}

// CalendarRequest defines query parameters for the calendar endpoints.
type CalendarRequest struct {
	CarID     string `form:"car_id" binding:"required,uuid"`
	StartDate string `form:"start_date" binding:"required,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"required,datetime=2006-01-02"`
}

// Window parses and checks the requested date range.
func (r *CalendarRequest) Window() (recurrence.DateRange, error) {
	var w recurrence.DateRange
	var err error
	if w.Start, err = recurrence.ParseDate(r.StartDate); err != nil {
		return w, invalid("start_date", err)
	}
	if w.End, err = recurrence.ParseDate(r.EndDate); err != nil {
		return w, invalid("end_date", err)
	}
	if err := w.Validate(); err != nil {
		return w, err
	}
	if w.Start.DaysUntil(w.End) >= maxCalendarDays {
		return w, apperror.Wrap(booking.ErrInvalidInput, http.StatusBadRequest,
			fmt.Sprintf("calendar range cannot exceed %d days", maxCalendarDays))
	}
	return w, nil
}

// BookingBody is the writable part of a booking shared by create and update.
type BookingBody struct {
	CarID          string  `json:"car_id" binding:"required,uuid"`
	BookingDate    string  `json:"booking_date" binding:"required,datetime=2006-01-02"`
	StartTime      string  `json:"start_time" binding:"required"`
	EndTime        string  `json:"end_time" binding:"required"`
	RepeatOption   string  `json:"repeat_option" binding:"required,oneof=does_not_repeat daily weekly"`
	EndRepeatDate  *string `json:"end_repeat_date" binding:"omitempty,datetime=2006-01-02"`
	DaysToRepeatOn *int    `json:"days_to_repeat_on" binding:"omitempty,min=0,max=127"`
}

type parsedBody struct {
	bookingDate    recurrence.Date
	start, end     recurrence.TimeOfDay
	repeat         recurrence.RepeatOption
	endRepeatDate  *recurrence.Date
	daysToRepeatOn *recurrence.Weekdays
}

func (b *BookingBody) parse() (parsedBody, error) {
	var p parsedBody
	var err error
	if p.bookingDate, err = recurrence.ParseDate(b.BookingDate); err != nil {
		return p, invalid("booking_date", err)
	}
	if p.start, err = recurrence.ParseTimeOfDay(b.StartTime); err != nil {
		return p, invalid("start_time", err)
	}
	if p.end, err = recurrence.ParseTimeOfDay(b.EndTime); err != nil {
		return p, invalid("end_time", err)
	}
	if p.repeat, err = recurrence.ParseRepeatOption(b.RepeatOption); err != nil {
		return p, err
	}
	if b.EndRepeatDate != nil {
		d, err := recurrence.ParseDate(*b.EndRepeatDate)
		if err != nil {
			return p, invalid("end_repeat_date", err)
		}
		p.endRepeatDate = &d
	}
	if b.DaysToRepeatOn != nil {
		w, err := recurrence.ParseWeekdays(*b.DaysToRepeatOn)
		if err != nil {
			return p, err
		}
		p.daysToRepeatOn = &w
	}
	return p, nil
}

type CreateBookingRequest struct {
	ID string `json:"id" binding:"omitempty,uuid"`
	BookingBody
}

func (r *CreateBookingRequest) ToCreateRequest() (booking.CreateRequest, error) {
	p, err := r.parse()
	if err != nil {
		return booking.CreateRequest{}, err
	}
	return booking.CreateRequest{
		ID:             r.ID,
		CarID:          r.CarID,
		BookingDate:    p.bookingDate,
		StartTime:      p.start,
		EndTime:        p.end,
		RepeatOption:   p.repeat,
		EndRepeatDate:  p.endRepeatDate,
		DaysToRepeatOn: p.daysToRepeatOn,
	}, nil
}

type UpdateBookingRequest struct {
	BookingBody
}

func (r *UpdateBookingRequest) ToUpdateRequest() (booking.UpdateRequest, error) {
	p, err := r.parse()
	if err != nil {
		return booking.UpdateRequest{}, err
	}
	return booking.UpdateRequest{
		CarID:          r.CarID,
		BookingDate:    p.bookingDate,
		StartTime:      p.start,
		EndTime:        p.end,
		RepeatOption:   p.repeat,
		EndRepeatDate:  p.endRepeatDate,
		DaysToRepeatOn: p.daysToRepeatOn,
	}, nil
}

type CarTag struct {
	ID    string `json:"id"`
	Model string `json:"model"`
}

type BookingResponse struct {
	ID             string    `json:"id"`
	Car            CarTag    `json:"car"`
	BookingDate    string    `json:"booking_date"`
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	RepeatOption   string    `json:"repeat_option"`
	EndRepeatDate  *string   `json:"end_repeat_date"`
	DaysToRepeatOn *int      `json:"days_to_repeat_on"`
	RequestedOn    time.Time `json:"requested_on"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	resp := BookingResponse{
		ID:           b.ID,
		Car:          CarTag{ID: b.CarID, Model: b.CarModel},
		BookingDate:  b.Rule.AnchorDate.String(),
		StartTime:    b.StartTime.String(),
		EndTime:      b.EndTime.String(),
		RepeatOption: b.Rule.Repeat.String(),
		RequestedOn:  b.RequestedOn,
	}
	if b.Rule.EndRepeatDate != nil {
		s := b.Rule.EndRepeatDate.String()
		resp.EndRepeatDate = &s
	}
	if b.Rule.DaysOfWeek != nil {
		v := int(*b.Rule.DaysOfWeek)
		resp.DaysToRepeatOn = &v
	}
	return resp
}

type CalendarEntryResponse struct {
	BookingID   string `json:"booking_id"`
	CarID       string `json:"car_id"`
	CarModel    string `json:"car_model"`
	BookingDate string `json:"booking_date"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
}

func NewCalendarEntryResponse(e booking.CalendarEntry) CalendarEntryResponse {
	return CalendarEntryResponse{
		BookingID:   e.BookingID,
		CarID:       e.CarID,
		CarModel:    e.CarModel,
		BookingDate: e.Date.String(),
		StartTime:   e.StartTime.String(),
		EndTime:     e.EndTime.String(),
	}
}

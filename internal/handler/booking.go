// Package handler holds the Echo handlers of the booking API.  Handlers
// bind and shape HTTP payloads; business rules live in the service layer.
package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/junk-pickup/internal/model"
	"github.com/iliyamo/junk-pickup/internal/service"
)

// BookingService is the subset of *service.BookingService used here.
type BookingService interface {
	CreateBooking(ctx context.Context, req service.CreateBookingRequest) (string, error)
	ListBookings(ctx context.Context, customerID string) ([]model.Booking, error)
	UpdateBooking(ctx context.Context, id string, req service.UpdateBookingRequest) (*model.Booking, error)
}

// BookingHandler serves /v1/bookings.
type BookingHandler struct {
	svc BookingService
}

// NewBookingHandler returns a handler backed by svc.
func NewBookingHandler(svc BookingService) *BookingHandler {
	if svc == nil {
		panic("nil service passed to NewBookingHandler")
	}
	return &BookingHandler{svc: svc}
}

// Create handles POST /v1/bookings and answers 201 {"id": ...}.
func (h *BookingHandler) Create(c echo.Context) error {
	var req service.CreateBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	id, err := h.svc.CreateBooking(c.Request().Context(), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// List handles GET /v1/bookings?user_id=.
func (h *BookingHandler) List(c echo.Context) error {
	bookings, err := h.svc.ListBookings(c.Request().Context(), userIDParam(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, bookings)
}

// Update handles PUT /v1/bookings/:id and returns the full updated record.
func (h *BookingHandler) Update(c echo.Context) error {
	var req service.UpdateBookingRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request")
	}
	b, err := h.svc.UpdateBooking(c.Request().Context(), c.Param("id"), req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

package service

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/junk-pickup/internal/model"
	"github.com/iliyamo/junk-pickup/internal/pricing"
)

// ErrInvalidRequest marks input that failed validation.  It is detected
// before any persistent state is touched.
var ErrInvalidRequest = errors.New("invalid request")

// ValidationError carries the client-facing reason for an invalid request
// and matches ErrInvalidRequest under errors.Is.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Is reports whether target is ErrInvalidRequest.
func (e *ValidationError) Is(target error) bool { return target == ErrInvalidRequest }

func invalid(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// CartLine is one client-submitted item selection.  A missing or zero
// quantity means one unit.
type CartLine struct {
	ItemID   string `json:"item_id"`
	Quantity *int   `json:"quantity"`
}

// PhotoInput references an uploaded photo and its optional analysis
// payload.
type PhotoInput struct {
	FileURL      string          `json:"file_url"`
	AnalysisData json.RawMessage `json:"analysis_data"`
}

// CreateBookingRequest is the body of POST /v1/bookings.
type CreateBookingRequest struct {
	CustomerID string       `json:"customer_id"`
	PickupDate string       `json:"pickup_date"`
	Items      []CartLine   `json:"items"`
	Photos     []PhotoInput `json:"photos"`
}

// createBookingCmd is a CreateBookingRequest that passed validation.
type createBookingCmd struct {
	CustomerID string
	PickupDate model.Date
	Items      []cartItem
	Photos     []model.Photo
}

type cartItem struct {
	ItemID   string
	Quantity int
}

// validate normalizes the request once at the boundary.
func (r CreateBookingRequest) validate() (createBookingCmd, error) {
	var cmd createBookingCmd
	cmd.CustomerID = strings.TrimSpace(r.CustomerID)
	if cmd.CustomerID == "" {
		return cmd, invalid("customer_id is required")
	}
	if strings.TrimSpace(r.PickupDate) == "" {
		return cmd, invalid("pickup_date is required")
	}
	date, err := parsePickupDate(r.PickupDate)
	if err != nil {
		return cmd, invalid("pickup_date must be YYYY-MM-DD or RFC 3339")
	}
	cmd.PickupDate = date

	cmd.Items = make([]cartItem, 0, len(r.Items))
	for i, line := range r.Items {
		id := strings.TrimSpace(line.ItemID)
		if id == "" {
			return cmd, invalid("items[%d].item_id is required", i)
		}
		qty, ok := pricing.NormalizeQuantity(line.Quantity)
		if !ok {
			return cmd, invalid("items[%d].quantity must not be negative", i)
		}
		cmd.Items = append(cmd.Items, cartItem{ItemID: id, Quantity: qty})
	}

	cmd.Photos = make([]model.Photo, 0, len(r.Photos))
	for i, p := range r.Photos {
		url := strings.TrimSpace(p.FileURL)
		if url == "" {
			return cmd, invalid("photos[%d].file_url is required", i)
		}
		if len(p.AnalysisData) > 0 && !json.Valid(p.AnalysisData) {
			return cmd, invalid("photos[%d].analysis_data must be valid JSON", i)
		}
		cmd.Photos = append(cmd.Photos, model.Photo{FileURL: url, AnalysisData: p.AnalysisData})
	}
	return cmd, nil
}

func parsePickupDate(s string) (model.Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(model.DateLayout, s); err == nil {
		return model.NewDate(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return model.Date{}, err
	}
	return model.NewDate(t), nil
}

// UpdateBookingRequest is the body of PUT /v1/bookings/:id.  Nil fields
// are left unchanged.
type UpdateBookingRequest struct {
	Status     *string          `json:"status"`
	TotalPrice *decimal.Decimal `json:"total_price"`
}

func (r UpdateBookingRequest) validate() (UpdateBookingRequest, error) {
	if r.Status == nil && r.TotalPrice == nil {
		return r, invalid("No fields to update")
	}
	if r.Status != nil {
		s := strings.TrimSpace(*r.Status)
		if s == "" {
			return r, invalid("status must not be empty")
		}
		r.Status = &s
	}
	if r.TotalPrice != nil && r.TotalPrice.IsNegative() {
		return r, invalid("total_price must not be negative")
	}
	return r, nil
}

package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Booking statuses.  Only StatusPending is assigned by the service; later
// values arrive through the update endpoint and are stored as given.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// DateLayout is the wire and storage format of a pickup date.
const DateLayout = "2006-01-02"

// Date is a calendar day.  It serializes as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar day.
func NewDate(t time.Time) Date {
	y, m, d := t.UTC().Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string { return d.Format(DateLayout) }

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// Booking is the aggregate root for one scheduled pickup.  It exclusively
// owns its line items and photos.
//
// Fields:
//  ID         – server generated UUID.
//  CustomerID – owning customer.
//  PickupDate – requested pickup day.
//  Status     – lifecycle state, StatusPending on creation.
//  TotalPrice – Σ(item price × quantity) at creation unless overridden.
//  Items      – line items, never nil when returned by the reader.
//  Photos     – attached photos, never nil when returned by the reader.
type Booking struct {
	ID         string          `json:"id"`
	CustomerID string          `json:"customer_id"`
	PickupDate Date            `json:"pickup_date"`
	Status     string          `json:"status"`
	TotalPrice decimal.Decimal `json:"total_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	Items      []BookingItem   `json:"items"`
	Photos     []Photo         `json:"photos"`
}

// BookingItem is one priced cart line.  Price is the catalog base price
// captured when the booking was written and never re-read afterwards.
type BookingItem struct {
	ID        uint64          `json:"-"`
	BookingID string          `json:"-"`
	ItemID    string          `json:"item_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Photo is a picture attached to a booking.  AnalysisData is nil when no
// analysis was supplied and then serializes as JSON null.
type Photo struct {
	ID           uint64          `json:"id"`
	BookingID    string          `json:"-"`
	FileURL      string          `json:"file_url"`
	AnalysisData json.RawMessage `json:"analysis_data"`
}

// CatalogItem is a sellable item and its current base price.  Catalog rows
// are maintained outside this service.
type CatalogItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
}

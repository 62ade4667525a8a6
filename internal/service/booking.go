// Package service implements the booking use cases on top of the
// repositories: the transactional booking writer, the reader and the
// mutator, plus the event publisher and image analysis stub they rely on.
package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/iliyamo/junk-pickup/internal/database"
	"github.com/iliyamo/junk-pickup/internal/model"
	"github.com/iliyamo/junk-pickup/internal/pricing"
	"github.com/iliyamo/junk-pickup/internal/queue"
	"github.com/iliyamo/junk-pickup/internal/repository"
)

// Business errors re-exported for handlers.
var (
	ErrItemNotFound = repository.ErrItemNotFound
	ErrNotFound     = repository.ErrBookingNotFound
)

// EventPublisher delivers domain events after a successful commit.
type EventPublisher interface {
	PublishBookingCreated(ctx context.Context, ev queue.BookingCreatedEvent) error
}

// BookingService creates, lists and updates bookings.  Each call owns its
// transaction; nothing is shared between requests except the *sql.DB pool.
type BookingService struct {
	db       *sql.DB
	catalog  *repository.CatalogRepo
	bookings *repository.BookingRepo
	events   EventPublisher
	newID    func() string
	now      func() time.Time
}

// NewBookingService wires the service.  events may be nil, in which case
// nothing is published.
func NewBookingService(db *sql.DB, catalog *repository.CatalogRepo, bookings *repository.BookingRepo, events EventPublisher) *BookingService {
	if db == nil || catalog == nil || bookings == nil {
		panic("nil dependency passed to NewBookingService")
	}
	return &BookingService{
		db:       db,
		catalog:  catalog,
		bookings: bookings,
		events:   events,
		newID:    func() string { return uuid.NewString() },
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateBooking validates req, resolves every cart line against the
// catalog and writes the booking, its items and its photos in a single
// transaction.  Either all rows exist afterwards or none do.  It returns
// the new booking ID.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (string, error) {
	cmd, err := req.validate()
	if err != nil {
		return "", err
	}

	booking := model.Booking{
		ID:         s.newID(),
		CustomerID: cmd.CustomerID,
		PickupDate: cmd.PickupDate,
		Status:     model.StatusPending,
	}
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		lines := make([]pricing.Line, 0, len(cmd.Items))
		for _, it := range cmd.Items {
			price, err := s.catalog.BasePriceTx(ctx, tx, it.ItemID)
			if err != nil {
				return err
			}
			lines = append(lines, pricing.Line{ItemID: it.ItemID, Quantity: it.Quantity, UnitPrice: price})
		}
		booking.TotalPrice = pricing.Total(lines)

		if err := s.bookings.CreateTx(ctx, tx, &booking); err != nil {
			return err
		}
		items := make([]model.BookingItem, 0, len(lines))
		for _, l := range lines {
			items = append(items, model.BookingItem{ItemID: l.ItemID, Quantity: l.Quantity, Price: l.UnitPrice})
		}
		if err := s.bookings.CreateItemsBulkTx(ctx, tx, booking.ID, items); err != nil {
			return err
		}
		return s.bookings.CreatePhotosBulkTx(ctx, tx, booking.ID, cmd.Photos)
	})
	if err != nil {
		return "", err
	}

	log.WithFields(log.Fields{
		"booking_id":  booking.ID,
		"customer_id": booking.CustomerID,
		"items":       len(cmd.Items),
		"photos":      len(cmd.Photos),
		"total":       booking.TotalPrice.StringFixed(2),
	}).Info("booking created")
	s.publishCreated(ctx, booking, len(cmd.Items), len(cmd.Photos))
	return booking.ID, nil
}

// publishCreated is best effort: a broker failure is logged and never
// affects the committed booking.
func (s *BookingService) publishCreated(ctx context.Context, b model.Booking, items, photos int) {
	if s.events == nil {
		return
	}
	ev := queue.BookingCreatedEvent{
		BookingID:  b.ID,
		CustomerID: b.CustomerID,
		PickupDate: b.PickupDate.String(),
		ItemCount:  items,
		PhotoCount: photos,
		TotalPrice: b.TotalPrice.StringFixed(2),
		CreatedAt:  s.now().Format(time.RFC3339),
	}
	if err := s.events.PublishBookingCreated(ctx, ev); err != nil {
		log.WithError(err).WithField("booking_id", b.ID).Warn("publish booking.created failed")
	}
}

// ListBookings returns the customer's bookings ordered by pickup date with
// nested items and photos.
func (s *BookingService) ListBookings(ctx context.Context, customerID string) ([]model.Booking, error) {
	customerID = strings.TrimSpace(customerID)
	if customerID == "" {
		return nil, invalid("user_id required")
	}
	return s.bookings.ListByCustomer(ctx, customerID)
}

// UpdateBooking overrides status and/or total price of booking id.  The
// total is taken as given and not recomputed from the line items.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, req UpdateBookingRequest) (*model.Booking, error) {
	req, err := req.validate()
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, errors.Wrap(ErrNotFound, "empty booking id")
	}

	var updated *model.Booking
	err = database.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.bookings.LockTx(ctx, tx, id); err != nil {
			return err
		}
		if err := s.bookings.UpdateTx(ctx, tx, id, req.Status, req.TotalPrice); err != nil {
			return err
		}
		b, err := s.bookings.GetByIDTx(ctx, tx, id)
		if err != nil {
			return err
		}
		updated = b
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.WithFields(log.Fields{"booking_id": id, "status": updated.Status}).Info("booking updated")
	return updated, nil
}

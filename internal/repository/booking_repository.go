package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/junk-pickup/internal/model"
)

// BookingRepo provides persistence for bookings and the rows they own:
// booking_items and photos.  Writes take an explicit *sql.Tx; the caller
// owns commit and rollback.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// DB exposes the underlying handle so services can open transactions that
// span several repositories.
func (r *BookingRepo) DB() *sql.DB { return r.db }

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

const bookingColumns = `b.id, b.customer_id, b.pickup_date, b.status, b.total_price, b.created_at, b.updated_at`

// CreateTx inserts the booking row.  b.ID must already be set; timestamps
// are left to column defaults.
func (r *BookingRepo) CreateTx(ctx context.Context, tx *sql.Tx, b *model.Booking) error {
	const q = `INSERT INTO bookings (id, customer_id, pickup_date, status, total_price) VALUES (?, ?, ?, ?, ?)`
	_, err := tx.ExecContext(ctx, q, b.ID, b.CustomerID, b.PickupDate.Time, b.Status, b.TotalPrice)
	return errors.Wrap(err, "insert booking")
}

// CreateItemsBulkTx inserts one booking_items row per item in a single
// statement.  Passing an empty slice has no effect and returns nil.
func (r *BookingRepo) CreateItemsBulkTx(ctx context.Context, tx *sql.Tx, bookingID string, items []model.BookingItem) error {
	if len(items) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO booking_items (booking_id, item_id, quantity, price) VALUES `)
	args := make([]interface{}, 0, len(items)*4)
	for i, it := range items {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?, ?)")
		args = append(args, bookingID, it.ItemID, it.Quantity, it.Price)
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return errors.Wrap(err, "insert booking items")
}

// CreatePhotosBulkTx inserts one photos row per photo.  A photo without
// analysis data is stored with analysis_data NULL.
func (r *BookingRepo) CreatePhotosBulkTx(ctx context.Context, tx *sql.Tx, bookingID string, photos []model.Photo) error {
	if len(photos) == 0 {
		return nil
	}
	var sb strings.Builder
	sb.WriteString(`INSERT INTO photos (booking_id, file_url, analysis_data) VALUES `)
	args := make([]interface{}, 0, len(photos)*3)
	for i, p := range photos {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("(?, ?, ?)")
		args = append(args, bookingID, p.FileURL, analysisArg(p.AnalysisData))
	}
	_, err := tx.ExecContext(ctx, sb.String(), args...)
	return errors.Wrap(err, "insert photos")
}

// analysisArg maps an absent or JSON-null payload to SQL NULL.
func analysisArg(raw json.RawMessage) interface{} {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return trimmed
}

// ListByCustomer returns every booking owned by customerID ordered by pickup
// date, each with its items and photos.  Nested slices are empty, never
// nil.  The three reads are not wrapped in a transaction; children of a
// booking committed between them are ignored.
func (r *BookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]model.Booking, error) {
	const q = `SELECT ` + bookingColumns + `
               FROM bookings b
               WHERE b.customer_id = ?
               ORDER BY b.pickup_date, b.created_at, b.id`
	rows, err := r.db.QueryContext(ctx, q, customerID)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings")
	}
	defer rows.Close()
	bookings := make([]model.Booking, 0)
	index := make(map[string]int)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		index[b.ID] = len(bookings)
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate bookings")
	}
	if len(bookings) == 0 {
		return bookings, nil
	}

	const itemQ = `SELECT bi.id, bi.booking_id, bi.item_id, bi.quantity, bi.price
                   FROM booking_items bi
                   JOIN bookings b ON b.id = bi.booking_id
                   WHERE b.customer_id = ?
                   ORDER BY bi.id`
	items, err := loadItems(ctx, r.db, itemQ, customerID)
	if err != nil {
		return nil, err
	}
	const photoQ = `SELECT p.id, p.booking_id, p.file_url, p.analysis_data
                    FROM photos p
                    JOIN bookings b ON b.id = p.booking_id
                    WHERE b.customer_id = ?
                    ORDER BY p.id`
	photos, err := loadPhotos(ctx, r.db, photoQ, customerID)
	if err != nil {
		return nil, err
	}
	for id, i := range index {
		if its, ok := items[id]; ok {
			bookings[i].Items = its
		}
		if ps, ok := photos[id]; ok {
			bookings[i].Photos = ps
		}
	}
	return bookings, nil
}

// LockTx takes a row lock on booking id until tx ends.  It returns
// ErrBookingNotFound when no such booking exists.
func (r *BookingRepo) LockTx(ctx context.Context, tx *sql.Tx, id string) error {
	const q = `SELECT id FROM bookings WHERE id = ? FOR UPDATE`
	var got string
	err := tx.QueryRowContext(ctx, q, id).Scan(&got)
	if errors.Is(err, sql.ErrNoRows) {
		return errors.Wrapf(ErrBookingNotFound, "booking %q", id)
	}
	return errors.Wrap(err, "lock booking")
}

// GetByIDTx loads a single booking with its items and photos inside tx.
func (r *BookingRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.Booking, error) {
	const q = `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.id = ?`
	b, err := scanBooking(tx.QueryRowContext(ctx, q, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrBookingNotFound, "booking %q", id)
	}
	if err != nil {
		return nil, err
	}
	const itemQ = `SELECT bi.id, bi.booking_id, bi.item_id, bi.quantity, bi.price
                   FROM booking_items bi
                   WHERE bi.booking_id = ?
                   ORDER BY bi.id`
	items, err := loadItems(ctx, tx, itemQ, id)
	if err != nil {
		return nil, err
	}
	const photoQ = `SELECT p.id, p.booking_id, p.file_url, p.analysis_data
                    FROM photos p
                    WHERE p.booking_id = ?
                    ORDER BY p.id`
	photos, err := loadPhotos(ctx, tx, photoQ, id)
	if err != nil {
		return nil, err
	}
	if its, ok := items[id]; ok {
		b.Items = its
	}
	if ps, ok := photos[id]; ok {
		b.Photos = ps
	}
	return &b, nil
}

// UpdateTx applies a partial update.  Nil arguments leave the column
// unchanged.  The row must exist; callers lock it with LockTx first
// because MySQL reports zero affected rows for a no-op update.
func (r *BookingRepo) UpdateTx(ctx context.Context, tx *sql.Tx, id string, status *string, total *decimal.Decimal) error {
	const q = `UPDATE bookings SET status = COALESCE(?, status), total_price = COALESCE(?, total_price) WHERE id = ?`
	var statusArg, totalArg interface{}
	if status != nil {
		statusArg = *status
	}
	if total != nil {
		totalArg = *total
	}
	_, err := tx.ExecContext(ctx, q, statusArg, totalArg, id)
	return errors.Wrap(err, "update booking")
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(s rowScanner) (model.Booking, error) {
	var b model.Booking
	err := s.Scan(&b.ID, &b.CustomerID, &b.PickupDate.Time, &b.Status, &b.TotalPrice, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return b, err
		}
		return b, errors.Wrap(err, "scan booking")
	}
	b.PickupDate = model.NewDate(b.PickupDate.Time)
	b.Items = []model.BookingItem{}
	b.Photos = []model.Photo{}
	return b, nil
}

func loadItems(ctx context.Context, q querier, query string, arg interface{}) (map[string][]model.BookingItem, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, errors.Wrap(err, "query booking items")
	}
	defer rows.Close()
	out := make(map[string][]model.BookingItem)
	for rows.Next() {
		var it model.BookingItem
		if err := rows.Scan(&it.ID, &it.BookingID, &it.ItemID, &it.Quantity, &it.Price); err != nil {
			return nil, errors.Wrap(err, "scan booking item")
		}
		out[it.BookingID] = append(out[it.BookingID], it)
	}
	return out, errors.Wrap(rows.Err(), "iterate booking items")
}

func loadPhotos(ctx context.Context, q querier, query string, arg interface{}) (map[string][]model.Photo, error) {
	rows, err := q.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, errors.Wrap(err, "query photos")
	}
	defer rows.Close()
	out := make(map[string][]model.Photo)
	for rows.Next() {
		var p model.Photo
		var analysis []byte
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FileURL, &analysis); err != nil {
			return nil, errors.Wrap(err, "scan photo")
		}
		if analysis != nil {
			p.AnalysisData = json.RawMessage(analysis)
		}
		out[p.BookingID] = append(out[p.BookingID], p)
	}
	return out, errors.Wrap(rows.Err(), "iterate photos")
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/junk-pickup/internal/model"
)

var bookingCols = []string{"id", "customer_id", "pickup_date", "status", "total_price", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func day(s string) time.Time {
	t, _ := time.Parse(model.DateLayout, s)
	return t
}

func TestListByCustomerAssemblesNestedRows(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)
	now := time.Now().UTC()

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows(bookingCols).
			AddRow("b-1", "cust-1", day("2026-11-01"), "pending", "20.00", now, now).
			AddRow("b-2", "cust-1", day("2026-11-05"), "pending", "0.00", now, now))
	mock.ExpectQuery(regexp.QuoteMeta("FROM booking_items bi")).
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "item_id", "quantity", "price"}).
			AddRow(1, "b-1", "A", 2, "10.00"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM photos p")).
		WithArgs("cust-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "booking_id", "file_url", "analysis_data"}).
			AddRow(7, "b-1", "https://cdn.example/1.jpg", nil).
			AddRow(8, "b-1", "https://cdn.example/2.jpg", `{"score":0.4}`))

	got, err := repo.ListByCustomer(context.Background(), "cust-1")
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.Equal(t, "b-1", first.ID)
	assert.Equal(t, "2026-11-01", first.PickupDate.String())
	require.Len(t, first.Items, 1)
	assert.Equal(t, "A", first.Items[0].ItemID)
	assert.Equal(t, 2, first.Items[0].Quantity)
	assert.True(t, first.Items[0].Price.Equal(decimal.RequireFromString("10")))
	require.Len(t, first.Photos, 2)
	assert.Nil(t, first.Photos[0].AnalysisData)
	assert.JSONEq(t, `{"score":0.4}`, string(first.Photos[1].AnalysisData))

	second := got[1]
	assert.NotNil(t, second.Items)
	assert.Empty(t, second.Items)
	assert.NotNil(t, second.Photos)
	assert.Empty(t, second.Photos)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByCustomerWithoutBookingsSkipsChildQueries(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM bookings b")).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows(bookingCols))

	got, err := repo.ListByCustomer(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLockTxNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM bookings WHERE id = ? FOR UPDATE")).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.LockTx(context.Background(), tx, "missing")
	assert.True(t, errors.Is(err, ErrBookingNotFound))
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreatePhotosBulkTxStoresNullForMissingAnalysis(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO photos (booking_id, file_url, analysis_data) VALUES (?, ?, ?),(?, ?, ?),(?, ?, ?)")).
		WithArgs("b-1", "u1", nil, "b-1", "u2", nil, "b-1", "u3", `{"score":1}`).
		WillReturnResult(sqlmock.NewResult(3, 3))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	err = repo.CreatePhotosBulkTx(context.Background(), tx, "b-1", []model.Photo{
		{FileURL: "u1"},
		{FileURL: "u2", AnalysisData: json.RawMessage("null")},
		{FileURL: "u3", AnalysisData: json.RawMessage(`{"score":1}`)},
	})
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateItemsBulkTxEmptyIsNoop(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBookingRepo(db)

	mock.ExpectBegin()
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	require.NoError(t, repo.CreateItemsBulkTx(context.Background(), tx, "b-1", nil))
	require.NoError(t, repo.CreatePhotosBulkTx(context.Background(), tx, "b-1", nil))
	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBasePriceTxUnknownItem(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCatalogRepo(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT base_price FROM catalog_items WHERE id = ?")).
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"base_price"}))
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	_, err = repo.BasePriceTx(context.Background(), tx, "ghost")
	assert.True(t, errors.Is(err, ErrItemNotFound))
	assert.Contains(t, err.Error(), "ghost")
	require.NoError(t, tx.Rollback())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListAllCatalogItems(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCatalogRepo(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, base_price FROM catalog_items ORDER BY id")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "base_price"}).
			AddRow("bag", "Bag of household junk", "10.00").
			AddRow("couch", "Couch / sofa", "75.00"))

	items, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "couch", items[1].ID)
	assert.Equal(t, "75.00", items[1].BasePrice.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

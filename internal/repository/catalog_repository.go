package repository

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/junk-pickup/internal/model"
)

// CatalogRepo reads the catalog_items table.  The catalog is owned by an
// external process; this service never writes to it.
type CatalogRepo struct {
	db *sql.DB
}

// NewCatalogRepo constructs a CatalogRepo given a DB handle.
func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

// BasePriceTx resolves the current base price of itemID inside tx, so the
// read shares the booking write's transaction.  Unknown identifiers yield
// ErrItemNotFound.
func (r *CatalogRepo) BasePriceTx(ctx context.Context, tx *sql.Tx, itemID string) (decimal.Decimal, error) {
	const q = `SELECT base_price FROM catalog_items WHERE id = ?`
	var price decimal.Decimal
	err := tx.QueryRowContext(ctx, q, itemID).Scan(&price)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, errors.Wrapf(ErrItemNotFound, "catalog item %q", itemID)
	}
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "lookup catalog item %q", itemID)
	}
	return price, nil
}

// ListAll returns every catalog item ordered by id.
func (r *CatalogRepo) ListAll(ctx context.Context) ([]model.CatalogItem, error) {
	const q = `SELECT id, name, base_price FROM catalog_items ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "list catalog items")
	}
	defer rows.Close()
	items := make([]model.CatalogItem, 0)
	for rows.Next() {
		var it model.CatalogItem
		if err := rows.Scan(&it.ID, &it.Name, &it.BasePrice); err != nil {
			return nil, errors.Wrap(err, "scan catalog item")
		}
		items = append(items, it)
	}
	return items, errors.Wrap(rows.Err(), "iterate catalog items")
}

package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/junk-pickup/internal/model"
)

// AddressRepo stores saved pickup addresses.  It has no transactional
// coupling to booking creation.
type AddressRepo struct {
	db *sqlx.DB
}

// NewAddressRepo constructs an AddressRepo on top of the shared pool.
func NewAddressRepo(db *sql.DB) *AddressRepo {
	return &AddressRepo{db: sqlx.NewDb(db, "mysql")}
}

// Create inserts a and populates its generated ID and created_at.
func (r *AddressRepo) Create(ctx context.Context, a *model.Address) error {
	const q = `INSERT INTO addresses (user_id, street, city, state, zip, is_default)
               VALUES (:user_id, :street, :city, :state, :zip, :is_default)`
	res, err := r.db.NamedExecContext(ctx, q, a)
	if err != nil {
		return errors.Wrap(err, "insert address")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "address id")
	}
	a.ID = uint64(id)
	return errors.Wrap(r.db.GetContext(ctx, &a.CreatedAt, `SELECT created_at FROM addresses WHERE id = ?`, a.ID), "reload address")
}

// ListByUser returns the user's addresses oldest first.
func (r *AddressRepo) ListByUser(ctx context.Context, userID string) ([]model.Address, error) {
	const q = `SELECT id, user_id, street, city, state, zip, is_default, created_at
               FROM addresses WHERE user_id = ? ORDER BY created_at, id`
	out := make([]model.Address, 0)
	if err := r.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, errors.Wrap(err, "list addresses")
	}
	return out, nil
}

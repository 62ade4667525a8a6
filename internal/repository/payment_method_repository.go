package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/iliyamo/junk-pickup/internal/model"
)

// PaymentMethodRepo stores payment instruments.  Nothing here captures or
// settles payments.
type PaymentMethodRepo struct {
	db *sqlx.DB
}

// NewPaymentMethodRepo constructs a PaymentMethodRepo on top of the shared
// pool.
func NewPaymentMethodRepo(db *sql.DB) *PaymentMethodRepo {
	return &PaymentMethodRepo{db: sqlx.NewDb(db, "mysql")}
}

// Create inserts pm and populates its generated ID and created_at.
func (r *PaymentMethodRepo) Create(ctx context.Context, pm *model.PaymentMethod) error {
	const q = `INSERT INTO payment_methods (user_id, provider, account_last4, token, is_default)
               VALUES (:user_id, :provider, :account_last4, :token, :is_default)`
	res, err := r.db.NamedExecContext(ctx, q, pm)
	if err != nil {
		return errors.Wrap(err, "insert payment method")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "payment method id")
	}
	pm.ID = uint64(id)
	const sel = `SELECT created_at FROM payment_methods WHERE id = ?`
	return errors.Wrap(r.db.GetContext(ctx, &pm.CreatedAt, sel, pm.ID), "reload payment method")
}

// ListByUser returns the user's payment methods oldest first.
func (r *PaymentMethodRepo) ListByUser(ctx context.Context, userID string) ([]model.PaymentMethod, error) {
	const q = `SELECT id, user_id, provider, account_last4, token, is_default, created_at
               FROM payment_methods WHERE user_id = ? ORDER BY created_at, id`
	out := make([]model.PaymentMethod, 0)
	if err := r.db.SelectContext(ctx, &out, q, userID); err != nil {
		return nil, errors.Wrap(err, "list payment methods")
	}
	return out, nil
}

package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
)

// WithTx runs fn inside a transaction on db.  The transaction is committed
// when fn returns nil and rolled back on every other exit path, including a
// panic inside fn, which is re-raised after the rollback.  The error
// returned by fn is passed through unwrapped so callers can match sentinel
// errors with errors.Is.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		_ = tx.Rollback()
		if p := recover(); p != nil {
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "commit transaction")
	}
	committed = true
	return nil
}

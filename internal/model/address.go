package model

import "time"

// Address is a saved pickup location for a user.
type Address struct {
	ID        uint64    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Street    string    `db:"street" json:"street"`
	City      string    `db:"city" json:"city"`
	State     string    `db:"state" json:"state"`
	Zip       string    `db:"zip" json:"zip"`
	IsDefault bool      `db:"is_default" json:"is_default"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PaymentMethod is a stored payment instrument.  Token is the provider's
// opaque reference and is never serialized.
type PaymentMethod struct {
	ID           uint64    `db:"id" json:"id"`
	UserID       string    `db:"user_id" json:"user_id"`
	Provider     string    `db:"provider" json:"provider"`
	AccountLast4 string    `db:"account_last4" json:"account_last4"`
	Token        string    `db:"token" json:"-"`
	IsDefault    bool      `db:"is_default" json:"is_default"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

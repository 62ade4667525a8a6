// Package repository holds the SQL data access layer.  The sentinel errors
// below let higher layers tell business failures apart from infrastructure
// failures with errors.Is; repositories wrap them with the offending
// identifier for logging.
package repository

import "errors"

// ErrItemNotFound is returned by catalog lookups when an item identifier is
// not in the catalog.  Handlers translate it into HTTP 400.
var ErrItemNotFound = errors.New("item not found")

// ErrBookingNotFound is returned when no booking has the requested ID.
// Handlers translate it into HTTP 404.
var ErrBookingNotFound = errors.New("booking not found")

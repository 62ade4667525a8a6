// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingCreatedQueue is the durable queue booking events are routed to.
const BookingCreatedQueue = "booking.created"

// BookingCreatedEvent is published after a booking transaction commits.
// It carries enough information for downstream consumers to log, notify or
// schedule crews without querying the primary database.
type BookingCreatedEvent struct {
	BookingID  string `json:"booking_id"`
	CustomerID string `json:"customer_id"`
	PickupDate string `json:"pickup_date"`
	ItemCount  int    `json:"item_count"`
	PhotoCount int    `json:"photo_count"`
	TotalPrice string `json:"total_price"`
	CreatedAt  string `json:"created_at"`
}

// Package events carries order lifecycle notifications over NATS. Publishing
// is best effort: checkout never fails because a subscriber is down.
package events

import (
	"time"
)

// SubjectOrderCreated is published once per committed order.
const SubjectOrderCreated = "souq.order.created"

// OrderCreatedEvent is the wire payload for SubjectOrderCreated. It carries
// only identifiers; subscribers load the full order from the store so they
// always see the committed row.
type OrderCreatedEvent struct {
	OrderID     int64     `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	UserID      int64     `json:"user_id"`
	PlacedAt    time.Time `json:"placed_at"`
}

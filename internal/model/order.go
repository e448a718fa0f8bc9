package model

import (
	"strings"
	"time"
)

// OrderStatus is the closed set of kitchen order states.
// Orders move strictly forward: open -> fired -> fulfilled.
type OrderStatus string

const (
	OrderOpen      OrderStatus = "open"
	OrderFired     OrderStatus = "fired"
	OrderFulfilled OrderStatus = "fulfilled"
)

// ParseOrderStatus normalizes a raw status string into a known state.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	switch OrderStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case OrderOpen:
		return OrderOpen, true
	case OrderFired:
		return OrderFired, true
	case OrderFulfilled:
		return OrderFulfilled, true
	}
	return "", false
}

// Locked reports whether members may still edit the order. Once an order has
// been sent to the kitchen only staff may touch it.
func (s OrderStatus) Locked() bool {
	return s == OrderFired || s == OrderFulfilled
}

// Order is the food selection container for exactly one attendee,
// created lazily on first access.
type Order struct {
	ID         int64       `gorm:"primaryKey" json:"id"`
	AttendeeID int64       `gorm:"uniqueIndex;not null" json:"attendee_id"`
	Status     OrderStatus `gorm:"size:20;not null;default:open;index" json:"status"`
	Notes      string      `gorm:"size:500" json:"notes,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

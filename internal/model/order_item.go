package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// OrderItemStatus is the closed set of line-item states. Items are never
// physically deleted; canceling is a status transition.
type OrderItemStatus string

const (
	ItemSelected  OrderItemStatus = "selected"
	ItemConfirmed OrderItemStatus = "confirmed"
	ItemServed    OrderItemStatus = "served"
	ItemCanceled  OrderItemStatus = "canceled"
)

// ParseOrderItemStatus normalizes a raw status string into a known state.
func ParseOrderItemStatus(raw string) (OrderItemStatus, bool) {
	switch OrderItemStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ItemSelected:
		return ItemSelected, true
	case ItemConfirmed:
		return ItemConfirmed, true
	case ItemServed:
		return ItemServed, true
	case ItemCanceled:
		return ItemCanceled, true
	}
	return "", false
}

// OrderItem is one line selection within an order. Name and price are
// snapshotted at creation time so historical totals survive later menu edits.
type OrderItem struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	OrderID    int64 `gorm:"index;not null" json:"order_id"`
	MenuItemID int64 `gorm:"index;not null" json:"menu_item_id"`

	Quantity int             `gorm:"not null;default:1" json:"quantity"`
	Status   OrderItemStatus `gorm:"size:20;not null;default:selected;index" json:"status"`

	NameSnapshot       string `gorm:"size:140;not null" json:"name_snapshot"`
	PriceCentsSnapshot int64  `gorm:"not null" json:"price_cents_snapshot"`

	// Special requests, customizations, allergy notes.
	Meta datatypes.JSON `json:"meta,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

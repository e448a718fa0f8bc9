package model

import (
	"time"

	"gorm.io/datatypes"
)

// MenuItem is an admin-controlled catalog entry. Rows referenced by order
// history are never hard-deleted; they are deactivated instead so snapshots
// keep a resolvable origin.
type MenuItem struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"size:140;not null;index" json:"name"`
	Description string `gorm:"size:500" json:"description,omitempty"`
	PriceCents  int64  `gorm:"not null" json:"price_cents"`

	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions,omitempty"`

	IsActive bool `gorm:"not null;default:true;index" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

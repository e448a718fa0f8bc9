package model

import "time"

// DiningRoom is a named dining area containing tables.
type DiningRoom struct {
	ID          int64  `gorm:"primaryKey" json:"id"`
	Name        string `gorm:"uniqueIndex;size:120;not null" json:"name"`
	Description string `gorm:"size:255" json:"description,omitempty"`
	IsActive    bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Tables []Table `gorm:"foreignKey:DiningRoomID" json:"tables,omitempty"`
}

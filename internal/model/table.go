package model

import "time"

// Table is one physical table in a dining room.
type Table struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	DiningRoomID int64  `gorm:"index;not null" json:"dining_room_id"`
	Name         string `gorm:"size:80;not null" json:"name"`
	SeatCount    int    `gorm:"not null" json:"seat_count"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	DiningRoom *DiningRoom `gorm:"foreignKey:DiningRoomID" json:"dining_room,omitempty"`
}

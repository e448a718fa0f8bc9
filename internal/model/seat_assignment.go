package model

import "time"

// SeatAssignment binds one reservation to one physical table for a time
// window derived from the reservation. For a fixed table no two assignments
// may have overlapping [StartAt, EndAt) intervals; the Postgres exclusion
// constraint excl_seat_assignments_table_overlap enforces this at commit time.
type SeatAssignment struct {
	ID            int64 `gorm:"primaryKey" json:"id"`
	ReservationID int64 `gorm:"uniqueIndex;not null" json:"reservation_id"`
	TableID       int64 `gorm:"index;not null" json:"table_id"`

	AssignedByUserID *int64    `json:"assigned_by_user_id,omitempty"`
	AssignedAt       time.Time `gorm:"not null" json:"assigned_at"`
	Notes            string    `gorm:"size:500" json:"notes,omitempty"`

	// Derived from the reservation's date and times, never edited directly.
	StartAt time.Time `gorm:"not null;index" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Table *Table `gorm:"foreignKey:TableID" json:"table,omitempty"`
}

package model

import (
	"fmt"
	"strings"
	"time"
)

// ReservationStatus is the closed set of reservation lifecycle states.
type ReservationStatus string

const (
	ReservationDraft     ReservationStatus = "draft"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
)

// ParseReservationStatus normalizes a raw status string (trimmed,
// lower-cased) into a known state.
func ParseReservationStatus(raw string) (ReservationStatus, bool) {
	switch ReservationStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case ReservationDraft:
		return ReservationDraft, true
	case ReservationConfirmed:
		return ReservationConfirmed, true
	case ReservationCancelled:
		return ReservationCancelled, true
	}
	return "", false
}

// CanTransitionTo reports whether next is a legal successor state.
// draft may move anywhere; confirmed and cancelled may move between
// each other and back to draft.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	switch s {
	case ReservationDraft:
		return next == ReservationDraft || next == ReservationConfirmed || next == ReservationCancelled
	case ReservationConfirmed:
		return next == ReservationConfirmed || next == ReservationCancelled || next == ReservationDraft
	case ReservationCancelled:
		return next == ReservationCancelled || next == ReservationDraft
	}
	return false
}

// FieldsEditable reports whether non-status fields may be changed in this state.
func (s ReservationStatus) FieldsEditable() bool {
	return s == ReservationDraft
}

// Deletable reports whether a reservation in this state may be deleted.
func (s ReservationStatus) Deletable() bool {
	return s == ReservationDraft || s == ReservationCancelled
}

// Reservation is a booking by one user for a date and a start/end time.
// When EndTime is nil the effective dining window is StartTime + 90 minutes.
type Reservation struct {
	ID     int64 `gorm:"primaryKey" json:"id"`
	UserID int64 `gorm:"index;not null" json:"user_id"`

	// Room preference chosen by the member at booking time; seating may override it.
	DiningRoomID *int64 `gorm:"index" json:"dining_room_id,omitempty"`

	Date      time.Time `gorm:"type:date;not null;index" json:"date"`
	StartTime string    `gorm:"size:5;not null" json:"start_time"`
	EndTime   *string   `gorm:"size:5" json:"end_time,omitempty"`

	Status ReservationStatus `gorm:"size:20;not null;default:draft;index" json:"status"`
	Notes  string            `gorm:"size:500" json:"notes,omitempty"`

	// Derived human-readable code, recomputed whenever the reservation changes.
	ReservationCode string `gorm:"size:80;uniqueIndex" json:"reservation_code,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Attendees      []Attendee      `gorm:"foreignKey:ReservationID" json:"attendees,omitempty"`
	Messages       []Message       `gorm:"foreignKey:ReservationID" json:"messages,omitempty"`
	SeatAssignment *SeatAssignment `gorm:"foreignKey:ReservationID" json:"seat_assignment,omitempty"`
}

// lodgeCode prefixes every reservation code.
const lodgeCode = "ABY"

// Code derives the reservation code from real fields, zero-padded so the
// format stays fixed-width: ABY-20260224-1830-DR03-U0007-R0026.
func (r *Reservation) Code() string {
	d := "00000000"
	if !r.Date.IsZero() {
		d = r.Date.Format("20060102")
	}
	st := "0000"
	if len(r.StartTime) == 5 {
		st = r.StartTime[:2] + r.StartTime[3:]
	}
	var dr int64
	if r.DiningRoomID != nil {
		dr = *r.DiningRoomID
	}
	return fmt.Sprintf("%s-%s-%s-DR%02d-U%04d-R%04d", lodgeCode, d, st, dr, r.UserID, r.ID)
}

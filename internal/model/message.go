package model

import "time"

// Message is an append-only note attached to a reservation, used for
// organizer and staff communication.
type Message struct {
	ID            int64  `gorm:"primaryKey" json:"id"`
	ReservationID int64  `gorm:"index;not null" json:"reservation_id"`
	SenderUserID  int64  `gorm:"index;not null" json:"sender_user_id"`
	Body          string `gorm:"type:text;not null" json:"body"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

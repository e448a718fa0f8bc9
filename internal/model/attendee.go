package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Attendee is one person attending a reservation: either a member profile or
// an ad-hoc guest identified by name. At least one of MemberID/GuestName must
// be set; the database check constraint enforces the same rule at commit time.
type Attendee struct {
	ID            int64   `gorm:"primaryKey" json:"id"`
	ReservationID int64   `gorm:"index;not null" json:"reservation_id"`
	MemberID      *int64  `gorm:"index" json:"member_id,omitempty"`
	GuestName     *string `gorm:"size:120" json:"guest_name,omitempty"`

	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions,omitempty"`
	Meta                datatypes.JSON `json:"meta,omitempty"`

	SelectionConfirmed bool `gorm:"not null;default:false" json:"selection_confirmed"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	Member *Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
	Order  *Order  `gorm:"foreignKey:AttendeeID" json:"order,omitempty"`
}

// Identified reports whether the attendee satisfies the member-or-guest rule.
func (a *Attendee) Identified() bool {
	if a.MemberID != nil {
		return true
	}
	return a.GuestName != nil && strings.TrimSpace(*a.GuestName) != ""
}

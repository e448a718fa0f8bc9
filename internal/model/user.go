package model

import (
	"strings"
	"time"

	"gorm.io/datatypes"
)

// Role classifies a login identity for authorization checks.
type Role string

const (
	RoleMember Role = "member"
	RoleStaff  Role = "staff"
	RoleAdmin  Role = "admin"
)

// ParseRole normalizes a raw role string into a known Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleMember:
		return RoleMember, true
	case RoleStaff:
		return RoleStaff, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// IsStaff reports whether the role carries staff-level privileges.
func (r Role) IsStaff() bool {
	return r == RoleStaff || r == RoleAdmin
}

// User is a login identity. A user can hold several bookable Member profiles
// (self plus dependents or regular guests).
type User struct {
	ID           int64  `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`
	Role         Role   `gorm:"size:20;not null;default:member;index" json:"role"`

	// Per-user permission overrides, e.g. {"reservations:write": true}.
	Permissions datatypes.JSON `json:"permissions,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`

	Members []Member `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
}

package model

import "time"

// RevokedToken denylists a JWT until its natural expiry. Rows past
// ExpiresAt are safe to purge.
type RevokedToken struct {
	JTI       string    `gorm:"primaryKey;size:64" json:"jti"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	RevokedAt time.Time `gorm:"not null" json:"revoked_at"`
}

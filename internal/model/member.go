package model

import (
	"time"

	"gorm.io/datatypes"
)

// Member is a user's bookable dining profile: the user themselves or a
// dependent/regular guest they book for.
type Member struct {
	ID       int64  `gorm:"primaryKey" json:"id"`
	UserID   int64  `gorm:"index;not null" json:"user_id"`
	Name     string `gorm:"size:120;not null" json:"name"`
	Relation string `gorm:"size:50;default:Primary" json:"relation,omitempty"`

	// JSON array of dietary restriction tags, e.g. ["vegan","nut_allergy"].
	DietaryRestrictions datatypes.JSON `json:"dietary_restrictions,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

// DietaryRestrictions lists the recognized dietary tags for members,
// attendees and menu items.
var DietaryRestrictions = []string{
	"dairy_free", "egg_free", "fish_allergy", "gluten_free",
	"halal", "kosher", "nut_allergy", "peanut_allergy",
	"sesame_allergy", "shellfish_allergy", "soy_free",
	"vegan", "vegetarian",
}

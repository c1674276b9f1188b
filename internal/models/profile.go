package models

import (
	"time"
)

// Gender is the closed set of values accepted for a profile.
type Gender string

const (
	GenderMan   Gender = "man"
	GenderWoman Gender = "woman"
)

// Genders lists every accepted gender in display order.
var Genders = []Gender{GenderMan, GenderWoman}

// Valid reports whether g is one of Genders.
func (g Gender) Valid() bool {
	for _, known := range Genders {
		if g == known {
			return true
		}
	}
	return false
}

// UserProfile holds a user's display attributes. Avatar stores the object
// storage key, never a URL.
type UserProfile struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex" json:"user_id"`
	FirstName   *string    `gorm:"size:100" json:"first_name"`
	LastName    *string    `gorm:"size:100" json:"last_name"`
	Gender      *Gender    `gorm:"size:16" json:"gender"`
	DateOfBirth *time.Time `gorm:"type:date" json:"date_of_birth"`
	Info        *string    `gorm:"type:text" json:"info"`
	Avatar      *string    `gorm:"size:255" json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

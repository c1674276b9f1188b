package models

import (
	"time"
)

// User is an account owner. Accounts are created and deactivated by other
// services; this service only reads them.
type User struct {
	ID             uint         `gorm:"primarykey" json:"id"`
	Email          string       `gorm:"size:255;uniqueIndex;not null" json:"email"`
	HashedPassword string       `gorm:"size:255;not null" json:"-"`
	IsActive       bool         `gorm:"not null;default:false" json:"is_active"`
	GroupID        uint         `gorm:"not null;index" json:"group_id"`
	Group          *UserGroup   `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Profile        *UserProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}

// UserGroup is the single group a user belongs to.
type UserGroup struct {
	ID   uint   `gorm:"primarykey" json:"id"`
	Name string `gorm:"size:50;uniqueIndex;not null" json:"name"`
}

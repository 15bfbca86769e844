// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the global identity record. Authentication itself is handled by an
// external identity provider; this service only stores the profile fields it
// needs for notifications and display.
type User struct {
	UID       uint           `gorm:"primaryKey;column:uid" json:"uid"`
	Username  string         `gorm:"unique" json:"username"`
	Name      string         `json:"name"`
	Email     string         `gorm:"unique;not null" json:"email"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// User is created on first sign-in and keyed by email.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"_id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"size:255" json:"name"`
	Photo        string    `gorm:"size:1024" json:"photo"`
	Role         Role      `gorm:"size:20;not null;default:'user';index" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	LastLoggedIn time.Time `json:"last_loggedIn"`
}

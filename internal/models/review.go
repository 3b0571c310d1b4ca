package models

import (
	"time"

	"github.com/google/uuid"
)

type Reviewer struct {
	Name  string `gorm:"size:255" json:"name"`
	Email string `gorm:"size:255;not null" json:"email"`
	Image string `gorm:"size:1024" json:"image"`
}

// Review is append-only.
type Review struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"_id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"productId"`
	Reviewer  Reviewer  `gorm:"embedded;embeddedPrefix:reviewer_" json:"reviewer"`
	Rating    int       `gorm:"not null;check:rating BETWEEN 0 AND 5" json:"rating,omitempty"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
)

type Coupon struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"_id"`
	Code          string    `gorm:"size:64;not null;uniqueIndex" json:"code"`
	Description   string    `gorm:"size:500" json:"description"`
	DiscountType  string    `gorm:"size:20;not null;default:'percentage'" json:"discountType"`
	DiscountValue float64   `gorm:"not null" json:"discountValue"`
	IsActive      bool      `gorm:"not null;default:true;index" json:"isActive"`
	ExpiryDate    time.Time `gorm:"not null;index" json:"expiryDate"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ValidAt reports whether the coupon can be redeemed at now.
func (c *Coupon) ValidAt(now time.Time) bool {
	return c.IsActive && c.ExpiryDate.After(now)
}

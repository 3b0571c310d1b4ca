package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
)

type CreateCouponRequest struct {
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discountType"`
	DiscountValue float64   `json:"discountValue"`
	IsActive      *bool     `json:"isActive"`
	ExpiryDate    time.Time `json:"expiryDate"`
}

type UpdateCouponRequest struct {
	Code          *string    `json:"code"`
	Description   *string    `json:"description"`
	DiscountType  *string    `json:"discountType"`
	DiscountValue *float64   `json:"discountValue"`
	IsActive      *bool      `json:"isActive"`
	ExpiryDate    *time.Time `json:"expiryDate"`
}

type CouponListResponse struct {
	Coupons    []models.Coupon `json:"coupons"`
	Pagination Pagination      `json:"pagination"`
}

package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
)

func (s *GormStore) CreateCoupon(ctx context.Context, c *models.Coupon) error {
	if err := s.db.WithContext(ctx).Create(c).Error; err != nil {
		return fmt.Errorf("failed to create coupon: %w", translate(err))
	}
	return nil
}

func (s *GormStore) GetCoupon(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.WithContext(ctx).First(&coupon, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (s *GormStore) GetCouponByCode(ctx context.Context, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := s.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, translate(err)
	}
	return &coupon, nil
}

func (s *GormStore) ListCoupons(ctx context.Context, page, limit int) ([]models.Coupon, int64, error) {
	var coupons []models.Coupon
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Coupon{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count coupons: %w", err)
	}
	query = query.Order("created_at DESC")
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query = query.Offset((page - 1) * limit).Limit(limit)
	}
	if err := query.Find(&coupons).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, total, nil
}

func (s *GormStore) ListValidCoupons(ctx context.Context, now time.Time) ([]models.Coupon, error) {
	var coupons []models.Coupon
	err := s.db.WithContext(ctx).
		Where("is_active = ? AND expiry_date > ?", true, now).
		Order("expiry_date ASC").
		Find(&coupons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list valid coupons: %w", err)
	}
	return coupons, nil
}

func (s *GormStore) UpdateCoupon(ctx context.Context, id uuid.UUID, patch CouponPatch) (*models.Coupon, error) {
	updates := map[string]interface{}{"updated_at": s.now()}
	if patch.Code != nil {
		updates["code"] = *patch.Code
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.DiscountType != nil {
		updates["discount_type"] = *patch.DiscountType
	}
	if patch.DiscountValue != nil {
		updates["discount_value"] = *patch.DiscountValue
	}
	if patch.IsActive != nil {
		updates["is_active"] = *patch.IsActive
	}
	if patch.ExpiryDate != nil {
		updates["expiry_date"] = *patch.ExpiryDate
	}

	result := s.db.WithContext(ctx).Model(&models.Coupon{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to update coupon: %w", translate(result.Error))
	}
	if result.RowsAffected == 0 {
		return nil, ErrNotFound
	}
	return s.GetCoupon(ctx, id)
}

func (s *GormStore) DeleteCoupon(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Coupon{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete coupon: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

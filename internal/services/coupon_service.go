package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

type CouponService struct {
	coupons store.CouponStore
	now     func() time.Time
}

func NewCouponService(coupons store.CouponStore) *CouponService {
	return &CouponService{coupons: coupons, now: time.Now}
}

func (s *CouponService) Create(ctx context.Context, req *dto.CreateCouponRequest) (*models.Coupon, error) {
	coupon := &models.Coupon{
		ID:            uuid.New(),
		Code:          normalizeCode(req.Code),
		Description:   strings.TrimSpace(req.Description),
		DiscountType:  strings.ToLower(strings.TrimSpace(req.DiscountType)),
		DiscountValue: req.DiscountValue,
		IsActive:      true,
		ExpiryDate:    req.ExpiryDate.UTC(),
	}
	if coupon.DiscountType == "" {
		coupon.DiscountType = models.DiscountPercentage
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if err := validateCoupon(coupon); err != nil {
		return nil, err
	}
	if !coupon.ExpiryDate.After(s.now()) {
		return nil, fmt.Errorf("%w: expiry date must be in the future", ErrInvalidInput)
	}

	err := s.coupons.CreateCoupon(ctx, coupon)
	if errors.Is(err, store.ErrDuplicate) {
		return nil, ErrCouponCodeTaken
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create coupon: %w", err)
	}
	return coupon, nil
}

func (s *CouponService) Get(ctx context.Context, id uuid.UUID) (*models.Coupon, error) {
	coupon, err := s.coupons.GetCoupon(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}
	return coupon, nil
}

func (s *CouponService) List(ctx context.Context, page, limit int) ([]models.Coupon, dto.Pagination, error) {
	page, limit = dto.NormalizePage(page, limit)
	coupons, total, err := s.coupons.ListCoupons(ctx, page, limit)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, dto.NewPagination(page, limit, total), nil
}

// ListValid returns coupons that are active and unexpired at request time.
func (s *CouponService) ListValid(ctx context.Context) ([]models.Coupon, error) {
	coupons, err := s.coupons.ListValidCoupons(ctx, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to list coupons: %w", err)
	}
	return coupons, nil
}

// Validate returns the coupon for code when it can be redeemed now.
func (s *CouponService) Validate(ctx context.Context, code string) (*models.Coupon, error) {
	coupon, err := s.coupons.GetCouponByCode(ctx, normalizeCode(code))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrCouponNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load coupon: %w", err)
	}
	if !coupon.ValidAt(s.now()) {
		return nil, ErrCouponNotFound
	}
	return coupon, nil
}

func (s *CouponService) Update(ctx context.Context, id uuid.UUID, req *dto.UpdateCouponRequest) (*models.Coupon, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	patch := store.CouponPatch{
		Description:   req.Description,
		DiscountValue: req.DiscountValue,
		IsActive:      req.IsActive,
		ExpiryDate:    req.ExpiryDate,
	}
	if req.Code != nil {
		code := normalizeCode(*req.Code)
		patch.Code = &code
		current.Code = code
	}
	if req.DiscountType != nil {
		discountType := strings.ToLower(strings.TrimSpace(*req.DiscountType))
		patch.DiscountType = &discountType
		current.DiscountType = discountType
	}
	if req.DiscountValue != nil {
		current.DiscountValue = *req.DiscountValue
	}
	if req.ExpiryDate != nil {
		expiry := req.ExpiryDate.UTC()
		patch.ExpiryDate = &expiry
		current.ExpiryDate = expiry
	}
	if err := validateCoupon(current); err != nil {
		return nil, err
	}

	updated, err := s.coupons.UpdateCoupon(ctx, id, patch)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrCouponNotFound
	case errors.Is(err, store.ErrDuplicate):
		return nil, ErrCouponCodeTaken
	case err != nil:
		return nil, fmt.Errorf("failed to update coupon: %w", err)
	}
	return updated, nil
}

func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.coupons.DeleteCoupon(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrCouponNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete coupon: %w", err)
	}
	return nil
}

func validateCoupon(c *models.Coupon) error {
	if len(c.Code) < 3 || len(c.Code) > 64 {
		return fmt.Errorf("%w: code must be 3 to 64 characters", ErrInvalidInput)
	}
	switch c.DiscountType {
	case models.DiscountPercentage:
		if c.DiscountValue <= 0 || c.DiscountValue > 100 {
			return fmt.Errorf("%w: percentage discount must be between 0 and 100", ErrInvalidInput)
		}
	case models.DiscountFixed:
		if c.DiscountValue <= 0 {
			return fmt.Errorf("%w: fixed discount must be positive", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown discount type %q", ErrInvalidInput, c.DiscountType)
	}
	if c.ExpiryDate.IsZero() {
		return fmt.Errorf("%w: expiry date is required", ErrInvalidInput)
	}
	return nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

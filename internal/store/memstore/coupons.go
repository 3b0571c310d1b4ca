package memstore

import (
	"context"
	"sort"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) codeTaken(code string, except uuid.UUID) bool {
	for id, c := range s.coupons {
		if c.Code == code && id != except {
			return true
		}
	}
	return false
}

func (s *Store) CreateCoupon(_ context.Context, c *models.Coupon) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.codeTaken(c.Code, uuid.Nil) {
		return store.ErrDuplicate
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := s.now()
	c.CreatedAt = now
	c.UpdatedAt = now
	stored := *c
	s.coupons[stored.ID] = &stored
	return nil
}

func (s *Store) GetCoupon(_ context.Context, id uuid.UUID) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *c
	return &out, nil
}

func (s *Store) GetCouponByCode(_ context.Context, code string) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.coupons {
		if c.Code == code {
			out := *c
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *Store) ListCoupons(_ context.Context, page, limit int) ([]models.Coupon, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := make([]models.Coupon, 0, len(s.coupons))
	for _, c := range s.coupons {
		all = append(all, *c)
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return paginate(all, page, limit), int64(len(all)), nil
}

func (s *Store) ListValidCoupons(_ context.Context, now time.Time) ([]models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Coupon
	for _, c := range s.coupons {
		if c.ValidAt(now) {
			out = append(out, *c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ExpiryDate.Before(out[j].ExpiryDate) })
	return out, nil
}

func (s *Store) UpdateCoupon(_ context.Context, id uuid.UUID, patch store.CouponPatch) (*models.Coupon, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coupons[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Code != nil {
		if s.codeTaken(*patch.Code, id) {
			return nil, store.ErrDuplicate
		}
		c.Code = *patch.Code
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.DiscountType != nil {
		c.DiscountType = *patch.DiscountType
	}
	if patch.DiscountValue != nil {
		c.DiscountValue = *patch.DiscountValue
	}
	if patch.IsActive != nil {
		c.IsActive = *patch.IsActive
	}
	if patch.ExpiryDate != nil {
		c.ExpiryDate = *patch.ExpiryDate
	}
	c.UpdatedAt = s.now()
	out := *c
	return &out, nil
}

func (s *Store) DeleteCoupon(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.coupons[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.coupons, id)
	return nil
}

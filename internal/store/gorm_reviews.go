package store

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
)

func (s *GormStore) CreateReview(ctx context.Context, r *models.Review) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}
	return nil
}

func (s *GormStore) ListReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var reviews []models.Review
	err := s.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at DESC").
		Find(&reviews).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

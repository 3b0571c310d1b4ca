package memstore

import (
	"context"
	"sort"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
)

func (s *Store) CreateReview(_ context.Context, r *models.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	s.reviews = append(s.reviews, *r)
	return nil
}

func (s *Store) ListReviews(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Review
	for _, r := range s.reviews {
		if r.ProductID == productID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

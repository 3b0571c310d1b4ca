package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

const maxReviewLength = 2000

type ReviewService struct {
	reviews store.ReviewStore
	apps    *AppService
	filter  *ContentFilter
}

func NewReviewService(reviews store.ReviewStore, apps *AppService, filter *ContentFilter) *ReviewService {
	return &ReviewService{reviews: reviews, apps: apps, filter: filter}
}

// Create stores a review by the caller after screening its body.
func (s *ReviewService) Create(ctx context.Context, callerEmail string, req *dto.CreateReviewRequest) (*models.Review, error) {
	productID, err := uuid.Parse(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid productId", ErrInvalidInput)
	}
	// Zero means unrated.
	if req.Rating < 0 || req.Rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", ErrInvalidInput)
	}
	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: review body is required", ErrInvalidInput)
	}
	if len(body) > maxReviewLength {
		return nil, fmt.Errorf("%w: review must be at most %d characters", ErrInvalidInput, maxReviewLength)
	}
	if ok, reason := s.filter.Check(body); !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, s.filter.RejectionMessage(reason))
	}

	if _, err := s.apps.Get(ctx, productID); err != nil {
		return nil, err
	}

	review := &models.Review{
		ID:        uuid.New(),
		ProductID: productID,
		Reviewer: models.Reviewer{
			Name:  strings.TrimSpace(req.Name),
			Email: normalizeEmail(callerEmail),
			Image: strings.TrimSpace(req.Image),
		},
		Rating: req.Rating,
		Body:   body,
	}
	if err := s.reviews.CreateReview(ctx, review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", err)
	}
	return review, nil
}

func (s *ReviewService) List(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	reviews, err := s.reviews.ListReviews(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

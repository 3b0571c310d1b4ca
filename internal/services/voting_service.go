package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

// VotingService applies and retracts upvotes. Every transition is one
// conditional store statement; the record is only read afterwards to explain
// a rejected transition.
type VotingService struct {
	apps    store.AppStore
	metrics metrics.Recorder
}

func NewVotingService(apps store.AppStore, rec metrics.Recorder) *VotingService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &VotingService{apps: apps, metrics: rec}
}

// ApplyVote records voterEmail's upvote on the application.
func (s *VotingService) ApplyVote(ctx context.Context, appID uuid.UUID, voterEmail string) (*models.Application, error) {
	voter := normalizeEmail(voterEmail)
	if voter == "" {
		return nil, fmt.Errorf("%w: voter email is required", ErrInvalidInput)
	}

	applied, err := s.apps.AddVoter(ctx, appID, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to apply vote: %w", err)
	}
	if !applied {
		err := s.classify(ctx, appID, voter, true)
		s.metrics.RecordVoteRejected(rejectionReason(err))
		return nil, err
	}

	s.metrics.RecordVote("upvote")
	return s.current(ctx, appID)
}

// UndoVote retracts voterEmail's upvote.
func (s *VotingService) UndoVote(ctx context.Context, appID uuid.UUID, voterEmail string) (*models.Application, error) {
	voter := normalizeEmail(voterEmail)
	if voter == "" {
		return nil, fmt.Errorf("%w: voter email is required", ErrInvalidInput)
	}

	applied, err := s.apps.RemoveVoter(ctx, appID, voter)
	if err != nil {
		return nil, fmt.Errorf("failed to undo vote: %w", err)
	}
	if !applied {
		err := s.classify(ctx, appID, voter, false)
		s.metrics.RecordVoteRejected(rejectionReason(err))
		return nil, err
	}

	s.metrics.RecordVote("undo")
	return s.current(ctx, appID)
}

// classify explains why a conditional vote statement matched no row. Checks
// run in order: existence, ownership, voter membership.
func (s *VotingService) classify(ctx context.Context, appID uuid.UUID, voter string, adding bool) error {
	app, err := s.apps.GetApp(ctx, appID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAppNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load application: %w", err)
	}
	if !adding {
		return ErrNotVoted
	}
	if normalizeEmail(app.Owner.Email) == voter {
		return ErrSelfVote
	}
	return ErrDuplicateVote
}

func (s *VotingService) current(ctx context.Context, appID uuid.UUID) (*models.Application, error) {
	app, err := s.apps.GetApp(ctx, appID)
	if errors.Is(err, store.ErrNotFound) {
		// Deleted between the vote and the read.
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return app, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrAppNotFound):
		return "not_found"
	case errors.Is(err, ErrSelfVote):
		return "self_vote"
	case errors.Is(err, ErrDuplicateVote):
		return "duplicate"
	case errors.Is(err, ErrNotVoted):
		return "not_voted"
	default:
		return "error"
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

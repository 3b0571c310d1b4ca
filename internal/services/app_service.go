package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

const maxTags = 20

type AppService struct {
	apps  store.AppStore
	users store.UserStore
}

func NewAppService(apps store.AppStore, users store.UserStore) *AppService {
	return &AppService{apps: apps, users: users}
}

// Create submits an application owned by the caller. It starts pending with
// no votes.
func (s *AppService) Create(ctx context.Context, callerEmail string, req *dto.CreateAppRequest) (*models.Application, error) {
	caller := normalizeEmail(callerEmail)
	if caller == "" {
		return nil, ErrForbidden
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	owner := models.Owner{Email: caller}
	if req.Owner != nil {
		if req.Owner.Email != "" && normalizeEmail(req.Owner.Email) != caller {
			return nil, fmt.Errorf("%w: owner email must match the signed-in user", ErrForbidden)
		}
		owner.Name = strings.TrimSpace(req.Owner.Name)
		owner.Image = strings.TrimSpace(req.Owner.Image)
	}

	tags, err := cleanTags(req.Tags)
	if err != nil {
		return nil, err
	}

	app := &models.Application{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(req.Name),
		Title:       strings.TrimSpace(req.Title),
		Website:     strings.TrimSpace(req.Website),
		Description: strings.TrimSpace(req.Description),
		Tags:        tags,
		Image:       strings.TrimSpace(req.Image),
		Owner:       owner,
		Voters:      []string{},
		Status:      models.StatusPending,
	}
	if err := s.apps.CreateApp(ctx, app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}
	return app, nil
}

func (s *AppService) Get(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	app, err := s.apps.GetApp(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load application: %w", err)
	}
	return app, nil
}

// List returns every application matching f without pagination.
func (s *AppService) List(ctx context.Context, f store.AppFilter) ([]models.Application, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, f.Status)
	}
	switch f.Sort {
	case store.SortModeration, store.SortTrending, store.SortRecent:
	default:
		return nil, fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, f.Sort)
	}
	f.Page, f.Limit = 0, 0

	apps, _, err := s.apps.ListApps(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, nil
}

// Paginated lists applications in moderation order. search matches any tag
// case-insensitively.
func (s *AppService) Paginated(ctx context.Context, page, limit int, search string) ([]models.Application, dto.Pagination, error) {
	page, limit = dto.NormalizePage(page, limit)
	apps, total, err := s.apps.ListApps(ctx, store.AppFilter{
		Tag:   strings.TrimSpace(search),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, dto.NewPagination(page, limit, total), nil
}

// ListByOwner lists the caller's own applications.
func (s *AppService) ListByOwner(ctx context.Context, callerEmail, ownerEmail string, page, limit int) ([]models.Application, dto.Pagination, error) {
	caller := normalizeEmail(callerEmail)
	owner := normalizeEmail(ownerEmail)
	if owner == "" {
		owner = caller
	}
	if caller == "" || owner != caller {
		return nil, dto.Pagination{}, fmt.Errorf("%w: you can only list your own applications", ErrForbidden)
	}

	page, limit = dto.NormalizePage(page, limit)
	apps, total, err := s.apps.ListApps(ctx, store.AppFilter{
		OwnerEmail: owner,
		Sort:       store.SortRecent,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list applications: %w", err)
	}
	return apps, dto.NewPagination(page, limit, total), nil
}

// Update replaces the editable fields. Only the owner may update.
func (s *AppService) Update(ctx context.Context, id uuid.UUID, callerEmail string, req *dto.UpdateAppRequest) (*models.Application, error) {
	caller := normalizeEmail(callerEmail)
	if strings.TrimSpace(req.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	tags, err := cleanTags(req.Tags)
	if err != nil {
		return nil, err
	}

	applied, err := s.apps.UpdateAppFields(ctx, id, caller, store.AppFields{
		Name:        strings.TrimSpace(req.Name),
		Title:       strings.TrimSpace(req.Title),
		Website:     strings.TrimSpace(req.Website),
		Description: strings.TrimSpace(req.Description),
		Tags:        tags,
		Image:       strings.TrimSpace(req.Image),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	if !applied {
		if _, err := s.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, ErrNotOwner
	}
	return s.Get(ctx, id)
}

func (s *AppService) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) (*models.Application, error) {
	err := s.apps.SetFeatured(ctx, id, featured)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *AppService) SetStatus(ctx context.Context, id uuid.UUID, status models.AppStatus) (*models.Application, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}
	err := s.apps.SetStatus(ctx, id, status)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrAppNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update application: %w", err)
	}
	return s.Get(ctx, id)
}

// Delete removes an application. The owner, moderators and admins may delete.
func (s *AppService) Delete(ctx context.Context, id uuid.UUID, callerEmail string) error {
	caller := normalizeEmail(callerEmail)
	app, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if normalizeEmail(app.Owner.Email) != caller {
		user, err := s.users.GetUserByEmail(ctx, caller)
		if errors.Is(err, store.ErrNotFound) {
			return ErrForbidden
		}
		if err != nil {
			return fmt.Errorf("failed to load user: %w", err)
		}
		if user.Role != models.RoleModerator && user.Role != models.RoleAdmin {
			return ErrForbidden
		}
	}

	err = s.apps.DeleteApp(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrAppNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete application: %w", err)
	}
	return nil
}

// cleanTags trims tags and drops blanks and case-insensitive duplicates.
func cleanTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		key := strings.ToLower(tag)
		if tag == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, tag)
	}
	if len(out) > maxTags {
		return nil, fmt.Errorf("%w: at most %d tags are allowed", ErrInvalidInput, maxTags)
	}
	return out, nil
}

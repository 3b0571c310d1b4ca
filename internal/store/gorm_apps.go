package store

import (
	"context"
	"fmt"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const moderationOrder = "CASE status WHEN 'pending' THEN 0 WHEN 'approved' THEN 1 ELSE 2 END"

const addVoterSQL = `UPDATE apps
SET upvotes = upvotes + 1, voters = voters || jsonb_build_array(?::text)
WHERE id = ? AND owner_email <> ?
  AND NOT EXISTS (SELECT 1 FROM jsonb_array_elements_text(voters) AS voter WHERE voter = ?)`

const removeVoterSQL = `UPDATE apps
SET upvotes = upvotes - 1, voters = voters - ?::text
WHERE id = ? AND upvotes > 0
  AND EXISTS (SELECT 1 FROM jsonb_array_elements_text(voters) AS voter WHERE voter = ?)`

func (s *GormStore) CreateApp(ctx context.Context, app *models.Application) error {
	if err := s.db.WithContext(ctx).Create(app).Error; err != nil {
		return fmt.Errorf("failed to create app: %w", translate(err))
	}
	return nil
}

func (s *GormStore) GetApp(ctx context.Context, id uuid.UUID) (*models.Application, error) {
	var app models.Application
	if err := s.db.WithContext(ctx).First(&app, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &app, nil
}

func (s *GormStore) ListApps(ctx context.Context, f AppFilter) ([]models.Application, int64, error) {
	var apps []models.Application
	var total int64

	query := s.db.WithContext(ctx).Model(&models.Application{})
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Featured != nil {
		query = query.Where("is_featured = ?", *f.Featured)
	}
	if f.OwnerEmail != "" {
		query = query.Where("owner_email = ?", f.OwnerEmail)
	}
	if f.Tag != "" {
		query = query.Where("EXISTS (SELECT 1 FROM jsonb_array_elements_text(tags) AS tag WHERE tag ILIKE ?)", containsPattern(f.Tag))
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count apps: %w", err)
	}

	switch f.Sort {
	case SortTrending:
		query = query.Order("upvotes DESC")
	case SortRecent:
	default:
		query = query.Order(moderationOrder)
	}
	query = query.Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Offset(f.Offset()).Limit(f.Limit)
	}

	if err := query.Find(&apps).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list apps: %w", err)
	}
	return apps, total, nil
}

func (s *GormStore) UpdateAppFields(ctx context.Context, id uuid.UUID, ownerEmail string, fields AppFields) (bool, error) {
	tags := datatypes.JSONSlice[string](fields.Tags)
	if tags == nil {
		tags = datatypes.JSONSlice[string]{}
	}
	result := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ? AND owner_email = ?", id, ownerEmail).
		Updates(map[string]interface{}{
			"name":        fields.Name,
			"title":       fields.Title,
			"website":     fields.Website,
			"description": fields.Description,
			"tags":        tags,
			"image":       fields.Image,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update app: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (s *GormStore) SetFeatured(ctx context.Context, id uuid.UUID, featured bool) error {
	result := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("is_featured", featured)
	if result.Error != nil {
		return fmt.Errorf("failed to feature app: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) SetStatus(ctx context.Context, id uuid.UUID, status models.AppStatus) error {
	result := s.db.WithContext(ctx).Model(&models.Application{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to set app status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) DeleteApp(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Application{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete app: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) AddVoter(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	result := s.db.WithContext(ctx).Exec(addVoterSQL, email, id, email, email)
	if result.Error != nil {
		return false, fmt.Errorf("failed to add vote: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) RemoveVoter(ctx context.Context, id uuid.UUID, email string) (bool, error) {
	result := s.db.WithContext(ctx).Exec(removeVoterSQL, email, id, email)
	if result.Error != nil {
		return false, fmt.Errorf("failed to remove vote: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

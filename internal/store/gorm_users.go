package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

func (s *GormStore) UpsertUser(ctx context.Context, u *models.User) (*models.User, bool, error) {
	// Postgres keeps microseconds; truncating lets the insert be recognised below.
	now := s.now().Truncate(time.Microsecond)
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.CreatedAt = now
	u.LastLoggedIn = now

	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"last_logged_in": now}),
	}).Create(u).Error
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert user: %w", err)
	}

	stored, err := s.GetUserByEmail(ctx, u.Email)
	if err != nil {
		return nil, false, err
	}
	return stored, stored.CreatedAt.Equal(now), nil
}

func (s *GormStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *GormStore) ListUsers(ctx context.Context, f UserFilter) ([]models.User, int64, error) {
	var users []models.User
	var total int64

	query := s.db.WithContext(ctx).Model(&models.User{}).Where("role <> ?", models.RoleAdmin)
	if f.Search != "" {
		pattern := containsPattern(f.Search)
		query = query.Where("(email ILIKE ? OR name ILIKE ?)", pattern, pattern)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query = query.Order("created_at DESC")
	if f.Limit > 0 {
		query = query.Offset(f.Offset()).Limit(f.Limit)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (s *GormStore) UpdateProfile(ctx context.Context, email, name, photo string) (*models.User, error) {
	updates := map[string]interface{}{}
	if name != "" {
		updates["name"] = name
	}
	if photo != "" {
		updates["photo"] = photo
	}
	if len(updates) > 0 {
		result := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Updates(updates)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to update user: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return nil, ErrNotFound
		}
	}
	return s.GetUserByEmail(ctx, email)
}

func (s *GormStore) SetRoleUnlessAdmin(ctx context.Context, id uuid.UUID, role models.Role) (bool, error) {
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND role <> ?", id, models.RoleAdmin).
		Update("role", role)
	if result.Error != nil {
		return false, fmt.Errorf("failed to update role: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

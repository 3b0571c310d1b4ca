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

type UserService struct {
	users store.UserStore
}

func NewUserService(users store.UserStore) *UserService {
	return &UserService{users: users}
}

// Upsert creates the user on first sign-in, otherwise refreshes its
// last_loggedIn timestamp. The boolean reports whether a row was created.
func (s *UserService) Upsert(ctx context.Context, req *dto.UpsertUserRequest) (*models.User, bool, error) {
	email := normalizeEmail(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, false, fmt.Errorf("%w: a valid email is required", ErrInvalidInput)
	}

	user, created, err := s.users.UpsertUser(ctx, &models.User{
		ID:    uuid.New(),
		Email: email,
		Name:  strings.TrimSpace(req.Name),
		Photo: strings.TrimSpace(req.Photo),
		Role:  models.RoleUser,
	})
	if err != nil {
		return nil, false, fmt.Errorf("failed to save user: %w", err)
	}
	return user, created, nil
}

// RoleOf returns the stored role of email.
func (s *UserService) RoleOf(ctx context.Context, email string) (models.Role, error) {
	user, err := s.users.GetUserByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return "", ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to load user: %w", err)
	}
	return user.Role, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, callerEmail, email string, req *dto.UpdateProfileRequest) (*models.User, error) {
	target := normalizeEmail(email)
	if target == "" || target != normalizeEmail(callerEmail) {
		return nil, fmt.Errorf("%w: you can only update your own profile", ErrForbidden)
	}

	user, err := s.users.UpdateProfile(ctx, target, strings.TrimSpace(req.Name), strings.TrimSpace(req.Photo))
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

// List returns non-admin users. search matches email or name.
func (s *UserService) List(ctx context.Context, page, limit int, search string) ([]models.User, dto.Pagination, error) {
	page, limit = dto.NormalizePage(page, limit)
	users, total, err := s.users.ListUsers(ctx, store.UserFilter{
		Search: strings.TrimSpace(search),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list users: %w", err)
	}
	return users, dto.NewPagination(page, limit, total), nil
}

// UpdateRole changes a user's role. An admin's role is never changed.
func (s *UserService) UpdateRole(ctx context.Context, id uuid.UUID, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	applied, err := s.users.SetRoleUnlessAdmin(ctx, id, role)
	if err != nil {
		return nil, fmt.Errorf("failed to update role: %w", err)
	}

	user, err := s.users.GetUser(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if !applied {
		return nil, ErrAdminRoleLocked
	}
	return user, nil
}

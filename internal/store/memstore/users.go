package memstore

import (
	"context"
	"sort"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) findUserByEmail(email string) *models.User {
	for _, u := range s.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (s *Store) UpsertUser(_ context.Context, u *models.User) (*models.User, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()

	if existing := s.findUserByEmail(u.Email); existing != nil {
		existing.LastLoggedIn = now
		out := *existing
		return &out, false, nil
	}

	stored := *u
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	if stored.Role == "" {
		stored.Role = models.RoleUser
	}
	stored.CreatedAt = now
	stored.LastLoggedIn = now
	s.users[stored.ID] = &stored
	out := stored
	return &out, true, nil
}

func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUserByEmail(email)
	if u == nil {
		return nil, store.ErrNotFound
	}
	out := *u
	return &out, nil
}

func (s *Store) ListUsers(_ context.Context, f store.UserFilter) ([]models.User, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.User
	for _, u := range s.users {
		if u.Role == models.RoleAdmin {
			continue
		}
		if f.Search != "" && !containsFold(u.Email, f.Search) && !containsFold(u.Name, f.Search) {
			continue
		}
		matched = append(matched, *u)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func (s *Store) UpdateProfile(_ context.Context, email, name, photo string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.findUserByEmail(email)
	if u == nil {
		return nil, store.ErrNotFound
	}
	if name != "" {
		u.Name = name
	}
	if photo != "" {
		u.Photo = photo
	}
	out := *u
	return &out, nil
}

func (s *Store) SetRoleUnlessAdmin(_ context.Context, id uuid.UUID, role models.Role) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok || u.Role == models.RoleAdmin {
		return false, nil
	}
	u.Role = role
	return true, nil
}

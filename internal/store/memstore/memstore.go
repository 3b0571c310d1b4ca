// Package memstore is an in-memory store.Store. Every operation runs under a
// single mutex, so conditional mutations are atomic exactly like their SQL
// counterparts. It backs STORE_DRIVER=memory and the package tests.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

type Store struct {
	mu      sync.Mutex
	apps    map[uuid.UUID]*models.Application
	users   map[uuid.UUID]*models.User
	reviews []models.Review
	reports map[uuid.UUID]*models.Report
	coupons map[uuid.UUID]*models.Coupon
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		apps:    make(map[uuid.UUID]*models.Application),
		users:   make(map[uuid.UUID]*models.User),
		reports: make(map[uuid.UUID]*models.Report),
		coupons: make(map[uuid.UUID]*models.Coupon),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// SetClock replaces the clock used for server-assigned timestamps.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Store) Ping(context.Context) error { return nil }

func (s *Store) Close() error { return nil }

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start < 0 || start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func copyApp(a *models.Application) models.Application {
	out := *a
	out.Tags = append([]string{}, a.Tags...)
	out.Voters = append([]string{}, a.Voters...)
	return out
}

func statusRank(s models.AppStatus) int {
	switch s {
	case models.StatusPending:
		return 0
	case models.StatusApproved:
		return 1
	}
	return 2
}

// apps

func (s *Store) CreateApp(_ context.Context, app *models.Application) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := app.BeforeCreate(nil); err != nil {
		return err
	}
	if app.CreatedAt.IsZero() {
		app.CreatedAt = s.now()
	}
	stored := copyApp(app)
	s.apps[app.ID] = &stored
	return nil
}

func (s *Store) GetApp(_ context.Context, id uuid.UUID) (*models.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := copyApp(app)
	return &out, nil
}

func (s *Store) ListApps(_ context.Context, f store.AppFilter) ([]models.Application, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var matched []models.Application
	for _, app := range s.apps {
		if f.Status != "" && app.Status != f.Status {
			continue
		}
		if f.Featured != nil && app.IsFeatured != *f.Featured {
			continue
		}
		if f.OwnerEmail != "" && app.Owner.Email != f.OwnerEmail {
			continue
		}
		if f.Tag != "" && !hasTagLike(app.Tags, f.Tag) {
			continue
		}
		matched = append(matched, copyApp(app))
	}

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		switch f.Sort {
		case store.SortTrending:
			if a.Upvotes != b.Upvotes {
				return a.Upvotes > b.Upvotes
			}
		case store.SortRecent:
		default:
			if ra, rb := statusRank(a.Status), statusRank(b.Status); ra != rb {
				return ra < rb
			}
		}
		return a.CreatedAt.After(b.CreatedAt)
	})

	return paginate(matched, f.Page, f.Limit), int64(len(matched)), nil
}

func hasTagLike(tags []string, needle string) bool {
	for _, t := range tags {
		if containsFold(t, needle) {
			return true
		}
	}
	return false
}

func (s *Store) UpdateAppFields(_ context.Context, id uuid.UUID, ownerEmail string, fields store.AppFields) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok || app.Owner.Email != ownerEmail {
		return false, nil
	}
	app.Name = fields.Name
	app.Title = fields.Title
	app.Website = fields.Website
	app.Description = fields.Description
	app.Tags = append([]string{}, fields.Tags...)
	app.Image = fields.Image
	return true, nil
}

func (s *Store) SetFeatured(_ context.Context, id uuid.UUID, featured bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return store.ErrNotFound
	}
	app.IsFeatured = featured
	return nil
}

func (s *Store) SetStatus(_ context.Context, id uuid.UUID, status models.AppStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok {
		return store.ErrNotFound
	}
	app.Status = status
	return nil
}

func (s *Store) DeleteApp(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.apps[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.apps, id)
	return nil
}

func (s *Store) AddVoter(_ context.Context, id uuid.UUID, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok || app.Owner.Email == email || app.HasVoter(email) {
		return false, nil
	}
	app.Upvotes++
	app.Voters = append(app.Voters, email)
	return true, nil
}

func (s *Store) RemoveVoter(_ context.Context, id uuid.UUID, email string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	app, ok := s.apps[id]
	if !ok || app.Upvotes == 0 || !app.HasVoter(email) {
		return false, nil
	}
	voters := app.Voters[:0]
	for _, v := range app.Voters {
		if v != email {
			voters = append(voters, v)
		}
	}
	app.Voters = voters
	app.Upvotes--
	return true, nil
}

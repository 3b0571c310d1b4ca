package memstore

import (
	"context"
	"sort"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

func (s *Store) InsertReportIfAbsent(_ context.Context, r *models.Report) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.reports {
		if existing.AppID == r.AppID && existing.UserEmail == r.UserEmail {
			return false, nil
		}
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	stored := *r
	s.reports[stored.ID] = &stored
	return true, nil
}

// newer orders reports newest first with the id as tie-breaker.
func newer(a, b *models.Report) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID.String() > b.ID.String()
}

func (s *Store) latestPerApp() []*models.Report {
	latest := make(map[uuid.UUID]*models.Report)
	for _, r := range s.reports {
		if cur, ok := latest[r.AppID]; !ok || newer(r, cur) {
			latest[r.AppID] = r
		}
	}
	out := make([]*models.Report, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i], out[j]) })
	return out
}

func (s *Store) LatestReportPerApp(_ context.Context, offset, limit int) ([]store.ReportRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	latest := s.latestPerApp()
	if offset < 0 || offset >= len(latest) {
		return []store.ReportRow{}, nil
	}
	end := len(latest)
	if limit > 0 && limit < end-offset {
		end = offset + limit
	}

	rows := make([]store.ReportRow, 0, end-offset)
	for _, r := range latest[offset:end] {
		row := store.ReportRow{Report: *r}
		if app, ok := s.apps[r.AppID]; ok {
			a := copyApp(app)
			row.App = &a
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Store) CountReportedApps(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := make(map[uuid.UUID]struct{})
	for _, r := range s.reports {
		seen[r.AppID] = struct{}{}
	}
	return int64(len(seen)), nil
}

func (s *Store) ListReportsForApp(_ context.Context, appID uuid.UUID) ([]models.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Report
	for _, r := range s.reports {
		if r.AppID == appID {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(&out[i], &out[j]) })
	return out, nil
}

func (s *Store) DeleteReport(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reports[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.reports, id)
	return nil
}

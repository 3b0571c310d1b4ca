package services

import (
	"context"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// steppingClock returns base, base+step, base+2*step, ... on each call.
func steppingClock(base time.Time, step time.Duration) func() time.Time {
	n := 0
	return func() time.Time {
		t := base.Add(time.Duration(n) * step)
		n++
		return t
	}
}

func seedApp(t *testing.T, s *memstore.Store, owner string) *models.Application {
	t.Helper()
	app := &models.Application{ID: uuid.New(), Name: "Orbit", Owner: models.Owner{Email: owner}}
	require.NoError(t, s.CreateApp(context.Background(), app))
	return app
}

func seedUser(t *testing.T, s *memstore.Store, email string, role models.Role) *models.User {
	t.Helper()
	u, _, err := s.UpsertUser(context.Background(), &models.User{Email: email, Role: role})
	require.NoError(t, err)
	return u
}

package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleUser.Valid())
	assert.True(t, RoleModerator.Valid())
	assert.True(t, RoleAdmin.Valid())
	assert.False(t, Role("owner").Valid())
	assert.False(t, Role("").Valid())
}

func TestAppStatusValid(t *testing.T) {
	assert.True(t, StatusPending.Valid())
	assert.False(t, AppStatus("archived").Valid())
}

func TestApplicationBeforeCreate(t *testing.T) {
	app := &Application{Name: "Orbit"}
	require.NoError(t, app.BeforeCreate(nil))

	assert.NotEqual(t, uuid.Nil, app.ID)
	assert.NotNil(t, app.Tags)
	assert.NotNil(t, app.Voters)
	assert.Equal(t, StatusPending, app.Status)
}

func TestApplicationHasVoter(t *testing.T) {
	app := &Application{Voters: []string{"b@x.com"}}
	assert.True(t, app.HasVoter("b@x.com"))
	assert.False(t, app.HasVoter("c@x.com"))
}

func TestCouponValidAt(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	c := &Coupon{IsActive: true, ExpiryDate: now.Add(time.Hour)}
	assert.True(t, c.ValidAt(now))

	c.ExpiryDate = now
	assert.False(t, c.ValidAt(now))

	c.ExpiryDate = now.Add(time.Hour)
	c.IsActive = false
	assert.False(t, c.ValidAt(now))
}

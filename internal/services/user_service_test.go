package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserUpsert_CreatesOnce(t *testing.T) {
	ctx := context.Background()
	svc := NewUserService(memstore.New())

	first, created, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "Ada@X.com", Name: "Ada"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "ada@x.com", first.Email)
	assert.Equal(t, models.RoleUser, first.Role)

	again, created, err := svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "ada@x.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)

	_, _, err = svc.Upsert(ctx, &dto.UpsertUserRequest{Email: "nope"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserRoleOf(t *testing.T) {
	st := memstore.New()
	svc := NewUserService(st)
	seedUser(t, st, "mod@x.com", models.RoleModerator)

	role, err := svc.RoleOf(context.Background(), "MOD@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, role)

	_, err = svc.RoleOf(context.Background(), "ghost@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserUpdateRole(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewUserService(st)
	admin := seedUser(t, st, "root@x.com", models.RoleAdmin)
	user := seedUser(t, st, "u@x.com", models.RoleUser)

	updated, err := svc.UpdateRole(ctx, user.ID, models.RoleModerator)
	require.NoError(t, err)
	assert.Equal(t, models.RoleModerator, updated.Role)

	_, err = svc.UpdateRole(ctx, admin.ID, models.RoleUser)
	assert.ErrorIs(t, err, ErrAdminRoleLocked)
	stored, _ := st.GetUser(ctx, admin.ID)
	assert.Equal(t, models.RoleAdmin, stored.Role)

	_, err = svc.UpdateRole(ctx, uuid.New(), models.RoleUser)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.UpdateRole(ctx, user.ID, "owner")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUserUpdateProfile_SelfOnly(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewUserService(st)
	seedUser(t, st, "u@x.com", models.RoleUser)

	_, err := svc.UpdateProfile(ctx, "other@x.com", "u@x.com", &dto.UpdateProfileRequest{Name: "X"})
	assert.ErrorIs(t, err, ErrForbidden)

	user, err := svc.UpdateProfile(ctx, "u@x.com", "u@x.com", &dto.UpdateProfileRequest{Name: "Una", Photo: "https://img/u.png"})
	require.NoError(t, err)
	assert.Equal(t, "Una", user.Name)
	assert.Equal(t, "https://img/u.png", user.Photo)

	_, err = svc.UpdateProfile(ctx, "ghost@x.com", "ghost@x.com", &dto.UpdateProfileRequest{Name: "G"})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserList_HidesAdmins(t *testing.T) {
	st := memstore.New()
	svc := NewUserService(st)
	seedUser(t, st, "root@x.com", models.RoleAdmin)
	seedUser(t, st, "u1@x.com", models.RoleUser)
	seedUser(t, st, "u2@x.com", models.RoleModerator)

	users, page, err := svc.List(context.Background(), 1, 10, "")
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, int64(2), page.Total)
	for _, u := range users {
		assert.NotEqual(t, models.RoleAdmin, u.Role)
	}

	users, _, err = svc.List(context.Background(), 1, 10, "u2")
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

package services

import (
	"context"
	"testing"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store/memstore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppCreate_OwnerIsCaller(t *testing.T) {
	st := memstore.New()
	svc := NewAppService(st, st)

	app, err := svc.Create(context.Background(), "A@x.com", &dto.CreateAppRequest{
		Name:  "Orbit",
		Tags:  []string{" AI ", "ai", "", "tools"},
		Owner: &dto.OwnerRequest{Name: "Ada", Email: "a@x.com"},
	})
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", app.Owner.Email)
	assert.Equal(t, "Ada", app.Owner.Name)
	assert.Equal(t, models.StatusPending, app.Status)
	assert.Equal(t, 0, app.Upvotes)
	assert.Equal(t, []string{"AI", "tools"}, []string(app.Tags))
}

func TestAppCreate_Validation(t *testing.T) {
	svc := NewAppService(memstore.New(), memstore.New())

	_, err := svc.Create(context.Background(), "a@x.com", &dto.CreateAppRequest{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Create(context.Background(), "a@x.com", &dto.CreateAppRequest{
		Name:  "Orbit",
		Owner: &dto.OwnerRequest{Email: "someone@else.com"},
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAppUpdate_OnlyOwner(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAppService(st, st)
	app := seedApp(t, st, "a@x.com")

	_, err := svc.Update(ctx, app.ID, "b@x.com", &dto.UpdateAppRequest{Name: "Hijack"})
	assert.ErrorIs(t, err, ErrNotOwner)

	_, err = svc.Update(ctx, uuid.New(), "a@x.com", &dto.UpdateAppRequest{Name: "Ghost"})
	assert.ErrorIs(t, err, ErrAppNotFound)

	updated, err := svc.Update(ctx, app.ID, "a@x.com", &dto.UpdateAppRequest{Name: "Orbit 2", Tags: []string{"dev"}})
	require.NoError(t, err)
	assert.Equal(t, "Orbit 2", updated.Name)
	assert.Equal(t, []string{"dev"}, []string(updated.Tags))
}

func TestAppDelete_OwnerOrModerator(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAppService(st, st)
	seedUser(t, st, "mod@x.com", models.RoleModerator)
	seedUser(t, st, "user@x.com", models.RoleUser)

	app := seedApp(t, st, "a@x.com")
	assert.ErrorIs(t, svc.Delete(ctx, app.ID, "user@x.com"), ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, app.ID, "stranger@x.com"), ErrForbidden)
	require.NoError(t, svc.Delete(ctx, app.ID, "mod@x.com"))
	assert.ErrorIs(t, svc.Delete(ctx, app.ID, "a@x.com"), ErrAppNotFound)

	own := seedApp(t, st, "a@x.com")
	require.NoError(t, svc.Delete(ctx, own.ID, "a@x.com"))
}

func TestAppModeration(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAppService(st, st)
	app := seedApp(t, st, "a@x.com")

	featured, err := svc.SetFeatured(ctx, app.ID, true)
	require.NoError(t, err)
	assert.True(t, featured.IsFeatured)

	approved, err := svc.SetStatus(ctx, app.ID, models.StatusApproved)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	_, err = svc.SetStatus(ctx, app.ID, "archived")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.SetFeatured(ctx, uuid.New(), true)
	assert.ErrorIs(t, err, ErrAppNotFound)
}

func TestAppList(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAppService(st, st)
	seedApp(t, st, "a@x.com")
	approved := seedApp(t, st, "b@x.com")
	require.NoError(t, st.SetStatus(ctx, approved.ID, models.StatusApproved))

	apps, err := svc.List(ctx, store.AppFilter{Status: models.StatusApproved})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, approved.ID, apps[0].ID)

	_, err = svc.List(ctx, store.AppFilter{Status: "archived"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.List(ctx, store.AppFilter{Sort: "popular"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAppListByOwner(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAppService(st, st)
	seedApp(t, st, "a@x.com")
	seedApp(t, st, "b@x.com")

	apps, page, err := svc.ListByOwner(ctx, "a@x.com", "A@x.com", 0, 0)
	require.NoError(t, err)
	assert.Len(t, apps, 1)
	assert.Equal(t, int64(1), page.Total)
	assert.Equal(t, 10, page.Limit)

	_, _, err = svc.ListByOwner(ctx, "a@x.com", "b@x.com", 1, 10)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAppPaginatedSearchByTag(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	svc := NewAppService(st, st)

	_, err := svc.Create(ctx, "a@x.com", &dto.CreateAppRequest{Name: "One", Tags: []string{"Productivity"}})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "a@x.com", &dto.CreateAppRequest{Name: "Two", Tags: []string{"games"}})
	require.NoError(t, err)

	apps, page, err := svc.Paginated(ctx, 1, 10, "product")
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "One", apps[0].Name)
	assert.Equal(t, int64(1), page.Total)
}

func TestAppPaginated_HugePageIsEmpty(t *testing.T) {
	st := memstore.New()
	svc := NewAppService(st, st)
	seedApp(t, st, "a@x.com")

	apps, page, err := svc.Paginated(context.Background(), 92233720368547760, 100, "")
	require.NoError(t, err)
	assert.Empty(t, apps)
	assert.Equal(t, int64(1), page.Total)
}

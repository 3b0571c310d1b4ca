package store

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockStore(t *testing.T) (*GormStore, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return NewGormStore(db), mock
}

func TestAddVoter_SingleConditionalUpdate(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE apps\s+SET upvotes = upvotes \+ 1, voters = voters \|\| jsonb_build_array`).
		WithArgs("b@x.com", id, "b@x.com", "b@x.com").
		WillReturnResult(sqlmock.NewResult(0, 1))

	applied, err := s.AddVoter(context.Background(), id, "b@x.com")
	require.NoError(t, err)
	assert.True(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddVoter_NoMatch(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE apps`).WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := s.AddVoter(context.Background(), id, "a@x.com")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRemoveVoter_GuardsAgainstNegativeCount(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`SET upvotes = upvotes - 1, voters = voters - .+WHERE id = .+ AND upvotes > 0`).
		WithArgs("b@x.com", id, "b@x.com").
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := s.RemoveVoter(context.Background(), id, "b@x.com")
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetRoleUnlessAdmin(t *testing.T) {
	s, mock := newMockStore(t)
	id := uuid.New()

	mock.ExpectExec(`UPDATE "users" SET "role"=.+ WHERE id = .+ AND role <> `).
		WithArgs(models.RoleModerator, id, models.RoleAdmin).
		WillReturnResult(sqlmock.NewResult(0, 0))

	applied, err := s.SetRoleUnlessAdmin(context.Background(), id, models.RoleModerator)
	require.NoError(t, err)
	assert.False(t, applied)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestReportPerApp_LeftJoin(t *testing.T) {
	s, mock := newMockStore(t)
	appID := uuid.New()
	goneAppID := uuid.New()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)

	columns := []string{
		"id", "app_id", "user_email", "product_name", "reason", "created_at",
		"app_ref_id", "app_name", "app_title", "app_website", "app_image",
		"app_owner_name", "app_owner_email", "app_owner_image", "app_status",
		"app_is_featured", "app_upvotes", "app_created_at",
	}
	rows := sqlmock.NewRows(columns).
		AddRow(uuid.New().String(), appID.String(), "u2@x.com", "Orbit", "", now,
			appID.String(), "Orbit", "Orbit title", "https://orbit.dev", "img",
			"Owner", "a@x.com", "", "approved", true, 3, now.Add(-time.Hour)).
		AddRow(uuid.New().String(), goneAppID.String(), "u3@x.com", "Gone", "", now.Add(-time.Minute),
			nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)

	mock.ExpectQuery(`SELECT DISTINCT ON \(app_id\)`).
		WithArgs(10, 0).
		WillReturnRows(rows)

	out, err := s.LatestReportPerApp(context.Background(), 0, 10)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, appID, out[0].Report.AppID)
	require.NotNil(t, out[0].App)
	assert.Equal(t, "a@x.com", out[0].App.Owner.Email)
	assert.Equal(t, models.StatusApproved, out[0].App.Status)

	assert.Equal(t, goneAppID, out[1].Report.AppID)
	assert.Nil(t, out[1].App)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountReportedApps_CountsDistinctApps(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectQuery(`SELECT COUNT\(DISTINCT app_id\) FROM reports`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	total, err := s.CountReportedApps(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteReport_NotFound(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectExec(`DELETE FROM "reports"`).WillReturnResult(sqlmock.NewResult(0, 0))

	err := s.DeleteReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%ai\_tools\%%`, containsPattern("ai_tools%"))
}

const insertReportPattern = `INSERT INTO "reports" .* ON CONFLICT \("app_id","user_email"\) DO NOTHING RETURNING "id"`

func TestInsertReportIfAbsent_FreshRow(t *testing.T) {
	s, mock := newMockStore(t)
	report := &models.Report{ID: uuid.New(), AppID: uuid.New(), UserEmail: "u@x.com"}

	mock.ExpectQuery(insertReportPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(report.ID.String()))

	inserted, err := s.InsertReportIfAbsent(context.Background(), report)
	require.NoError(t, err)
	assert.True(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertReportIfAbsent_ConflictIsNotInserted(t *testing.T) {
	s, mock := newMockStore(t)
	report := &models.Report{ID: uuid.New(), AppID: uuid.New(), UserEmail: "u@x.com"}

	mock.ExpectQuery(insertReportPattern).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	inserted, err := s.InsertReportIfAbsent(context.Background(), report)
	require.NoError(t, err)
	assert.False(t, inserted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func userRows(id uuid.UUID, email string, createdAt, lastLoggedIn time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "photo", "role", "created_at", "last_logged_in"}).
		AddRow(id.String(), email, "", "", "user", createdAt, lastLoggedIn)
}

func TestUpsertUser_FirstSignInIsCreated(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })
	id := uuid.New()

	mock.ExpectQuery(`INSERT INTO "users" .* ON CONFLICT \("email"\) DO UPDATE SET "last_logged_in"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(userRows(id, "new@x.com", now, now))

	user, created, err := s.UpsertUser(context.Background(), &models.User{Email: "new@x.com"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, id, user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertUser_ReturningUserIsNotCreated(t *testing.T) {
	s, mock := newMockStore(t)
	now := time.Date(2026, 10, 18, 9, 30, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })
	id := uuid.New()
	firstSeen := now.Add(-72 * time.Hour)

	mock.ExpectQuery(`INSERT INTO "users" .* ON CONFLICT \("email"\) DO UPDATE SET "last_logged_in"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(userRows(id, "old@x.com", firstSeen, now))

	user, created, err := s.UpsertUser(context.Background(), &models.User{Email: "old@x.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, firstSeen, user.CreatedAt)
	assert.Equal(t, now, user.LastLoggedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

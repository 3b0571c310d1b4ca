package store

import (
	"context"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// latestReportsSQL keeps the newest report per app_id, left-joins the
// application and orders the deduplicated set newest first.
const latestReportsSQL = `SELECT latest.id, latest.app_id, latest.user_email, latest.product_name, latest.reason, latest.created_at,
	a.id AS app_ref_id, a.name AS app_name, a.title AS app_title, a.website AS app_website,
	a.image AS app_image, a.owner_name AS app_owner_name, a.owner_email AS app_owner_email,
	a.owner_image AS app_owner_image, a.status AS app_status, a.is_featured AS app_is_featured,
	a.upvotes AS app_upvotes, a.created_at AS app_created_at
FROM (
	SELECT DISTINCT ON (app_id) id, app_id, user_email, product_name, reason, created_at
	FROM reports
	ORDER BY app_id, created_at DESC, id DESC
) AS latest
LEFT JOIN apps a ON a.id = latest.app_id
ORDER BY latest.created_at DESC, latest.id DESC
LIMIT ? OFFSET ?`

const countReportedAppsSQL = `SELECT COUNT(DISTINCT app_id) FROM reports`

type reportJoinRow struct {
	ID            uuid.UUID
	AppID         uuid.UUID
	UserEmail     string
	ProductName   string
	Reason        string
	CreatedAt     time.Time
	AppRefID      *uuid.UUID
	AppName       *string
	AppTitle      *string
	AppWebsite    *string
	AppImage      *string
	AppOwnerName  *string
	AppOwnerEmail *string
	AppOwnerImage *string
	AppStatus     *string
	AppIsFeatured *bool
	AppUpvotes    *int
	AppCreatedAt  *time.Time
}

func (r reportJoinRow) toReportRow() ReportRow {
	row := ReportRow{Report: models.Report{
		ID:          r.ID,
		AppID:       r.AppID,
		UserEmail:   r.UserEmail,
		ProductName: r.ProductName,
		Reason:      r.Reason,
		CreatedAt:   r.CreatedAt,
	}}
	if r.AppRefID == nil {
		return row
	}
	app := &models.Application{ID: *r.AppRefID}
	app.Name = deref(r.AppName)
	app.Title = deref(r.AppTitle)
	app.Website = deref(r.AppWebsite)
	app.Image = deref(r.AppImage)
	app.Owner = models.Owner{
		Name:  deref(r.AppOwnerName),
		Email: deref(r.AppOwnerEmail),
		Image: deref(r.AppOwnerImage),
	}
	app.Status = models.AppStatus(deref(r.AppStatus))
	if r.AppIsFeatured != nil {
		app.IsFeatured = *r.AppIsFeatured
	}
	if r.AppUpvotes != nil {
		app.Upvotes = *r.AppUpvotes
	}
	if r.AppCreatedAt != nil {
		app.CreatedAt = *r.AppCreatedAt
	}
	row.App = app
	return row
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (s *GormStore) InsertReportIfAbsent(ctx context.Context, r *models.Report) (bool, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	result := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "app_id"}, {Name: "user_email"}},
		DoNothing: true,
	}).Create(r)
	if result.Error != nil {
		return false, fmt.Errorf("failed to create report: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (s *GormStore) LatestReportPerApp(ctx context.Context, offset, limit int) ([]ReportRow, error) {
	var rows []reportJoinRow
	if err := s.db.WithContext(ctx).Raw(latestReportsSQL, limit, offset).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate reports: %w", err)
	}
	out := make([]ReportRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toReportRow())
	}
	return out, nil
}

func (s *GormStore) CountReportedApps(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Raw(countReportedAppsSQL).Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count reported apps: %w", err)
	}
	return total, nil
}

func (s *GormStore) ListReportsForApp(ctx context.Context, appID uuid.UUID) ([]models.Report, error) {
	var reports []models.Report
	err := s.db.WithContext(ctx).
		Where("app_id = ?", appID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *GormStore) DeleteReport(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Report{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete report: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

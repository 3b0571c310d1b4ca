package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/metrics"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/store"
	"github.com/google/uuid"
)

const maxReasonLength = 500

type ReportService struct {
	reports store.ReportStore
	metrics metrics.Recorder
}

func NewReportService(reports store.ReportStore, rec metrics.Recorder) *ReportService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &ReportService{reports: reports, metrics: rec}
}

// FileReport stores a report unless the same user already reported the app.
func (s *ReportService) FileReport(ctx context.Context, appID uuid.UUID, userEmail, productName, reason string) (*models.Report, error) {
	email := normalizeEmail(userEmail)
	if email == "" {
		return nil, fmt.Errorf("%w: user email is required", ErrInvalidInput)
	}
	reason = strings.TrimSpace(reason)
	if len(reason) > maxReasonLength {
		return nil, fmt.Errorf("%w: reason must be at most %d characters", ErrInvalidInput, maxReasonLength)
	}

	report := &models.Report{
		ID:          uuid.New(),
		AppID:       appID,
		UserEmail:   email,
		ProductName: strings.TrimSpace(productName),
		Reason:      reason,
	}
	inserted, err := s.reports.InsertReportIfAbsent(ctx, report)
	if err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	if !inserted {
		return nil, ErrAlreadyReported
	}

	s.metrics.RecordReportFiled()
	return report, nil
}

// ListReports returns the latest report of each reported application, newest
// first. The total counts distinct applications.
func (s *ReportService) ListReports(ctx context.Context, page, limit int) ([]dto.ReportedApp, dto.Pagination, error) {
	page, limit = dto.NormalizePage(page, limit)

	total, err := s.reports.CountReportedApps(ctx)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to count reports: %w", err)
	}

	rows, err := s.reports.LatestReportPerApp(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, dto.Pagination{}, fmt.Errorf("failed to list reports: %w", err)
	}

	items := make([]dto.ReportedApp, 0, len(rows))
	for _, row := range rows {
		items = append(items, dto.ReportedApp{
			ID:          row.Report.ID,
			AppID:       row.Report.AppID,
			UserEmail:   row.Report.UserEmail,
			ProductName: row.Report.ProductName,
			Reason:      row.Report.Reason,
			CreatedAt:   row.Report.CreatedAt,
			App:         row.App,
		})
	}
	return items, dto.NewPagination(page, limit, total), nil
}

func (s *ReportService) ReportsForApp(ctx context.Context, appID uuid.UUID) ([]models.Report, error) {
	reports, err := s.reports.ListReportsForApp(ctx, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) DeleteReport(ctx context.Context, reportID uuid.UUID) error {
	err := s.reports.DeleteReport(ctx, reportID)
	if errors.Is(err, store.ErrNotFound) {
		return ErrReportNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return nil
}

package dto

import (
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/google/uuid"
)

type CreateReportRequest struct {
	AppID       string `json:"appId"`
	ProductName string `json:"productName"`
	Reason      string `json:"reason"`
}

// ReportedApp is the latest report of one application. App is null when the
// application has been deleted.
type ReportedApp struct {
	ID          uuid.UUID           `json:"_id"`
	AppID       uuid.UUID           `json:"appId"`
	UserEmail   string              `json:"userEmail"`
	ProductName string              `json:"productName"`
	Reason      string              `json:"reason,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	App         *models.Application `json:"app"`
}

type ReportListResponse struct {
	Reports    []ReportedApp `json:"reports"`
	Pagination Pagination    `json:"pagination"`
}

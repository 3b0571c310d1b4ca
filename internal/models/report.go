package models

import (
	"time"

	"github.com/google/uuid"
)

// Report flags an application. At most one report exists per (AppID, UserEmail).
type Report struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"_id"`
	AppID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_reports_app_user,priority:1;index" json:"appId"`
	UserEmail   string    `gorm:"size:255;not null;uniqueIndex:idx_reports_app_user,priority:2" json:"userEmail"`
	ProductName string    `gorm:"size:255" json:"productName"`
	Reason      string    `gorm:"size:500" json:"reason,omitempty"`
	CreatedAt   time.Time `gorm:"not null;index" json:"createdAt"`
}

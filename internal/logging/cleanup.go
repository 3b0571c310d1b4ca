package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/apporbit-backend/internal/models"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// Retention is how long system_logs rows are kept.
const Retention = 30 * 24 * time.Hour

// PurgeOld deletes system_logs rows older than Retention relative to now.
func PurgeOld(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("timestamp < ?", now.Add(-Retention)).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup schedules a daily purge of old system logs. Callers stop the
// returned scheduler on shutdown.
func StartCleanup(db *gorm.DB) (*cron.Cron, error) {
	c := cron.New()
	_, err := c.AddFunc("@daily", func() {
		deleted, err := PurgeOld(db, time.Now())
		if err != nil {
			slog.Error("log cleanup failed", "error", err)
			return
		}
		if deleted > 0 {
			slog.Info("log cleanup completed", "deleted", deleted)
		}
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return c, nil
}

package logging

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/signalforge/internal/models"
	"gorm.io/gorm"
)

// PurgeOlderThan deletes system_logs rows older than retention.
func PurgeOlderThan(db *gorm.DB, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result := db.Where("timestamp < ?", cutoff).Delete(&models.SystemLog{})
	return result.RowsAffected, result.Error
}

// StartCleanup runs a daily goroutine that enforces the log retention window
// until done is closed.
func StartCleanup(db *gorm.DB, retentionDays int, done <-chan struct{}) {
	go runCleanup(db, time.Duration(retentionDays)*24*time.Hour, 24*time.Hour, done)
}

func runCleanup(db *gorm.DB, retention, every time.Duration, done <-chan struct{}) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			deleted, err := PurgeOlderThan(db, retention)
			if err != nil {
				slog.Error("log cleanup failed", "error", err)
			} else if deleted > 0 {
				slog.Info("log cleanup completed", "deleted", deleted)
			}
		case <-done:
			return
		}
	}
}

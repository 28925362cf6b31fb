package CronJobs

import (
	"fmt"
	"log"
	"time"

	"Aegis/Models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// NotificationJanitor deletes read notifications older than the
// retention window on a daily schedule. Unread rows are never touched.
type NotificationJanitor struct {
	db            *gorm.DB
	cronScheduler *cron.Cron
	retentionDays int
	jobID         cron.EntryID
}

// NewNotificationJanitor creates a janitor with the given retention in
// days. Zero or negative retention disables the purge entirely.
func NewNotificationJanitor(db *gorm.DB, retentionDays int) *NotificationJanitor {
	return &NotificationJanitor{
		db:            db,
		cronScheduler: cron.New(cron.WithSeconds()),
		retentionDays: retentionDays,
	}
}

// Start schedules the nightly purge at 3:00 AM.
func (j *NotificationJanitor) Start() error {
	if j.retentionDays <= 0 {
		log.Println("notification retention disabled, janitor not started")
		return nil
	}

	var err error
	j.jobID, err = j.cronScheduler.AddFunc("0 0 3 * * *", func() {
		count, err := j.Purge()
		if err != nil {
			log.Printf("notification purge failed: %v", err)
			return
		}
		log.Printf("notification purge removed %d read rows", count)
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	j.cronScheduler.Start()
	return nil
}

// Stop terminates the scheduler.
func (j *NotificationJanitor) Stop() {
	j.cronScheduler.Stop()
}

// Purge removes read rows older than the retention window and returns
// how many were deleted.
func (j *NotificationJanitor) Purge() (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -j.retentionDays)
	result := j.db.Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&Models.Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

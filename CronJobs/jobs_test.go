package CronJobs

import (
	"fmt"
	"testing"
	"time"

	"Aegis/Models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Models.Migrate(db))
	return db
}

func seedNotification(t *testing.T, db *gorm.DB, read bool, age time.Duration) {
	t.Helper()
	require.NoError(t, db.Create(&Models.Notification{
		TaskID:        1,
		PartName:      "Bolt",
		SapCode:       "X1",
		RecipientRole: Models.RoleHOD,
		Read:          read,
		CreatedAt:     time.Now().Add(-age),
	}).Error)
}

func TestPurgeRemovesOnlyOldReadRows(t *testing.T) {
	db := newTestDB(t)
	seedNotification(t, db, true, 100*24*time.Hour)  // old and read: purged
	seedNotification(t, db, false, 100*24*time.Hour) // old but unread: kept
	seedNotification(t, db, true, 24*time.Hour)      // read but recent: kept

	janitor := NewNotificationJanitor(db, 90)
	count, err := janitor.Purge()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var remaining int64
	require.NoError(t, db.Model(&Models.Notification{}).Count(&remaining).Error)
	assert.Equal(t, int64(2), remaining)
}

func TestStartDisabledWithoutRetention(t *testing.T) {
	db := newTestDB(t)
	janitor := NewNotificationJanitor(db, 0)
	require.NoError(t, janitor.Start())
	janitor.Stop()
}

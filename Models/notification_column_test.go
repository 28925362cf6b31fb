package Models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// The read flag must persist as is_read: READ is reserved in MySQL and
// an unquoted "read" in a where clause is a syntax error there.
func TestReadFlagColumnName(t *testing.T) {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	assert.True(t, db.Migrator().HasColumn(&Notification{}, "is_read"))
	assert.False(t, db.Migrator().HasColumn(&Notification{}, "read"))

	// raw conditions on the renamed column stay usable
	require.NoError(t, db.Create(&Notification{
		TaskID:        1,
		PartName:      "Bolt",
		SapCode:       "X1",
		RecipientRole: RoleHOD,
	}).Error)
	var unread int64
	require.NoError(t, db.Model(&Notification{}).
		Where("is_read = ?", false).Count(&unread).Error)
	assert.Equal(t, int64(1), unread)
}

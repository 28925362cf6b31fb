package Controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"Aegis/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newLedgerApp wires the notification routes behind a stub that plays
// the part of the auth middleware for the given role.
func newLedgerApp(db *gorm.DB, role Models.Role) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", Models.User{Role: role})
		return c.Next()
	})
	controller := NewNotificationController(db)
	app.Get("/api/notifications", controller.GetNotifications)
	app.Get("/api/notifications/unread-count", controller.GetUnreadCount)
	app.Put("/api/notifications/:id/read", controller.MarkRead)
	app.Delete("/api/notifications", controller.Clear)
	return app
}

func seedLedger(t *testing.T, db *gorm.DB) map[Models.Role]Models.Notification {
	t.Helper()
	base := time.Now().Add(-time.Hour)
	rows := map[Models.Role]Models.Notification{}
	for i, role := range []Models.Role{Models.RoleHOD, Models.RolePDC, Models.RoleEmployee, Models.RoleAll} {
		notification := Models.Notification{
			TaskID:        1,
			PartName:      "Bolt",
			SapCode:       "X1",
			Location:      "Line3",
			RecipientRole: role,
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, db.Create(&notification).Error)
		rows[role] = notification
	}
	return rows
}

func decodeNotifications(t *testing.T, resp *http.Response) []Models.Notification {
	t.Helper()
	var notifications []Models.Notification
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&notifications))
	return notifications
}

func TestListNotificationsScopedToRole(t *testing.T) {
	db := newTestDB(t)
	seedLedger(t, db)
	app := newLedgerApp(db, Models.RoleHOD)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notifications", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	notifications := decodeNotifications(t, resp)
	require.Len(t, notifications, 2)
	// newest first: the "all" row was seeded after the HOD row
	assert.Equal(t, Models.RoleAll, notifications[0].RecipientRole)
	assert.Equal(t, Models.RoleHOD, notifications[1].RecipientRole)
}

func TestMarkReadForeignRoleIsNotFound(t *testing.T) {
	db := newTestDB(t)
	rows := seedLedger(t, db)
	app := newLedgerApp(db, Models.RoleHOD)

	url := fmt.Sprintf("/api/notifications/%d/read", rows[Models.RolePDC].ID)
	resp, err := app.Test(httptest.NewRequest(http.MethodPut, url, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	var row Models.Notification
	require.NoError(t, db.First(&row, rows[Models.RolePDC].ID).Error)
	assert.False(t, row.Read)
}

func TestMarkReadOwnAndAllRows(t *testing.T) {
	db := newTestDB(t)
	rows := seedLedger(t, db)
	app := newLedgerApp(db, Models.RoleHOD)

	for _, id := range []uint{rows[Models.RoleHOD].ID, rows[Models.RoleAll].ID} {
		url := fmt.Sprintf("/api/notifications/%d/read", id)
		resp, err := app.Test(httptest.NewRequest(http.MethodPut, url, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		var row Models.Notification
		require.NoError(t, db.First(&row, id).Error)
		assert.True(t, row.Read)
	}
}

func TestUnreadCount(t *testing.T) {
	db := newTestDB(t)
	rows := seedLedger(t, db)
	require.NoError(t, db.Model(&Models.Notification{}).
		Where("id = ?", rows[Models.RoleHOD].ID).Update("is_read", true).Error)

	app := newLedgerApp(db, Models.RoleHOD)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/notifications/unread-count", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Unread int64 `json:"unread"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(1), body.Unread) // only the "all" row remains unread
}

func TestClearDeletesOnlyVisibleRows(t *testing.T) {
	db := newTestDB(t)
	seedLedger(t, db)
	app := newLedgerApp(db, Models.RoleHOD)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/notifications", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Deleted int64 `json:"deleted"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(2), body.Deleted)

	var remaining []Models.Notification
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, row := range remaining {
		assert.NotEqual(t, Models.RoleHOD, row.RecipientRole)
		assert.NotEqual(t, Models.RoleAll, row.RecipientRole)
	}
}

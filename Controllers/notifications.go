package Controllers

import (
	"errors"
	"strconv"

	"Aegis/Models"
	"Aegis/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// NotificationController handles the durable notification ledger.
// Every read and write is scoped by the requesting session's role:
// a row is visible iff it is addressed to that role or to "all".
type NotificationController struct {
	DB *gorm.DB
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(db *gorm.DB) *NotificationController {
	return &NotificationController{DB: db}
}

func requesterRole(ctx *fiber.Ctx) (Models.Role, error) {
	user, ok := middleware.CurrentUser(ctx)
	if !ok {
		return "", errors.New("not logged in")
	}
	if !user.Role.CanReadLedger() {
		return "", errors.New("role has no ledger access")
	}
	return user.Role, nil
}

// GetNotifications lists the requesting role's ledger, newest first
// GET /api/notifications
func (n *NotificationController) GetNotifications(ctx *fiber.Ctx) error {
	role, err := requesterRole(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	}

	var notifications []Models.Notification
	if err := n.DB.
		Where("recipient_role IN ?", []Models.Role{role, Models.RoleAll}).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve notifications"})
	}

	return ctx.JSON(notifications)
}

// GetUnreadCount returns how many visible rows are unread
// GET /api/notifications/unread-count
func (n *NotificationController) GetUnreadCount(ctx *fiber.Ctx) error {
	role, err := requesterRole(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	}

	var count int64
	if err := n.DB.Model(&Models.Notification{}).
		Where("recipient_role IN ? AND is_read = ?", []Models.Role{role, Models.RoleAll}, false).
		Count(&count).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to count notifications"})
	}

	return ctx.JSON(fiber.Map{"unread": count})
}

// MarkRead flips a visible notification to read. A row addressed to a
// different role answers 404, never 403, so its existence stays
// hidden.
// PUT /api/notifications/:id/read
func (n *NotificationController) MarkRead(ctx *fiber.Ctx) error {
	role, err := requesterRole(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	}

	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification ID"})
	}

	var notification Models.Notification
	if err := n.DB.First(&notification, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	// Rows of other roles answer the same 404 as missing rows.
	if !role.CanSee(notification.RecipientRole) {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Notification not found"})
	}

	if !notification.Read {
		notification.Read = true
		if err := n.DB.Model(&notification).Update("is_read", true).Error; err != nil {
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update notification"})
		}
	}

	return ctx.JSON(notification)
}

// Clear deletes every row visible to the requesting role and returns
// the count. This is a hard delete.
// DELETE /api/notifications
func (n *NotificationController) Clear(ctx *fiber.Ctx) error {
	role, err := requesterRole(ctx)
	if err != nil {
		return ctx.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": err.Error()})
	}

	result := n.DB.
		Where("recipient_role IN ?", []Models.Role{role, Models.RoleAll}).
		Delete(&Models.Notification{})
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to clear notifications"})
	}

	return ctx.JSON(fiber.Map{
		"message": "Notifications cleared",
		"deleted": result.RowsAffected,
	})
}

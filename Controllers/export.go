package Controllers

import (
	"bytes"
	"fmt"
	"time"

	"Aegis/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportNotifications streams the requesting role's ledger as an xlsx
// workbook.
// GET /api/notifications/export
func (n *NotificationController) ExportNotifications(ctx *fiber.Ctx) error {
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

	buf, err := notificationsToExcel(notifications)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to build Excel file",
			"message": err.Error(),
		})
	}

	filename := fmt.Sprintf("notifications_%s_%s.xlsx", role, time.Now().Format("2006-01-02"))
	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	return ctx.Send(buf.Bytes())
}

func notificationsToExcel(notifications []Models.Notification) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Notifications"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"ID", "Task ID", "Part", "Company", "SAP Code", "Location", "Comments", "Recipient", "Read", "Created At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return nil, err
		}
	}

	for row, notification := range notifications {
		values := []interface{}{
			notification.ID,
			notification.TaskID,
			notification.PartName,
			notification.CompanyName,
			notification.SapCode,
			notification.Location,
			notification.Comments,
			string(notification.RecipientRole),
			notification.Read,
			notification.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, value); err != nil {
				return nil, err
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("error writing Excel file to buffer: %w", err)
	}
	return &buf, nil
}

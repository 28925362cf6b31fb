package Controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"

	"Aegis/Models"
	"Aegis/Uploads"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// TaskHook runs after a task and its notification rows have been
// committed. Hooks carry the fan-out side effects (websocket publish,
// Slack); their failures never reach the HTTP caller.
type TaskHook func(task Models.Task, notifications []Models.Notification)

// TaskController handles inspection task endpoints. Task creation is
// the one write path: it persists the task and one notification row
// per recipient role in a single transaction, then fires the
// registered post-commit hooks.
type TaskController struct {
	DB         *gorm.DB
	Store      *Uploads.Store
	Recipients []Models.Role

	afterCreate []TaskHook
}

// NewTaskController creates a new TaskController fanning out to the
// given recipient roles.
func NewTaskController(db *gorm.DB, store *Uploads.Store, recipients []Models.Role, hooks ...TaskHook) *TaskController {
	if len(recipients) == 0 {
		recipients = Models.DefaultRecipientRoles
	}
	return &TaskController{
		DB:          db,
		Store:       store,
		Recipients:  recipients,
		afterCreate: hooks,
	}
}

// CreateTaskInput is the multipart form payload for task creation
type CreateTaskInput struct {
	SapCode  string `validate:"required"`
	Location string `validate:"required"`
	Comments string
}

// CreateTask creates a task against an existing part
// POST /api/tasks
func (t *TaskController) CreateTask(ctx *fiber.Ctx) error {
	input := CreateTaskInput{
		SapCode:  ctx.FormValue("sap_code"),
		Location: ctx.FormValue("location"),
		Comments: ctx.FormValue("comments"),
	}
	if err := validate.Struct(input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": err.Error(),
		})
	}

	// Images land on disk before the transaction; every failure path
	// from here on must remove them again.
	images, err := t.Store.SaveAll(ctx, "images")
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid image upload",
			"message": err.Error(),
		})
	}

	var part Models.Part
	if err := t.DB.Where("sap_code = ?", input.SapCode).First(&part).Error; err != nil {
		t.Store.Remove(images)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error":   "Part not found",
				"message": "No part registered with this SAP code",
			})
		}
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	task := Models.Task{
		PartID:   part.ID,
		Location: input.Location,
		Comments: input.Comments,
	}
	if len(images) > 0 {
		jsonImages, err := json.Marshal(images)
		if err != nil {
			t.Store.Remove(images)
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to encode images"})
		}
		task.Images = datatypes.JSON(jsonImages)
	}

	// Begin transaction: the task and its notification rows are
	// all-or-nothing.
	tx := t.DB.Begin()
	if tx.Error != nil {
		t.Store.Remove(images)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Transaction error"})
	}

	if err := tx.Create(&task).Error; err != nil {
		tx.Rollback()
		t.Store.Remove(images)
		log.Printf("task insert failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create task"})
	}

	notifications := Models.NewTaskNotifications(task, part, t.Recipients)
	for i := range notifications {
		if err := tx.Create(&notifications[i]).Error; err != nil {
			tx.Rollback()
			t.Store.Remove(images)
			log.Printf("notification insert failed: %v", err)
			return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create notifications"})
		}
	}

	if err := tx.Commit().Error; err != nil {
		t.Store.Remove(images)
		log.Printf("task commit failed: %v", err)
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to commit transaction"})
	}

	// Post-commit only: realtime and Slack fan-out are advisory, the
	// rows above are the source of truth.
	for _, hook := range t.afterCreate {
		hook(task, notifications)
	}

	task.Part = part
	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Task created successfully",
		"data":    task,
	})
}

// GetTasks retrieves all tasks, newest first
func (t *TaskController) GetTasks(ctx *fiber.Ctx) error {
	var tasks []Models.Task
	if err := t.DB.Preload("Part").Order("created_at DESC").Find(&tasks).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve tasks"})
	}
	return ctx.JSON(tasks)
}

// GetTask retrieves a single task by ID
func (t *TaskController) GetTask(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid task ID"})
	}

	var task Models.Task
	if err := t.DB.Preload("Part").First(&task, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
	}
	return ctx.JSON(task)
}

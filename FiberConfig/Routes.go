package FiberConfig

import (
	"log"

	"Aegis/Controllers"
	"Aegis/Models"
	"Aegis/Realtime"
	"Aegis/Slack"
	"Aegis/Uploads"
	"Aegis/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

// SetupRoutes wires every endpoint. All dependencies come in as
// arguments; nothing here reaches for globals.
func SetupRoutes(app *fiber.App, db *gorm.DB, hub *Realtime.Hub, store *Uploads.Store, notifier *Slack.Notifier, recipients []Models.Role) {
	app.Use(cors.New(cors.Config{
		AllowCredentials: true,
		AllowOriginsFunc: func(origin string) bool { return true },
	}))
	app.Use(compress.New())
	app.Use(middleware.LoggingMiddleware())

	// Post-commit fan-out: one realtime event per recipient role, plus
	// an optional Slack message. Both run only after the task and its
	// rows are durable.
	publishHook := func(task Models.Task, notifications []Models.Notification) {
		for _, notification := range notifications {
			hub.Publish(notification.RecipientRole, notification)
		}
	}
	slackHook := func(task Models.Task, notifications []Models.Notification) {
		if notifier == nil {
			return
		}
		// The Slack HTTP round trip must not hold up the task-creation
		// response.
		go func() {
			var part Models.Part
			if err := db.First(&part, task.PartID).Error; err != nil {
				log.Printf("slack hook part lookup failed: %v", err)
				return
			}
			if err := notifier.TaskCreated(task, part); err != nil {
				log.Println(err)
			}
		}()
	}

	authController := Controllers.NewAuthController(db)
	partController := Controllers.NewPartController(db, store)
	taskController := Controllers.NewTaskController(db, store, recipients, publishHook, slackHook)
	notificationController := Controllers.NewNotificationController(db)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
	app.Static("/uploads", store.Dir)

	// API group
	api := app.Group("/api")

	// Auth routes
	api.Post("/register", authController.Register)
	api.Post("/login", authController.Login)
	api.Post("/logout", authController.Logout)
	api.Get("/user", middleware.Verify(db), authController.Me)

	// Part routes. Each route carries exactly one Verify so guarded
	// writes do not pay a second jwt parse and user lookup.
	parts := api.Group("/parts")
	parts.Get("/", middleware.Verify(db), partController.GetParts)
	parts.Get("/:id", middleware.Verify(db), partController.GetPart)
	parts.Post("/", middleware.Verify(db, Models.RoleAdmin, Models.RoleQuality), partController.CreatePart)
	parts.Put("/:id", middleware.Verify(db, Models.RoleAdmin, Models.RoleQuality), partController.UpdatePart)
	parts.Delete("/:id", middleware.Verify(db, Models.RoleAdmin), partController.DeletePart)

	// Task routes
	tasks := api.Group("/tasks")
	tasks.Get("/", middleware.Verify(db), taskController.GetTasks)
	tasks.Get("/:id", middleware.Verify(db), taskController.GetTask)
	tasks.Post("/", middleware.Verify(db, Models.RoleAdmin, Models.RoleQuality), taskController.CreateTask)

	// Notification ledger routes
	notifications := api.Group("/notifications", middleware.Verify(db))
	notifications.Get("/", notificationController.GetNotifications)
	notifications.Get("/unread-count", notificationController.GetUnreadCount)
	notifications.Get("/export", notificationController.ExportNotifications)
	notifications.Put("/:id/read", notificationController.MarkRead)
	notifications.Delete("/", notificationController.Clear)

	// Realtime channel
	hub.Routes(api, db)
}

package main

import (
	"log"
	"os"
	"strconv"

	"Aegis/CronJobs"
	"Aegis/FiberConfig"
	"Aegis/Models"
	"Aegis/Realtime"
	"Aegis/Slack"
	"Aegis/Uploads"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment")
	}

	db, err := Models.Connect()
	if err != nil {
		log.Fatal(err)
	}

	store, err := Uploads.NewStore(os.Getenv("UPLOAD_DIR"))
	if err != nil {
		log.Fatal(err)
	}

	recipients, err := Models.ParseRoleList(os.Getenv("NOTIFY_ROLES"))
	if err != nil {
		log.Fatal("invalid NOTIFY_ROLES: ", err)
	}

	retentionDays := 90
	if v := os.Getenv("NOTIFICATION_RETENTION_DAYS"); v != "" {
		retentionDays, err = strconv.Atoi(v)
		if err != nil {
			log.Fatal("invalid NOTIFICATION_RETENTION_DAYS: ", err)
		}
	}
	janitor := CronJobs.NewNotificationJanitor(db, retentionDays)
	if err := janitor.Start(); err != nil {
		log.Fatal(err)
	}
	defer janitor.Stop()

	hub := Realtime.NewHub()
	notifier := Slack.NewFromEnv()

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024,
	})
	FiberConfig.SetupRoutes(app, db, hub, store, notifier, recipients)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Fatal(app.Listen(":" + port))
}

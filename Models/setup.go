package Models

import (
	"fmt"
	"os"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database selected by DB_DIALECT (sqlite, mysql or
// postgres; sqlite is the default) and migrates the schema. DB_DSN
// overrides the connection string.
func Connect() (*gorm.DB, error) {
	dialect := os.Getenv("DB_DIALECT")
	dsn := os.Getenv("DB_DSN")

	var db *gorm.DB
	var err error
	switch dialect {
	case "mysql":
		db, err = gorm.Open(mysql.Open(dsn), &gorm.Config{})
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	case "", "sqlite":
		if dsn == "" {
			dsn = "database.db"
		}
		db, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	default:
		return nil, fmt.Errorf("unsupported DB_DIALECT %q", dialect)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the schema. Ordered so tables with
// foreign keys come after the tables they point at.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Part{},
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	if err := db.AutoMigrate(
		&Task{},         // depends on Part
		&Notification{}, // denormalized, but keyed to Task
	); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

package Models

import (
	"time"
)

// Notification is one durable ledger row: "task TaskID is visible to
// RecipientRole". Part and task display fields are copied in at
// creation time so the row stays readable if the part changes later.
// Rows are deleted for real on clear, hence no gorm.Model soft delete.
type Notification struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	TaskID        uint      `json:"task_id" gorm:"not null;index"`
	PartName      string    `json:"part_name" gorm:"size:255;not null"`
	CompanyName   string    `json:"company_name" gorm:"size:255"`
	SapCode       string    `json:"sap_code" gorm:"size:100;not null"`
	Location      string    `json:"location" gorm:"size:255"`
	Comments      string    `json:"comments" gorm:"type:text"`
	RecipientRole Role      `json:"recipient_role" gorm:"size:20;not null;index"`
	// Stored as is_read: READ is a reserved word in MySQL and would
	// break raw where clauses under DB_DIALECT=mysql.
	Read          bool      `json:"read" gorm:"column:is_read;not null;default:false"`
	CreatedAt     time.Time `json:"created_at" gorm:"index"`
}

// NewTaskNotifications builds the unsaved fan-out rows for a freshly
// created task, one per recipient role.
func NewTaskNotifications(task Task, part Part, recipients []Role) []Notification {
	notifications := make([]Notification, 0, len(recipients))
	for _, role := range recipients {
		notifications = append(notifications, Notification{
			TaskID:        task.ID,
			PartName:      part.Name,
			CompanyName:   part.CompanyName,
			SapCode:       part.SapCode,
			Location:      task.Location,
			Comments:      task.Comments,
			RecipientRole: role,
		})
	}
	return notifications
}

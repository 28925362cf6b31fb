package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Task is one inspection event against exactly one part. Tasks are
// created through the task controller only and never updated.
type Task struct {
	gorm.Model
	PartID   uint           `json:"part_id" gorm:"not null;index"`
	Location string         `json:"location" gorm:"size:255;not null"`
	Comments string         `json:"comments" gorm:"type:text"`
	Images   datatypes.JSON `json:"images,omitempty"`

	Part Part `json:"part,omitempty" gorm:"foreignKey:PartID"`
}

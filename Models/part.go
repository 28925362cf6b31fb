package Models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Part is a manufactured part registered for quality tracking. SapCode
// is the business key every inspection task references.
type Part struct {
	gorm.Model
	Name        string         `json:"name" gorm:"size:255;not null"`
	CompanyName string         `json:"company_name" gorm:"size:255;not null"`
	SapCode     string         `json:"sap_code" gorm:"size:100;not null;uniqueIndex"`
	Description string         `json:"description" gorm:"type:text"`
	Location    string         `json:"location" gorm:"size:255"`
	Images      datatypes.JSON `json:"images,omitempty"`

	Tasks []Task `json:"tasks,omitempty" gorm:"foreignKey:PartID;constraint:OnDelete:CASCADE"`
}

type PartRequest struct {
	Name        string `json:"name" validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	SapCode     string `json:"sap_code" validate:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

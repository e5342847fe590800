package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Vendor is a contractor or supplier that budget items and draws can be
// assigned to. Vendors live outside any single project.
type Vendor struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name    string `gorm:"type:varchar(200);not null"`
	Company string `gorm:"type:varchar(200)"`
	Trade   string `gorm:"type:varchar(80);index"`
	Phone   string `gorm:"type:varchar(40)"`
	Email   string `gorm:"type:varchar(200)"`

	Licensed bool `gorm:"not null;default:false"`
	Insured  bool `gorm:"not null;default:false"`
	W9OnFile bool `gorm:"column:w9_on_file;not null;default:false"`

	// Rating 0-5, 0 meaning unrated.
	Rating int `gorm:"not null;default:0"`

	Notes  string `gorm:"type:text"`
	Active bool   `gorm:"not null;default:true;index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Vendor) TableName() string {
	return "vendors"
}

func (v *Vendor) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

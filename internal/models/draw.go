package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Draw statuses. A draw moves pending -> approved -> paid and is never
// deleted once paid.
const (
	DrawStatusPending  = "pending"
	DrawStatusApproved = "approved"
	DrawStatusPaid     = "paid"
)

// Draw is a request to release rehab funds against a project's budget.
// DrawNumber is assigned sequentially per project and never reused.
type Draw struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index;uniqueIndex:uniq_project_draw_number"`

	DrawNumber int             `gorm:"not null;uniqueIndex:uniq_project_draw_number"`
	Amount     decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	Status string `gorm:"type:varchar(20);not null;index;default:'pending'"`
	Memo   string `gorm:"type:text"`

	VendorID *uuid.UUID `gorm:"type:uuid;index"`

	RequestedAt time.Time  `gorm:"type:timestamptz;not null"`
	ApprovedAt  *time.Time `gorm:"type:timestamptz"`
	PaidAt      *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Draw) TableName() string {
	return "draws"
}

func (d *Draw) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// ValidDrawTransition reports whether a draw may move between statuses.
func ValidDrawTransition(from, to string) bool {
	switch {
	case from == DrawStatusPending && to == DrawStatusApproved:
		return true
	case from == DrawStatusApproved && to == DrawStatusPaid:
		return true
	}
	return false
}

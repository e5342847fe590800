package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Budget item work statuses.
const (
	ItemStatusNotStarted = "not_started"
	ItemStatusInProgress = "in_progress"
	ItemStatusComplete   = "complete"
	ItemStatusOnHold     = "on_hold"
	ItemStatusCancelled  = "cancelled"
)

// BudgetItem is one line of a project's rehab budget. It carries three
// parallel amounts: what was underwritten before the offer, the current
// forecast, and the actual once the work is billed. Actual stays null until a
// real cost exists; zero is a legitimate actual.
type BudgetItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index"`

	Category    string `gorm:"type:varchar(40);not null;index"`
	Name        string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`

	// Optional quantity-times-rate inputs. When both are set they seed the
	// forecast amount but never overwrite a hand-edited one.
	Quantity *decimal.Decimal `gorm:"type:numeric(12,3)"`
	UnitRate *decimal.Decimal `gorm:"type:numeric(14,2)"`

	UnderwritingAmount decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	ForecastAmount     decimal.Decimal  `gorm:"type:numeric(14,2);not null;default:0"`
	ActualAmount       *decimal.Decimal `gorm:"type:numeric(14,2)"`

	Status string `gorm:"type:varchar(20);not null;index;default:'not_started'"`

	VendorID *uuid.UUID `gorm:"type:uuid;index"`

	SortOrder int `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (BudgetItem) TableName() string {
	return "budget_items"
}

func (b *BudgetItem) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// ValidItemStatus reports whether s is a known budget item status.
func ValidItemStatus(s string) bool {
	switch s {
	case ItemStatusNotStarted, ItemStatusInProgress, ItemStatusComplete,
		ItemStatusOnHold, ItemStatusCancelled:
		return true
	}
	return false
}

// ValidItemTransition reports whether a budget item may move between work
// statuses. Work advances not_started -> in_progress -> complete. Any active
// item can be put on hold or cancelled; on hold resumes to in_progress, and
// cancelled is terminal.
func ValidItemTransition(from, to string) bool {
	if from == to {
		return false
	}
	switch from {
	case ItemStatusNotStarted:
		return to == ItemStatusInProgress || to == ItemStatusOnHold || to == ItemStatusCancelled
	case ItemStatusInProgress:
		return to == ItemStatusComplete || to == ItemStatusOnHold || to == ItemStatusCancelled
	case ItemStatusOnHold:
		return to == ItemStatusInProgress || to == ItemStatusCancelled
	case ItemStatusComplete, ItemStatusCancelled:
		return false
	}
	return false
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	SnapshotTriggerScheduled    = "scheduled"
	SnapshotTriggerStatusChange = "status_change"
	SnapshotTriggerManual       = "manual"
)

// ProjectSnapshot is an append-only record of a project's computed economics
// at a point in time, used to chart how a deal drifted during the rehab.
type ProjectSnapshot struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_snapshot_project_taken"`
	TakenAt   time.Time `gorm:"type:timestamptz;not null;index:idx_snapshot_project_taken"`

	// Reason the snapshot was taken: "scheduled", "status_change" or "manual".
	Trigger string `gorm:"type:varchar(20);not null"`

	ProjectStatus string `gorm:"type:varchar(20);not null"`

	UnderwritingTotal decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ForecastTotal     decimal.Decimal `gorm:"type:numeric(14,2);not null"`
	ActualTotal       decimal.Decimal `gorm:"type:numeric(14,2);not null"`

	TotalInvestment decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	GrossProfit     decimal.Decimal  `gorm:"type:numeric(14,2);not null"`
	ROIPct          *decimal.Decimal `gorm:"column:roi_pct;type:numeric(10,4)"`

	// Full summary payload as served by the API at snapshot time.
	Summary datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (ProjectSnapshot) TableName() string {
	return "project_snapshots"
}

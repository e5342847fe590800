package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CostReference is a cost-book entry: typical low/mid/high unit pricing for a
// kind of work, used when underwriting a budget from scratch. One entry per
// (category, name, unit, region) so seeding is idempotent.
type CostReference struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Category string `gorm:"type:varchar(40);not null;index;uniqueIndex:uniq_cost_reference"`
	Name     string `gorm:"type:varchar(200);not null;uniqueIndex:uniq_cost_reference"`

	// Unit the prices are quoted in, e.g. "sqft", "each", "lf".
	Unit string `gorm:"type:varchar(30);not null;uniqueIndex:uniq_cost_reference"`

	LowCost  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	MidCost  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HighCost decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`

	Region string `gorm:"type:varchar(80);index;uniqueIndex:uniq_cost_reference"`
	Notes  string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (CostReference) TableName() string {
	return "cost_references"
}

func (c *CostReference) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Project status lifecycle. Archived is reachable from any status.
const (
	ProjectStatusAnalyzing     = "analyzing"
	ProjectStatusUnderContract = "under_contract"
	ProjectStatusInRehab       = "in_rehab"
	ProjectStatusListed        = "listed"
	ProjectStatusSold          = "sold"
	ProjectStatusArchived      = "archived"
)

// Project is a single rehab deal: the property, the purchase terms and the
// economics inputs that feed the deal calculator.
type Project struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey"`

	Name    string `gorm:"type:varchar(200);not null"`
	Address string `gorm:"type:varchar(300)"`
	City    string `gorm:"type:varchar(120)"`
	State   string `gorm:"type:varchar(40)"`
	Zip     string `gorm:"type:varchar(20)"`

	Beds      *int
	Baths     *decimal.Decimal `gorm:"type:numeric(4,1)"`
	Sqft      *int
	YearBuilt *int

	Status string `gorm:"type:varchar(20);not null;index;default:'analyzing'"`

	// Economics inputs. Money as numeric, percentages as whole numbers
	// (8.5 means 8.5%).
	ARV            decimal.Decimal `gorm:"column:arv;type:numeric(14,2);not null;default:0"`
	PurchasePrice  decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	ClosingCost    decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HoldingMonthly decimal.Decimal `gorm:"type:numeric(14,2);not null;default:0"`
	HoldingMonths  int             `gorm:"not null;default:0"`
	SellingCostPct decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`
	ContingencyPct decimal.Decimal `gorm:"type:numeric(5,2);not null;default:0"`

	Notes          string     `gorm:"type:text"`
	NotesUpdatedAt *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Project) TableName() string {
	return "projects"
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

var projectStatusFlow = map[string]string{
	ProjectStatusAnalyzing:     ProjectStatusUnderContract,
	ProjectStatusUnderContract: ProjectStatusInRehab,
	ProjectStatusInRehab:       ProjectStatusListed,
	ProjectStatusListed:        ProjectStatusSold,
}

// ValidProjectStatus reports whether s is a known project status.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusAnalyzing, ProjectStatusUnderContract, ProjectStatusInRehab,
		ProjectStatusListed, ProjectStatusSold, ProjectStatusArchived:
		return true
	}
	return false
}

// ValidProjectTransition reports whether a project may move from one status to
// the next. The pipeline only moves forward; archiving is allowed from any
// status, and an archived project can be restored to analyzing.
func ValidProjectTransition(from, to string) bool {
	if from == to {
		return false
	}
	if to == ProjectStatusArchived {
		return true
	}
	if from == ProjectStatusArchived {
		return to == ProjectStatusAnalyzing
	}
	return projectStatusFlow[from] == to
}

package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rehabtrack/internal/models"
)

// Repository is the persistence surface for the rehab tracker. Get methods
// return (nil, nil) when the row does not exist.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Projects
	InsertProject(ctx context.Context, item *models.Project) error
	GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error)
	ListProjects(ctx context.Context, params ListProjectsParams) ([]models.Project, error)
	CountProjects(ctx context.Context, params ListProjectsParams) (int64, error)
	UpdateProject(ctx context.Context, item *models.Project) error
	UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) error
	UpdateProjectNotes(ctx context.Context, id uuid.UUID, notes string, at time.Time) error
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Budget items
	InsertBudgetItem(ctx context.Context, item *models.BudgetItem) error
	GetBudgetItemByID(ctx context.Context, id uuid.UUID) (*models.BudgetItem, error)
	ListBudgetItems(ctx context.Context, params ListBudgetItemsParams) ([]models.BudgetItem, error)
	ListBudgetItemsByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.BudgetItem, error)
	UpdateBudgetItem(ctx context.Context, item *models.BudgetItem) error
	UpdateBudgetItemStatus(ctx context.Context, id uuid.UUID, status string) error
	ReorderBudgetItems(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error
	DeleteBudgetItem(ctx context.Context, id uuid.UUID) error

	// Draws
	InsertDraw(ctx context.Context, item *models.Draw) error
	GetDrawByID(ctx context.Context, id uuid.UUID) (*models.Draw, error)
	ListDrawsByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.Draw, error)
	UpdateDrawStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error
	ListStalePendingDraws(ctx context.Context, olderThan time.Time, limit int) ([]models.Draw, error)

	// Vendors
	InsertVendor(ctx context.Context, item *models.Vendor) error
	GetVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error)
	ListVendors(ctx context.Context, params ListVendorsParams) ([]models.Vendor, error)
	CountVendors(ctx context.Context, params ListVendorsParams) (int64, error)
	ListVendorsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vendor, error)
	UpdateVendor(ctx context.Context, item *models.Vendor) error
	DeleteVendor(ctx context.Context, id uuid.UUID) error

	// Cost references
	InsertCostReference(ctx context.Context, item *models.CostReference) error
	GetCostReferenceByID(ctx context.Context, id uuid.UUID) (*models.CostReference, error)
	ListCostReferences(ctx context.Context, params ListCostReferencesParams) ([]models.CostReference, error)
	CountCostReferences(ctx context.Context, params ListCostReferencesParams) (int64, error)
	UpsertCostReferences(ctx context.Context, items []models.CostReference) error
	UpdateCostReference(ctx context.Context, item *models.CostReference) error
	DeleteCostReference(ctx context.Context, id uuid.UUID) error

	// Snapshots
	InsertProjectSnapshot(ctx context.Context, item *models.ProjectSnapshot) error
	ListProjectSnapshots(ctx context.Context, params ListProjectSnapshotsParams) ([]models.ProjectSnapshot, error)

	// Change feed
	InsertChangeEvent(ctx context.Context, item *models.ChangeEvent) error
	ListChangeEvents(ctx context.Context, params ListChangeEventsParams) ([]models.ChangeEvent, error)
	DeleteChangeEventsBefore(ctx context.Context, before time.Time) (int64, error)

	// System settings
	UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error
	GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error)
	ListSystemSettings(ctx context.Context, params ListSystemSettingsParams) ([]models.SystemSetting, error)
}

type ListProjectsParams struct {
	Limit   int
	Offset  int
	Status  *string
	City    *string
	State   *string
	Search  *string
	OrderBy string
	Asc     *bool
}

type ListBudgetItemsParams struct {
	Limit     int
	Offset    int
	ProjectID *uuid.UUID
	Category  *string
	Status    *string
	VendorID  *uuid.UUID
	OrderBy   string
	Asc       *bool
}

type ListVendorsParams struct {
	Limit     int
	Offset    int
	Trade     *string
	Active    *bool
	MinRating *int
	Search    *string
	OrderBy   string
	Asc       *bool
}

type ListCostReferencesParams struct {
	Limit    int
	Offset   int
	Category *string
	Unit     *string
	Region   *string
	Search   *string
	OrderBy  string
	Asc      *bool
}

type ListProjectSnapshotsParams struct {
	ProjectID uuid.UUID
	Limit     int
	Offset    int
	Since     *time.Time
	Until     *time.Time
}

type ListChangeEventsParams struct {
	SinceID    uint64
	Limit      int
	ProjectID  *uuid.UUID
	EntityType *string
}

type ListSystemSettingsParams struct {
	Limit   int
	Offset  int
	Prefix  *string
	OrderBy string
	Asc     *bool
}

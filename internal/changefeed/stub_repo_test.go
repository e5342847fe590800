package changefeed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

// stubRepo implements the full repository.Repository; hub tests only
// exercise the change event methods.
type stubRepo struct {
	mu     sync.Mutex
	events []models.ChangeEvent
	nextID uint64
}

func (s *stubRepo) InsertChangeEvent(ctx context.Context, item *models.ChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	s.events = append(s.events, *item)
	return nil
}

func (s *stubRepo) persisted() []models.ChangeEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChangeEvent, len(s.events))
	copy(out, s.events)
	return out
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

func (s *stubRepo) InsertProject(ctx context.Context, item *models.Project) error { return nil }
func (s *stubRepo) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	return nil, nil
}
func (s *stubRepo) ListProjects(ctx context.Context, params repository.ListProjectsParams) ([]models.Project, error) {
	return nil, nil
}
func (s *stubRepo) CountProjects(ctx context.Context, params repository.ListProjectsParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) UpdateProject(ctx context.Context, item *models.Project) error { return nil }
func (s *stubRepo) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (s *stubRepo) UpdateProjectNotes(ctx context.Context, id uuid.UUID, notes string, at time.Time) error {
	return nil
}
func (s *stubRepo) DeleteProject(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubRepo) InsertBudgetItem(ctx context.Context, item *models.BudgetItem) error { return nil }
func (s *stubRepo) GetBudgetItemByID(ctx context.Context, id uuid.UUID) (*models.BudgetItem, error) {
	return nil, nil
}
func (s *stubRepo) ListBudgetItems(ctx context.Context, params repository.ListBudgetItemsParams) ([]models.BudgetItem, error) {
	return nil, nil
}
func (s *stubRepo) ListBudgetItemsByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.BudgetItem, error) {
	return nil, nil
}
func (s *stubRepo) UpdateBudgetItem(ctx context.Context, item *models.BudgetItem) error { return nil }
func (s *stubRepo) UpdateBudgetItemStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (s *stubRepo) ReorderBudgetItems(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	return nil
}
func (s *stubRepo) DeleteBudgetItem(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubRepo) InsertDraw(ctx context.Context, item *models.Draw) error { return nil }
func (s *stubRepo) GetDrawByID(ctx context.Context, id uuid.UUID) (*models.Draw, error) {
	return nil, nil
}
func (s *stubRepo) ListDrawsByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.Draw, error) {
	return nil, nil
}
func (s *stubRepo) UpdateDrawStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	return nil
}
func (s *stubRepo) ListStalePendingDraws(ctx context.Context, olderThan time.Time, limit int) ([]models.Draw, error) {
	return nil, nil
}

func (s *stubRepo) InsertVendor(ctx context.Context, item *models.Vendor) error { return nil }
func (s *stubRepo) GetVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	return nil, nil
}
func (s *stubRepo) ListVendors(ctx context.Context, params repository.ListVendorsParams) ([]models.Vendor, error) {
	return nil, nil
}
func (s *stubRepo) CountVendors(ctx context.Context, params repository.ListVendorsParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) ListVendorsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vendor, error) {
	return nil, nil
}
func (s *stubRepo) UpdateVendor(ctx context.Context, item *models.Vendor) error { return nil }
func (s *stubRepo) DeleteVendor(ctx context.Context, id uuid.UUID) error        { return nil }

func (s *stubRepo) InsertCostReference(ctx context.Context, item *models.CostReference) error {
	return nil
}
func (s *stubRepo) GetCostReferenceByID(ctx context.Context, id uuid.UUID) (*models.CostReference, error) {
	return nil, nil
}
func (s *stubRepo) ListCostReferences(ctx context.Context, params repository.ListCostReferencesParams) ([]models.CostReference, error) {
	return nil, nil
}
func (s *stubRepo) CountCostReferences(ctx context.Context, params repository.ListCostReferencesParams) (int64, error) {
	return 0, nil
}
func (s *stubRepo) UpsertCostReferences(ctx context.Context, items []models.CostReference) error {
	return nil
}
func (s *stubRepo) UpdateCostReference(ctx context.Context, item *models.CostReference) error {
	return nil
}
func (s *stubRepo) DeleteCostReference(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubRepo) InsertProjectSnapshot(ctx context.Context, item *models.ProjectSnapshot) error {
	return nil
}
func (s *stubRepo) ListProjectSnapshots(ctx context.Context, params repository.ListProjectSnapshotsParams) ([]models.ProjectSnapshot, error) {
	return nil, nil
}

func (s *stubRepo) ListChangeEvents(ctx context.Context, params repository.ListChangeEventsParams) ([]models.ChangeEvent, error) {
	return s.persisted(), nil
}
func (s *stubRepo) DeleteChangeEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	return nil
}
func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	return nil, nil
}
func (s *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	return nil, nil
}

var _ repository.Repository = (*stubRepo)(nil)

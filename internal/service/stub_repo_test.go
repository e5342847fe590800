package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

type noteWrite struct {
	projectID uuid.UUID
	notes     string
	at        time.Time
}

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Methods the services under test rely on have real behavior; the rest are
// no-ops.
type stubRepo struct {
	mu          sync.Mutex
	projects    []models.Project
	items       []models.BudgetItem
	draws       []models.Draw
	snapshots   []models.ProjectSnapshot
	settings    map[string]models.SystemSetting
	events      []models.ChangeEvent
	nextEventID uint64
	noteWrites  []noteWrite
}

func newStubRepo() *stubRepo {
	return &stubRepo{settings: map[string]models.SystemSetting{}}
}

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error { return fn(nil) }

// --- projects ---

func (s *stubRepo) InsertProject(ctx context.Context, item *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.projects = append(s.projects, *item)
	return nil
}

func (s *stubRepo) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			p := s.projects[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) ListProjects(ctx context.Context, params repository.ListProjectsParams) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	offset := params.Offset
	if offset >= len(s.projects) {
		return nil, nil
	}
	end := len(s.projects)
	if params.Limit > 0 && offset+params.Limit < end {
		end = offset + params.Limit
	}
	out := make([]models.Project, end-offset)
	copy(out, s.projects[offset:end])
	return out, nil
}

func (s *stubRepo) CountProjects(ctx context.Context, params repository.ListProjectsParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.projects)), nil
}

func (s *stubRepo) UpdateProject(ctx context.Context, item *models.Project) error { return nil }

func (s *stubRepo) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].Status = status
		}
	}
	return nil
}

func (s *stubRepo) UpdateProjectNotes(ctx context.Context, id uuid.UUID, notes string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.noteWrites = append(s.noteWrites, noteWrite{projectID: id, notes: notes, at: at})
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i].Notes = notes
			s.projects[i].NotesUpdatedAt = &at
		}
	}
	return nil
}

func (s *stubRepo) DeleteProject(ctx context.Context, id uuid.UUID) error { return nil }

func (s *stubRepo) recordedNoteWrites() []noteWrite {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]noteWrite, len(s.noteWrites))
	copy(out, s.noteWrites)
	return out
}

// --- budget items ---

func (s *stubRepo) InsertBudgetItem(ctx context.Context, item *models.BudgetItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items = append(s.items, *item)
	return nil
}

func (s *stubRepo) GetBudgetItemByID(ctx context.Context, id uuid.UUID) (*models.BudgetItem, error) {
	return nil, nil
}

func (s *stubRepo) ListBudgetItems(ctx context.Context, params repository.ListBudgetItemsParams) ([]models.BudgetItem, error) {
	return nil, nil
}

func (s *stubRepo) ListBudgetItemsByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.BudgetItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.BudgetItem
	for _, it := range s.items {
		if it.ProjectID == projectID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (s *stubRepo) UpdateBudgetItem(ctx context.Context, item *models.BudgetItem) error { return nil }
func (s *stubRepo) UpdateBudgetItemStatus(ctx context.Context, id uuid.UUID, status string) error {
	return nil
}
func (s *stubRepo) ReorderBudgetItems(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	return nil
}
func (s *stubRepo) DeleteBudgetItem(ctx context.Context, id uuid.UUID) error { return nil }

// --- draws ---

func (s *stubRepo) InsertDraw(ctx context.Context, item *models.Draw) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.draws = append(s.draws, *item)
	return nil
}

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
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Draw
	for _, d := range s.draws {
		if d.Status == models.DrawStatusPending && d.RequestedAt.Before(olderThan) {
			out = append(out, d)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// --- vendors ---

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

// --- cost references ---

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

// --- snapshots ---

func (s *stubRepo) InsertProjectSnapshot(ctx context.Context, item *models.ProjectSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	item.ID = uint64(len(s.snapshots) + 1)
	s.snapshots = append(s.snapshots, *item)
	return nil
}

func (s *stubRepo) ListProjectSnapshots(ctx context.Context, params repository.ListProjectSnapshotsParams) ([]models.ProjectSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.ProjectSnapshot
	for _, snap := range s.snapshots {
		if snap.ProjectID == params.ProjectID {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (s *stubRepo) recordedSnapshots() []models.ProjectSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ProjectSnapshot, len(s.snapshots))
	copy(out, s.snapshots)
	return out
}

// --- change feed ---

func (s *stubRepo) InsertChangeEvent(ctx context.Context, item *models.ChangeEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextEventID++
	item.ID = s.nextEventID
	s.events = append(s.events, *item)
	return nil
}

func (s *stubRepo) ListChangeEvents(ctx context.Context, params repository.ListChangeEventsParams) ([]models.ChangeEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChangeEvent, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *stubRepo) DeleteChangeEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []models.ChangeEvent
	var deleted int64
	for _, e := range s.events {
		if e.CreatedAt.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	s.events = kept
	return deleted, nil
}

// --- system settings ---

func (s *stubRepo) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[item.Key] = *item
	return nil
}

func (s *stubRepo) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.settings[key]; ok {
		out := item
		return &out, nil
	}
	return nil, nil
}

func (s *stubRepo) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.SystemSetting, 0, len(s.settings))
	for _, item := range s.settings {
		out = append(out, item)
	}
	return out, nil
}

var _ repository.Repository = (*stubRepo)(nil)

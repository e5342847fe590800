package gormrepository

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- Projects ----------------------------------------------------------------

func (s *Store) InsertProject(ctx context.Context, item *models.Project) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetProjectByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil, nil
	}
	var item models.Project
	err := s.db.WithContext(ctx).Model(&models.Project{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListProjects(ctx context.Context, params repository.ListProjectsParams) ([]models.Project, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyProjectFilters(s.db.WithContext(ctx).Model(&models.Project{}), params)
	query = applyOrder(query, params.OrderBy, params.Asc, "created_at")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Project
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountProjects(ctx context.Context, params repository.ListProjectsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyProjectFilters(s.db.WithContext(ctx).Model(&models.Project{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyProjectFilters(query *gorm.DB, params repository.ListProjectsParams) *gorm.DB {
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.City != nil && strings.TrimSpace(*params.City) != "" {
		query = query.Where("city ILIKE ?", strings.TrimSpace(*params.City))
	}
	if params.State != nil && strings.TrimSpace(*params.State) != "" {
		query = query.Where("state ILIKE ?", strings.TrimSpace(*params.State))
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		like := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("name ILIKE ? OR address ILIKE ?", like, like)
	}
	return query
}

func (s *Store) UpdateProject(ctx context.Context, item *models.Project) error {
	if s == nil || s.db == nil || item == nil || item.ID == uuid.Nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) UpdateProjectStatus(ctx context.Context, id uuid.UUID, status string) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).
		Error
}

func (s *Store) UpdateProjectNotes(ctx context.Context, id uuid.UUID, notes string, at time.Time) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	return s.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("id = ?", id).
		Updates(map[string]any{"notes": notes, "notes_updated_at": at, "updated_at": at}).
		Error
}

// DeleteProject removes the project and everything scoped to it. Change
// events are kept: a delete is itself feed history.
func (s *Store) DeleteProject(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	return s.InTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.BudgetItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.Draw{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&models.ProjectSnapshot{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}

// --- Budget items ------------------------------------------------------------

func (s *Store) InsertBudgetItem(ctx context.Context, item *models.BudgetItem) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetBudgetItemByID(ctx context.Context, id uuid.UUID) (*models.BudgetItem, error) {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil, nil
	}
	var item models.BudgetItem
	err := s.db.WithContext(ctx).Model(&models.BudgetItem{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListBudgetItems(ctx context.Context, params repository.ListBudgetItemsParams) ([]models.BudgetItem, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.BudgetItem{})
	if params.ProjectID != nil && *params.ProjectID != uuid.Nil {
		query = query.Where("project_id = ?", *params.ProjectID)
	}
	if params.Category != nil && strings.TrimSpace(*params.Category) != "" {
		query = query.Where("category = ?", strings.TrimSpace(*params.Category))
	}
	if params.Status != nil && strings.TrimSpace(*params.Status) != "" {
		query = query.Where("status = ?", strings.TrimSpace(*params.Status))
	}
	if params.VendorID != nil && *params.VendorID != uuid.Nil {
		query = query.Where("vendor_id = ?", *params.VendorID)
	}
	orderBy := params.OrderBy
	asc := params.Asc
	if strings.TrimSpace(orderBy) == "" {
		orderBy = "sort_order"
		up := true
		asc = &up
	}
	query = applyOrder(query, orderBy, asc, "sort_order")
	limit := normalizeLimit(params.Limit, 500)
	offset := normalizeOffset(params.Offset)
	var items []models.BudgetItem
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListBudgetItemsByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.BudgetItem, error) {
	if s == nil || s.db == nil || projectID == uuid.Nil {
		return nil, nil
	}
	var items []models.BudgetItem
	if err := s.db.WithContext(ctx).
		Model(&models.BudgetItem{}).
		Where("project_id = ?", projectID).
		Order("sort_order asc, created_at asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateBudgetItem(ctx context.Context, item *models.BudgetItem) error {
	if s == nil || s.db == nil || item == nil || item.ID == uuid.Nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) UpdateBudgetItemStatus(ctx context.Context, id uuid.UUID, status string) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.BudgetItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()}).
		Error
}

// ReorderBudgetItems rewrites sort_order to match orderedIDs. IDs from other
// projects are ignored; items missing from the list keep their order value.
func (s *Store) ReorderBudgetItems(ctx context.Context, projectID uuid.UUID, orderedIDs []uuid.UUID) error {
	if s == nil || s.db == nil || projectID == uuid.Nil || len(orderedIDs) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return s.InTx(ctx, func(tx *gorm.DB) error {
		for i, id := range orderedIDs {
			if id == uuid.Nil {
				continue
			}
			if err := tx.Model(&models.BudgetItem{}).
				Where("id = ? AND project_id = ?", id, projectID).
				Updates(map[string]any{"sort_order": i, "updated_at": now}).
				Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteBudgetItem(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.BudgetItem{}).Error
}

// --- Draws -------------------------------------------------------------------

func (s *Store) InsertDraw(ctx context.Context, item *models.Draw) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetDrawByID(ctx context.Context, id uuid.UUID) (*models.Draw, error) {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil, nil
	}
	var item models.Draw
	err := s.db.WithContext(ctx).Model(&models.Draw{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListDrawsByProjectID(ctx context.Context, projectID uuid.UUID) ([]models.Draw, error) {
	if s == nil || s.db == nil || projectID == uuid.Nil {
		return nil, nil
	}
	var items []models.Draw
	if err := s.db.WithContext(ctx).
		Model(&models.Draw{}).
		Where("project_id = ?", projectID).
		Order("draw_number asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateDrawStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	if at.IsZero() {
		at = time.Now().UTC()
	}
	updates := map[string]any{"status": status, "updated_at": at}
	switch status {
	case models.DrawStatusApproved:
		updates["approved_at"] = at
	case models.DrawStatusPaid:
		updates["paid_at"] = at
	}
	return s.db.WithContext(ctx).
		Model(&models.Draw{}).
		Where("id = ?", id).
		Updates(updates).
		Error
}

func (s *Store) ListStalePendingDraws(ctx context.Context, olderThan time.Time, limit int) ([]models.Draw, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	limit = normalizeLimit(limit, 200)
	var items []models.Draw
	if err := s.db.WithContext(ctx).
		Model(&models.Draw{}).
		Where("status = ?", models.DrawStatusPending).
		Where("requested_at < ?", olderThan).
		Order("requested_at asc").
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Vendors -----------------------------------------------------------------

func (s *Store) InsertVendor(ctx context.Context, item *models.Vendor) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetVendorByID(ctx context.Context, id uuid.UUID) (*models.Vendor, error) {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil, nil
	}
	var item models.Vendor
	err := s.db.WithContext(ctx).Model(&models.Vendor{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListVendors(ctx context.Context, params repository.ListVendorsParams) ([]models.Vendor, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyVendorFilters(s.db.WithContext(ctx).Model(&models.Vendor{}), params)
	orderBy := params.OrderBy
	asc := params.Asc
	if strings.TrimSpace(orderBy) == "" {
		orderBy = "name"
		up := true
		asc = &up
	}
	query = applyOrder(query, orderBy, asc, "name")
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Vendor
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountVendors(ctx context.Context, params repository.ListVendorsParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyVendorFilters(s.db.WithContext(ctx).Model(&models.Vendor{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyVendorFilters(query *gorm.DB, params repository.ListVendorsParams) *gorm.DB {
	if params.Trade != nil && strings.TrimSpace(*params.Trade) != "" {
		query = query.Where("trade = ?", strings.TrimSpace(*params.Trade))
	}
	if params.Active != nil {
		query = query.Where("active = ?", *params.Active)
	}
	if params.MinRating != nil && *params.MinRating > 0 {
		query = query.Where("rating >= ?", *params.MinRating)
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		like := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("name ILIKE ? OR company ILIKE ?", like, like)
	}
	return query
}

func (s *Store) ListVendorsByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Vendor, error) {
	if s == nil || s.db == nil || len(ids) == 0 {
		return nil, nil
	}
	cleaned := make([]uuid.UUID, 0, len(ids))
	seen := map[uuid.UUID]struct{}{}
	for _, id := range ids {
		if id == uuid.Nil {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		cleaned = append(cleaned, id)
	}
	if len(cleaned) == 0 {
		return nil, nil
	}
	var items []models.Vendor
	if err := s.db.WithContext(ctx).
		Model(&models.Vendor{}).
		Where("id IN ?", cleaned).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) UpdateVendor(ctx context.Context, item *models.Vendor) error {
	if s == nil || s.db == nil || item == nil || item.ID == uuid.Nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteVendor(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	// Budget items keep working when their vendor disappears; the reference
	// is weak by design.
	return s.InTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.BudgetItem{}).
			Where("vendor_id = ?", id).
			Updates(map[string]any{"vendor_id": nil, "updated_at": time.Now().UTC()}).
			Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Vendor{}).Error
	})
}

// --- Cost references ---------------------------------------------------------

func (s *Store) InsertCostReference(ctx context.Context, item *models.CostReference) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetCostReferenceByID(ctx context.Context, id uuid.UUID) (*models.CostReference, error) {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil, nil
	}
	var item models.CostReference
	err := s.db.WithContext(ctx).Model(&models.CostReference{}).Where("id = ?", id).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListCostReferences(ctx context.Context, params repository.ListCostReferencesParams) ([]models.CostReference, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := applyCostReferenceFilters(s.db.WithContext(ctx).Model(&models.CostReference{}), params)
	orderBy := params.OrderBy
	asc := params.Asc
	if strings.TrimSpace(orderBy) == "" {
		orderBy = "category"
		up := true
		asc = &up
	}
	query = applyOrder(query, orderBy, asc, "category")
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.CostReference
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountCostReferences(ctx context.Context, params repository.ListCostReferencesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	query := applyCostReferenceFilters(s.db.WithContext(ctx).Model(&models.CostReference{}), params)
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, err
	}
	return total, nil
}

func applyCostReferenceFilters(query *gorm.DB, params repository.ListCostReferencesParams) *gorm.DB {
	if params.Category != nil && strings.TrimSpace(*params.Category) != "" {
		query = query.Where("category = ?", strings.TrimSpace(*params.Category))
	}
	if params.Unit != nil && strings.TrimSpace(*params.Unit) != "" {
		query = query.Where("unit = ?", strings.TrimSpace(*params.Unit))
	}
	if params.Region != nil && strings.TrimSpace(*params.Region) != "" {
		query = query.Where("region ILIKE ?", strings.TrimSpace(*params.Region))
	}
	if params.Search != nil && strings.TrimSpace(*params.Search) != "" {
		like := "%" + strings.TrimSpace(*params.Search) + "%"
		query = query.Where("name ILIKE ?", like)
	}
	return query
}

func (s *Store) UpsertCostReferences(ctx context.Context, items []models.CostReference) error {
	if s == nil || s.db == nil || len(items) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "category"},
			{Name: "name"},
			{Name: "unit"},
			{Name: "region"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"low_cost",
			"mid_cost",
			"high_cost",
			"notes",
			"updated_at",
		}),
	}).CreateInBatches(items, 200).Error
}

func (s *Store) UpdateCostReference(ctx context.Context, item *models.CostReference) error {
	if s == nil || s.db == nil || item == nil || item.ID == uuid.Nil {
		return nil
	}
	item.Name = strings.TrimSpace(item.Name)
	return s.db.WithContext(ctx).Save(item).Error
}

func (s *Store) DeleteCostReference(ctx context.Context, id uuid.UUID) error {
	if s == nil || s.db == nil || id == uuid.Nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CostReference{}).Error
}

// --- Snapshots ---------------------------------------------------------------

func (s *Store) InsertProjectSnapshot(ctx context.Context, item *models.ProjectSnapshot) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListProjectSnapshots(ctx context.Context, params repository.ListProjectSnapshotsParams) ([]models.ProjectSnapshot, error) {
	if s == nil || s.db == nil || params.ProjectID == uuid.Nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).
		Model(&models.ProjectSnapshot{}).
		Where("project_id = ?", params.ProjectID)
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("taken_at >= ?", *params.Since)
	}
	if params.Until != nil && !params.Until.IsZero() {
		query = query.Where("taken_at <= ?", *params.Until)
	}
	limit := normalizeLimit(params.Limit, 200)
	offset := normalizeOffset(params.Offset)
	var items []models.ProjectSnapshot
	if err := query.Order("taken_at desc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Change feed -------------------------------------------------------------

func (s *Store) InsertChangeEvent(ctx context.Context, item *models.ChangeEvent) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListChangeEvents(ctx context.Context, params repository.ListChangeEventsParams) ([]models.ChangeEvent, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.ChangeEvent{})
	if params.SinceID > 0 {
		query = query.Where("id > ?", params.SinceID)
	}
	if params.ProjectID != nil && *params.ProjectID != uuid.Nil {
		query = query.Where("project_id = ?", *params.ProjectID)
	}
	if params.EntityType != nil && strings.TrimSpace(*params.EntityType) != "" {
		query = query.Where("entity_type = ?", strings.TrimSpace(*params.EntityType))
	}
	limit := normalizeLimit(params.Limit, 200)
	var items []models.ChangeEvent
	// Cursor order: oldest first so clients advance since_id monotonically.
	if err := query.Order("id asc").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteChangeEventsBefore(ctx context.Context, before time.Time) (int64, error) {
	if s == nil || s.db == nil || before.IsZero() {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.ChangeEvent{})
	return res.RowsAffected, res.Error
}

// --- System settings ---------------------------------------------------------

func (s *Store) UpsertSystemSetting(ctx context.Context, item *models.SystemSetting) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	item.Key = strings.TrimSpace(item.Key)
	if item.Key == "" {
		return nil
	}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"value",
			"description",
			"updated_at",
		}),
	}).Create(item).Error
}

func (s *Store) GetSystemSettingByKey(ctx context.Context, key string) (*models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, nil
	}
	var item models.SystemSetting
	err := s.db.WithContext(ctx).Model(&models.SystemSetting{}).Where("key = ?", key).First(&item).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSystemSettings(ctx context.Context, params repository.ListSystemSettingsParams) ([]models.SystemSetting, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := s.db.WithContext(ctx).Model(&models.SystemSetting{})
	if params.Prefix != nil && strings.TrimSpace(*params.Prefix) != "" {
		pattern := strings.TrimSpace(*params.Prefix) + "%"
		query = query.Where("key LIKE ?", pattern)
	}
	query = applyOrder(query, params.OrderBy, params.Asc, "key")
	limit := normalizeLimit(params.Limit, 500)
	offset := normalizeOffset(params.Offset)
	var items []models.SystemSetting
	if err := query.Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// --- Helpers -----------------------------------------------------------------

func applyOrder(query *gorm.DB, orderBy string, asc *bool, fallback string) *gorm.DB {
	column := strings.TrimSpace(orderBy)
	if column == "" {
		column = fallback
	}
	direction := "desc"
	if asc != nil && *asc {
		direction = "asc"
	}
	return query.Order(column + " " + direction)
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 500 {
		return 500
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

var _ repository.Repository = (*Store)(nil)

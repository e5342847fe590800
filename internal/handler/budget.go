package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/economics"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

type BudgetHandler struct {
	Repo repository.Repository
	Hub  *changefeed.Hub
}

func (h *BudgetHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/projects/:id/budget")
	group.GET("/items", h.listItems)
	group.POST("/items", h.createItem)
	group.PUT("/items/:item_id", h.updateItem)
	group.DELETE("/items/:item_id", h.deleteItem)
	group.POST("/items/:item_id/status", h.changeItemStatus)
	group.PUT("/reorder", h.reorderItems)
	group.GET("/rollup", h.rollup)
}

type budgetItemRequest struct {
	Category           string           `json:"category"`
	Name               string           `json:"name"`
	Description        *string          `json:"description"`
	Quantity           *decimal.Decimal `json:"quantity"`
	UnitRate           *decimal.Decimal `json:"unit_rate"`
	UnderwritingAmount *decimal.Decimal `json:"underwriting_amount"`
	ForecastAmount     *decimal.Decimal `json:"forecast_amount"`
	ActualAmount       *decimal.Decimal `json:"actual_amount"`
	VendorID           *uuid.UUID       `json:"vendor_id"`
	SortOrder          *int             `json:"sort_order"`
}

func (req *budgetItemRequest) validate(requireIdentity bool) string {
	if requireIdentity {
		if strings.TrimSpace(req.Name) == "" {
			return "name required"
		}
		if !models.ValidCategory(strings.TrimSpace(req.Category)) {
			return "unknown category"
		}
	} else if req.Category != "" && !models.ValidCategory(strings.TrimSpace(req.Category)) {
		return "unknown category"
	}
	for field, val := range map[string]*decimal.Decimal{
		"quantity":            req.Quantity,
		"unit_rate":           req.UnitRate,
		"underwriting_amount": req.UnderwritingAmount,
		"forecast_amount":     req.ForecastAmount,
		"actual_amount":       req.ActualAmount,
	} {
		if val != nil && val.IsNegative() {
			return field + " must not be negative"
		}
	}
	return ""
}

func (req *budgetItemRequest) apply(item *models.BudgetItem) {
	if strings.TrimSpace(req.Category) != "" {
		item.Category = strings.TrimSpace(req.Category)
	}
	if strings.TrimSpace(req.Name) != "" {
		item.Name = strings.TrimSpace(req.Name)
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Quantity != nil {
		item.Quantity = req.Quantity
	}
	if req.UnitRate != nil {
		item.UnitRate = req.UnitRate
	}
	if req.UnderwritingAmount != nil {
		item.UnderwritingAmount = *req.UnderwritingAmount
	}
	if req.ForecastAmount != nil {
		item.ForecastAmount = *req.ForecastAmount
	}
	if req.ActualAmount != nil {
		item.ActualAmount = req.ActualAmount
	}
	if req.VendorID != nil {
		item.VendorID = req.VendorID
	}
	if req.SortOrder != nil {
		item.SortOrder = *req.SortOrder
	}
}

// derivedAmount is quantity times unit rate, or nil when either is missing.
func derivedAmount(quantity, unitRate *decimal.Decimal) *decimal.Decimal {
	if quantity == nil || unitRate == nil {
		return nil
	}
	d := quantity.Mul(*unitRate).Round(2)
	return &d
}

func (h *BudgetHandler) listItems(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	category := strQueryPtr(c, "category")
	if category != nil && !models.ValidCategory(*category) {
		Error(c, http.StatusBadRequest, "unknown category", nil)
		return
	}
	status := strQueryPtr(c, "status")
	if status != nil && !models.ValidItemStatus(*status) {
		Error(c, http.StatusBadRequest, "unknown status", nil)
		return
	}
	projectID := project.ID
	items, err := h.Repo.ListBudgetItems(c.Request.Context(), repository.ListBudgetItemsParams{
		Limit:     intQuery(c, "limit", 500),
		Offset:    intQuery(c, "offset", 0),
		ProjectID: &projectID,
		Category:  category,
		Status:    status,
		VendorID:  uuidQueryPtr(c, "vendor_id"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

func (h *BudgetHandler) createItem(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	var req budgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(true); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if req.VendorID != nil && !h.vendorExists(c, *req.VendorID) {
		return
	}

	item := models.BudgetItem{
		ProjectID: project.ID,
		Status:    models.ItemStatusNotStarted,
	}
	req.apply(&item)
	if req.ForecastAmount == nil {
		if d := derivedAmount(item.Quantity, item.UnitRate); d != nil {
			item.ForecastAmount = *d
		}
	}
	if req.SortOrder == nil {
		existing, err := h.Repo.ListBudgetItemsByProjectID(c.Request.Context(), project.ID)
		if err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
		item.SortOrder = len(existing)
	}

	if err := h.Repo.InsertBudgetItem(c.Request.Context(), &item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publishItem(c, item, models.ChangeActionCreated)
	Ok(c, item, nil)
}

func (h *BudgetHandler) updateItem(c *gin.Context) {
	_, item, ok := h.loadItem(c)
	if !ok {
		return
	}
	var req budgetItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(false); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if req.VendorID != nil && !h.vendorExists(c, *req.VendorID) {
		return
	}

	// A forecast still matching quantity x rate (or still zero) was never
	// hand-edited, so it may be re-derived after this update.
	derivedOld := derivedAmount(item.Quantity, item.UnitRate)
	handEdited := !item.ForecastAmount.IsZero() &&
		(derivedOld == nil || item.ForecastAmount.Cmp(*derivedOld) != 0)

	req.apply(item)
	if req.ForecastAmount == nil && !handEdited {
		if d := derivedAmount(item.Quantity, item.UnitRate); d != nil {
			item.ForecastAmount = *d
		}
	}

	if err := h.Repo.UpdateBudgetItem(c.Request.Context(), item); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publishItem(c, *item, models.ChangeActionUpdated)
	Ok(c, item, nil)
}

func (h *BudgetHandler) deleteItem(c *gin.Context) {
	_, item, ok := h.loadItem(c)
	if !ok {
		return
	}
	if err := h.Repo.DeleteBudgetItem(c.Request.Context(), item.ID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		projectID := item.ProjectID
		h.Hub.Publish(c.Request.Context(), changefeed.Change{
			ProjectID:  &projectID,
			EntityType: changefeed.EntityBudgetItem,
			EntityID:   item.ID.String(),
			Action:     models.ChangeActionDeleted,
			Payload:    map[string]any{"name": item.Name, "category": item.Category},
		})
	}
	Ok(c, map[string]any{"id": item.ID, "deleted": true}, nil)
}

func (h *BudgetHandler) changeItemStatus(c *gin.Context) {
	_, item, ok := h.loadItem(c)
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	target := strings.TrimSpace(req.Status)
	if !models.ValidItemStatus(target) {
		Error(c, http.StatusBadRequest, "unknown status", nil)
		return
	}
	if !models.ValidItemTransition(item.Status, target) {
		Error(c, http.StatusConflict, "invalid status transition", map[string]any{
			"from": item.Status,
			"to":   target,
		})
		return
	}
	if err := h.Repo.UpdateBudgetItemStatus(c.Request.Context(), item.ID, target); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		projectID := item.ProjectID
		h.Hub.Publish(c.Request.Context(), changefeed.Change{
			ProjectID:  &projectID,
			EntityType: changefeed.EntityBudgetItem,
			EntityID:   item.ID.String(),
			Action:     models.ChangeActionStatusChanged,
			Payload:    map[string]any{"from": item.Status, "to": target},
		})
	}
	Ok(c, map[string]any{"id": item.ID, "status": target}, nil)
}

type reorderRequest struct {
	ItemIDs []uuid.UUID `json:"item_ids"`
}

func (h *BudgetHandler) reorderItems(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if len(req.ItemIDs) == 0 {
		Error(c, http.StatusBadRequest, "item_ids required", nil)
		return
	}

	existing, err := h.Repo.ListBudgetItemsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	known := map[uuid.UUID]struct{}{}
	for _, item := range existing {
		known[item.ID] = struct{}{}
	}
	seen := map[uuid.UUID]struct{}{}
	for _, id := range req.ItemIDs {
		if _, ok := known[id]; !ok {
			Error(c, http.StatusBadRequest, "item not in project: "+id.String(), nil)
			return
		}
		if _, ok := seen[id]; ok {
			Error(c, http.StatusBadRequest, "duplicate item id: "+id.String(), nil)
			return
		}
		seen[id] = struct{}{}
	}

	if err := h.Repo.ReorderBudgetItems(c.Request.Context(), project.ID, req.ItemIDs); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		projectID := project.ID
		h.Hub.Publish(c.Request.Context(), changefeed.Change{
			ProjectID:  &projectID,
			EntityType: changefeed.EntityProject,
			EntityID:   project.ID.String(),
			Action:     models.ChangeActionUpdated,
			Payload:    map[string]any{"reordered_items": len(req.ItemIDs)},
		})
	}
	Ok(c, map[string]any{"project_id": project.ID, "reordered": len(req.ItemIDs)}, nil)
}

func (h *BudgetHandler) rollup(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	items, err := h.Repo.ListBudgetItemsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, economics.RollupBudget(items, project.ContingencyPct), nil)
}

func (h *BudgetHandler) loadProject(c *gin.Context) (*models.Project, bool) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return nil, false
	}
	id := uuidParam(c, "id")
	if id == uuid.Nil {
		Error(c, http.StatusBadRequest, "invalid project id", nil)
		return nil, false
	}
	project, err := h.Repo.GetProjectByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if project == nil {
		Error(c, http.StatusNotFound, "project not found", nil)
		return nil, false
	}
	return project, true
}

// loadItem resolves both path params and checks the item belongs to the
// project in the URL.
func (h *BudgetHandler) loadItem(c *gin.Context) (*models.Project, *models.BudgetItem, bool) {
	project, ok := h.loadProject(c)
	if !ok {
		return nil, nil, false
	}
	itemID := uuidParam(c, "item_id")
	if itemID == uuid.Nil {
		Error(c, http.StatusBadRequest, "invalid item id", nil)
		return nil, nil, false
	}
	item, err := h.Repo.GetBudgetItemByID(c.Request.Context(), itemID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, nil, false
	}
	if item == nil || item.ProjectID != project.ID {
		Error(c, http.StatusNotFound, "budget item not found", nil)
		return nil, nil, false
	}
	return project, item, true
}

func (h *BudgetHandler) vendorExists(c *gin.Context, id uuid.UUID) bool {
	vendor, err := h.Repo.GetVendorByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return false
	}
	if vendor == nil {
		Error(c, http.StatusBadRequest, "vendor not found", nil)
		return false
	}
	return true
}

func (h *BudgetHandler) publishItem(c *gin.Context, item models.BudgetItem, action string) {
	if h.Hub == nil {
		return
	}
	projectID := item.ProjectID
	h.Hub.Publish(c.Request.Context(), changefeed.Change{
		ProjectID:  &projectID,
		EntityType: changefeed.EntityBudgetItem,
		EntityID:   item.ID.String(),
		Action:     action,
		Payload:    item,
	})
}

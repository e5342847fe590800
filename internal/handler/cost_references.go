package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
	"rehabtrack/internal/service"
)

type CostReferenceHandler struct {
	Repo  repository.Repository
	Hub   *changefeed.Hub
	Flags *service.SystemSettingsService
}

func (h *CostReferenceHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/cost-references")
	group.GET("", h.listEntries)
	group.POST("", h.createEntry)
	group.GET("/:id", h.getEntry)
	group.PUT("/:id", h.updateEntry)
	group.DELETE("/:id", h.deleteEntry)
	group.POST("/import", h.importEntries)
}

type costReferenceRequest struct {
	Category string           `json:"category"`
	Name     string           `json:"name"`
	Unit     string           `json:"unit"`
	LowCost  *decimal.Decimal `json:"low_cost"`
	MidCost  *decimal.Decimal `json:"mid_cost"`
	HighCost *decimal.Decimal `json:"high_cost"`
	Region   *string          `json:"region"`
	Notes    *string          `json:"notes"`
}

func (req *costReferenceRequest) validate(requireIdentity bool) string {
	if requireIdentity {
		if strings.TrimSpace(req.Name) == "" {
			return "name required"
		}
		if strings.TrimSpace(req.Unit) == "" {
			return "unit required"
		}
		if !models.ValidCategory(strings.TrimSpace(req.Category)) {
			return "unknown category"
		}
	} else if req.Category != "" && !models.ValidCategory(strings.TrimSpace(req.Category)) {
		return "unknown category"
	}
	for field, val := range map[string]*decimal.Decimal{
		"low_cost":  req.LowCost,
		"mid_cost":  req.MidCost,
		"high_cost": req.HighCost,
	} {
		if val != nil && val.IsNegative() {
			return field + " must not be negative"
		}
	}
	return ""
}

// checkBands enforces low <= mid <= high on the merged entry.
func checkBands(e *models.CostReference) string {
	if e.LowCost.GreaterThan(e.MidCost) {
		return "low_cost must not exceed mid_cost"
	}
	if e.MidCost.GreaterThan(e.HighCost) {
		return "mid_cost must not exceed high_cost"
	}
	return ""
}

func (req *costReferenceRequest) apply(e *models.CostReference) {
	if strings.TrimSpace(req.Category) != "" {
		e.Category = strings.TrimSpace(req.Category)
	}
	if strings.TrimSpace(req.Name) != "" {
		e.Name = strings.TrimSpace(req.Name)
	}
	if strings.TrimSpace(req.Unit) != "" {
		e.Unit = strings.TrimSpace(req.Unit)
	}
	if req.LowCost != nil {
		e.LowCost = *req.LowCost
	}
	if req.MidCost != nil {
		e.MidCost = *req.MidCost
	}
	if req.HighCost != nil {
		e.HighCost = *req.HighCost
	}
	if req.Region != nil {
		e.Region = *req.Region
	}
	if req.Notes != nil {
		e.Notes = *req.Notes
	}
}

func (h *CostReferenceHandler) listEntries(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	category := strQueryPtr(c, "category")
	if category != nil && !models.ValidCategory(*category) {
		Error(c, http.StatusBadRequest, "unknown category", nil)
		return
	}
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"category":   "category",
		"name":       "name",
		"mid_cost":   "mid_cost",
		"created_at": "created_at",
	})
	if orderBy == "" {
		orderBy = "category"
	}
	params := repository.ListCostReferencesParams{
		Limit:    intQuery(c, "limit", 100),
		Offset:   intQuery(c, "offset", 0),
		Category: category,
		Unit:     strQueryPtr(c, "unit"),
		Region:   strQueryPtr(c, "region"),
		Search:   strQueryPtr(c, "search"),
		OrderBy:  orderBy,
		Asc:      boolPtr(orderAsc(c, true)),
	}
	entries, err := h.Repo.ListCostReferences(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountCostReferences(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, entries, paginationMeta(params.Limit, params.Offset, total))
}

func (h *CostReferenceHandler) createEntry(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req costReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(true); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	var entry models.CostReference
	req.apply(&entry)
	if msg := checkBands(&entry); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if err := h.Repo.InsertCostReference(c.Request.Context(), &entry); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, entry, models.ChangeActionCreated, entry)
	Ok(c, entry, nil)
}

func (h *CostReferenceHandler) getEntry(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}
	Ok(c, entry, nil)
}

func (h *CostReferenceHandler) updateEntry(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}
	var req costReferenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(false); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	req.apply(entry)
	if msg := checkBands(entry); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	if err := h.Repo.UpdateCostReference(c.Request.Context(), entry); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, *entry, models.ChangeActionUpdated, entry)
	Ok(c, entry, nil)
}

func (h *CostReferenceHandler) deleteEntry(c *gin.Context) {
	entry, ok := h.loadEntry(c)
	if !ok {
		return
	}
	if err := h.Repo.DeleteCostReference(c.Request.Context(), entry.ID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, *entry, models.ChangeActionDeleted, map[string]any{"name": entry.Name, "category": entry.Category})
	Ok(c, map[string]any{"id": entry.ID, "deleted": true}, nil)
}

type costReferenceImportRequest struct {
	Entries []costReferenceRequest `json:"entries"`
}

// importEntries bulk-upserts cost book rows keyed on
// (category, name, unit, region). Gated behind the cost book switch so an
// operator can freeze the book during a review.
func (h *CostReferenceHandler) importEntries(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	if h.Flags != nil && !h.Flags.IsEnabled(c.Request.Context(), service.FeatureCostBook, true) {
		Error(c, http.StatusServiceUnavailable, "cost book imports disabled", nil)
		return
	}
	var req costReferenceImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if len(req.Entries) == 0 {
		Error(c, http.StatusBadRequest, "entries required", nil)
		return
	}

	rows := make([]models.CostReference, 0, len(req.Entries))
	for i, in := range req.Entries {
		if msg := in.validate(true); msg != "" {
			Error(c, http.StatusBadRequest, msg, map[string]any{"index": i})
			return
		}
		var entry models.CostReference
		in.apply(&entry)
		if msg := checkBands(&entry); msg != "" {
			Error(c, http.StatusBadRequest, msg, map[string]any{"index": i})
			return
		}
		rows = append(rows, entry)
	}

	if err := h.Repo.UpsertCostReferences(c.Request.Context(), rows); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		h.Hub.Publish(c.Request.Context(), changefeed.Change{
			EntityType: changefeed.EntityCostReference,
			EntityID:   "import",
			Action:     models.ChangeActionUpdated,
			Payload:    map[string]any{"imported": len(rows)},
		})
	}
	Ok(c, map[string]any{"imported": len(rows)}, nil)
}

func (h *CostReferenceHandler) loadEntry(c *gin.Context) (*models.CostReference, bool) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return nil, false
	}
	id := uuidParam(c, "id")
	if id == uuid.Nil {
		Error(c, http.StatusBadRequest, "invalid cost reference id", nil)
		return nil, false
	}
	entry, err := h.Repo.GetCostReferenceByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if entry == nil {
		Error(c, http.StatusNotFound, "cost reference not found", nil)
		return nil, false
	}
	return entry, true
}

func (h *CostReferenceHandler) publish(c *gin.Context, entry models.CostReference, action string, payload any) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(c.Request.Context(), changefeed.Change{
		EntityType: changefeed.EntityCostReference,
		EntityID:   entry.ID.String(),
		Action:     action,
		Payload:    payload,
	})
}

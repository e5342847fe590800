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
	"rehabtrack/internal/service"
)

type ProjectHandler struct {
	Repo      repository.Repository
	Hub       *changefeed.Hub
	Notes     *service.NoteSaver
	Snapshots *service.SnapshotService
}

func (h *ProjectHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/projects")
	group.GET("", h.listProjects)
	group.POST("", h.createProject)
	group.GET("/:id", h.getProject)
	group.PUT("/:id", h.updateProject)
	group.DELETE("/:id", h.deleteProject)
	group.POST("/:id/status", h.changeStatus)
	group.PUT("/:id/notes", h.putNotes)
	group.GET("/:id/summary", h.summary)
	group.GET("/:id/snapshots", h.listSnapshots)
	group.POST("/:id/snapshots", h.takeSnapshot)
	group.GET("/:id/vendor-summary", h.vendorSummary)
}

type projectRequest struct {
	Name           string           `json:"name"`
	Address        string           `json:"address"`
	City           string           `json:"city"`
	State          string           `json:"state"`
	Zip            string           `json:"zip"`
	Beds           *int             `json:"beds"`
	Baths          *decimal.Decimal `json:"baths"`
	Sqft           *int             `json:"sqft"`
	YearBuilt      *int             `json:"year_built"`
	ARV            *decimal.Decimal `json:"arv"`
	PurchasePrice  *decimal.Decimal `json:"purchase_price"`
	ClosingCost    *decimal.Decimal `json:"closing_cost"`
	HoldingMonthly *decimal.Decimal `json:"holding_monthly"`
	HoldingMonths  *int             `json:"holding_months"`
	SellingCostPct *decimal.Decimal `json:"selling_cost_pct"`
	ContingencyPct *decimal.Decimal `json:"contingency_pct"`
	Notes          *string          `json:"notes"`
}

// validate returns a message for the first bad field, or "".
func (req *projectRequest) validate(requireName bool) string {
	if requireName && strings.TrimSpace(req.Name) == "" {
		return "name required"
	}
	for field, val := range map[string]*decimal.Decimal{
		"arv":             req.ARV,
		"purchase_price":  req.PurchasePrice,
		"closing_cost":    req.ClosingCost,
		"holding_monthly": req.HoldingMonthly,
	} {
		if val != nil && val.IsNegative() {
			return field + " must not be negative"
		}
	}
	for field, val := range map[string]*decimal.Decimal{
		"selling_cost_pct": req.SellingCostPct,
		"contingency_pct":  req.ContingencyPct,
	} {
		if val != nil && (val.IsNegative() || val.GreaterThan(decimal.NewFromInt(100))) {
			return field + " must be between 0 and 100"
		}
	}
	if req.HoldingMonths != nil && *req.HoldingMonths < 0 {
		return "holding_months must not be negative"
	}
	if req.Baths != nil && req.Baths.IsNegative() {
		return "baths must not be negative"
	}
	return ""
}

// apply copies the request onto the model; nil fields leave the model alone
// so the same type serves create and update.
func (req *projectRequest) apply(p *models.Project) {
	if strings.TrimSpace(req.Name) != "" {
		p.Name = strings.TrimSpace(req.Name)
	}
	if req.Address != "" {
		p.Address = strings.TrimSpace(req.Address)
	}
	if req.City != "" {
		p.City = strings.TrimSpace(req.City)
	}
	if req.State != "" {
		p.State = strings.TrimSpace(req.State)
	}
	if req.Zip != "" {
		p.Zip = strings.TrimSpace(req.Zip)
	}
	if req.Beds != nil {
		p.Beds = req.Beds
	}
	if req.Baths != nil {
		p.Baths = req.Baths
	}
	if req.Sqft != nil {
		p.Sqft = req.Sqft
	}
	if req.YearBuilt != nil {
		p.YearBuilt = req.YearBuilt
	}
	if req.ARV != nil {
		p.ARV = *req.ARV
	}
	if req.PurchasePrice != nil {
		p.PurchasePrice = *req.PurchasePrice
	}
	if req.ClosingCost != nil {
		p.ClosingCost = *req.ClosingCost
	}
	if req.HoldingMonthly != nil {
		p.HoldingMonthly = *req.HoldingMonthly
	}
	if req.HoldingMonths != nil {
		p.HoldingMonths = *req.HoldingMonths
	}
	if req.SellingCostPct != nil {
		p.SellingCostPct = *req.SellingCostPct
	}
	if req.ContingencyPct != nil {
		p.ContingencyPct = *req.ContingencyPct
	}
	if req.Notes != nil {
		p.Notes = *req.Notes
	}
}

// @Summary List projects
// @Tags projects
// @Param status query string false "project status"
// @Param city query string false "city filter"
// @Param state query string false "state filter"
// @Param search query string false "match name or address"
// @Param sort_by query string false "name|city|status|arv|purchase_price|created_at|updated_at"
// @Param order query string false "asc|desc"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects [get]
func (h *ProjectHandler) listProjects(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	status := strQueryPtr(c, "status")
	if status != nil && !models.ValidProjectStatus(*status) {
		Error(c, http.StatusBadRequest, "unknown status", nil)
		return
	}
	limit := intQuery(c, "limit", 50)
	offset := intQuery(c, "offset", 0)
	orderBy := parseOrder(c.Query("sort_by"), map[string]string{
		"name":           "name",
		"city":           "city",
		"status":         "status",
		"arv":            "arv",
		"purchase_price": "purchase_price",
		"created_at":     "created_at",
		"updated_at":     "updated_at",
	})
	if orderBy == "" {
		orderBy = "created_at"
	}

	params := repository.ListProjectsParams{
		Limit:   limit,
		Offset:  offset,
		Status:  status,
		City:    strQueryPtr(c, "city"),
		State:   strQueryPtr(c, "state"),
		Search:  strQueryPtr(c, "search"),
		OrderBy: orderBy,
		Asc:     boolPtr(orderAsc(c, false)),
	}
	items, err := h.Repo.ListProjects(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountProjects(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, paginationMeta(limit, offset, total))
}

// @Summary Create project
// @Tags projects
// @Param body body projectRequest true "project fields"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects [post]
func (h *ProjectHandler) createProject(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(true); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}

	project := models.Project{Status: models.ProjectStatusAnalyzing}
	req.apply(&project)
	if err := h.Repo.InsertProject(c.Request.Context(), &project); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, project, models.ChangeActionCreated)
	Ok(c, project, nil)
}

// @Summary Get project
// @Tags projects
// @Param id path string true "project id"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id} [get]
func (h *ProjectHandler) getProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	Ok(c, project, nil)
}

// @Summary Update project
// @Tags projects
// @Param id path string true "project id"
// @Param body body projectRequest true "fields to change"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id} [put]
func (h *ProjectHandler) updateProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(false); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}

	req.apply(project)
	if err := h.Repo.UpdateProject(c.Request.Context(), project); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, *project, models.ChangeActionUpdated)
	Ok(c, project, nil)
}

// @Summary Delete project
// @Tags projects
// @Param id path string true "project id"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id} [delete]
func (h *ProjectHandler) deleteProject(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	if err := h.Repo.DeleteProject(c.Request.Context(), project.ID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		projectID := project.ID
		h.Hub.Publish(c.Request.Context(), changefeed.Change{
			ProjectID:  &projectID,
			EntityType: changefeed.EntityProject,
			EntityID:   project.ID.String(),
			Action:     models.ChangeActionDeleted,
			Payload:    map[string]any{"name": project.Name},
		})
	}
	Ok(c, map[string]any{"id": project.ID, "deleted": true}, nil)
}

type changeStatusRequest struct {
	Status string `json:"status"`
}

// @Summary Change project status
// @Tags projects
// @Param id path string true "project id"
// @Param body body changeStatusRequest true "target status"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id}/status [post]
func (h *ProjectHandler) changeStatus(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	var req changeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	target := strings.TrimSpace(req.Status)
	if !models.ValidProjectStatus(target) {
		Error(c, http.StatusBadRequest, "unknown status", nil)
		return
	}
	if !models.ValidProjectTransition(project.Status, target) {
		Error(c, http.StatusConflict, "invalid status transition", map[string]any{
			"from": project.Status,
			"to":   target,
		})
		return
	}
	if err := h.Repo.UpdateProjectStatus(c.Request.Context(), project.ID, target); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if h.Hub != nil {
		projectID := project.ID
		h.Hub.Publish(c.Request.Context(), changefeed.Change{
			ProjectID:  &projectID,
			EntityType: changefeed.EntityProject,
			EntityID:   project.ID.String(),
			Action:     models.ChangeActionStatusChanged,
			Payload:    map[string]any{"from": project.Status, "to": target},
		})
	}
	Ok(c, map[string]any{"id": project.ID, "status": target}, nil)
}

type putNotesRequest struct {
	Notes string `json:"notes"`
}

// @Summary Save project notes
// @Tags projects
// @Param id path string true "project id"
// @Param body body putNotesRequest true "note text"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id}/notes [put]
func (h *ProjectHandler) putNotes(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	var req putNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if h.Notes == nil {
		Error(c, http.StatusInternalServerError, "note saver unavailable", nil)
		return
	}
	at, deferred := h.Notes.Save(c.Request.Context(), project.ID, req.Notes)
	Ok(c, map[string]any{
		"id":               project.ID,
		"notes_updated_at": at,
		"deferred":         deferred,
	}, nil)
}

// @Summary Full deal summary
// @Tags projects
// @Param id path string true "project id"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id}/summary [get]
func (h *ProjectHandler) summary(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	items, err := h.Repo.ListBudgetItemsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	deal := economics.Summarize(*project, items)

	draws, err := h.Repo.ListDrawsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, map[string]any{
		"project": project,
		"deal":    deal,
		"draws":   economics.RollupDraws(draws, deal.Budget.ActiveBudget),
	}, nil)
}

// @Summary List project snapshots
// @Tags projects
// @Param id path string true "project id"
// @Param since query string false "RFC3339 lower bound"
// @Param until query string false "RFC3339 upper bound"
// @Param limit query int false "limit"
// @Param offset query int false "offset"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id}/snapshots [get]
func (h *ProjectHandler) listSnapshots(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	items, err := h.Repo.ListProjectSnapshots(c.Request.Context(), repository.ListProjectSnapshotsParams{
		ProjectID: project.ID,
		Limit:     intQuery(c, "limit", 100),
		Offset:    intQuery(c, "offset", 0),
		Since:     timeQueryPtr(c, "since"),
		Until:     timeQueryPtr(c, "until"),
	})
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, items, nil)
}

// @Summary Take a snapshot now
// @Tags projects
// @Param id path string true "project id"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id}/snapshots [post]
func (h *ProjectHandler) takeSnapshot(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	if h.Snapshots == nil {
		Error(c, http.StatusInternalServerError, "snapshot service unavailable", nil)
		return
	}
	snap, err := h.Snapshots.SnapshotProject(c.Request.Context(), project.ID, models.SnapshotTriggerManual)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, snap, nil)
}

// @Summary Per-vendor budget totals
// @Tags projects
// @Param id path string true "project id"
// @Success 200 {object} apiResponse
// @Router /api/v1/projects/{id}/vendor-summary [get]
func (h *ProjectHandler) vendorSummary(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	items, err := h.Repo.ListBudgetItemsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	aggregates := economics.AggregateVendors(items)

	vendorIDs := make([]uuid.UUID, 0, len(aggregates))
	for _, agg := range aggregates {
		vendorIDs = append(vendorIDs, agg.VendorID)
	}
	vendors, err := h.Repo.ListVendorsByIDs(c.Request.Context(), vendorIDs)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	vendorByID := map[uuid.UUID]models.Vendor{}
	for _, v := range vendors {
		vendorByID[v.ID] = v
	}

	out := make([]map[string]any, 0, len(aggregates))
	for _, agg := range aggregates {
		row := map[string]any{
			"vendor_id":  agg.VendorID,
			"budget":     agg.Budget,
			"actual":     agg.Actual,
			"item_count": agg.ItemCount,
		}
		if v, ok := vendorByID[agg.VendorID]; ok {
			row["name"] = v.Name
			row["trade"] = v.Trade
		}
		out = append(out, row)
	}
	Ok(c, out, nil)
}

// loadProject resolves the :id path param; on failure it writes the error
// response and returns ok=false.
func (h *ProjectHandler) loadProject(c *gin.Context) (*models.Project, bool) {
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

func (h *ProjectHandler) publish(c *gin.Context, project models.Project, action string) {
	if h.Hub == nil {
		return
	}
	projectID := project.ID
	h.Hub.Publish(c.Request.Context(), changefeed.Change{
		ProjectID:  &projectID,
		EntityType: changefeed.EntityProject,
		EntityID:   project.ID.String(),
		Action:     action,
		Payload:    project,
	})
}

package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/economics"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

type DrawHandler struct {
	Repo repository.Repository
	Hub  *changefeed.Hub
}

func (h *DrawHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/projects/:id/draws")
	group.GET("", h.listDraws)
	group.POST("", h.createDraw)
	group.GET("/summary", h.summary)
	group.POST("/:draw_id/approve", h.approveDraw)
	group.POST("/:draw_id/pay", h.payDraw)
}

type drawRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Memo     string          `json:"memo"`
	VendorID *uuid.UUID      `json:"vendor_id"`
}

func (h *DrawHandler) listDraws(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	draws, err := h.Repo.ListDrawsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if status := strQueryPtr(c, "status"); status != nil {
		filtered := draws[:0]
		for _, d := range draws {
			if d.Status == *status {
				filtered = append(filtered, d)
			}
		}
		draws = filtered
	}
	Ok(c, draws, nil)
}

func (h *DrawHandler) createDraw(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	var req drawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if !req.Amount.GreaterThan(decimal.Zero) {
		Error(c, http.StatusBadRequest, "amount must be positive", nil)
		return
	}
	if req.VendorID != nil {
		vendor, err := h.Repo.GetVendorByID(c.Request.Context(), *req.VendorID)
		if err != nil {
			Error(c, http.StatusBadGateway, err.Error(), nil)
			return
		}
		if vendor == nil {
			Error(c, http.StatusBadRequest, "vendor not found", nil)
			return
		}
	}

	existing, err := h.Repo.ListDrawsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}

	draw := models.Draw{
		ProjectID:   project.ID,
		DrawNumber:  economics.NextDrawNumber(existing),
		Amount:      req.Amount,
		Status:      models.DrawStatusPending,
		Memo:        req.Memo,
		VendorID:    req.VendorID,
		RequestedAt: time.Now().UTC(),
	}
	if err := h.Repo.InsertDraw(c.Request.Context(), &draw); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, draw, models.ChangeActionCreated, draw)
	Ok(c, draw, nil)
}

func (h *DrawHandler) summary(c *gin.Context) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	draws, err := h.Repo.ListDrawsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	items, err := h.Repo.ListBudgetItemsByProjectID(c.Request.Context(), project.ID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	budget := economics.RollupBudget(items, project.ContingencyPct)
	Ok(c, economics.RollupDraws(draws, budget.ActiveBudget), nil)
}

func (h *DrawHandler) approveDraw(c *gin.Context) {
	h.transition(c, models.DrawStatusApproved)
}

func (h *DrawHandler) payDraw(c *gin.Context) {
	h.transition(c, models.DrawStatusPaid)
}

func (h *DrawHandler) transition(c *gin.Context, target string) {
	project, ok := h.loadProject(c)
	if !ok {
		return
	}
	drawID := uuidParam(c, "draw_id")
	if drawID == uuid.Nil {
		Error(c, http.StatusBadRequest, "invalid draw id", nil)
		return
	}
	draw, err := h.Repo.GetDrawByID(c.Request.Context(), drawID)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	if draw == nil || draw.ProjectID != project.ID {
		Error(c, http.StatusNotFound, "draw not found", nil)
		return
	}
	if !models.ValidDrawTransition(draw.Status, target) {
		Error(c, http.StatusConflict, "invalid status transition", map[string]any{
			"from": draw.Status,
			"to":   target,
		})
		return
	}

	at := time.Now().UTC()
	if err := h.Repo.UpdateDrawStatus(c.Request.Context(), draw.ID, target, at); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, *draw, models.ChangeActionStatusChanged, map[string]any{
		"from":        draw.Status,
		"to":          target,
		"draw_number": draw.DrawNumber,
		"amount":      draw.Amount,
	})
	Ok(c, map[string]any{"id": draw.ID, "draw_number": draw.DrawNumber, "status": target}, nil)
}

func (h *DrawHandler) loadProject(c *gin.Context) (*models.Project, bool) {
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

func (h *DrawHandler) publish(c *gin.Context, draw models.Draw, action string, payload any) {
	if h.Hub == nil {
		return
	}
	projectID := draw.ProjectID
	h.Hub.Publish(c.Request.Context(), changefeed.Change{
		ProjectID:  &projectID,
		EntityType: changefeed.EntityDraw,
		EntityID:   draw.ID.String(),
		Action:     action,
		Payload:    payload,
	})
}

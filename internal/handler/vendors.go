package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

type VendorHandler struct {
	Repo repository.Repository
	Hub  *changefeed.Hub
}

func (h *VendorHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/vendors")
	group.GET("", h.listVendors)
	group.POST("", h.createVendor)
	group.GET("/:id", h.getVendor)
	group.PUT("/:id", h.updateVendor)
	group.DELETE("/:id", h.deleteVendor)
}

type vendorRequest struct {
	Name     string  `json:"name"`
	Company  *string `json:"company"`
	Trade    *string `json:"trade"`
	Phone    *string `json:"phone"`
	Email    *string `json:"email"`
	Licensed *bool   `json:"licensed"`
	Insured  *bool   `json:"insured"`
	W9OnFile *bool   `json:"w9_on_file"`
	Rating   *int    `json:"rating"`
	Notes    *string `json:"notes"`
	Active   *bool   `json:"active"`
}

func (req *vendorRequest) validate(requireName bool) string {
	if requireName && strings.TrimSpace(req.Name) == "" {
		return "name required"
	}
	if req.Rating != nil && (*req.Rating < 0 || *req.Rating > 5) {
		return "rating must be between 0 and 5"
	}
	return ""
}

func (req *vendorRequest) apply(v *models.Vendor) {
	if strings.TrimSpace(req.Name) != "" {
		v.Name = strings.TrimSpace(req.Name)
	}
	if req.Company != nil {
		v.Company = *req.Company
	}
	if req.Trade != nil {
		v.Trade = *req.Trade
	}
	if req.Phone != nil {
		v.Phone = *req.Phone
	}
	if req.Email != nil {
		v.Email = *req.Email
	}
	if req.Licensed != nil {
		v.Licensed = *req.Licensed
	}
	if req.Insured != nil {
		v.Insured = *req.Insured
	}
	if req.W9OnFile != nil {
		v.W9OnFile = *req.W9OnFile
	}
	if req.Rating != nil {
		v.Rating = *req.Rating
	}
	if req.Notes != nil {
		v.Notes = *req.Notes
	}
	if req.Active != nil {
		v.Active = *req.Active
	}
}

func (h *VendorHandler) listVendors(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	orderBy := parseOrder(c.Query("order_by"), map[string]string{
		"name":       "name",
		"trade":      "trade",
		"rating":     "rating",
		"created_at": "created_at",
	})
	if orderBy == "" {
		orderBy = "name"
	}
	params := repository.ListVendorsParams{
		Limit:     intQuery(c, "limit", 50),
		Offset:    intQuery(c, "offset", 0),
		Trade:     strQueryPtr(c, "trade"),
		Active:    boolQueryPtr(c, "active"),
		MinRating: intQueryPtr(c, "min_rating"),
		Search:    strQueryPtr(c, "search"),
		OrderBy:   orderBy,
		Asc:       boolPtr(orderAsc(c, true)),
	}
	vendors, err := h.Repo.ListVendors(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	total, err := h.Repo.CountVendors(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	Ok(c, vendors, paginationMeta(params.Limit, params.Offset, total))
}

func (h *VendorHandler) createVendor(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(true); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	vendor := models.Vendor{Active: true}
	req.apply(&vendor)
	if err := h.Repo.InsertVendor(c.Request.Context(), &vendor); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, vendor, models.ChangeActionCreated, vendor)
	Ok(c, vendor, nil)
}

func (h *VendorHandler) getVendor(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}
	Ok(c, vendor, nil)
}

func (h *VendorHandler) updateVendor(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Error(c, http.StatusBadRequest, "invalid body", nil)
		return
	}
	if msg := req.validate(false); msg != "" {
		Error(c, http.StatusBadRequest, msg, nil)
		return
	}
	req.apply(vendor)
	if err := h.Repo.UpdateVendor(c.Request.Context(), vendor); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, *vendor, models.ChangeActionUpdated, vendor)
	Ok(c, vendor, nil)
}

func (h *VendorHandler) deleteVendor(c *gin.Context) {
	vendor, ok := h.loadVendor(c)
	if !ok {
		return
	}
	if err := h.Repo.DeleteVendor(c.Request.Context(), vendor.ID); err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	h.publish(c, *vendor, models.ChangeActionDeleted, map[string]any{"name": vendor.Name})
	Ok(c, map[string]any{"id": vendor.ID, "deleted": true}, nil)
}

func (h *VendorHandler) loadVendor(c *gin.Context) (*models.Vendor, bool) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return nil, false
	}
	id := uuidParam(c, "id")
	if id == uuid.Nil {
		Error(c, http.StatusBadRequest, "invalid vendor id", nil)
		return nil, false
	}
	vendor, err := h.Repo.GetVendorByID(c.Request.Context(), id)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return nil, false
	}
	if vendor == nil {
		Error(c, http.StatusNotFound, "vendor not found", nil)
		return nil, false
	}
	return vendor, true
}

// Vendors are global, so their feed events carry no project scope.
func (h *VendorHandler) publish(c *gin.Context, vendor models.Vendor, action string, payload any) {
	if h.Hub == nil {
		return
	}
	h.Hub.Publish(c.Request.Context(), changefeed.Change{
		EntityType: changefeed.EntityVendor,
		EntityID:   vendor.ID.String(),
		Action:     action,
		Payload:    payload,
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"rehabtrack/internal/repository"
)

// ChangeFeedHandler serves the polling cursor API over the append-only
// change feed. Clients remember the last event ID they saw and pass it back
// as since_id.
type ChangeFeedHandler struct {
	Repo repository.Repository
}

func (h *ChangeFeedHandler) Register(r *gin.Engine) {
	r.GET("/api/v1/changes", h.listChanges)
}

func (h *ChangeFeedHandler) listChanges(c *gin.Context) {
	if h.Repo == nil {
		Error(c, http.StatusInternalServerError, "repo unavailable", nil)
		return
	}
	limit := intQuery(c, "limit", 100)
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	params := repository.ListChangeEventsParams{
		SinceID:    uint64Query(c, "since_id", 0),
		Limit:      limit,
		ProjectID:  uuidQueryPtr(c, "project_id"),
		EntityType: strQueryPtr(c, "entity_type"),
	}
	events, err := h.Repo.ListChangeEvents(c.Request.Context(), params)
	if err != nil {
		Error(c, http.StatusBadGateway, err.Error(), nil)
		return
	}
	var lastID uint64
	if len(events) > 0 {
		lastID = events[len(events)-1].ID
	} else {
		lastID = params.SinceID
	}
	Ok(c, events, map[string]any{"last_id": lastID, "count": len(events)})
}

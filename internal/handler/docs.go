package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterDocs serves a short hand-written API orientation page. The
// generated swagger UI at /swagger/index.html has the full surface.
func RegisterDocs(r *gin.Engine) {
	r.GET("/docs", func(c *gin.Context) {
		c.Header("Content-Type", "text/markdown; charset=utf-8")
		c.String(http.StatusOK, `# Rehab Track API

Budgeting and deal economics for residential rehab projects.

## Notable Routes

- GET /healthz
- GET /readyz
- GET /swagger/index.html
- GET /api/v1/projects
- GET /api/v1/projects/{id}/summary
- GET /api/v1/projects/{id}/budget/rollup
- GET /api/v1/projects/{id}/draws/summary
- GET /api/v1/projects/{id}/vendor-summary
- GET /api/v1/projects/{id}/snapshots
- GET /api/v1/vendors
- GET /api/v1/cost-references
- GET /api/v1/changes
- GET /api/v1/settings/switches

## Conventions

Every response uses the envelope {code, message, data, meta}. List
endpoints take limit/offset and return pagination meta. Mutations are
recorded on the change feed; poll /api/v1/changes with the last event id
you saw as since_id.

## Phases

Budget figures carry three phases: underwriting (pre-offer estimate),
forecast (post-walkthrough bid), actual (billed spend). Roll-ups pick
the active phase automatically: actual once any spend exists, else
forecast, else underwriting. Contingency applies to the estimate phases
only, never to actual.
`)
	})
}

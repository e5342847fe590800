// Package changefeed is the in-process "something changed" bus. Handlers and
// background jobs publish a Change after every mutation; the hub persists it
// as a ChangeEvent row for the polling API and fans it out to in-process
// subscribers without ever blocking the publisher.
package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

// Entity types carried on the feed.
const (
	EntityProject       = "project"
	EntityBudgetItem    = "budget_item"
	EntityDraw          = "draw"
	EntityVendor        = "vendor"
	EntityCostReference = "cost_reference"
)

// Change is one mutation notice before persistence.
type Change struct {
	ProjectID  *uuid.UUID
	EntityType string
	EntityID   string
	Action     string
	// Payload is marshaled into the persisted event; usually the entity
	// state after the change.
	Payload any
	At      time.Time
}

// Hub persists changes and fans them out to subscribers. Publish never
// blocks on a slow subscriber; repeated updates to the same entity inside
// the coalesce window collapse into one event.
type Hub struct {
	repo   repository.Repository
	logger *zap.Logger

	coalesceWindow time.Duration

	mu   sync.RWMutex
	subs []chan models.ChangeEvent

	dedupMu  sync.Mutex
	lastSeen map[string]time.Time

	coalesced     uint64
	droppedFanout uint64
}

func NewHub(repo repository.Repository, logger *zap.Logger, coalesceWindow time.Duration) *Hub {
	if coalesceWindow <= 0 {
		coalesceWindow = 2 * time.Second
	}
	return &Hub{
		repo:           repo,
		logger:         logger,
		coalesceWindow: coalesceWindow,
		lastSeen:       map[string]time.Time{},
	}
}

// Subscribe returns a channel receiving every persisted change event.
// Subscribers that fall behind lose events rather than stalling the hub.
func (h *Hub) Subscribe(buf int) <-chan models.ChangeEvent {
	if buf <= 0 {
		buf = 16
	}
	ch := make(chan models.ChangeEvent, buf)
	h.mu.Lock()
	h.subs = append(h.subs, ch)
	h.mu.Unlock()
	return ch
}

// Publish normalizes, coalesces, persists and fans out one change. A
// persistence failure is logged and the event still fans out so in-process
// consumers keep up to date.
func (h *Hub) Publish(ctx context.Context, change Change) {
	if h == nil || change.EntityType == "" {
		return
	}
	event := h.normalize(change)
	if h.shouldCoalesce(change, event.CreatedAt) {
		atomic.AddUint64(&h.coalesced, 1)
		return
	}
	if h.repo != nil {
		if err := h.repo.InsertChangeEvent(ctx, &event); err != nil && h.logger != nil {
			h.logger.Warn("changefeed: persist failed",
				zap.String("entity_type", event.EntityType),
				zap.String("entity_id", event.EntityID),
				zap.Error(err),
			)
		}
	}
	h.fanout(event)
}

// Run keeps the hub alive until ctx ends, periodically logging drop stats.
func (h *Hub) Run(ctx context.Context) error {
	if h == nil {
		return nil
	}
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			h.closeSubs()
			return ctx.Err()
		case <-ticker.C:
			if h.logger != nil {
				h.logger.Info("changefeed stats",
					zap.Uint64("coalesced", atomic.LoadUint64(&h.coalesced)),
					zap.Uint64("dropped_fanout", atomic.LoadUint64(&h.droppedFanout)),
				)
			}
			h.pruneDedup()
		}
	}
}

func (h *Hub) normalize(change Change) models.ChangeEvent {
	at := change.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	event := models.ChangeEvent{
		ProjectID:  change.ProjectID,
		EntityType: change.EntityType,
		EntityID:   change.EntityID,
		Action:     change.Action,
		CreatedAt:  at,
	}
	if event.Action == "" {
		event.Action = models.ChangeActionUpdated
	}
	if change.Payload != nil {
		if raw, err := json.Marshal(change.Payload); err == nil {
			event.Payload = datatypes.JSON(raw)
		}
	}
	return event
}

// shouldCoalesce drops repeated plain updates to the same entity inside the
// window. Creates, deletes and status changes always go through.
func (h *Hub) shouldCoalesce(change Change, at time.Time) bool {
	if change.Action != models.ChangeActionUpdated && change.Action != "" {
		return false
	}
	if h.coalesceWindow <= 0 {
		return false
	}
	key := fmt.Sprintf("%s|%s", change.EntityType, change.EntityID)
	h.dedupMu.Lock()
	defer h.dedupMu.Unlock()
	if last, ok := h.lastSeen[key]; ok && at.Sub(last) < h.coalesceWindow {
		return true
	}
	h.lastSeen[key] = at
	return false
}

func (h *Hub) fanout(event models.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
			// Drop when subscriber is slow; the hub must not block.
			atomic.AddUint64(&h.droppedFanout, 1)
		}
	}
}

func (h *Hub) closeSubs() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		close(ch)
	}
	h.subs = nil
}

// pruneDedup keeps the coalesce map from growing without bound.
func (h *Hub) pruneDedup() {
	cutoff := time.Now().UTC().Add(-10 * h.coalesceWindow)
	h.dedupMu.Lock()
	defer h.dedupMu.Unlock()
	for key, last := range h.lastSeen {
		if last.Before(cutoff) {
			delete(h.lastSeen, key)
		}
	}
}

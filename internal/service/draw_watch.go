package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/config"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

// DrawWatchService flags draws that have sat in pending past the configured
// age. Each stale draw gets one "stale" change event per day rather than one
// per scan, so hourly cron runs do not spam the feed.
type DrawWatchService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Flags  *SystemSettingsService
	Hub    *changefeed.Hub
	Config config.DrawsConfig

	mu      sync.Mutex
	flagged map[uuid.UUID]time.Time
}

const reflagAfter = 24 * time.Hour

// RunOnce scans for stale pending draws and publishes a change event for
// each one not already flagged recently. Wired to the hourly cron.
func (s *DrawWatchService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureStaleDrawScan, true) {
		return nil
	}
	staleAfter := s.Config.StaleAfter
	if staleAfter <= 0 {
		staleAfter = 14 * 24 * time.Hour
	}
	limit := s.Config.ScanLimit
	if limit <= 0 {
		limit = 100
	}

	now := time.Now().UTC()
	draws, err := s.Repo.ListStalePendingDraws(ctx, now.Add(-staleAfter), limit)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("stale draw scan failed", zap.Error(err))
		}
		return err
	}
	if len(draws) == 0 {
		return nil
	}

	published := 0
	for _, draw := range draws {
		if !s.shouldFlag(draw.ID, now) {
			continue
		}
		projectID := draw.ProjectID
		if s.Hub != nil {
			s.Hub.Publish(ctx, changefeed.Change{
				ProjectID:  &projectID,
				EntityType: changefeed.EntityDraw,
				EntityID:   draw.ID.String(),
				Action:     models.ChangeActionStale,
				Payload: map[string]any{
					"draw_number":  draw.DrawNumber,
					"amount":       draw.Amount,
					"requested_at": draw.RequestedAt,
					"pending_for":  now.Sub(draw.RequestedAt).String(),
				},
				At: now,
			})
		}
		published++
	}
	if s.Logger != nil && published > 0 {
		s.Logger.Info("stale pending draws flagged",
			zap.Int("stale", len(draws)), zap.Int("published", published))
	}
	return nil
}

// shouldFlag suppresses repeat events for a draw flagged inside reflagAfter.
func (s *DrawWatchService) shouldFlag(drawID uuid.UUID, now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flagged == nil {
		s.flagged = map[uuid.UUID]time.Time{}
	}
	if last, ok := s.flagged[drawID]; ok && now.Sub(last) < reflagAfter {
		return false
	}
	// Prune entries old enough to re-flag so the map tracks live draws only.
	for id, last := range s.flagged {
		if now.Sub(last) >= reflagAfter {
			delete(s.flagged, id)
		}
	}
	s.flagged[drawID] = now
	return true
}

package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"rehabtrack/internal/config"
	"rehabtrack/internal/repository"
)

// FeedPruneService deletes change events older than the retention window.
// Clients that poll less often than the window lose their cursor and must
// re-list, which is the documented trade-off of a bounded feed.
type FeedPruneService struct {
	Repo   repository.Repository
	Logger *zap.Logger
	Flags  *SystemSettingsService
	Config config.ChangefeedConfig
}

func (s *FeedPruneService) RunOnce(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureFeedPrune, true) {
		return nil
	}
	retention := s.Config.RetentionDays
	if retention <= 0 {
		retention = 90
	}
	cutoff := time.Now().UTC().Add(-time.Duration(retention) * 24 * time.Hour)
	deleted, err := s.Repo.DeleteChangeEventsBefore(ctx, cutoff)
	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("change feed prune failed", zap.Error(err))
		}
		return err
	}
	if s.Logger != nil && deleted > 0 {
		s.Logger.Info("change feed pruned",
			zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
	}
	return nil
}

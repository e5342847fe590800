package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/economics"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

// SnapshotService persists point-in-time deal summaries. It listens on the
// change feed and marks touched projects dirty, recomputes them on a timer,
// and runs a full daily sweep from cron. Handlers can also request a manual
// snapshot.
type SnapshotService struct {
	Repo     repository.Repository
	Logger   *zap.Logger
	Flags    *SystemSettingsService
	Hub      *changefeed.Hub
	Interval time.Duration

	mu    sync.Mutex
	dirty map[uuid.UUID]string
}

// SnapshotProject recomputes the project's economics and appends one
// ProjectSnapshot row. Returns (nil, nil) when the project does not exist.
func (s *SnapshotService) SnapshotProject(ctx context.Context, projectID uuid.UUID, trigger string) (*models.ProjectSnapshot, error) {
	if s == nil || s.Repo == nil {
		return nil, nil
	}
	project, err := s.Repo.GetProjectByID(ctx, projectID)
	if err != nil || project == nil {
		return nil, err
	}
	items, err := s.Repo.ListBudgetItemsByProjectID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	summary := economics.Summarize(*project, items)
	active := summary.ActiveScenario()
	raw, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	snap := &models.ProjectSnapshot{
		ProjectID:         project.ID,
		TakenAt:           time.Now().UTC(),
		Trigger:           normalizeTrigger(trigger),
		ProjectStatus:     project.Status,
		UnderwritingTotal: summary.Budget.UnderwritingTotal,
		ForecastTotal:     summary.Budget.ForecastTotal,
		ActualTotal:       summary.Budget.ActualTotal,
		TotalInvestment:   active.TotalInvestment,
		GrossProfit:       active.GrossProfit,
		Summary:           datatypes.JSON(raw),
	}
	if active.TotalInvestment.GreaterThan(decimal.Zero) {
		roi := active.ROIPercent
		snap.ROIPct = &roi
	}
	if err := s.Repo.InsertProjectSnapshot(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// MarkDirty queues a project for the next timed recompute. A status change
// trigger is never downgraded by later routine edits.
func (s *SnapshotService) MarkDirty(projectID uuid.UUID, trigger string) {
	if s == nil || projectID == uuid.Nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dirty == nil {
		s.dirty = map[uuid.UUID]string{}
	}
	if s.dirty[projectID] != models.SnapshotTriggerStatusChange {
		s.dirty[projectID] = normalizeTrigger(trigger)
	}
}

// Run consumes the change feed and flushes dirty projects every Interval.
func (s *SnapshotService) Run(ctx context.Context) error {
	if s == nil || s.Hub == nil {
		return nil
	}
	interval := s.Interval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	events := s.Hub.Subscribe(64)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-events:
			if !ok {
				return nil
			}
			s.observe(event)
		case <-ticker.C:
			s.flushDirty(ctx)
		}
	}
}

// SweepAll snapshots every non-archived project. Wired to the daily cron.
func (s *SnapshotService) SweepAll(ctx context.Context) error {
	if s == nil || s.Repo == nil {
		return nil
	}
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureSnapshots, true) {
		return nil
	}
	const page = 200
	offset := 0
	taken := 0
	for {
		projects, err := s.Repo.ListProjects(ctx, repository.ListProjectsParams{Limit: page, Offset: offset})
		if err != nil {
			return err
		}
		if len(projects) == 0 {
			break
		}
		for _, p := range projects {
			if p.Status == models.ProjectStatusArchived {
				continue
			}
			if _, err := s.SnapshotProject(ctx, p.ID, models.SnapshotTriggerScheduled); err != nil {
				if s.Logger != nil {
					s.Logger.Warn("snapshot sweep: project failed",
						zap.String("project_id", p.ID.String()), zap.Error(err))
				}
				continue
			}
			taken++
		}
		if len(projects) < page {
			break
		}
		offset += page
	}
	if s.Logger != nil {
		s.Logger.Info("snapshot sweep complete", zap.Int("projects", taken))
	}
	return nil
}

func (s *SnapshotService) observe(event models.ChangeEvent) {
	if event.ProjectID == nil {
		return
	}
	switch event.EntityType {
	case changefeed.EntityProject, changefeed.EntityBudgetItem, changefeed.EntityDraw:
	default:
		return
	}
	trigger := models.SnapshotTriggerScheduled
	if event.EntityType == changefeed.EntityProject && event.Action == models.ChangeActionStatusChanged {
		trigger = models.SnapshotTriggerStatusChange
	}
	s.MarkDirty(*event.ProjectID, trigger)
}

func (s *SnapshotService) flushDirty(ctx context.Context) {
	if s.Flags != nil && !s.Flags.IsEnabled(ctx, FeatureSnapshots, true) {
		return
	}
	s.mu.Lock()
	pending := s.dirty
	s.dirty = map[uuid.UUID]string{}
	s.mu.Unlock()
	for projectID, trigger := range pending {
		if _, err := s.SnapshotProject(ctx, projectID, trigger); err != nil && s.Logger != nil {
			s.Logger.Warn("snapshot recompute failed",
				zap.String("project_id", projectID.String()), zap.Error(err))
		}
	}
}

func normalizeTrigger(trigger string) string {
	switch trigger {
	case models.SnapshotTriggerScheduled, models.SnapshotTriggerStatusChange, models.SnapshotTriggerManual:
		return trigger
	default:
		return models.SnapshotTriggerManual
	}
}

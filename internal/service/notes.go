package service

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

// NoteSaver debounces project note writes. Each incoming edit replaces the
// project's pending text and restarts its timer; the row is written once the
// edits go quiet for Debounce. Last write wins. FlushAll drains everything
// still pending at shutdown.
type NoteSaver struct {
	Repo     repository.Repository
	Logger   *zap.Logger
	Flags    *SystemSettingsService
	Hub      *changefeed.Hub
	Debounce time.Duration

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingNote
	closed  bool
}

type pendingNote struct {
	notes  string
	queued time.Time
	timer  *time.Timer
}

// Save queues the note text for a deferred write and returns the timestamp
// that will become notes_updated_at. The bool reports whether the write was
// deferred; it is false when autosave is switched off or the saver is
// draining, in which case the row was written before returning.
func (n *NoteSaver) Save(ctx context.Context, projectID uuid.UUID, notes string) (time.Time, bool) {
	at := time.Now().UTC()
	if n == nil || n.Repo == nil || projectID == uuid.Nil {
		return at, false
	}
	if n.Flags != nil && !n.Flags.IsEnabled(ctx, FeatureNoteAutosave, true) {
		n.write(ctx, projectID, notes, at)
		return at, false
	}
	debounce := n.Debounce
	if debounce <= 0 {
		debounce = 3 * time.Second
	}

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		n.write(ctx, projectID, notes, at)
		return at, false
	}
	if n.pending == nil {
		n.pending = map[uuid.UUID]*pendingNote{}
	}
	if p, ok := n.pending[projectID]; ok {
		p.timer.Stop()
		p.notes = notes
		p.queued = at
		p.timer = time.AfterFunc(debounce, func() { n.flush(projectID) })
	} else {
		n.pending[projectID] = &pendingNote{
			notes:  notes,
			queued: at,
			timer:  time.AfterFunc(debounce, func() { n.flush(projectID) }),
		}
	}
	n.mu.Unlock()
	return at, true
}

// PendingCount reports how many projects have an unwritten note.
func (n *NoteSaver) PendingCount() int {
	if n == nil {
		return 0
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pending)
}

// FlushAll writes every pending note and puts the saver into write-through
// mode. Called on shutdown.
func (n *NoteSaver) FlushAll(ctx context.Context) {
	if n == nil {
		return
	}
	n.mu.Lock()
	n.closed = true
	pending := n.pending
	n.pending = nil
	n.mu.Unlock()

	for projectID, p := range pending {
		p.timer.Stop()
		n.write(ctx, projectID, p.notes, p.queued)
	}
	if n.Logger != nil && len(pending) > 0 {
		n.Logger.Info("note saver drained", zap.Int("pending", len(pending)))
	}
}

func (n *NoteSaver) flush(projectID uuid.UUID) {
	n.mu.Lock()
	p, ok := n.pending[projectID]
	if ok {
		delete(n.pending, projectID)
	}
	n.mu.Unlock()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	n.write(ctx, projectID, p.notes, p.queued)
}

func (n *NoteSaver) write(ctx context.Context, projectID uuid.UUID, notes string, at time.Time) {
	if n.Repo == nil {
		return
	}
	if err := n.Repo.UpdateProjectNotes(ctx, projectID, notes, at); err != nil {
		if n.Logger != nil {
			n.Logger.Warn("note save failed",
				zap.String("project_id", projectID.String()), zap.Error(err))
		}
		return
	}
	if n.Hub != nil {
		n.Hub.Publish(ctx, changefeed.Change{
			ProjectID:  &projectID,
			EntityType: changefeed.EntityProject,
			EntityID:   projectID.String(),
			Action:     models.ChangeActionUpdated,
			Payload:    map[string]any{"field": "notes", "notes_updated_at": at},
			At:         at,
		})
	}
}

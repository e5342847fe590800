package changefeed

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rehabtrack/internal/models"
)

func recvEvent(t *testing.T, ch <-chan models.ChangeEvent) models.ChangeEvent {
	t.Helper()
	select {
	case event := <-ch:
		return event
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change event")
		return models.ChangeEvent{}
	}
}

func TestHubPublishPersistsAndFansOut(t *testing.T) {
	repo := &stubRepo{}
	hub := NewHub(repo, zap.NewNop(), time.Second)
	sub := hub.Subscribe(4)

	projectID := uuid.New()
	hub.Publish(context.Background(), Change{
		ProjectID:  &projectID,
		EntityType: EntityBudgetItem,
		EntityID:   "item-1",
		Action:     models.ChangeActionCreated,
		Payload:    map[string]string{"name": "Tear-off roof"},
	})

	got := recvEvent(t, sub)
	if got.EntityType != EntityBudgetItem || got.EntityID != "item-1" {
		t.Fatalf("unexpected event identity: %s/%s", got.EntityType, got.EntityID)
	}
	if got.Action != models.ChangeActionCreated {
		t.Fatalf("action = %s, want %s", got.Action, models.ChangeActionCreated)
	}
	if got.ProjectID == nil || *got.ProjectID != projectID {
		t.Fatalf("project id not carried on event")
	}
	if !strings.Contains(string(got.Payload), "Tear-off roof") {
		t.Fatalf("payload not marshaled: %s", string(got.Payload))
	}

	persisted := repo.persisted()
	if len(persisted) != 1 {
		t.Fatalf("persisted %d events, want 1", len(persisted))
	}
	if persisted[0].ID == 0 {
		t.Fatalf("persisted event did not get an id")
	}
}

func TestHubPublishDefaultsAction(t *testing.T) {
	repo := &stubRepo{}
	hub := NewHub(repo, zap.NewNop(), time.Second)

	hub.Publish(context.Background(), Change{
		EntityType: EntityVendor,
		EntityID:   "vendor-1",
	})

	persisted := repo.persisted()
	if len(persisted) != 1 {
		t.Fatalf("persisted %d events, want 1", len(persisted))
	}
	if persisted[0].Action != models.ChangeActionUpdated {
		t.Fatalf("default action = %s, want %s", persisted[0].Action, models.ChangeActionUpdated)
	}
	if persisted[0].CreatedAt.IsZero() {
		t.Fatalf("created_at not defaulted")
	}
}

func TestHubPublishCoalescesRepeatedUpdates(t *testing.T) {
	repo := &stubRepo{}
	hub := NewHub(repo, zap.NewNop(), time.Hour)

	base := time.Now().UTC()
	publish := func(entityID, action string, at time.Time) {
		hub.Publish(context.Background(), Change{
			EntityType: EntityProject,
			EntityID:   entityID,
			Action:     action,
			At:         at,
		})
	}

	publish("p-1", models.ChangeActionUpdated, base)
	publish("p-1", models.ChangeActionUpdated, base.Add(time.Minute))
	if got := len(repo.persisted()); got != 1 {
		t.Fatalf("repeated update inside window persisted %d events, want 1", got)
	}

	// Another entity is an independent key.
	publish("p-2", models.ChangeActionUpdated, base)
	if got := len(repo.persisted()); got != 2 {
		t.Fatalf("distinct entity persisted %d events, want 2", got)
	}

	// Status changes always go through, window or not.
	publish("p-1", models.ChangeActionStatusChanged, base.Add(time.Minute))
	publish("p-1", models.ChangeActionDeleted, base.Add(2*time.Minute))
	if got := len(repo.persisted()); got != 4 {
		t.Fatalf("non-update actions persisted %d events, want 4", got)
	}

	// Outside the window the same key publishes again.
	publish("p-1", models.ChangeActionUpdated, base.Add(2*time.Hour))
	if got := len(repo.persisted()); got != 5 {
		t.Fatalf("update outside window persisted %d events, want 5", got)
	}
	if atomic.LoadUint64(&hub.coalesced) != 1 {
		t.Fatalf("coalesced counter = %d, want 1", atomic.LoadUint64(&hub.coalesced))
	}
}

func TestHubPublishNeverBlocksOnSlowSubscriber(t *testing.T) {
	repo := &stubRepo{}
	hub := NewHub(repo, zap.NewNop(), time.Second)
	sub := hub.Subscribe(1)

	done := make(chan struct{})
	go func() {
		defer close(done)
		hub.Publish(context.Background(), Change{
			EntityType: EntityDraw, EntityID: "d-1", Action: models.ChangeActionCreated,
		})
		hub.Publish(context.Background(), Change{
			EntityType: EntityDraw, EntityID: "d-2", Action: models.ChangeActionCreated,
		})
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("publish blocked on a full subscriber channel")
	}

	if got := len(repo.persisted()); got != 2 {
		t.Fatalf("persisted %d events, want 2", got)
	}
	first := recvEvent(t, sub)
	if first.EntityID != "d-1" {
		t.Fatalf("first delivered event = %s, want d-1", first.EntityID)
	}
	if atomic.LoadUint64(&hub.droppedFanout) != 1 {
		t.Fatalf("dropped counter = %d, want 1", atomic.LoadUint64(&hub.droppedFanout))
	}
}

func TestHubRunClosesSubscribersOnShutdown(t *testing.T) {
	hub := NewHub(&stubRepo{}, zap.NewNop(), time.Second)
	sub := hub.Subscribe(1)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- hub.Run(ctx) }()
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
	select {
	case _, ok := <-sub:
		if ok {
			t.Fatalf("expected closed subscriber channel")
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber channel not closed")
	}
}

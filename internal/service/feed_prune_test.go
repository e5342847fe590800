package service

import (
	"context"
	"testing"
	"time"

	"rehabtrack/internal/config"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

func TestFeedPrune_DeletesBeyondRetention(t *testing.T) {
	repo := newStubRepo()
	ctx := context.Background()
	now := time.Now().UTC()
	for _, age := range []time.Duration{100 * 24 * time.Hour, 91 * 24 * time.Hour, 24 * time.Hour} {
		event := models.ChangeEvent{
			EntityType: "project",
			EntityID:   "p-1",
			Action:     models.ChangeActionUpdated,
			CreatedAt:  now.Add(-age),
		}
		if err := repo.InsertChangeEvent(ctx, &event); err != nil {
			t.Fatalf("err=%v", err)
		}
	}

	svc := &FeedPruneService{Repo: repo, Config: config.ChangefeedConfig{RetentionDays: 90}}
	if err := svc.RunOnce(ctx); err != nil {
		t.Fatalf("err=%v", err)
	}

	events, _ := repo.ListChangeEvents(ctx, repository.ListChangeEventsParams{})
	if len(events) != 1 {
		t.Fatalf("kept %d events, want 1", len(events))
	}
	if events[0].CreatedAt.Before(now.Add(-90 * 24 * time.Hour)) {
		t.Fatalf("kept an event older than retention")
	}
}

func TestFeedPrune_GatedByFlag(t *testing.T) {
	repo := newStubRepo()
	ctx := context.Background()
	flags := &SystemSettingsService{Repo: repo}
	if err := flags.SetEnabled(ctx, FeatureFeedPrune, false); err != nil {
		t.Fatalf("err=%v", err)
	}
	old := models.ChangeEvent{
		EntityType: "project",
		EntityID:   "p-1",
		Action:     models.ChangeActionUpdated,
		CreatedAt:  time.Now().UTC().Add(-365 * 24 * time.Hour),
	}
	if err := repo.InsertChangeEvent(ctx, &old); err != nil {
		t.Fatalf("err=%v", err)
	}

	svc := &FeedPruneService{Repo: repo, Flags: flags, Config: config.ChangefeedConfig{RetentionDays: 90}}
	if err := svc.RunOnce(ctx); err != nil {
		t.Fatalf("err=%v", err)
	}
	events, _ := repo.ListChangeEvents(ctx, repository.ListChangeEventsParams{})
	if len(events) != 1 {
		t.Fatalf("disabled prune deleted events")
	}
}

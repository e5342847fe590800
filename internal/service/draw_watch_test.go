package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rehabtrack/internal/changefeed"
	"rehabtrack/internal/config"
	"rehabtrack/internal/models"
	"rehabtrack/internal/repository"
)

func TestDrawWatch_FlagsStalePendingOnce(t *testing.T) {
	repo := newStubRepo()
	hub := changefeed.NewHub(repo, zap.NewNop(), time.Second)
	ctx := context.Background()
	projectID := uuid.New()
	now := time.Now().UTC()

	stale := models.Draw{
		ProjectID:   projectID,
		DrawNumber:  1,
		Amount:      decimal.NewFromInt(10000),
		Status:      models.DrawStatusPending,
		RequestedAt: now.Add(-30 * 24 * time.Hour),
	}
	fresh := models.Draw{
		ProjectID:   projectID,
		DrawNumber:  2,
		Amount:      decimal.NewFromInt(5000),
		Status:      models.DrawStatusPending,
		RequestedAt: now.Add(-time.Hour),
	}
	paid := models.Draw{
		ProjectID:   projectID,
		DrawNumber:  3,
		Amount:      decimal.NewFromInt(2500),
		Status:      models.DrawStatusPaid,
		RequestedAt: now.Add(-60 * 24 * time.Hour),
	}
	for _, d := range []*models.Draw{&stale, &fresh, &paid} {
		if err := repo.InsertDraw(ctx, d); err != nil {
			t.Fatalf("err=%v", err)
		}
	}

	svc := &DrawWatchService{
		Repo:   repo,
		Logger: zap.NewNop(),
		Hub:    hub,
		Config: config.DrawsConfig{StaleAfter: 14 * 24 * time.Hour, ScanLimit: 100},
	}
	if err := svc.RunOnce(ctx); err != nil {
		t.Fatalf("err=%v", err)
	}

	events, err := repo.ListChangeEvents(ctx, repository.ListChangeEventsParams{})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if len(events) != 1 {
		t.Fatalf("published %d events, want 1", len(events))
	}
	event := events[0]
	if event.EntityType != changefeed.EntityDraw || event.Action != models.ChangeActionStale {
		t.Fatalf("event = %s/%s, want draw/stale", event.EntityType, event.Action)
	}
	if event.EntityID != stale.ID.String() {
		t.Fatalf("flagged wrong draw: %s", event.EntityID)
	}
	if event.ProjectID == nil || *event.ProjectID != projectID {
		t.Fatalf("event missing project scope")
	}

	// A second scan inside the re-flag window stays quiet.
	if err := svc.RunOnce(ctx); err != nil {
		t.Fatalf("err=%v", err)
	}
	events, _ = repo.ListChangeEvents(ctx, repository.ListChangeEventsParams{})
	if len(events) != 1 {
		t.Fatalf("rescan published %d events, want 1", len(events))
	}
}

func TestDrawWatch_GatedByFlag(t *testing.T) {
	repo := newStubRepo()
	ctx := context.Background()
	flags := &SystemSettingsService{Repo: repo}
	if err := flags.SetEnabled(ctx, FeatureStaleDrawScan, false); err != nil {
		t.Fatalf("err=%v", err)
	}

	draw := models.Draw{
		ProjectID:   uuid.New(),
		DrawNumber:  1,
		Amount:      decimal.NewFromInt(1000),
		Status:      models.DrawStatusPending,
		RequestedAt: time.Now().UTC().Add(-90 * 24 * time.Hour),
	}
	if err := repo.InsertDraw(ctx, &draw); err != nil {
		t.Fatalf("err=%v", err)
	}

	svc := &DrawWatchService{
		Repo:  repo,
		Flags: flags,
		Hub:   changefeed.NewHub(repo, zap.NewNop(), time.Second),
	}
	if err := svc.RunOnce(ctx); err != nil {
		t.Fatalf("err=%v", err)
	}
	events, _ := repo.ListChangeEvents(ctx, repository.ListChangeEventsParams{})
	if len(events) != 0 {
		t.Fatalf("disabled scan published %d events", len(events))
	}
}

package service

import (
	"context"
	"testing"
)

func TestEnsureDefaultSwitches_SeedsAll(t *testing.T) {
	repo := newStubRepo()
	svc := &SystemSettingsService{Repo: repo}
	if err := svc.EnsureDefaultSwitches(context.Background()); err != nil {
		t.Fatalf("err=%v", err)
	}
	for key, want := range DefaultFeatureSwitches() {
		if got := svc.IsEnabled(context.Background(), key, !want); got != want {
			t.Fatalf("switch %s = %v want %v", key, got, want)
		}
	}
}

func TestEnsureDefaultSwitches_UpgradesOffToOn(t *testing.T) {
	repo := newStubRepo()
	svc := &SystemSettingsService{Repo: repo}
	ctx := context.Background()
	if err := svc.SetEnabled(ctx, FeatureSnapshots, false); err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := svc.EnsureDefaultSwitches(ctx); err != nil {
		t.Fatalf("err=%v", err)
	}
	if !svc.IsEnabled(ctx, FeatureSnapshots, false) {
		t.Fatalf("default-on switch not upgraded to on")
	}
}

func TestIsEnabled_FallbackOnMissingKey(t *testing.T) {
	svc := &SystemSettingsService{Repo: newStubRepo()}
	ctx := context.Background()
	if !svc.IsEnabled(ctx, "feature.unknown", true) {
		t.Fatalf("missing key should return fallback true")
	}
	if svc.IsEnabled(ctx, "feature.unknown", false) {
		t.Fatalf("missing key should return fallback false")
	}
	if svc.IsEnabled(ctx, "   ", true) != true {
		t.Fatalf("blank key should return fallback")
	}
}

func TestSetEnabled_Roundtrip(t *testing.T) {
	svc := &SystemSettingsService{Repo: newStubRepo()}
	ctx := context.Background()
	if err := svc.SetEnabled(ctx, FeatureFeedPrune, false); err != nil {
		t.Fatalf("err=%v", err)
	}
	if svc.IsEnabled(ctx, FeatureFeedPrune, true) {
		t.Fatalf("switch should read back off")
	}
	if err := svc.SetEnabled(ctx, FeatureFeedPrune, true); err != nil {
		t.Fatalf("err=%v", err)
	}
	if !svc.IsEnabled(ctx, FeatureFeedPrune, false) {
		t.Fatalf("switch should read back on")
	}
}

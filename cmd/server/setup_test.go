package main

import (
	"os"
	"path/filepath"
	"testing"

	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/sim/catalogs"
	"railcraft.ai/internal/sim/tuning"
	"railcraft.ai/internal/sim/world"
)

func loadTestCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	return cats
}

func TestBuildWorld_FreshFromScenario(t *testing.T) {
	tune, err := tuning.Load("../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("tuning: %v", err)
	}
	w, err := buildWorld(worldOptions{Tuning: tune, ScenarioPath: "../../configs/scenario.yaml", Seed: 42}, loadTestCatalogs(t), nil)
	if err != nil {
		t.Fatalf("buildWorld: %v", err)
	}
	if w.ID() != "rails-demo" {
		t.Fatalf("id=%q, want rails-demo", w.ID())
	}
	if w.Config().Seed != 42 {
		t.Fatalf("seed=%d, want 42", w.Config().Seed)
	}
	if got := w.BlockAt(world.Vec3i{}); got != "RAIL_EW" {
		t.Fatalf("origin=%s, want RAIL_EW", got)
	}
}

func TestBuildWorld_ResumesFromSnapshot(t *testing.T) {
	cats := loadTestCatalogs(t)
	tune := tuning.Defaults()
	src, err := buildWorld(worldOptions{WorldID: "w1", Tuning: tune, ScenarioPath: "../../configs/scenario.yaml"}, cats, nil)
	if err != nil {
		t.Fatalf("buildWorld: %v", err)
	}
	for i := 0; i < 5; i++ {
		src.StepOnce(nil, nil)
	}
	dir := t.TempDir()
	path := snapshotPath(dir, 4)
	if err := snapshot.WriteSnapshot(path, src.ExportSnapshot(4)); err != nil {
		t.Fatalf("write: %v", err)
	}

	// A different tuning seed must not matter: terrain comes from the snapshot.
	tune.Seed = 777
	w, err := buildWorld(worldOptions{WorldID: "w1", Tuning: tune, SnapshotPath: path}, cats, nil)
	if err != nil {
		t.Fatalf("resume: %v", err)
	}
	if w.CurrentTick() != 5 {
		t.Fatalf("tick=%d, want 5", w.CurrentTick())
	}
	_, want := src.StepOnce(nil, nil)
	_, got := w.StepOnce(nil, nil)
	if got != want {
		t.Fatalf("digest after resume=%s, want %s", got, want)
	}

	if _, err := buildWorld(worldOptions{WorldID: "other", Tuning: tune, SnapshotPath: path}, cats, nil); err == nil {
		t.Fatalf("world id mismatch accepted")
	}
}

func TestLatestSnapshot(t *testing.T) {
	dir := t.TempDir()
	if got := latestSnapshot(dir); got != "" {
		t.Fatalf("empty dir=%q", got)
	}
	snaps := filepath.Join(dir, "snapshots")
	if err := os.MkdirAll(snaps, 0o755); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"90.snap.zst", "1200.snap.zst", "300.snap.zst", "x.snap.zst", "5000.tmp"} {
		if err := os.WriteFile(filepath.Join(snaps, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := latestSnapshot(dir); got != filepath.Join(snaps, "1200.snap.zst") {
		t.Fatalf("latest=%q", got)
	}
}

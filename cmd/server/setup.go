package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/sim/catalogs"
	"railcraft.ai/internal/sim/scenario"
	"railcraft.ai/internal/sim/tuning"
	"railcraft.ai/internal/sim/world"
)

type worldOptions struct {
	WorldID      string
	Seed         int64
	Tuning       tuning.Tuning
	ScenarioPath string
	SnapshotPath string
}

// buildWorld resumes from opts.SnapshotPath when set, otherwise starts a fresh
// world from tuning and the optional scenario.
func buildWorld(opts worldOptions, cats *catalogs.Catalogs, logger *log.Logger) (*world.World, error) {
	var scen *scenario.Scenario
	if opts.SnapshotPath == "" && opts.ScenarioPath != "" {
		s, err := scenario.Load(opts.ScenarioPath)
		if err != nil {
			return nil, fmt.Errorf("load scenario: %w", err)
		}
		scen = s
	}

	id := opts.WorldID
	if id == "" && scen != nil {
		id = scen.WorldID
	}
	if id == "" {
		id = "world_1"
	}

	tune := opts.Tuning
	if opts.Seed != 0 {
		tune.Seed = opts.Seed
	}
	cfg := world.ConfigFromTuning(id, tune)

	if opts.SnapshotPath != "" {
		snap, err := snapshot.ReadSnapshot(opts.SnapshotPath)
		if err != nil {
			return nil, fmt.Errorf("read snapshot: %w", err)
		}
		if opts.WorldID != "" && snap.Header.WorldID != "" && snap.Header.WorldID != opts.WorldID {
			return nil, fmt.Errorf("snapshot world id mismatch: flag=%s snap=%s", opts.WorldID, snap.Header.WorldID)
		}
		// Terrain parameters come from the snapshot.
		cfg.Seed = snap.Seed
		cfg.GroundY = snap.GroundY
		cfg.BoundaryR = snap.BoundaryR
		if snap.TickRate > 0 {
			cfg.TickRateHz = snap.TickRate
		}
		w, err := world.New(cfg, cats)
		if err != nil {
			return nil, err
		}
		if err := w.ImportSnapshot(snap); err != nil {
			return nil, fmt.Errorf("import snapshot: %w", err)
		}
		if logger != nil {
			logger.Printf("resumed from snapshot=%s tick=%d", filepath.Base(opts.SnapshotPath), w.CurrentTick())
		}
		return w, nil
	}

	w, err := world.New(cfg, cats)
	if err != nil {
		return nil, err
	}
	if scen != nil {
		if err := w.ApplyScenario(scen); err != nil {
			return nil, err
		}
		if logger != nil {
			logger.Printf("scenario %s: %d fills, %d vehicles", scen.WorldID, len(scen.Fills), len(scen.Vehicles))
		}
	}
	return w, nil
}

func latestSnapshot(worldDir string) string {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var best string
	var bestTick uint64
	for _, e := range ents {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if !strings.HasSuffix(name, ".snap.zst") {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(name, ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		if best == "" || tick > bestTick {
			bestTick = tick
			best = filepath.Join(dir, name)
		}
	}
	return best
}

func snapshotPath(worldDir string, tick uint64) string {
	return filepath.Join(worldDir, "snapshots", fmt.Sprintf("%d.snap.zst", tick))
}

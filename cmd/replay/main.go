package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	persistlog "railcraft.ai/internal/persistence/log"
	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/sim/catalogs"
	"railcraft.ai/internal/sim/scenario"
	"railcraft.ai/internal/sim/tuning"
	"railcraft.ai/internal/sim/world"
)

func main() {
	var (
		snapPath     = flag.String("snapshot", "", "path to .snap.zst to start from")
		scenarioPath = flag.String("scenario", "", "scenario.yaml to start a fresh world from (when -snapshot is empty)")
		tuningPath   = flag.String("tuning", "", "tuning.yaml for a fresh world (default: <configs>/tuning.yaml)")
		worldID      = flag.String("world", "", "world id for a fresh world (default: scenario world_id)")
		eventsDir    = flag.String("events", "", "events dir containing events-*.jsonl.zst (optional)")
		configDir    = flag.String("configs", "./configs", "config directory")
		fromTick     = flag.Uint64("from_tick", 0, "start verifying from tick (inclusive, optional)")
		toTick       = flag.Uint64("to_tick", 0, "stop at tick (inclusive, optional)")
	)
	flag.Parse()

	if *snapPath == "" && *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "missing -snapshot or -scenario")
		os.Exit(2)
	}

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load catalogs:", err)
		os.Exit(1)
	}

	var w *world.World
	if *snapPath != "" {
		snap, err := snapshot.ReadSnapshot(*snapPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read snapshot:", err)
			os.Exit(1)
		}
		fmt.Printf("snapshot v%d world=%s tick=%d seed=%d strategy=%s chunks=%d vehicles=%d\n",
			snap.Header.Version, snap.Header.WorldID, snap.Header.Tick, snap.Seed, snap.PlacementStrategy,
			len(snap.Chunks), len(snap.Vehicles))
		if *eventsDir == "" {
			return
		}
		w, err = worldFromSnapshot(snap, cats)
		if err != nil {
			fmt.Fprintln(os.Stderr, "world:", err)
			os.Exit(1)
		}
	} else {
		tp := *tuningPath
		if tp == "" {
			tp = filepath.Join(*configDir, "tuning.yaml")
		}
		tune, err := tuning.Load(tp)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		scen, err := scenario.Load(*scenarioPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, "load scenario:", err)
			os.Exit(1)
		}
		w, err = worldFromScenario(*worldID, tune, scen, cats)
		if err != nil {
			fmt.Fprintln(os.Stderr, "world:", err)
			os.Exit(1)
		}
		if *eventsDir == "" {
			fmt.Printf("scenario world=%s vehicles=%d\n", w.ID(), len(scen.Vehicles))
			return
		}
	}

	startTick := w.CurrentTick()
	files, err := persistlog.LogFiles(*eventsDir, "events")
	if err != nil {
		fmt.Fprintln(os.Stderr, "list events:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no events files found in", *eventsDir)
		os.Exit(1)
	}

	checked, err := verify(w, files, *fromTick, *toTick)
	if err != nil {
		fmt.Fprintln(os.Stderr, "replay:", err)
		os.Exit(1)
	}
	fmt.Printf("replay ok: checked=%d ticks (from tick=%d)\n", checked, startTick)
}

func worldFromSnapshot(snap snapshot.SnapshotV1, cats *catalogs.Catalogs) (*world.World, error) {
	w, err := world.New(world.WorldConfig{
		ID:                 snap.Header.WorldID,
		TickRateHz:         snap.TickRate,
		Seed:               snap.Seed,
		GroundY:            snap.GroundY,
		BoundaryR:          snap.BoundaryR,
		SnapshotEveryTicks: snap.SnapshotEveryTicks,
		PlacementStrategy:  snap.PlacementStrategy,
		CargoMaxItems:      snap.CargoMaxItems,
		ExplosiveFuseMs:    snap.ExplosiveFuseMs,
		FollowerMaxSpeed:   snap.FollowerMaxSpeed,
	}, cats)
	if err != nil {
		return nil, err
	}
	if err := w.ImportSnapshot(snap); err != nil {
		return nil, fmt.Errorf("import snapshot: %w", err)
	}
	return w, nil
}

func worldFromScenario(id string, tune tuning.Tuning, scen *scenario.Scenario, cats *catalogs.Catalogs) (*world.World, error) {
	if id == "" {
		id = scen.WorldID
	}
	w, err := world.New(world.ConfigFromTuning(id, tune), cats)
	if err != nil {
		return nil, err
	}
	if err := w.ApplyScenario(scen); err != nil {
		return nil, err
	}
	return w, nil
}

var errDone = errors.New("replay reached to_tick")

// verify feeds every logged tick from the world's current tick on into
// StepOnce and compares digests for ticks at or after from.
func verify(w *world.World, files []string, from, to uint64) (uint64, error) {
	startTick := w.CurrentTick()
	if from == 0 {
		from = startTick
	}
	var checked uint64
	step := func(entry world.TickLogEntry) error {
		if entry.Tick < startTick {
			return nil
		}
		if to != 0 && entry.Tick > to {
			return errDone
		}
		if entry.Tick != w.CurrentTick() {
			return fmt.Errorf("tick gap: want=%d got=%d", w.CurrentTick(), entry.Tick)
		}
		tick, got := w.StepOnce(entry.Spawns, entry.Loads)
		if tick >= from {
			checked++
			if got != entry.Digest {
				return fmt.Errorf("digest mismatch at tick %d: got=%s want=%s", tick, got, entry.Digest)
			}
		}
		return nil
	}
	for _, path := range files {
		if err := persistlog.ReadJSONLZstd(path, step); err != nil {
			if errors.Is(err, errDone) {
				break
			}
			return checked, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
	}
	return checked, nil
}

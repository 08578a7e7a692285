package world

import (
	"fmt"

	"railcraft.ai/internal/persistence/snapshot"
	railsruntime "railcraft.ai/internal/sim/world/feature/rails/runtime"
	"railcraft.ai/internal/sim/world/io/snapshotcodec"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
	"railcraft.ai/internal/sim/world/logic/ids"
	storepkg "railcraft.ai/internal/sim/world/terrain/store"
)

// ImportSnapshot replaces the current in-memory world state with the snapshot.
// It sets the world's tick to snapshotTick+1 (the next tick to simulate).
//
// This must be called only when the world is stopped or from the world loop goroutine.
func (w *World) ImportSnapshot(s snapshot.SnapshotV1) error {
	if s.Header.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version: %d", s.Header.Version)
	}

	// Terrain parameters must match or regenerated chunks would differ.
	if w.cfg.Seed != s.Seed {
		return fmt.Errorf("snapshot seed mismatch: cfg=%d snap=%d", w.cfg.Seed, s.Seed)
	}
	if w.cfg.GroundY != s.GroundY {
		return fmt.Errorf("snapshot ground_y mismatch: cfg=%d snap=%d", w.cfg.GroundY, s.GroundY)
	}
	if w.cfg.BoundaryR != s.BoundaryR {
		return fmt.Errorf("snapshot boundary_r mismatch: cfg=%d snap=%d", w.cfg.BoundaryR, s.BoundaryR)
	}
	if s.PaletteDigest != "" && s.PaletteDigest != w.catalogs.Blocks.PaletteDigest {
		return fmt.Errorf("snapshot block palette mismatch")
	}

	// Operational parameters: snapshot is authoritative when present.
	if s.TickRate > 0 {
		w.cfg.TickRateHz = s.TickRate
	}
	if s.SnapshotEveryTicks > 0 {
		w.cfg.SnapshotEveryTicks = s.SnapshotEveryTicks
	}
	if s.PlacementStrategy != "" {
		w.cfg.PlacementStrategy = s.PlacementStrategy
		observe := w.engine.Observe
		w.engine = railsruntime.NewEngine(s.PlacementStrategy)
		w.engine.Observe = observe
	}
	if s.CargoMaxItems > 0 {
		w.cfg.CargoMaxItems = s.CargoMaxItems
	}
	if s.ExplosiveFuseMs > 0 {
		w.cfg.ExplosiveFuseMs = s.ExplosiveFuseMs
	}
	if s.FollowerMaxSpeed > 0 {
		w.cfg.FollowerMaxSpeed = s.FollowerMaxSpeed
	}
	if s.Header.WorldID != "" {
		w.cfg.ID = s.Header.WorldID
	}

	chunks, err := storepkg.ImportChunks(w.chunks.Gen, s.Chunks)
	if err != nil {
		return err
	}

	vehicles := make(map[string]*modelpkg.Vehicle, len(s.Vehicles))
	existing := make([]string, 0, len(s.Vehicles))
	for _, vs := range s.Vehicles {
		if vs.ID == "" {
			return fmt.Errorf("snapshot vehicle with empty id")
		}
		if _, dup := vehicles[vs.ID]; dup {
			return fmt.Errorf("snapshot vehicle %s listed twice", vs.ID)
		}
		vehicles[vs.ID] = snapshotcodec.DecodeVehicle(vs)
		existing = append(existing, vs.ID)
	}

	w.chunks = chunks
	w.vehicles = vehicles
	w.nextVehicleNum.Store(ids.MaxU64(s.NextVehicleNum, ids.NextVehicleNum(existing)))
	w.tick.Store(s.Header.Tick + 1)
	return nil
}

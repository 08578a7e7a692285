package world

import (
	"railcraft.ai/internal/persistence/snapshot"
	"railcraft.ai/internal/sim/world/io/snapshotcodec"
	storepkg "railcraft.ai/internal/sim/world/terrain/store"
)

func (w *World) ExportSnapshot(nowTick uint64) snapshot.SnapshotV1 {
	// Snapshot must be called from the world loop goroutine.
	chunks := storepkg.ExportLoadedChunks(w.chunks.Chunks, w.chunks.LoadedChunkKeys())

	vs := w.sortedVehicles()
	vehicles := make([]snapshot.VehicleV1, 0, len(vs))
	for _, v := range vs {
		vehicles = append(vehicles, snapshotcodec.EncodeVehicle(v))
	}

	return snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			WorldID: w.cfg.ID,
			Tick:    nowTick,
		},
		Seed:               w.cfg.Seed,
		TickRate:           w.cfg.TickRateHz,
		GroundY:            w.cfg.GroundY,
		BoundaryR:          w.cfg.BoundaryR,
		SnapshotEveryTicks: w.cfg.SnapshotEveryTicks,
		PlacementStrategy:  w.cfg.PlacementStrategy,
		CargoMaxItems:      w.cfg.CargoMaxItems,
		ExplosiveFuseMs:    w.cfg.ExplosiveFuseMs,
		FollowerMaxSpeed:   w.cfg.FollowerMaxSpeed,
		PaletteDigest:      w.catalogs.Blocks.PaletteDigest,
		NextVehicleNum:     w.nextVehicleNum.Load(),
		Chunks:             chunks,
		Vehicles:           vehicles,
	}
}

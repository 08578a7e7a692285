package world

import (
	"railcraft.ai/internal/sim/scenario"
)

func (w *World) stepInternal(spawns []SpawnRequest, loads []LoadItems) string {
	nowTick := w.tick.Load()
	w.stepTick = nowTick
	w.placedThisTick = w.placedThisTick[:0]

	// Inputs apply at the tick boundary in arrival order.
	recordedSpawns := make([]scenario.VehicleSpec, 0, len(spawns))
	for _, req := range spawns {
		spec, err := w.spawnVehicle(req.Spec)
		if req.Resp != nil {
			req.Resp <- SpawnResponse{VehicleID: spec.ID, Err: err}
		}
		if err == nil {
			recordedSpawns = append(recordedSpawns, spec)
		}
	}
	recordedLoads := make([]LoadItems, 0, len(loads))
	for _, req := range loads {
		if got, ok := w.loadItems(req); ok {
			recordedLoads = append(recordedLoads, got)
		}
	}

	// Systems: rail follow -> track layers -> cargo damping
	vehicles := w.sortedVehicles()
	w.systemRailFollow(vehicles)
	w.systemTrackLayers(vehicles)
	w.systemCargo(vehicles)

	digest := w.stateDigest(nowTick)

	w.stepObservers(nowTick, digest, vehicles)

	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:       nowTick,
			Spawns:     recordedSpawns,
			Loads:      recordedLoads,
			Placements: len(w.placedThisTick),
			Digest:     digest,
		})
	}

	// Snapshot every N ticks, starting after tick 0.
	if w.snapshotSink != nil && nowTick != 0 && w.cfg.SnapshotEveryTicks > 0 {
		every := uint64(w.cfg.SnapshotEveryTicks)
		if nowTick%every == 0 {
			snap := w.ExportSnapshot(nowTick)
			select {
			case w.snapshotSink <- snap:
			default:
				// Drop snapshot if sink is backed up.
			}
		}
	}

	w.tick.Add(1)
	return digest
}

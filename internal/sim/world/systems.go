package world

import (
	"sort"

	cargoruntime "railcraft.ai/internal/sim/world/feature/cargo/runtime"
	railfollowruntime "railcraft.ai/internal/sim/world/feature/railfollow/runtime"
	railsruntime "railcraft.ai/internal/sim/world/feature/rails/runtime"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

func (w *World) tickDelta() float32 {
	return 1 / float32(w.cfg.TickRateHz)
}

func (w *World) systemRailFollow(vehicles []*modelpkg.Vehicle) {
	railfollowruntime.Run(vehicles, w.tickDelta(), w.cfg.FollowerMaxSpeed, w.grid.isRail)
}

func (w *World) systemTrackLayers(vehicles []*modelpkg.Vehicle) {
	for id := range w.changedThisTick {
		delete(w.changedThisTick, id)
	}
	w.engine.Update(w.railEnv(), vehicles, w.tickDelta())

	// Inventory-change notifications go out after the pass so handlers never
	// run inside the engine.
	changed := make([]string, 0, len(w.changedThisTick))
	for id := range w.changedThisTick {
		changed = append(changed, id)
	}
	sort.Strings(changed)
	for _, id := range changed {
		w.notifyInventoryChanged(w.vehicles[id])
	}
}

func (w *World) systemCargo(vehicles []*modelpkg.Vehicle) {
	cargoruntime.Damp(vehicles, w.cfg.CargoMaxItems)
}

// observeTrackLayer records every placement for audit, observers and the
// inventory-change notification that follows the pass.
func (w *World) observeTrackLayer(r railsruntime.Report) {
	if r.Outcome != railsruntime.OutcomePlaced {
		return
	}
	w.changedThisTick[r.VehicleID] = true
	block := w.catalogs.BlockName(r.Block)
	w.placedThisTick = append(w.placedThisTick, placementInfo(r, block))
	w.auditSetBlock(AuditEntry{
		Tick:   w.stepTick,
		Actor:  r.VehicleID,
		Action: "SET_BLOCK",
		Pos:    r.Pos.ToArray(),
		From:   r.From,
		To:     r.Block,
		Reason: "TRACK_LAYER",
		Details: map[string]any{
			"item":     r.Item,
			"slot":     r.Slot,
			"side":     r.Side.String(),
			"ahead":    r.Ahead,
			"strategy": r.Strategy,
		},
	})
}

func (w *World) auditSetBlock(e AuditEntry) {
	if w.auditLogger != nil {
		_ = w.auditLogger.WriteAudit(e)
	}
}

// notifyInventoryChanged is the single entry point for inventory mutations.
func (w *World) notifyInventoryChanged(v *modelpkg.Vehicle) {
	cargoruntime.OnInventoryChanged(v)
}

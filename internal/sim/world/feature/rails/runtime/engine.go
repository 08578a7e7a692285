package runtime

import (
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
	"railcraft.ai/internal/sim/world/logic/railnet"
)

// Engine extends the rail network under track-layer vehicles. It keeps no
// state between ticks: every decision is made from the current grid and
// inventories.
type Engine struct {
	Primary  PlacementStrategy
	Fallback PlacementStrategy

	// Observe, when set, receives every terminal outcome. It must not mutate
	// the grid or the vehicle.
	Observe func(Report)
}

func NewEngine(mode string) *Engine {
	p, f := StrategiesFor(mode)
	return &Engine{Primary: p, Fallback: f}
}

// Update runs one track-layer pass over vehicles in the given order. Vehicles
// without the full track-layer component set are ignored. Failures are silent:
// a vehicle or candidate that cannot be served is skipped.
func (e *Engine) Update(env Env, vehicles []*modelpkg.Vehicle, tickDelta float32) {
	if e == nil || !env.usable() {
		return
	}
	for _, v := range vehicles {
		if !v.HasTrackLayerSet() {
			continue
		}
		e.updateVehicle(env, v)
	}
}

func (e *Engine) updateVehicle(env Env, v *modelpkg.Vehicle) {
	if v.Path.Association == nil {
		e.report(Report{VehicleID: v.ID, Outcome: OutcomeOffTrack})
		return
	}
	cell := *v.Path.Association
	railBlock := env.Grid.GetBlock(cell)
	fam, ok := env.Catalog.FamilyOfBlock(railBlock)
	if !ok || fam == nil {
		e.report(Report{VehicleID: v.ID, Outcome: OutcomeOffTrack, Pos: cell})
		return
	}
	mask, _ := fam.MaskOf(railBlock)

	ahead, strategy, res := e.resolveAhead(v, mask)
	switch res {
	case Resolved:
	case NotStraight:
		e.report(Report{VehicleID: v.ID, Outcome: OutcomeCurved, Strategy: strategy, Pos: cell})
		return
	default:
		e.report(Report{VehicleID: v.ID, Outcome: OutcomeNoHeading, Strategy: strategy, Pos: cell})
		return
	}

	// Ahead strictly before behind: with a single item left, ahead wins.
	e.report(e.attempt(env, v, fam, cell, ahead, true, strategy))
	e.report(e.attempt(env, v, fam, cell, ahead.Reverse(), false, strategy))
}

func (e *Engine) resolveAhead(v *modelpkg.Vehicle, mask modelpkg.ConnMask) (modelpkg.Side, string, Resolution) {
	if e.Primary == nil {
		return 0, "", Unavailable
	}
	side, res := e.Primary.Ahead(v, mask)
	name := e.Primary.Name()
	if res == Unavailable && e.Fallback != nil {
		side, res = e.Fallback.Ahead(v, mask)
		name = e.Fallback.Name()
	}
	return side, name, res
}

func (e *Engine) attempt(env Env, v *modelpkg.Vehicle, fam *railnet.Family, cell modelpkg.Vec3i, side modelpkg.Side, ahead bool, strategy string) Report {
	target := cell.Add(side.Vec())
	r := Report{
		VehicleID: v.ID,
		Strategy:  strategy,
		Ahead:     ahead,
		Side:      side,
		Pos:       target,
		Slot:      -1,
	}
	if !Validate(env.Grid, target) {
		r.Outcome = OutcomeInvalid
		return r
	}
	slot, item, ok := Consume(v.Inventory, fam.ID, env.Catalog)
	if !ok {
		r.Outcome = OutcomeNoItem
		return r
	}
	r.From = env.Grid.GetBlock(target)
	r.Block = fam.BlockForPlacement(target, env.Grid.GetBlock)
	r.Item = item
	r.Slot = slot
	env.Grid.SetBlock(target, r.Block)
	r.Outcome = OutcomePlaced
	return r
}

func (e *Engine) report(r Report) {
	if e.Observe != nil {
		e.Observe(r)
	}
}

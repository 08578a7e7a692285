package world

import (
	"fmt"

	"railcraft.ai/internal/sim/scenario"
	"railcraft.ai/internal/sim/world/logic/ids"
)

// spawnVehicle adds a vehicle built from spec. Vehicles without an id get the
// next generated one; the returned spec carries the final id.
func (w *World) spawnVehicle(spec scenario.VehicleSpec) (scenario.VehicleSpec, error) {
	if spec.ID == "" {
		for {
			id := ids.VehicleID(w.nextVehicleNum.Add(1))
			if _, taken := w.vehicles[id]; !taken {
				spec.ID = id
				break
			}
		}
	}
	if _, dup := w.vehicles[spec.ID]; dup {
		return spec, fmt.Errorf("%w: %s", ErrDuplicateVehicle, spec.ID)
	}
	if err := (&scenario.Scenario{Vehicles: []scenario.VehicleSpec{spec}}).Validate(); err != nil {
		return spec, err
	}
	w.vehicles[spec.ID] = spec.Vehicle(w.cfg.ExplosiveFuseMs)
	return spec, nil
}

// loadItems applies one load request and reports what actually went in.
func (w *World) loadItems(req LoadItems) (LoadItems, bool) {
	v := w.vehicles[req.VehicleID]
	if v == nil || v.Inventory == nil || req.Item == "" || req.Count <= 0 {
		return req, false
	}
	left := v.Inventory.Add(req.Item, req.Count)
	req.Count -= left
	if req.Count <= 0 {
		return req, false
	}
	w.notifyInventoryChanged(v)
	return req, true
}

// SpawnNow adds a vehicle immediately. Must be called while the world loop is
// not running.
func (w *World) SpawnNow(spec scenario.VehicleSpec) (string, error) {
	out, err := w.spawnVehicle(spec)
	return out.ID, err
}

// LoadNow loads items immediately. Must be called while the world loop is not
// running.
func (w *World) LoadNow(req LoadItems) error {
	if _, ok := w.vehicles[req.VehicleID]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownVehicle, req.VehicleID)
	}
	if _, ok := w.loadItems(req); !ok {
		return fmt.Errorf("load %d %s into %s: no room", req.Count, req.Item, req.VehicleID)
	}
	return nil
}

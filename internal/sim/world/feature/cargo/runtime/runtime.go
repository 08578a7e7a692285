package runtime

import modelpkg "railcraft.ai/internal/sim/world/kernel/model"

// DefaultMaxItems is the cargo load at which a cart can no longer move.
const DefaultMaxItems = 2971

// OnInventoryChanged recomputes the cargo weight of v from its inventory.
// It is the handler for inventory-change notifications and reports whether
// the weight changed.
func OnInventoryChanged(v *modelpkg.Vehicle) bool {
	if v == nil || v.Cargo == nil {
		return false
	}
	w := v.Inventory.Total()
	if w == v.Cargo.Weight {
		return false
	}
	v.Cargo.Weight = w
	return true
}

// SpeedMultiplier is the linear velocity factor for a load, clamped to [0,1].
func SpeedMultiplier(weight, maxItems int) float32 {
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	m := float32(maxItems-weight) / float32(maxItems)
	if m < 0 {
		return 0
	}
	if m > 1 {
		return 1
	}
	return m
}

// Damp scales the velocity of every cargo cart by its load factor.
func Damp(vehicles []*modelpkg.Vehicle, maxItems int) {
	for _, v := range vehicles {
		if v == nil || v.Cargo == nil || v.Rail == nil {
			continue
		}
		v.Rail.Velocity = v.Rail.Velocity.Mul(SpeedMultiplier(v.Cargo.Weight, maxItems))
	}
}

package runtime

import modelpkg "railcraft.ai/internal/sim/world/kernel/model"

// Consume takes one block-item of the given family from inv. Slots are scanned
// in index order and only the first matching slot is touched; a stack that
// runs out leaves an empty slot behind. It returns the consumed slot index and
// item, or ok=false when no slot matches (inv is left unchanged).
func Consume(inv *modelpkg.Inventory, family string, cat Catalog) (slot int, item string, ok bool) {
	if inv == nil || cat == nil || family == "" {
		return -1, "", false
	}
	for i, s := range inv.Slots {
		if s.Empty() {
			continue
		}
		fam, placeable := cat.ItemPlaceFamily(s.Item)
		if !placeable || fam != family {
			continue
		}
		if !inv.TakeAt(i) {
			return -1, "", false
		}
		return i, s.Item, true
	}
	return -1, "", false
}

package runtime

import modelpkg "railcraft.ai/internal/sim/world/kernel/model"

// Validate reports whether new track may go into target: the cell must be
// empty and the block beneath it must be solid ground (not penetrable, not liquid).
func Validate(grid WorldGrid, target modelpkg.Vec3i) bool {
	if grid == nil {
		return false
	}
	if grid.GetBlock(target) != grid.Empty() {
		return false
	}
	under := grid.Attrs(grid.GetBlock(target.Sub(modelpkg.Up)))
	return !under.Penetrable && !under.Liquid
}

package world

import (
	railsruntime "railcraft.ai/internal/sim/world/feature/rails/runtime"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

// gridAdapter exposes the chunk store to the rail systems.
type gridAdapter struct{ w *World }

func (g gridAdapter) GetBlock(pos modelpkg.Vec3i) uint16 {
	return g.w.chunks.GetBlock(pos.X, pos.Y, pos.Z)
}

func (g gridAdapter) SetBlock(pos modelpkg.Vec3i, b uint16) {
	g.w.chunks.SetBlock(pos.X, pos.Y, pos.Z, b)
}

func (g gridAdapter) Empty() uint16 { return g.w.chunks.Gen.Palette.Air }

func (g gridAdapter) Attrs(b uint16) railsruntime.BlockAttrs {
	d, ok := g.w.catalogs.BlockDefOf(b)
	if !ok {
		return railsruntime.BlockAttrs{}
	}
	return railsruntime.BlockAttrs{Penetrable: d.Penetrable, Liquid: d.Liquid}
}

func (g gridAdapter) isRail(pos modelpkg.Vec3i) bool {
	_, ok := g.w.catalogs.FamilyOfBlock(g.GetBlock(pos))
	return ok
}

func (w *World) railEnv() railsruntime.Env {
	return railsruntime.Env{Grid: w.grid, Catalog: w.catalogs}
}

// BlockAt reads a block by palette name. Must be called from the world loop
// goroutine or while the world is stopped.
func (w *World) BlockAt(pos Vec3i) string {
	return w.catalogs.BlockName(w.grid.GetBlock(pos))
}

package gen

import "railcraft.ai/internal/sim/world/logic/mathx"

// Palette holds the block ids terrain generation writes.
type Palette struct {
	Air    uint16
	Grass  uint16
	Dirt   uint16
	Sand   uint16
	Stone  uint16
	Gravel uint16
}

const (
	biomeRegionSize = 64
	dirtDepth       = 3
)

func FloorDiv(a, b int) int {
	return mathx.FloorDiv(a, b)
}

func Mod(a, b int) int {
	return mathx.Mod(a, b)
}

func BiomeFrom(noise uint64) string {
	switch noise % 3 {
	case 0:
		return "PLAINS"
	case 1:
		return "FOREST"
	default:
		return "DESERT"
	}
}

func BiomeAt(seed int64, x, z, regionSize int) string {
	if regionSize <= 0 {
		regionSize = 1
	}
	rx := FloorDiv(x, regionSize)
	rz := FloorDiv(z, regionSize)
	return BiomeFrom(mathx.Hash2(seed, rx, rz))
}

// LayerBlock is the generated block at (x,y,z) of a flat layered world whose
// surface sits directly below groundY: a grass (or sand) top, a few layers of
// dirt, then stone with scattered gravel. Everything at or above groundY is air.
func LayerBlock(seed int64, groundY, x, y, z int, p Palette) uint16 {
	switch {
	case y >= groundY:
		return p.Air
	case y == groundY-1:
		if BiomeAt(seed, x, z, biomeRegionSize) == "DESERT" {
			return p.Sand
		}
		return p.Grass
	case y >= groundY-1-dirtDepth:
		if BiomeAt(seed, x, z, biomeRegionSize) == "DESERT" {
			return p.Sand
		}
		return p.Dirt
	default:
		if mathx.Hash3(seed+7, x, y, z)%1000 < 40 {
			return p.Gravel
		}
		return p.Stone
	}
}

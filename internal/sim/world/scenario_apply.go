package world

import (
	"fmt"

	"railcraft.ai/internal/sim/scenario"
)

const maxFillCells = 1 << 20

// ApplyScenario writes the scenario fills and spawns its vehicles. It must be
// called before Run.
func (w *World) ApplyScenario(s *scenario.Scenario) error {
	if s == nil {
		return nil
	}
	if err := s.Validate(); err != nil {
		return err
	}
	for i, f := range s.Fills {
		b, err := w.catalogs.BlockID(f.Block)
		if err != nil {
			return fmt.Errorf("scenario fill %d: %w", i, err)
		}
		lo, hi := boxCorners(f.From, f.To)
		cells := (hi[0] - lo[0] + 1) * (hi[1] - lo[1] + 1) * (hi[2] - lo[2] + 1)
		if cells > maxFillCells {
			return fmt.Errorf("scenario fill %d: %d cells exceeds %d", i, cells, maxFillCells)
		}
		for y := lo[1]; y <= hi[1]; y++ {
			for z := lo[2]; z <= hi[2]; z++ {
				for x := lo[0]; x <= hi[0]; x++ {
					w.chunks.SetBlock(x, y, z, b)
				}
			}
		}
	}
	for _, spec := range s.Vehicles {
		if _, err := w.spawnVehicle(spec); err != nil {
			return fmt.Errorf("scenario vehicle %s: %w", spec.ID, err)
		}
	}
	return nil
}

func boxCorners(a, b [3]int) (lo, hi [3]int) {
	for i := 0; i < 3; i++ {
		lo[i], hi[i] = a[i], b[i]
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}
	return lo, hi
}

package store

import genpkg "railcraft.ai/internal/sim/world/terrain/gen"

func (s *ChunkStore) GenerateChunk(ch *Chunk) {
	for y := 0; y < ChunkSize; y++ {
		wy := ch.CY*ChunkSize + y
		for z := 0; z < ChunkSize; z++ {
			wz := ch.CZ*ChunkSize + z
			for x := 0; x < ChunkSize; x++ {
				wx := ch.CX*ChunkSize + x
				ch.Blocks[ch.index(x, y, z)] = genpkg.LayerBlock(s.Gen.Seed, s.Gen.GroundY, wx, wy, wz, s.Gen.Palette)
			}
		}
	}
}

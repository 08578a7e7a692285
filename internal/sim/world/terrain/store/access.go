package store

import (
	"sort"

	genpkg "railcraft.ai/internal/sim/world/terrain/gen"
)

func (s *ChunkStore) InBounds(x, y, z int) bool {
	if s.Gen.BoundaryR > 0 {
		if x < -s.Gen.BoundaryR || x > s.Gen.BoundaryR || z < -s.Gen.BoundaryR || z > s.Gen.BoundaryR {
			return false
		}
	}
	return true
}

func (s *ChunkStore) LoadedChunkKeys() []ChunkKey {
	keys := make([]ChunkKey, 0, len(s.Chunks))
	for k := range s.Chunks {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].CX != keys[j].CX {
			return keys[i].CX < keys[j].CX
		}
		if keys[i].CY != keys[j].CY {
			return keys[i].CY < keys[j].CY
		}
		return keys[i].CZ < keys[j].CZ
	})
	return keys
}

func split(v int) (chunk, local int) {
	return genpkg.FloorDiv(v, ChunkSize), genpkg.Mod(v, ChunkSize)
}

// GetBlock reads a block, generating its chunk on first access. Cells outside
// the world boundary read as air.
func (s *ChunkStore) GetBlock(x, y, z int) uint16 {
	if !s.InBounds(x, y, z) {
		return s.Gen.Palette.Air
	}
	cx, lx := split(x)
	cy, ly := split(y)
	cz, lz := split(z)
	return s.GetOrGenChunk(cx, cy, cz).Get(lx, ly, lz)
}

// SetBlock writes a block. Writes outside the world boundary are dropped.
func (s *ChunkStore) SetBlock(x, y, z int, b uint16) {
	if !s.InBounds(x, y, z) {
		return
	}
	cx, lx := split(x)
	cy, ly := split(y)
	cz, lz := split(z)
	s.GetOrGenChunk(cx, cy, cz).Set(lx, ly, lz, b)
}

func (s *ChunkStore) GetOrGenChunk(cx, cy, cz int) *Chunk {
	k := ChunkKey{CX: cx, CY: cy, CZ: cz}
	if ch, ok := s.Chunks[k]; ok {
		return ch
	}
	ch := &Chunk{
		CX:     cx,
		CY:     cy,
		CZ:     cz,
		Blocks: make([]uint16, chunkVolume),
	}
	s.GenerateChunk(ch)
	ch.dirty = true
	_ = ch.Digest()
	s.Chunks[k] = ch
	return ch
}

package gen

import "testing"

func TestLayerBlock(t *testing.T) {
	p := Palette{Air: 0, Grass: 1, Dirt: 2, Sand: 3, Stone: 4, Gravel: 5}
	for x := -40; x <= 40; x += 7 {
		for z := -40; z <= 40; z += 11 {
			if b := LayerBlock(9, 0, x, 0, z, p); b != p.Air {
				t.Fatalf("(%d,0,%d)=%d, want air", x, z, b)
			}
			top := LayerBlock(9, 0, x, -1, z, p)
			if top != p.Grass && top != p.Sand {
				t.Fatalf("surface (%d,-1,%d)=%d", x, z, top)
			}
			deep := LayerBlock(9, 0, x, -20, z, p)
			if deep != p.Stone && deep != p.Gravel {
				t.Fatalf("deep (%d,-20,%d)=%d", x, z, deep)
			}
		}
	}
	if LayerBlock(9, 0, 3, -1, 4, p) != LayerBlock(9, 0, 3, -1, 4, p) {
		t.Fatalf("generation is not deterministic")
	}
}

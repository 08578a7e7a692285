package runtime

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

func TestOnInventoryChangedRecomputesWeight(t *testing.T) {
	v := &modelpkg.Vehicle{
		Cargo:     &modelpkg.CargoState{},
		Inventory: &modelpkg.Inventory{Slots: []modelpkg.ItemStack{{Item: "COAL", Count: 10}, {}, {Item: "IRON", Count: 5}}},
	}
	if !OnInventoryChanged(v) || v.Cargo.Weight != 15 {
		t.Fatalf("weight=%d, want 15", v.Cargo.Weight)
	}
	if OnInventoryChanged(v) {
		t.Fatalf("unchanged inventory reported a change")
	}
	v.Inventory.TakeAt(2)
	if !OnInventoryChanged(v) || v.Cargo.Weight != 14 {
		t.Fatalf("weight=%d, want 14", v.Cargo.Weight)
	}
	if OnInventoryChanged(&modelpkg.Vehicle{}) {
		t.Fatalf("vehicle without cargo reported a change")
	}
}

func TestSpeedMultiplier(t *testing.T) {
	cases := []struct {
		weight, max int
		want        float32
	}{
		{0, 100, 1},
		{50, 100, 0.5},
		{100, 100, 0},
		{150, 100, 0},
		{-10, 100, 1},
		{0, 0, 1},
	}
	for _, c := range cases {
		if got := SpeedMultiplier(c.weight, c.max); got != c.want {
			t.Fatalf("SpeedMultiplier(%d,%d)=%v, want %v", c.weight, c.max, got, c.want)
		}
	}
}

func TestDampScalesOnlyCargoCarts(t *testing.T) {
	cargo := &modelpkg.Vehicle{
		Rail:  &modelpkg.RailState{Velocity: mgl32.Vec3{4, 0, 0}},
		Cargo: &modelpkg.CargoState{Weight: 25},
	}
	plain := &modelpkg.Vehicle{Rail: &modelpkg.RailState{Velocity: mgl32.Vec3{4, 0, 0}}}
	Damp([]*modelpkg.Vehicle{cargo, plain, nil}, 100)
	if got := cargo.Rail.Velocity; !got.ApproxEqual(mgl32.Vec3{3, 0, 0}) {
		t.Fatalf("cargo velocity=%v, want (3,0,0)", got)
	}
	if got := plain.Rail.Velocity; got != (mgl32.Vec3{4, 0, 0}) {
		t.Fatalf("plain velocity=%v changed", got)
	}
}

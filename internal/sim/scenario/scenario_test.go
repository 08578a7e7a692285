package scenario

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

func TestLoad_ShippedScenario(t *testing.T) {
	s, err := Load("../../../configs/scenario.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.WorldID != "rails-demo" || len(s.Vehicles) != 4 || len(s.Fills) == 0 {
		t.Fatalf("scenario=%+v", s)
	}
}

func TestVehicle_TrackLayer(t *testing.T) {
	h := [3]float32{1, 0, 0}
	spec := VehicleSpec{
		ID:         "V1",
		Pos:        [3]int{3, 0, -1},
		Velocity:   [3]float32{2, 0, 0},
		Heading:    &h,
		TrackLayer: true,
		Slots:      3,
		Inventory:  []Stack{{}, {Item: "RAIL", Count: 5}},
	}
	v := spec.Vehicle(0)
	if !v.HasTrackLayerSet() {
		t.Fatalf("vehicle missing track layer components: %+v", v)
	}
	if v.Cell() != (modelpkg.Vec3i{X: 3, Z: -1}) {
		t.Fatalf("cell=%+v", v.Cell())
	}
	if !v.Path.HeadingValid || v.Path.Heading != (mgl32.Vec3{1, 0, 0}) {
		t.Fatalf("heading=%v valid=%v", v.Path.Heading, v.Path.HeadingValid)
	}
	if len(v.Inventory.Slots) != 3 || !v.Inventory.Slots[0].Empty() || v.Inventory.Slots[1].Count != 5 {
		t.Fatalf("slots=%+v", v.Inventory.Slots)
	}
	if v.Cargo != nil || v.Explosive != nil {
		t.Fatalf("unexpected components")
	}
}

func TestVehicle_CargoAndExplosive(t *testing.T) {
	spec := VehicleSpec{ID: "C", Cargo: true, Inventory: []Stack{{Item: "COAL", Count: 7}}, Explosive: &Explosive{}}
	v := spec.Vehicle(2500)
	if v.Cargo == nil || v.Cargo.Weight != 7 {
		t.Fatalf("cargo=%+v", v.Cargo)
	}
	if v.Explosive.FuseLengthMs != 2500 {
		t.Fatalf("fuse=%d, want 2500", v.Explosive.FuseLengthMs)
	}
	if got := (VehicleSpec{ID: "E", Explosive: &Explosive{}}).Vehicle(0); got.Explosive.FuseLengthMs != modelpkg.DefaultFuseLengthMs {
		t.Fatalf("fuse=%d, want default", got.Explosive.FuseLengthMs)
	}
	if v.Path.HeadingValid {
		t.Fatalf("heading valid without a heading")
	}
}

func TestParse_RejectsBadVehicles(t *testing.T) {
	cases := []string{
		"vehicles: [{id: ''}]",
		"vehicles: [{id: A}, {id: A}]",
		"vehicles: [{id: A, slots: 1, inventory: [{item: RAIL, count: 1}, {item: RAIL, count: 1}]}]",
		"vehicles: [{id: A, inventory: [{item: RAIL, count: -1}]}]",
	}
	for _, raw := range cases {
		if _, err := Parse([]byte(raw)); !errors.Is(err, ErrBadVehicle) {
			t.Fatalf("Parse(%q) err=%v, want ErrBadVehicle", raw, err)
		}
	}
	if _, err := Parse([]byte("fills: [{from: [0,0,0], to: [1,1,1]}]")); err == nil {
		t.Fatalf("fill without block accepted")
	}
}

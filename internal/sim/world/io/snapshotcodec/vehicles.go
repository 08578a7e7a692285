package snapshotcodec

import (
	"github.com/go-gl/mathgl/mgl32"

	"railcraft.ai/internal/persistence/snapshot"
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

func EncodeVehicle(v *modelpkg.Vehicle) snapshot.VehicleV1 {
	out := snapshot.VehicleV1{
		ID:         v.ID,
		Pos:        [3]float32(v.Pos),
		TrackLayer: v.TrackLayer,
	}
	if v.Rail != nil {
		out.HasRail = true
		out.Velocity = [3]float32(v.Rail.Velocity)
	}
	if v.Path != nil {
		out.HasPath = true
		out.Heading = [3]float32(v.Path.Heading)
		out.HeadingValid = v.Path.HeadingValid
		if v.Path.Association != nil {
			out.HasAssociation = true
			out.Association = v.Path.Association.ToArray()
		}
	}
	if v.Inventory != nil {
		out.HasInventory = true
		out.Slots = make([]snapshot.ItemStackV1, len(v.Inventory.Slots))
		for i, s := range v.Inventory.Slots {
			if s.Empty() {
				continue
			}
			out.Slots[i] = snapshot.ItemStackV1{Item: s.Item, Count: s.Count}
		}
	}
	if v.Cargo != nil {
		out.HasCargo = true
		out.CargoWeight = v.Cargo.Weight
	}
	if v.Explosive != nil {
		out.HasExplosive = true
		out.FuseLengthMs = v.Explosive.FuseLengthMs
	}
	return out
}

func DecodeVehicle(s snapshot.VehicleV1) *modelpkg.Vehicle {
	v := &modelpkg.Vehicle{
		ID:         s.ID,
		Pos:        mgl32.Vec3(s.Pos),
		TrackLayer: s.TrackLayer,
	}
	if s.HasRail {
		v.Rail = &modelpkg.RailState{Velocity: mgl32.Vec3(s.Velocity)}
	}
	if s.HasPath {
		v.Path = &modelpkg.PathFollower{
			Heading:      mgl32.Vec3(s.Heading),
			HeadingValid: s.HeadingValid,
		}
		if s.HasAssociation {
			c := modelpkg.Vec3iFromArray(s.Association)
			v.Path.Association = &c
		}
	}
	if s.HasInventory {
		v.Inventory = modelpkg.NewInventory(len(s.Slots))
		for i, st := range s.Slots {
			if st.Item == "" || st.Count <= 0 {
				continue
			}
			v.Inventory.Slots[i] = modelpkg.ItemStack{Item: st.Item, Count: st.Count}
		}
	}
	if s.HasCargo {
		v.Cargo = &modelpkg.CargoState{Weight: s.CargoWeight}
	}
	if s.HasExplosive {
		v.Explosive = &modelpkg.ExplosiveCart{FuseLengthMs: s.FuseLengthMs}
	}
	return v
}

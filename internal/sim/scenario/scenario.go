// Package scenario describes the initial state of a world: terrain and rail
// fills plus the vehicles that ride on them.
package scenario

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"

	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

var ErrBadVehicle = errors.New("bad vehicle")

const defaultSlots = 9

type Scenario struct {
	WorldID  string        `yaml:"world_id"`
	Fills    []Fill        `yaml:"fills"`
	Vehicles []VehicleSpec `yaml:"vehicles"`
}

// Fill sets every cell of the inclusive box [From,To] to Block.
type Fill struct {
	Block string `yaml:"block"`
	From  [3]int `yaml:"from"`
	To    [3]int `yaml:"to"`
}

type VehicleSpec struct {
	ID         string      `yaml:"id" json:"id"`
	Pos        [3]int      `yaml:"pos" json:"pos"`
	Velocity   [3]float32  `yaml:"velocity" json:"velocity"`
	Heading    *[3]float32 `yaml:"heading,omitempty" json:"heading,omitempty"`
	TrackLayer bool        `yaml:"track_layer" json:"track_layer,omitempty"`
	Cargo      bool        `yaml:"cargo" json:"cargo,omitempty"`
	Explosive  *Explosive  `yaml:"explosive,omitempty" json:"explosive,omitempty"`
	Slots      int         `yaml:"slots" json:"slots,omitempty"`
	Inventory  []Stack     `yaml:"inventory" json:"inventory,omitempty"`
}

type Explosive struct {
	FuseMs int64 `yaml:"fuse_ms" json:"fuse_ms,omitempty"`
}

type Stack struct {
	Item  string `yaml:"item" json:"item"`
	Count int    `yaml:"count" json:"count"`
}

func Load(path string) (*Scenario, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

func Parse(raw []byte) (*Scenario, error) {
	var s Scenario
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scenario) Validate() error {
	seen := map[string]bool{}
	for i, f := range s.Fills {
		if f.Block == "" {
			return fmt.Errorf("scenario: fill %d: empty block", i)
		}
	}
	for _, v := range s.Vehicles {
		if v.ID == "" {
			return fmt.Errorf("scenario: %w: empty id", ErrBadVehicle)
		}
		if seen[v.ID] {
			return fmt.Errorf("scenario: %w: duplicate id %s", ErrBadVehicle, v.ID)
		}
		seen[v.ID] = true
		if v.Slots < 0 {
			return fmt.Errorf("scenario: %w: %s has %d slots", ErrBadVehicle, v.ID, v.Slots)
		}
		if len(v.Inventory) > v.slotCount() {
			return fmt.Errorf("scenario: %w: %s lists %d stacks for %d slots", ErrBadVehicle, v.ID, len(v.Inventory), v.slotCount())
		}
		for _, st := range v.Inventory {
			if st.Count < 0 {
				return fmt.Errorf("scenario: %w: %s holds %d %s", ErrBadVehicle, v.ID, st.Count, st.Item)
			}
		}
	}
	return nil
}

func (v VehicleSpec) slotCount() int {
	if v.Slots == 0 {
		return defaultSlots
	}
	return v.Slots
}

// Vehicle builds the entity for v. Stacks keep their listed slot order.
// fuseMs is used for explosive carts that leave their fuse unset.
func (v VehicleSpec) Vehicle(fuseMs int64) *modelpkg.Vehicle {
	out := &modelpkg.Vehicle{
		ID:         v.ID,
		Pos:        modelpkg.CellCenter(modelpkg.Vec3iFromArray(v.Pos)),
		TrackLayer: v.TrackLayer,
		Rail:       &modelpkg.RailState{Velocity: mgl32.Vec3(v.Velocity)},
		Path:       &modelpkg.PathFollower{},
	}
	if v.Heading != nil {
		out.Path.Heading = mgl32.Vec3(*v.Heading)
		out.Path.HeadingValid = true
	}
	if v.TrackLayer || v.Cargo || len(v.Inventory) > 0 {
		out.Inventory = modelpkg.NewInventory(v.slotCount())
		for i, st := range v.Inventory {
			if st.Item == "" || st.Count == 0 {
				continue
			}
			out.Inventory.Slots[i] = modelpkg.ItemStack{Item: st.Item, Count: st.Count}
		}
	}
	if v.Cargo {
		out.Cargo = &modelpkg.CargoState{Weight: out.Inventory.Total()}
	}
	if v.Explosive != nil {
		fuse := v.Explosive.FuseMs
		if fuse <= 0 {
			fuse = fuseMs
		}
		if fuse <= 0 {
			fuse = modelpkg.DefaultFuseLengthMs
		}
		out.Explosive = &modelpkg.ExplosiveCart{FuseLengthMs: fuse}
	}
	return out
}

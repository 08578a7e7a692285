package runtime

import (
	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
	"railcraft.ai/internal/sim/world/logic/railnet"
)

// BlockAttrs are the physical block attributes placement rules look at.
type BlockAttrs struct {
	Penetrable bool
	Liquid     bool
}

// WorldGrid is the block-level world access used by the track layer.
type WorldGrid interface {
	GetBlock(pos modelpkg.Vec3i) uint16
	SetBlock(pos modelpkg.Vec3i, b uint16)
	// Empty is the identity of an unoccupied cell (air).
	Empty() uint16
	Attrs(b uint16) BlockAttrs
}

// Catalog resolves rail families and block-item capabilities.
type Catalog interface {
	FamilyOfBlock(b uint16) (*railnet.Family, bool)
	// ItemPlaceFamily returns the block family an item places. ok is false for
	// items without block-placement capability.
	ItemPlaceFamily(item string) (family string, ok bool)
}

// Env bundles the collaborators one track-layer pass reads and mutates.
type Env struct {
	Grid    WorldGrid
	Catalog Catalog
}

func (e Env) usable() bool { return e.Grid != nil && e.Catalog != nil }

// Outcome is the terminal state of one vehicle (or one candidate cell) in a tick.
type Outcome uint8

const (
	OutcomeOffTrack Outcome = iota + 1
	OutcomeNoHeading
	OutcomeCurved
	OutcomePlaced
	OutcomeNoItem
	OutcomeInvalid
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOffTrack:
		return "OFF_TRACK"
	case OutcomeNoHeading:
		return "NO_HEADING"
	case OutcomeCurved:
		return "CURVED"
	case OutcomePlaced:
		return "PLACED"
	case OutcomeNoItem:
		return "NO_ITEM"
	case OutcomeInvalid:
		return "INVALID"
	default:
		return "UNKNOWN"
	}
}

// Report describes one terminal outcome. Attempt fields (Side, Pos, Block,
// Slot) are only meaningful for PLACED, NO_ITEM and INVALID.
type Report struct {
	VehicleID string
	Outcome   Outcome
	Strategy  string

	Ahead bool
	Side  modelpkg.Side
	Pos   modelpkg.Vec3i
	From  uint16
	Block uint16
	Item  string
	Slot  int
}

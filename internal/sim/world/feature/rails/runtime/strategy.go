package runtime

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl32"

	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

// Resolution tells the engine whether a strategy produced a usable side.
type Resolution uint8

const (
	Resolved Resolution = iota
	// Unavailable means the strategy lacks its input; the engine may fall back.
	Unavailable
	NotStraight
	NoSide
)

// PlacementStrategy picks the "ahead" side for a vehicle standing on a rail
// cell whose connection mask is cellMask. Behind is always the reverse.
type PlacementStrategy interface {
	Name() string
	Ahead(v *modelpkg.Vehicle, cellMask modelpkg.ConnMask) (modelpkg.Side, Resolution)
}

// HeadingBased derives sides from the follower's continuous heading.
type HeadingBased struct{}

func (HeadingBased) Name() string { return "heading" }

func (HeadingBased) Ahead(v *modelpkg.Vehicle, _ modelpkg.ConnMask) (modelpkg.Side, Resolution) {
	if v == nil || v.Path == nil || !v.Path.HeadingValid {
		return 0, Unavailable
	}
	g := RoundHeading(v.Path.Heading)
	if g.X != 0 && g.Z != 0 {
		return 0, NotStraight
	}
	s, ok := modelpkg.HorizontalSideInDirection(g.X, g.Z)
	if !ok {
		return 0, NoSide
	}
	return s, Resolved
}

// RoundHeading aligns a continuous heading to the grid, rounding every axis
// toward positive infinity.
func RoundHeading(h mgl32.Vec3) modelpkg.Vec3i {
	return modelpkg.Vec3i{
		X: int(math.Ceil(float64(h.X()))),
		Y: int(math.Ceil(float64(h.Y()))),
		Z: int(math.Ceil(float64(h.Z()))),
	}
}

// ConnectionBased derives sides from the static connection mask of the rail
// cell. Only straight cells have an ahead side.
type ConnectionBased struct{}

func (ConnectionBased) Name() string { return "connection" }

func (ConnectionBased) Ahead(_ *modelpkg.Vehicle, cellMask modelpkg.ConnMask) (modelpkg.Side, Resolution) {
	if cellMask == 0 {
		return 0, Unavailable
	}
	if !cellMask.Straight() {
		return 0, NotStraight
	}
	return cellMask.Sides()[0], Resolved
}

const (
	ModeHeading    = "heading"
	ModeConnection = "connection"
)

// StrategiesFor maps a configured mode to (primary, fallback). Unknown modes
// use the heading-first default.
func StrategiesFor(mode string) (PlacementStrategy, PlacementStrategy) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case ModeConnection:
		return ConnectionBased{}, nil
	default:
		return HeadingBased{}, ConnectionBased{}
	}
}

package model

import "github.com/go-gl/mathgl/mgl32"

// DefaultFuseLengthMs is how long an explosive cart burns after activation.
const DefaultFuseLengthMs = 4000

// Vehicle is a rail vehicle entity. Capabilities are optional components;
// a nil component means the vehicle does not have it.
type Vehicle struct {
	ID  string
	Pos mgl32.Vec3

	// TrackLayer marks vehicles that extend the rail network they ride on.
	TrackLayer bool

	Rail      *RailState
	Path      *PathFollower
	Inventory *Inventory
	Cargo     *CargoState
	Explosive *ExplosiveCart
}

type RailState struct {
	Velocity mgl32.Vec3
}

// PathFollower is the movement subsystem's view of a vehicle on track.
type PathFollower struct {
	Heading mgl32.Vec3
	// HeadingValid is false until the follower has produced a heading.
	HeadingValid bool
	// Association is the rail cell under the vehicle, nil when off track.
	Association *Vec3i
}

type CargoState struct {
	Weight int
}

type ExplosiveCart struct {
	FuseLengthMs int64
}

// Cell returns the grid cell containing the vehicle position.
func (v *Vehicle) Cell() Vec3i {
	return CellAt(v.Pos)
}

// CellAt floors a continuous position onto the grid.
func CellAt(p mgl32.Vec3) Vec3i {
	return Vec3i{X: floorInt(p.X()), Y: floorInt(p.Y()), Z: floorInt(p.Z())}
}

// CellCenter is the continuous position at the bottom center of a cell.
func CellCenter(c Vec3i) mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X) + 0.5, float32(c.Y), float32(c.Z) + 0.5}
}

func floorInt(f float32) int {
	i := int(f)
	if float32(i) > f {
		i--
	}
	return i
}

// HasTrackLayerSet reports whether the vehicle carries every component the
// track layer needs.
func (v *Vehicle) HasTrackLayerSet() bool {
	return v != nil && v.TrackLayer && v.Rail != nil && v.Path != nil && v.Inventory != nil
}

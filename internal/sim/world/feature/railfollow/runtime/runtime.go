package runtime

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

const minSpeed = 1e-4

// Step advances one vehicle along its velocity for dt seconds. The vehicle
// only enters cells that hold rail; when the next cell has none it stops.
// Heading and the rail association are refreshed afterwards. A positive
// maxSpeed caps the stored velocity.
func Step(v *modelpkg.Vehicle, dt, maxSpeed float32, isRail func(modelpkg.Vec3i) bool) {
	if v == nil || v.Rail == nil || v.Path == nil || isRail == nil {
		return
	}
	hv := mgl32.Vec3{v.Rail.Velocity.X(), 0, v.Rail.Velocity.Z()}
	speed := hv.Len()
	if maxSpeed > 0 && speed > maxSpeed {
		hv = hv.Mul(maxSpeed / speed)
		v.Rail.Velocity = hv
		speed = maxSpeed
	}
	if speed > minSpeed && dt > 0 {
		dir := unitHeading(hv.X(), hv.Z())
		v.Path.Heading = dir
		v.Path.HeadingValid = true

		cur := v.Cell()
		next := v.Pos.Add(dir.Mul(speed * dt))
		nc := modelpkg.CellAt(next)
		if nc == cur || isRail(nc) {
			v.Pos = next
		} else {
			v.Rail.Velocity = mgl32.Vec3{}
		}
	}
	refreshAssociation(v, isRail)
}

// unitHeading is the exact unit direction of a nonzero horizontal velocity.
// Axis-aligned velocities map to exact unit axes so grid rounding of the
// heading never collapses to zero.
func unitHeading(x, z float32) mgl32.Vec3 {
	switch {
	case z == 0:
		return mgl32.Vec3{sign(x), 0, 0}
	case x == 0:
		return mgl32.Vec3{0, 0, sign(z)}
	}
	l := math.Hypot(float64(x), float64(z))
	return mgl32.Vec3{float32(float64(x) / l), 0, float32(float64(z) / l)}
}

func sign(f float32) float32 {
	if f < 0 {
		return -1
	}
	return 1
}

func refreshAssociation(v *modelpkg.Vehicle, isRail func(modelpkg.Vec3i) bool) {
	cell := v.Cell()
	if isRail(cell) {
		v.Path.Association = &cell
		return
	}
	v.Path.Association = nil
}

// Run steps every vehicle in order.
func Run(vehicles []*modelpkg.Vehicle, dt, maxSpeed float32, isRail func(modelpkg.Vec3i) bool) {
	for _, v := range vehicles {
		Step(v, dt, maxSpeed, isRail)
	}
}

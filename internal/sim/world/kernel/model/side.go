package model

// Side is a face direction of a grid cell.
type Side uint8

const (
	SideEast  Side = iota // +X
	SideWest              // -X
	SideSouth             // +Z
	SideNorth             // -Z
	SideUp                // +Y
	SideDown              // -Y
)

// HorizontalSides lists the four horizontal sides in canonical order.
var HorizontalSides = [4]Side{SideEast, SideWest, SideSouth, SideNorth}

func (s Side) Vec() Vec3i {
	switch s {
	case SideEast:
		return Vec3i{X: 1}
	case SideWest:
		return Vec3i{X: -1}
	case SideSouth:
		return Vec3i{Z: 1}
	case SideNorth:
		return Vec3i{Z: -1}
	case SideUp:
		return Vec3i{Y: 1}
	default:
		return Vec3i{Y: -1}
	}
}

func (s Side) Reverse() Side {
	switch s {
	case SideEast:
		return SideWest
	case SideWest:
		return SideEast
	case SideSouth:
		return SideNorth
	case SideNorth:
		return SideSouth
	case SideUp:
		return SideDown
	default:
		return SideUp
	}
}

func (s Side) Horizontal() bool { return s <= SideNorth }

func (s Side) String() string {
	switch s {
	case SideEast:
		return "+X"
	case SideWest:
		return "-X"
	case SideSouth:
		return "+Z"
	case SideNorth:
		return "-Z"
	case SideUp:
		return "+Y"
	case SideDown:
		return "-Y"
	default:
		return "?"
	}
}

// ParseSide is the inverse of Side.String.
func ParseSide(tag string) (Side, bool) {
	for s := SideEast; s <= SideDown; s++ {
		if s.String() == tag {
			return s, true
		}
	}
	return 0, false
}

// HorizontalSideInDirection returns the horizontal side a grid direction points to.
// The dominant axis wins; a direction with no horizontal component has no side.
func HorizontalSideInDirection(dx, dz int) (Side, bool) {
	ax, az := dx, dz
	if ax < 0 {
		ax = -ax
	}
	if az < 0 {
		az = -az
	}
	switch {
	case ax > az:
		if dx > 0 {
			return SideEast, true
		}
		return SideWest, true
	case az > 0:
		if dz > 0 {
			return SideSouth, true
		}
		return SideNorth, true
	default:
		return 0, false
	}
}

// ConnMask is a bit set of horizontal sides a rail block links to.
type ConnMask uint8

func MaskOf(sides ...Side) ConnMask {
	var m ConnMask
	for _, s := range sides {
		if s.Horizontal() {
			m |= 1 << s
		}
	}
	return m
}

func (m ConnMask) Has(s Side) bool { return s.Horizontal() && m&(1<<s) != 0 }

// Sides returns the set sides in canonical order.
func (m ConnMask) Sides() []Side {
	out := make([]Side, 0, 4)
	for _, s := range HorizontalSides {
		if m.Has(s) {
			out = append(out, s)
		}
	}
	return out
}

func (m ConnMask) Count() int { return len(m.Sides()) }

// Straight reports whether the mask links exactly two opposite sides.
func (m ConnMask) Straight() bool {
	return m == MaskOf(SideEast, SideWest) || m == MaskOf(SideSouth, SideNorth)
}

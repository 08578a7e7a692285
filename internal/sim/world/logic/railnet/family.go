package railnet

import (
	"fmt"
	"sort"

	modelpkg "railcraft.ai/internal/sim/world/kernel/model"
)

// Family is a set of rail block variants that auto-connect to each other.
// Families are shared and never mutated after construction.
type Family struct {
	ID      string
	Default uint16

	variants map[modelpkg.ConnMask]uint16
	masks    map[uint16]modelpkg.ConnMask
}

func NewFamily(id string, def uint16, variants map[modelpkg.ConnMask]uint16) (*Family, error) {
	if id == "" {
		return nil, fmt.Errorf("rail family: empty id")
	}
	f := &Family{
		ID:       id,
		Default:  def,
		variants: map[modelpkg.ConnMask]uint16{},
		masks:    map[uint16]modelpkg.ConnMask{},
	}
	for m, b := range variants {
		if n := m.Count(); n < 1 || n > 2 {
			return nil, fmt.Errorf("rail family %s: variant %d links %d sides", id, b, n)
		}
		if prev, ok := f.masks[b]; ok && prev != m {
			return nil, fmt.Errorf("rail family %s: block %d listed twice", id, b)
		}
		f.variants[m] = b
		f.masks[b] = m
	}
	if _, ok := f.masks[def]; !ok {
		return nil, fmt.Errorf("rail family %s: default block %d is not a variant", id, def)
	}
	return f, nil
}

func (f *Family) Contains(b uint16) bool {
	if f == nil {
		return false
	}
	_, ok := f.masks[b]
	return ok
}

// MaskOf returns the connection mask of a variant block.
func (f *Family) MaskOf(b uint16) (modelpkg.ConnMask, bool) {
	if f == nil {
		return 0, false
	}
	m, ok := f.masks[b]
	return m, ok
}

// BlockForPlacement derives the variant to place at cell from the horizontal
// neighbors that already hold rail of this family.
func (f *Family) BlockForPlacement(cell modelpkg.Vec3i, neighborAt func(modelpkg.Vec3i) uint16) uint16 {
	var linked modelpkg.ConnMask
	if neighborAt != nil {
		for _, s := range modelpkg.HorizontalSides {
			if f.Contains(neighborAt(cell.Add(s.Vec()))) {
				linked |= modelpkg.MaskOf(s)
			}
		}
	}
	if b, ok := f.variants[pickMask(linked)]; ok {
		return b
	}
	return f.Default
}

// pickMask reduces the linked neighbor set to at most two sides. Straight runs
// win over corners; no branching variant is ever chosen.
func pickMask(linked modelpkg.ConnMask) modelpkg.ConnMask {
	ew := modelpkg.MaskOf(modelpkg.SideEast, modelpkg.SideWest)
	sn := modelpkg.MaskOf(modelpkg.SideSouth, modelpkg.SideNorth)
	switch {
	case linked&ew == ew:
		return ew
	case linked&sn == sn:
		return sn
	}
	sides := linked.Sides()
	switch len(sides) {
	case 0:
		return 0
	case 1:
		return modelpkg.MaskOf(sides[0], sides[0].Reverse())
	default:
		return modelpkg.MaskOf(sides[0], sides[1])
	}
}

// Registry indexes families by id and by member block.
type Registry struct {
	byID    map[string]*Family
	byBlock map[uint16]*Family
}

func NewRegistry(families ...*Family) (*Registry, error) {
	r := &Registry{byID: map[string]*Family{}, byBlock: map[uint16]*Family{}}
	for _, f := range families {
		if f == nil {
			continue
		}
		if _, dup := r.byID[f.ID]; dup {
			return nil, fmt.Errorf("rail family %s declared twice", f.ID)
		}
		r.byID[f.ID] = f
		for b := range f.masks {
			if other, ok := r.byBlock[b]; ok {
				return nil, fmt.Errorf("block %d belongs to rail families %s and %s", b, other.ID, f.ID)
			}
			r.byBlock[b] = f
		}
	}
	return r, nil
}

func (r *Registry) ByID(id string) (*Family, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.byID[id]
	return f, ok
}

func (r *Registry) OfBlock(b uint16) (*Family, bool) {
	if r == nil {
		return nil, false
	}
	f, ok := r.byBlock[b]
	return f, ok
}

// IDs lists family ids, ascending.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	out := make([]string, 0, len(r.byID))
	for id := range r.byID {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

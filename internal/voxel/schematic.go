package voxel

import (
	"github.com/andrewsmike/redhdl/internal/geom"
)

// Schematic is a sparse Pos -> Block map. It never stores air explicitly;
// callers query absence via Get's ok return instead.
type Schematic map[geom.Pos]Block

// New builds a Schematic from the given positions, skipping any air block.
func New(blocks map[geom.Pos]Block) Schematic {
	s := make(Schematic, len(blocks))
	for p, b := range blocks {
		if b.IsAir() {
			continue
		}
		s[p] = b
	}
	return s
}

func (s Schematic) Get(p geom.Pos) (Block, bool) {
	b, ok := s[p]
	return b, ok
}

// BBox returns the schematic's bounding box region. An empty schematic has
// an empty (Min > Max) box.
func (s Schematic) BBox() geom.Box {
	if len(s) == 0 {
		return geom.Box{Min: geom.Pos{X: 1, Y: 1, Z: 1}, Max: geom.Pos{}}
	}
	first := true
	var min, max geom.Pos
	for p := range s {
		if first {
			min, max = p, p
			first = false
			continue
		}
		min = geom.ElemMin(min, p)
		max = geom.ElemMax(max, p)
	}
	return geom.Box{Min: min, Max: max}
}

// Region returns the schematic's occupied positions as a point-set region.
func (s Schematic) Region() geom.Region {
	points := make([]geom.Pos, 0, len(s))
	for p := range s {
		points = append(points, p)
	}
	return geom.NewPointSet(points...)
}

// Translate shifts every block by delta.
func (s Schematic) Translate(delta geom.Pos) Schematic {
	out := make(Schematic, len(s))
	for p, b := range s {
		out[p.Add(delta)] = b
	}
	return out
}

// RotateY rotates every (pos, block) pair by quarterTurns clockwise quarter
// turns about +Y, pivoting at origin, including rotating directional block
// attributes (§4.2).
func (s Schematic) RotateY(origin geom.Pos, quarterTurns int) Schematic {
	out := make(Schematic, len(s))
	for p, b := range s {
		newPos := origin.Add(p.Sub(origin).YRotated(quarterTurns))
		out[newPos] = rotateAttrs(b, quarterTurns)
	}
	return out
}

// Overlay combines s and other, reporting ok=false if any position is
// present in both (§4.2 disjoint overlay). The voxel map never produces
// domain errors (§7); a caller that needs one constructs it itself.
func Overlay(s, other Schematic) (Schematic, bool) {
	out := make(Schematic, len(s)+len(other))
	for p, b := range s {
		out[p] = b
	}
	for p, b := range other {
		if _, dup := out[p]; dup {
			return nil, false
		}
		out[p] = b
	}
	return out, true
}

// OverlayAll folds Overlay across a sequence of schematics, short-circuiting
// on the first overlap.
func OverlayAll(schematics ...Schematic) (Schematic, bool) {
	out := Schematic{}
	for _, s := range schematics {
		merged, ok := Overlay(out, s)
		if !ok {
			return nil, false
		}
		out = merged
	}
	return out, true
}

// ForceOverlay combines s and other, with other's blocks winning on
// conflict. Nothing in this module calls it: the library codec builds each
// schematic directly from its one-block-per-position list.
func ForceOverlay(s, other Schematic) Schematic {
	out := make(Schematic, len(s)+len(other))
	for p, b := range s {
		out[p] = b
	}
	for p, b := range other {
		out[p] = b
	}
	return out
}

// Mask returns the subset of s whose positions are members of r.
func (s Schematic) Mask(r geom.Region) Schematic {
	out := make(Schematic, len(s))
	for p, b := range s {
		if r.Contains(p) {
			out[p] = b
		}
	}
	return out
}

// Without returns the subset of s whose positions are NOT members of r.
func (s Schematic) Without(r geom.Region) Schematic {
	out := make(Schematic, len(s))
	for p, b := range s {
		if !r.Contains(p) {
			out[p] = b
		}
	}
	return out
}

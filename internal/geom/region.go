package geom

// Box is an axis-aligned bounding box, inclusive on both corners.
type Box struct {
	Min, Max Pos
}

func (b Box) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y || b.Min.Z > b.Max.Z
}

func (b Box) Contains(p Pos) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

func (b Box) Intersect(other Box) Box {
	return Box{
		Min: ElemMax(b.Min, other.Min),
		Max: ElemMin(b.Max, other.Max),
	}
}

// Region is a set of positions, one of three variants (PointSet, Box,
// Compound).
type Region interface {
	// BBox returns the smallest axis-aligned box containing the region.
	// The bbox of an empty region has Min > Max.
	BBox() Box
	// Contains reports whether p is a member of the region.
	Contains(p Pos) bool
	// Translate returns the region shifted by delta.
	Translate(delta Pos) Region
	// RotateY returns the region rotated quarterTurns clockwise quarter
	// turns about +Y, pivoting around origin.
	RotateY(origin Pos, quarterTurns int) Region
	// Iter calls yield once per member position, in scanline (x, then y,
	// then z) order for Box regions, stopping early if yield returns
	// false.
	Iter(yield func(Pos) bool)
	// IsEmpty reports whether the region has no members.
	IsEmpty() bool
}

// Intersects reports whether a and b share at least one position. Compound
// regions short-circuit on bounding-box disjointness first, per §4.1.
func Intersects(a, b Region) bool {
	ba, bb := a.BBox(), b.BBox()
	if ba.IsEmpty() || bb.IsEmpty() {
		return false
	}
	if !boxesOverlap(ba, bb) {
		return false
	}

	// Prefer the cheaper point-membership direction: iterate the smaller
	// region's points against the larger region's Contains.
	small, large := a, b
	if boxVolume(bb) < boxVolume(ba) {
		small, large = b, a
	}

	found := false
	small.Iter(func(p Pos) bool {
		if large.Contains(p) {
			found = true
			return false
		}
		return true
	})
	return found
}

func boxesOverlap(a, b Box) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

func boxVolume(b Box) int {
	if b.IsEmpty() {
		return 0
	}
	return (b.Max.X - b.Min.X + 1) * (b.Max.Y - b.Min.Y + 1) * (b.Max.Z - b.Min.Z + 1)
}

// PointSet is an explicit finite set of positions.
type PointSet map[Pos]struct{}

func NewPointSet(points ...Pos) PointSet {
	s := make(PointSet, len(points))
	for _, p := range points {
		s[p] = struct{}{}
	}
	return s
}

func (s PointSet) BBox() Box {
	if len(s) == 0 {
		return Box{Min: Pos{1, 1, 1}, Max: Pos{0, 0, 0}}
	}
	first := true
	var min, max Pos
	for p := range s {
		if first {
			min, max = p, p
			first = false
			continue
		}
		min = ElemMin(min, p)
		max = ElemMax(max, p)
	}
	return Box{Min: min, Max: max}
}

func (s PointSet) Contains(p Pos) bool {
	_, ok := s[p]
	return ok
}

func (s PointSet) Translate(delta Pos) Region {
	out := make(PointSet, len(s))
	for p := range s {
		out[p.Add(delta)] = struct{}{}
	}
	return out
}

func (s PointSet) RotateY(origin Pos, quarterTurns int) Region {
	out := make(PointSet, len(s))
	for p := range s {
		out[origin.Add(p.Sub(origin).YRotated(quarterTurns))] = struct{}{}
	}
	return out
}

func (s PointSet) Iter(yield func(Pos) bool) {
	for p := range s {
		if !yield(p) {
			return
		}
	}
}

func (s PointSet) IsEmpty() bool {
	return len(s) == 0
}

// AsRegion returns b as a Region covering every position inside the box.
func (b Box) AsRegion() Region {
	return boxRegion(b)
}

type boxRegion Box

func (b boxRegion) BBox() Box {
	return Box(b)
}

func (b boxRegion) Contains(p Pos) bool {
	return Box(b).Contains(p)
}

func (b boxRegion) Translate(delta Pos) Region {
	return boxRegion{Min: b.Min.Add(delta), Max: b.Max.Add(delta)}
}

func (b boxRegion) RotateY(origin Pos, quarterTurns int) Region {
	a := origin.Add(b.Min.Sub(origin).YRotated(quarterTurns))
	c := origin.Add(b.Max.Sub(origin).YRotated(quarterTurns))
	return boxRegion{Min: ElemMin(a, c), Max: ElemMax(a, c)}
}

func (b boxRegion) Iter(yield func(Pos) bool) {
	if Box(b).IsEmpty() {
		return
	}
	for x := b.Min.X; x <= b.Max.X; x++ {
		for y := b.Min.Y; y <= b.Max.Y; y++ {
			for z := b.Min.Z; z <= b.Max.Z; z++ {
				if !yield(Pos{x, y, z}) {
					return
				}
			}
		}
	}
}

func (b boxRegion) IsEmpty() bool {
	return Box(b).IsEmpty()
}

// NewBox constructs a box region from inclusive corners, normalizing
// min/max ordering per axis.
func NewBox(a, b Pos) Region {
	return boxRegion{Min: ElemMin(a, b), Max: ElemMax(a, b)}
}

// Compound is the union of zero or more subregions. Not necessarily
// minimal: subregions may overlap.
type Compound struct {
	Subregions []Region
}

func NewCompound(regions ...Region) Compound {
	return Compound{Subregions: regions}
}

func (c Compound) BBox() Box {
	if len(c.Subregions) == 0 {
		return Box{Min: Pos{1, 1, 1}, Max: Pos{0, 0, 0}}
	}
	first := true
	var min, max Pos
	for _, sub := range c.Subregions {
		bb := sub.BBox()
		if bb.IsEmpty() {
			continue
		}
		if first {
			min, max = bb.Min, bb.Max
			first = false
			continue
		}
		min = ElemMin(min, bb.Min)
		max = ElemMax(max, bb.Max)
	}
	if first {
		return Box{Min: Pos{1, 1, 1}, Max: Pos{0, 0, 0}}
	}
	return Box{Min: min, Max: max}
}

func (c Compound) Contains(p Pos) bool {
	for _, sub := range c.Subregions {
		if sub.Contains(p) {
			return true
		}
	}
	return false
}

func (c Compound) Translate(delta Pos) Region {
	out := make([]Region, len(c.Subregions))
	for i, sub := range c.Subregions {
		out[i] = sub.Translate(delta)
	}
	return Compound{Subregions: out}
}

func (c Compound) RotateY(origin Pos, quarterTurns int) Region {
	out := make([]Region, len(c.Subregions))
	for i, sub := range c.Subregions {
		out[i] = sub.RotateY(origin, quarterTurns)
	}
	return Compound{Subregions: out}
}

func (c Compound) Iter(yield func(Pos) bool) {
	seen := make(PointSet)
	for _, sub := range c.Subregions {
		stop := false
		sub.Iter(func(p Pos) bool {
			if _, dup := seen[p]; dup {
				return true
			}
			seen[p] = struct{}{}
			if !yield(p) {
				stop = true
				return false
			}
			return true
		})
		if stop {
			return
		}
	}
}

func (c Compound) IsEmpty() bool {
	for _, sub := range c.Subregions {
		if !sub.IsEmpty() {
			return false
		}
	}
	return true
}

// Points collects every member of r into a slice, in Iter order.
func Points(r Region) []Pos {
	var out []Pos
	r.Iter(func(p Pos) bool {
		out = append(out, p)
		return true
	})
	return out
}

// AnyOverlap reports whether any two regions in the slice intersect.
func AnyOverlap(regions []Region) bool {
	for i, a := range regions {
		for _, b := range regions[i+1:] {
			if Intersects(a, b) {
				return true
			}
		}
	}
	return false
}

// Padded returns r expanded by n blocks along X and Z (not Y): used to keep
// instances/wires from crowding each other horizontally while leaving
// vertical clearance unaffected.
func Padded(r Region, n int) Region {
	switch v := r.(type) {
	case boxRegion:
		return boxRegion{
			Min: v.Min.Sub(Pos{n, 0, n}),
			Max: v.Max.Add(Pos{n, 0, n}),
		}
	case Compound:
		out := make([]Region, len(v.Subregions))
		for i, sub := range v.Subregions {
			out[i] = Padded(sub, n)
		}
		return Compound{Subregions: out}
	default:
		var points []Pos
		r.Iter(func(p Pos) bool {
			for dx := -n; dx <= n; dx++ {
				for dz := -n; dz <= n; dz++ {
					points = append(points, p.Add(Pos{dx, 0, dz}))
				}
			}
			return true
		})
		return NewPointSet(points...)
	}
}

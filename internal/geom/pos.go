// Package geom implements the geometry kernel: positions, directions, the
// axis-aligned rotation group, and the region algebra used to describe
// instance footprints and wire paths.
package geom

import "fmt"

// Pos is an integer lattice point. It is cheap to copy and usable as a map
// key throughout the search and voxel layers.
type Pos struct {
	X, Y, Z int
}

func (p Pos) Add(d Pos) Pos {
	return Pos{p.X + d.X, p.Y + d.Y, p.Z + d.Z}
}

func (p Pos) Sub(d Pos) Pos {
	return Pos{p.X - d.X, p.Y - d.Y, p.Z - d.Z}
}

func (p Pos) Neg() Pos {
	return Pos{-p.X, -p.Y, -p.Z}
}

func (p Pos) Abs() Pos {
	return Pos{absInt(p.X), absInt(p.Y), absInt(p.Z)}
}

// L1 returns the Manhattan norm of p.
func (p Pos) L1() int {
	a := p.Abs()
	return a.X + a.Y + a.Z
}

func (p Pos) String() string {
	return fmt.Sprintf("Pos(%d, %d, %d)", p.X, p.Y, p.Z)
}

func ElemMin(points ...Pos) Pos {
	m := points[0]
	for _, p := range points[1:] {
		m = Pos{min(m.X, p.X), min(m.Y, p.Y), min(m.Z, p.Z)}
	}
	return m
}

func ElemMax(points ...Pos) Pos {
	m := points[0]
	for _, p := range points[1:] {
		m = Pos{max(m.X, p.X), max(m.Y, p.Y), max(m.Z, p.Z)}
	}
	return m
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package geom

import (
	"fmt"
	"sort"
	"strings"
)

// Axis is one of the three coordinate axes, used to pick an orthographic
// projection direction.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// DisplayOrthographic renders a compact ASCII orthographic projection of a
// set of regions along axis, one character per region (overlaps shown as
// '*'). Used by `redhdl display --no-tui` for terminals that can't render
// the interactive bubbletea view.
func DisplayOrthographic(regions []Region, axis Axis) string {
	if len(regions) == 0 || len(regions) > 9 {
		return ""
	}

	type planePos struct{ a, b int }
	regionPoints := make([]map[planePos]struct{}, len(regions))
	allPoints := map[planePos]struct{}{}

	project := func(p Pos) planePos {
		switch axis {
		case AxisX:
			return planePos{p.Z, p.Y}
		case AxisZ:
			return planePos{p.X, p.Y}
		default:
			return planePos{p.X, p.Z}
		}
	}

	for i, r := range regions {
		pts := map[planePos]struct{}{}
		r.Iter(func(p Pos) bool {
			pp := project(p)
			pts[pp] = struct{}{}
			allPoints[pp] = struct{}{}
			return true
		})
		regionPoints[i] = pts
	}

	if len(allPoints) == 0 {
		return ""
	}

	symbol := map[planePos]byte{}
	for i, pts := range regionPoints {
		for pp := range pts {
			if _, dup := symbol[pp]; dup {
				symbol[pp] = '*'
			} else {
				symbol[pp] = byte('1' + i)
			}
		}
	}

	var as, bs []int
	seenA, seenB := map[int]bool{}, map[int]bool{}
	for pp := range allPoints {
		if !seenA[pp.a] {
			seenA[pp.a] = true
			as = append(as, pp.a)
		}
		if !seenB[pp.b] {
			seenB[pp.b] = true
			bs = append(bs, pp.b)
		}
	}
	sort.Ints(as)
	sort.Ints(bs)

	var out strings.Builder
	for bi := len(bs) - 1; bi >= 0; bi-- {
		b := bs[bi]
		for _, a := range as {
			if ch, ok := symbol[planePos{a, b}]; ok {
				out.WriteByte(ch)
			} else {
				out.WriteByte(' ')
			}
		}
		out.WriteByte('\n')
	}
	fmt.Fprintf(&out, "axis=%d span a=[%d,%d] b=[%d,%d]\n", axis, as[0], as[len(as)-1], bs[0], bs[len(bs)-1])
	return out.String()
}

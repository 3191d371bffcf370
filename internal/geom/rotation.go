package geom

import "sort"

// matrix is a 3x3 signed-permutation matrix: exactly one nonzero entry of
// +-1 per row and column, with determinant +1. The 24 such matrices are the
// axis-aligned rotation group.
type matrix [3][3]int

func (m matrix) apply(p Pos) Pos {
	v := [3]int{p.X, p.Y, p.Z}
	var out [3]int
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			out[row] += m[row][col] * v[col]
		}
	}
	return Pos{out[0], out[1], out[2]}
}

func (a matrix) mul(b matrix) matrix {
	var out matrix
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			sum := 0
			for k := 0; k < 3; k++ {
				sum += a[row][k] * b[k][col]
			}
			out[row][col] = sum
		}
	}
	return out
}

func identityMatrix() matrix {
	return matrix{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func rotXMatrix() matrix {
	// 90 degrees about +X: Y -> Z, Z -> -Y.
	return matrix{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}}
}

func rotYMatrix() matrix {
	// 90 degrees about +Y: Z -> X, X -> -Z.
	return matrix{{0, 0, 1}, {0, 1, 0}, {-1, 0, 0}}
}

func rotZMatrix() matrix {
	// 90 degrees about +Z: X -> Y, Y -> -X.
	return matrix{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}}
}

// Rotation is an element of the 24-member axis-aligned rotation group,
// stored as a stable index into a table computed once at package init.
type Rotation int

var (
	rotationTable []matrix       // index -> matrix
	rotationIndex map[matrix]int // matrix -> index
	composeTable  [][]Rotation   // [a][b] -> a then b
	yQuarterTable [4]Rotation    // pure Y rotations by quarter-turn count
)

func init() {
	seen := map[matrix]bool{}
	var queue []matrix
	id := identityMatrix()
	seen[id] = true
	queue = append(queue, id)

	gens := []matrix{rotXMatrix(), rotYMatrix(), rotZMatrix()}
	for i := 0; i < len(queue); i++ {
		m := queue[i]
		for _, g := range gens {
			next := m.mul(g)
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	rotationTable = make([]matrix, len(queue))
	copy(rotationTable, queue)
	sort.Slice(rotationTable, func(i, j int) bool {
		return matrixLess(rotationTable[i], rotationTable[j])
	})

	rotationIndex = make(map[matrix]int, len(rotationTable))
	for i, m := range rotationTable {
		rotationIndex[m] = i
	}

	composeTable = make([][]Rotation, len(rotationTable))
	for a := range rotationTable {
		composeTable[a] = make([]Rotation, len(rotationTable))
		for b := range rotationTable {
			composeTable[a][b] = Rotation(rotationIndex[rotationTable[b].mul(rotationTable[a])])
		}
	}

	y := identityMatrix()
	yRot := rotYMatrix()
	for q := 0; q < 4; q++ {
		yQuarterTable[q] = Rotation(rotationIndex[y])
		y = y.mul(yRot)
	}
}

func matrixLess(a, b matrix) bool {
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			if a[r][c] != b[r][c] {
				return a[r][c] < b[r][c]
			}
		}
	}
	return false
}

// Identity is the no-op rotation.
func Identity() Rotation {
	return Rotation(rotationIndex[identityMatrix()])
}

// YQuarterTurns returns the rotation that is quarterTurns clockwise quarter
// turns about +Y. This is the subset of the 24-element group that placement
// and routing actually use (§4.6).
func YQuarterTurns(quarterTurns int) Rotation {
	q := ((quarterTurns % 4) + 4) % 4
	return yQuarterTable[q]
}

// Compose returns the rotation equivalent to applying r then other.
func (r Rotation) Compose(other Rotation) Rotation {
	return composeTable[r][other]
}

// Inverse returns the rotation undoing r.
func (r Rotation) Inverse() Rotation {
	for i := range rotationTable {
		if composeTable[r][i] == Identity() {
			return Rotation(i)
		}
	}
	return Identity()
}

// Apply rotates p about the origin.
func (r Rotation) Apply(p Pos) Pos {
	return rotationTable[r].apply(p)
}

// ApplyDirection maps a direction to the direction it rotates to.
func (r Rotation) ApplyDirection(d Direction) Direction {
	u := r.Apply(d.Unit())
	for _, candidate := range Directions {
		if candidate.Unit() == u {
			return candidate
		}
	}
	return d
}

// YRotated rotates p by quarterTurns clockwise quarter turns about +Y.
func (p Pos) YRotated(quarterTurns int) Pos {
	return YQuarterTurns(quarterTurns).Apply(p)
}

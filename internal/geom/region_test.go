package geom

import "testing"

func TestBoxIntersects(t *testing.T) {
	example := NewBox(Pos{0, 0, 0}, Pos{2, 3, 4})
	overlapping := NewBox(Pos{2, 3, 4}, Pos{3, 4, 5})
	if !Intersects(example, overlapping) {
		t.Fatalf("expected overlap")
	}

	justBeyond := NewBox(Pos{3, 4, 5}, Pos{8, 8, 8})
	if Intersects(example, justBeyond) {
		t.Fatalf("expected no overlap")
	}
	if !Intersects(justBeyond, overlapping) {
		t.Fatalf("expected overlap")
	}

	if Intersects(example, NewBox(Pos{-2, -2, -2}, Pos{-1, -1, -1})) {
		t.Fatalf("expected no overlap")
	}
	if !Intersects(example, NewBox(Pos{-1, -1, -1}, Pos{8, 8, 8})) {
		t.Fatalf("expected overlap")
	}
}

func TestCompoundIntersects(t *testing.T) {
	big := NewCompound(
		NewBox(Pos{0, 0, 0}, Pos{2, 3, 4}),
		NewBox(Pos{-1, -1, -1}, Pos{8, 8, 8}),
	)
	justBeyond := NewCompound(
		NewBox(Pos{3, 4, 5}, Pos{8, 8, 8}),
		NewBox(Pos{-2, -2, -2}, Pos{-1, -1, -1}),
	)
	if !Intersects(big, justBeyond) {
		t.Fatalf("expected compound overlap via big bounding box")
	}
}

// Geometry round-trip property (§8): for all regions, rotations, and
// translations, intersection is preserved under identical rigid transforms.
func TestGeometryRoundTripProperty(t *testing.T) {
	a := NewBox(Pos{0, 0, 0}, Pos{2, 1, 3})
	b := NewBox(Pos{2, 0, 3}, Pos{4, 2, 5})
	origin := Pos{5, -2, 1}
	delta := Pos{3, -1, 7}

	want := Intersects(a, b)

	for q := 0; q < 4; q++ {
		ra := a.RotateY(origin, q).Translate(delta)
		rb := b.RotateY(origin, q).Translate(delta)
		got := Intersects(ra, rb)
		if got != want {
			t.Fatalf("quarterTurns=%d: intersects mismatch after rigid transform: got %v want %v", q, got, want)
		}
	}
}

func TestAnyOverlap(t *testing.T) {
	regions := []Region{
		NewCompound(
			NewBox(Pos{10, 0, 0}, Pos{15, 5, 5}),
			NewBox(Pos{10, 0, 0}, Pos{10, 0, 0}),
			NewBox(Pos{0, 0, 10}, Pos{5, 5, 15}),
		),
		NewBox(Pos{0, 10, 0}, Pos{5, 15, 5}),
	}
	if AnyOverlap(regions) {
		t.Fatalf("expected no overlap")
	}

	overlapping := []Region{
		NewCompound(
			NewBox(Pos{10, 0, 0}, Pos{15, 5, 5}),
			NewBox(Pos{0, 0, 10}, Pos{5, 5, 15}),
		),
		NewBox(Pos{10, 0, 0}, Pos{15, 5, 5}),
		NewBox(Pos{5, 0, 0}, Pos{10, 5, 5}),
	}
	if !AnyOverlap(overlapping) {
		t.Fatalf("expected overlap")
	}
}

func TestPointSetIntersectsBox(t *testing.T) {
	points := NewPointSet(Pos{0, 0, 0}, Pos{5, 5, 5})
	box := NewBox(Pos{0, 0, 0}, Pos{1, 1, 1})
	if !Intersects(points, box) {
		t.Fatalf("expected point inside box to intersect")
	}

	far := NewBox(Pos{10, 10, 10}, Pos{11, 11, 11})
	if Intersects(points, far) {
		t.Fatalf("expected no intersection")
	}
}

func TestBBoxOfEmptyCompoundIsEmpty(t *testing.T) {
	c := NewCompound()
	if !c.BBox().IsEmpty() {
		t.Fatalf("expected empty bbox")
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty region")
	}
}

func TestIterScanlineOrderForBox(t *testing.T) {
	b := NewBox(Pos{0, 0, 0}, Pos{1, 1, 1})
	var got []Pos
	b.Iter(func(p Pos) bool {
		got = append(got, p)
		return true
	})
	want := []Pos{
		{0, 0, 0}, {0, 0, 1}, {0, 1, 0}, {0, 1, 1},
		{1, 0, 0}, {1, 0, 1}, {1, 1, 0}, {1, 1, 1},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("point %d: got %v want %v", i, got[i], want[i])
		}
	}
}

func TestIterEarlyAbandon(t *testing.T) {
	b := NewBox(Pos{0, 0, 0}, Pos{10, 10, 10})
	count := 0
	b.Iter(func(p Pos) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Fatalf("expected early abandonment after 3 points, got %d", count)
	}
}

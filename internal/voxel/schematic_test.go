package voxel

import (
	"testing"

	"github.com/andrewsmike/redhdl/internal/geom"
)

func TestOverlayDisjointSucceeds(t *testing.T) {
	a := New(map[geom.Pos]Block{{X: 0, Y: 0, Z: 0}: {Kind: "minecraft:stone"}})
	b := New(map[geom.Pos]Block{{X: 1, Y: 0, Z: 0}: {Kind: "minecraft:glass"}})

	merged, ok := Overlay(a, b)
	if !ok {
		t.Fatalf("expected overlay to succeed")
	}
	if len(merged) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(merged))
	}
}

func TestOverlayOverlappingFails(t *testing.T) {
	pos := geom.Pos{X: 0, Y: 0, Z: 0}
	a := New(map[geom.Pos]Block{pos: {Kind: "minecraft:stone"}})
	b := New(map[geom.Pos]Block{pos: {Kind: "minecraft:glass"}})

	if _, ok := Overlay(a, b); ok {
		t.Fatalf("expected overlap to be reported")
	}
}

// Schematic overlay associativity (§8): disjoint overlay of three
// pairwise-disjoint schematics is associative and order-independent.
func TestOverlayAssociative(t *testing.T) {
	a := New(map[geom.Pos]Block{{X: 0, Y: 0, Z: 0}: {Kind: "a"}})
	b := New(map[geom.Pos]Block{{X: 1, Y: 0, Z: 0}: {Kind: "b"}})
	c := New(map[geom.Pos]Block{{X: 2, Y: 0, Z: 0}: {Kind: "c"}})

	left, ok := OverlayAll(a, b, c)
	if !ok {
		t.Fatalf("expected overlay to succeed")
	}

	ab, ok := Overlay(a, b)
	if !ok {
		t.Fatalf("expected overlay to succeed")
	}
	right, ok := Overlay(ab, c)
	if !ok {
		t.Fatalf("expected overlay to succeed")
	}

	if len(left) != len(right) {
		t.Fatalf("associativity mismatch: %d vs %d", len(left), len(right))
	}
	for p, blk := range left {
		other, ok := right[p]
		if !ok || !blk.Equal(other) {
			t.Fatalf("associativity mismatch at %v", p)
		}
	}
}

func TestRotateYRotatesFacingAttr(t *testing.T) {
	s := New(map[geom.Pos]Block{
		{X: 1, Y: 0, Z: 0}: {Kind: "minecraft:repeater", Facing: geom.East, Attrs: map[string]string{"facing": "east"}},
	})

	rotated := s.RotateY(geom.Pos{}, 1)
	for p, b := range rotated {
		if p != (geom.Pos{X: 0, Y: 0, Z: -1}) {
			t.Fatalf("unexpected rotated position %v", p)
		}
		if b.Attrs["facing"] != geom.North.String() {
			t.Fatalf("expected facing rotated to north, got %s", b.Attrs["facing"])
		}
	}
}

func TestForceOverlayOtherWins(t *testing.T) {
	pos := geom.Pos{X: 0, Y: 0, Z: 0}
	a := New(map[geom.Pos]Block{pos: {Kind: "minecraft:stone"}})
	b := New(map[geom.Pos]Block{pos: {Kind: "minecraft:glass"}})

	merged := ForceOverlay(a, b)
	if merged[pos].Kind != "minecraft:glass" {
		t.Fatalf("expected other to win, got %s", merged[pos].Kind)
	}
}

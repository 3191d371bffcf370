// Package voxel implements the sparse voxel map ("Schematic"): a
// Pos -> Block mapping with disjoint overlay and rigid transform.
package voxel

import (
	"sort"
	"strings"

	"github.com/andrewsmike/redhdl/internal/geom"
)

// Block is an opaque block identifier plus a facing direction and a
// key/value attribute map (the Minecraft block state). Equality is
// structural.
type Block struct {
	Kind   string
	Facing geom.Direction
	Attrs  map[string]string
}

// IsAir reports whether b is the empty/air block. Schematics never store
// air explicitly; New drops any air block it is given.
func (b Block) IsAir() bool {
	return b.Kind == "" || b.Kind == "minecraft:air"
}

// Equal reports structural equality, including attributes.
func (b Block) Equal(other Block) bool {
	if b.Kind != other.Kind || b.Facing != other.Facing {
		return false
	}
	if len(b.Attrs) != len(other.Attrs) {
		return false
	}
	for k, v := range b.Attrs {
		if other.Attrs[k] != v {
			return false
		}
	}
	return true
}

// String renders the block in block-state text form:
// "kind[attr=val,...]".
func (b Block) String() string {
	if len(b.Attrs) == 0 {
		return b.Kind
	}
	keys := make([]string, 0, len(b.Attrs))
	for k := range b.Attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + b.Attrs[k]
	}
	return b.Kind + "[" + strings.Join(parts, ",") + "]"
}

// AirBlock is the canonical empty block, never stored in a Schematic.
var AirBlock = Block{Kind: "minecraft:air"}

// rotatableAttr names the attribute key that carries a block's facing for
// the handful of block kinds whose orientation is expressed via the
// "facing" attribute rather than (or in addition to) Block.Facing.
const rotatableAttr = "facing"

// directionalKinds is the table-driven set of block kinds whose "facing"
// attribute rotates along with the block when the block is placed under
// a rotated instance.
var directionalKinds = map[string]bool{
	"minecraft:repeater":       true,
	"minecraft:comparator":     true,
	"minecraft:observer":       true,
	"minecraft:piston":         true,
	"minecraft:sticky_piston":  true,
	"minecraft:dispenser":      true,
	"minecraft:oak_stairs":     true,
	"minecraft:oak_wall_sign":  true,
	"minecraft:redstone_torch": false,
}

// rotateAttrs returns b's attributes (and its Facing field) rotated by
// quarterTurns clockwise quarter turns about +Y.
func rotateAttrs(b Block, quarterTurns int) Block {
	out := Block{Kind: b.Kind, Facing: b.Facing.XZRotatedY(quarterTurns)}
	if len(b.Attrs) == 0 {
		return out
	}

	out.Attrs = make(map[string]string, len(b.Attrs))
	for k, v := range b.Attrs {
		out.Attrs[k] = v
	}

	if directionalKinds[b.Kind] {
		if facing, ok := out.Attrs[rotatableAttr]; ok {
			if d, ok := parseDirectionName(facing); ok {
				out.Attrs[rotatableAttr] = d.XZRotatedY(quarterTurns).String()
			}
		}
	}

	return out
}

func parseDirectionName(name string) (geom.Direction, bool) {
	for _, d := range geom.Directions {
		if d.String() == name {
			return d, true
		}
	}
	return 0, false
}

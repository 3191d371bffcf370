// Package placement implements instance placement (§4.6): Pose geometry,
// placement validity, pin-position projection, and the local-search
// engine (initial seeding, mutation, energy, simulated annealing) that
// finds a compact, collision-free layout.
package placement

import (
	"sort"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/library"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

// Pose is one instance's placement: a world-frame anchor plus a quarter-turn
// rotation about +Y. Only the four horizontal rotations are supported,
// mirroring the original design's xz_directions restriction (§4.6).
type Pose struct {
	Anchor       geom.Pos
	QuarterTurns int
}

// Placement maps every netlist instance to its Pose.
type Placement map[netlist.InstanceID]Pose

// With returns a copy of p with id set to pose.
func (p Placement) With(id netlist.InstanceID, pose Pose) Placement {
	out := make(Placement, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[id] = pose
	return out
}

func tile(nl *netlist.Netlist, lib *library.Library, id netlist.InstanceID) (*library.Tile, error) {
	inst, ok := nl.Instances[id]
	if !ok {
		return nil, rherrors.Internal("placement: unknown instance %q", id)
	}
	t, ok := lib.Get(inst.LibraryKey)
	if !ok {
		return nil, rherrors.Internal("placement: unknown library tile %q", inst.LibraryKey)
	}
	return t, nil
}

// InstanceRegion returns id's occupied region under placement, in world
// coordinates: its tile's local region rotated about the local origin then
// shifted to the pose's anchor.
func InstanceRegion(nl *netlist.Netlist, lib *library.Library, placement Placement, id netlist.InstanceID) (geom.Region, error) {
	t, err := tile(nl, lib, id)
	if err != nil {
		return nil, err
	}
	pose, ok := placement[id]
	if !ok {
		return nil, rherrors.Internal("placement: instance %q not placed", id)
	}
	return t.Region.RotateY(geom.Pos{}, pose.QuarterTurns).Translate(pose.Anchor), nil
}

// Region returns every instance's occupied region as one compound, in
// sorted instance-ID order (deterministic, since Placement iteration order
// isn't).
func Region(nl *netlist.Netlist, lib *library.Library, placement Placement) (geom.Region, error) {
	ids := placedIDs(placement)
	regions := make([]geom.Region, 0, len(ids))
	for _, id := range ids {
		r, err := InstanceRegion(nl, lib, placement, id)
		if err != nil {
			return nil, err
		}
		regions = append(regions, r)
	}
	return geom.NewCompound(regions...), nil
}

// Valid reports whether placement's instances have pairwise-disjoint
// occupied regions once each is padded by xzPadding blocks horizontally
// (§8's placement-validity property). xzPadding keeps room for a bus to
// run between adjacent instances without touching either.
func Valid(nl *netlist.Netlist, lib *library.Library, placement Placement, xzPadding int) (bool, error) {
	ids := placedIDs(placement)
	padded := make([]geom.Region, 0, len(ids))
	for _, id := range ids {
		r, err := InstanceRegion(nl, lib, placement, id)
		if err != nil {
			return false, err
		}
		padded = append(padded, geom.Padded(r, xzPadding))
	}
	return !geom.AnyOverlap(padded), nil
}

// PinWorldPos projects ref's local pin position and facing through its
// instance's placement into world coordinates.
func PinWorldPos(nl *netlist.Netlist, placement Placement, ref netlist.PinRef) (geom.Pos, geom.Direction, error) {
	inst, ok := nl.Instances[ref.InstanceID]
	if !ok {
		return geom.Pos{}, 0, rherrors.Internal("placement: unknown instance %q", ref.InstanceID)
	}
	port, ok := inst.Ports[ref.PortName]
	if !ok {
		return geom.Pos{}, 0, rherrors.Internal("placement: instance %q has no port %q", ref.InstanceID, ref.PortName)
	}
	pin, ok := port.PinAt(ref.PinIndex)
	if !ok {
		return geom.Pos{}, 0, rherrors.Internal("placement: %s: pin index out of range", ref)
	}
	pose, ok := placement[ref.InstanceID]
	if !ok {
		return geom.Pos{}, 0, rherrors.Internal("placement: instance %q not placed", ref.InstanceID)
	}

	worldPos := pose.Anchor.Add(pin.Pos.YRotated(pose.QuarterTurns))
	worldFace := pin.Face.XZRotatedY(pose.QuarterTurns)
	return worldPos, worldFace, nil
}

func placedIDs(placement Placement) []netlist.InstanceID {
	ids := make([]netlist.InstanceID, 0, len(placement))
	for id := range placement {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func tileVolume(t *library.Tile) int {
	bb := t.Region.BBox()
	if bb.IsEmpty() {
		return 0
	}
	return (bb.Max.X - bb.Min.X + 1) * (bb.Max.Y - bb.Min.Y + 1) * (bb.Max.Z - bb.Min.Z + 1)
}

package library

import (
	"encoding/json"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
)

type metaPin struct {
	Pos  [3]int `json:"pos"`
	Face string `json:"face"`
	Role string `json:"role"`
}

type metaPort struct {
	Name      string    `json:"name"`
	Direction string    `json:"direction"`
	Pins      []metaPin `json:"pins"`
}

type tileMeta struct {
	Name  string     `json:"name"`
	Ports []metaPort `json:"ports"`
	// Occupied is parsed for schema completeness only; region derivation
	// is always schematic-bbox-based (see Tile.Region), matching the
	// original's rect_region().
	Occupied []json.RawMessage `json:"occupied"`
}

// loadTileMeta validates meta.json against the tile schema and parses it
// into the recognized fields of §6; unknown fields are ignored.
func loadTileMeta(path string, schema *jsonschema.Schema) (tileMeta, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return tileMeta{}, err
	}

	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return tileMeta{}, rherrors.NewBadTile(path, "<malformed json>")
	}
	if err := schema.Validate(generic); err != nil {
		return tileMeta{}, rherrors.NewBadTile(path, describeValidationFailure(err))
	}

	var meta tileMeta
	if err := json.Unmarshal(raw, &meta); err != nil {
		return tileMeta{}, rherrors.NewBadTile(path, "<malformed json>")
	}
	if meta.Name == "" {
		return tileMeta{}, rherrors.NewBadTile(path, "name")
	}
	return meta, nil
}

func describeValidationFailure(err error) string {
	if verr, ok := err.(*jsonschema.ValidationError); ok && len(verr.Causes) > 0 {
		return verr.Causes[0].Error()
	}
	return err.Error()
}

// portsFromMeta converts parsed metadata into netlist ports, keyed by
// name, in local (unplaced) coordinates.
func portsFromMeta(path string, meta tileMeta) (map[string]netlist.Port, error) {
	ports := make(map[string]netlist.Port, len(meta.Ports))
	for _, mp := range meta.Ports {
		direction, ok := portDirectionFromString(mp.Direction)
		if !ok {
			return nil, rherrors.NewBadTile(path, "ports[].direction")
		}

		seq := make(netlist.PinSequence, 0, len(mp.Pins))
		for _, pin := range mp.Pins {
			face, ok := geom.DirectionFromString(pin.Face)
			if !ok {
				return nil, rherrors.NewBadTile(path, "ports[].pins[].face")
			}
			role, ok := pinRoleFromString(pin.Role)
			if !ok {
				return nil, rherrors.NewBadTile(path, "ports[].pins[].role")
			}
			seq = append(seq, netlist.Pin{
				Pos:  geom.Pos{X: pin.Pos[0], Y: pin.Pos[1], Z: pin.Pos[2]},
				Face: face,
				Role: role,
			})
		}

		ports[mp.Name] = netlist.Port{Name: mp.Name, Direction: direction, Pins: []netlist.PinSequence{seq}}
	}
	return ports, nil
}

func portDirectionFromString(s string) (netlist.PortDirection, bool) {
	switch s {
	case "in":
		return netlist.PortIn, true
	case "out":
		return netlist.PortOut, true
	case "inout":
		return netlist.PortInout, true
	default:
		return 0, false
	}
}

func pinRoleFromString(s string) (netlist.PinRole, bool) {
	switch s {
	case "input":
		return netlist.RoleInput, true
	case "output":
		return netlist.RoleOutput, true
	case "bidir":
		return netlist.RoleBidir, true
	default:
		return 0, false
	}
}

package library

import (
	"encoding/json"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/rherrors"
	"github.com/andrewsmike/redhdl/internal/voxel"
)

// SchemDecoder decodes a tile.schem blob into a schematic. The core
// depends only on this interface (§1's SchematicCodec collaborator); the
// default implementation below is the one shipped with this engine.
type SchemDecoder interface {
	Decode(r io.Reader) (voxel.Schematic, error)
	Encode(w io.Writer, s voxel.Schematic) error
}

// blockRecord is the wire shape of one occupied voxel inside a gzip
// block-list stream.
type blockRecord struct {
	Pos    [3]int            `json:"pos"`
	Kind   string            `json:"kind"`
	Facing string            `json:"facing"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

type blockListDoc struct {
	Blocks []blockRecord `json:"blocks"`
}

// GzipBlockListCodec stores a schematic as a gzip-compressed JSON list of
// occupied blocks. It replaces the NBT/.schem binary format with a plain
// block list, since the core only needs positions, kinds, and rotatable
// attributes, not a Minecraft-loadable region file.
type GzipBlockListCodec struct{}

func (GzipBlockListCodec) Decode(r io.Reader) (voxel.Schematic, error) {
	gr, err := gzip.NewReader(r)
	if err != nil {
		return nil, rherrors.WrapInternal(err, "opening gzip block list")
	}
	defer gr.Close()

	var doc blockListDoc
	if err := json.NewDecoder(gr).Decode(&doc); err != nil {
		return nil, rherrors.WrapInternal(err, "decoding block list")
	}

	blocks := make(map[geom.Pos]voxel.Block, len(doc.Blocks))
	for _, rec := range doc.Blocks {
		face, ok := geom.DirectionFromString(rec.Facing)
		if !ok && rec.Facing != "" {
			return nil, rherrors.Internal("decoding block list: unknown facing %q", rec.Facing)
		}
		pos := geom.Pos{X: rec.Pos[0], Y: rec.Pos[1], Z: rec.Pos[2]}
		blocks[pos] = voxel.Block{Kind: rec.Kind, Facing: face, Attrs: rec.Attrs}
	}

	return voxel.New(blocks), nil
}

func (GzipBlockListCodec) Encode(w io.Writer, s voxel.Schematic) error {
	gw := gzip.NewWriter(w)

	doc := blockListDoc{Blocks: make([]blockRecord, 0, len(s))}
	for pos, block := range s {
		doc.Blocks = append(doc.Blocks, blockRecord{
			Pos:    [3]int{pos.X, pos.Y, pos.Z},
			Kind:   block.Kind,
			Facing: block.Facing.String(),
			Attrs:  block.Attrs,
		})
	}

	if err := json.NewEncoder(gw).Encode(doc); err != nil {
		_ = gw.Close()
		return rherrors.WrapInternal(err, "encoding block list")
	}
	return gw.Close()
}

// LoadSchem decodes the tile.schem file at path using dec.
func LoadSchem(path string, dec SchemDecoder) (voxel.Schematic, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return dec.Decode(f)
}

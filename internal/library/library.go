// Package library loads the instance library of §6: a filesystem
// directory of tile subfolders, each containing a tile.schem blob and a
// meta.json describing its ports. It realizes the Annotator and
// SchematicCodec external collaborators named in §1 as one concrete,
// swappable default implementation.
package library

import (
	"bytes"
	"crypto/sha256"
	_ "embed"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/andrewsmike/redhdl/internal/geom"
	"github.com/andrewsmike/redhdl/internal/netlist"
	"github.com/andrewsmike/redhdl/internal/rherrors"
	"github.com/andrewsmike/redhdl/internal/voxel"
)

//go:embed schemas/tile.schema.json
var tileSchemaJSON []byte

// Tile is one loaded library entry: a schematic fragment plus the ports
// the netlist layer can connect to it, all in the tile's local frame.
type Tile struct {
	Name     string
	Schem    voxel.Schematic
	Region   geom.Region
	Ports    map[string]netlist.Port
}

// Library is an immutable, name-indexed set of loaded tiles.
type Library struct {
	tiles map[string]*Tile
	cache *tileCache
}

// Get returns the tile registered under key, if any.
func (l *Library) Get(key string) (*Tile, bool) {
	t, ok := l.tiles[key]
	return t, ok
}

// Keys returns every registered tile key in lexicographic order.
func (l *Library) Keys() []string {
	keys := make([]string, 0, len(l.tiles))
	for k := range l.tiles {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Close releases the library's on-disk cache handle.
func (l *Library) Close() error {
	if l == nil {
		return nil
	}
	return l.cache.Close()
}

const tileSchemaResource = "tile.schema.json"

func compileTileSchema() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(tileSchemaResource, bytes.NewReader(tileSchemaJSON)); err != nil {
		return nil, err
	}
	return compiler.Compile(tileSchemaResource)
}

// Load walks dir's tile subfolders, validates each meta.json against the
// tile schema, decodes each tile.schem through a content-addressed
// on-disk cache, and returns the assembled Library. logger may be nil.
func Load(dir string, logger *log.Logger) (*Library, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	schema, err := compileTileSchema()
	if err != nil {
		return nil, rherrors.WrapInternal(err, "compiling tile schema")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	cache, err := openTileCache(defaultCachePath(dir))
	if err != nil {
		logger.Printf("tile cache unavailable, loading uncached: %v", err)
		cache = nil
	}

	lib := &Library{tiles: map[string]*Tile{}, cache: cache}
	codec := GzipBlockListCodec{}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		tileDir := filepath.Join(dir, entry.Name())

		tile, err := loadTile(tileDir, entry.Name(), schema, codec, cache)
		if err != nil {
			return nil, err
		}
		lib.tiles[entry.Name()] = tile
		logger.Printf("loaded tile %q (%d blocks)", entry.Name(), len(tile.Schem))
	}

	return lib, nil
}

func loadTile(tileDir, key string, schema *jsonschema.Schema, codec SchemDecoder, cache *tileCache) (*Tile, error) {
	metaPath := filepath.Join(tileDir, "meta.json")
	meta, err := loadTileMeta(metaPath, schema)
	if err != nil {
		return nil, err
	}

	ports, err := portsFromMeta(metaPath, meta)
	if err != nil {
		return nil, err
	}

	schemPath := filepath.Join(tileDir, "tile.schem")
	raw, err := os.ReadFile(schemPath)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(raw)

	schem, hit, err := cache.get(digest)
	if err != nil {
		return nil, rherrors.WrapInternal(err, "reading tile cache for %q", key)
	}
	if !hit {
		schem, err = codec.Decode(bytes.NewReader(raw))
		if err != nil {
			return nil, rherrors.WrapInternal(err, "decoding tile.schem for %q", key)
		}
		if err := cache.put(digest, schem); err != nil {
			return nil, rherrors.WrapInternal(err, "writing tile cache for %q", key)
		}
	}

	return &Tile{
		Name:  meta.Name,
		Schem: schem,
		// Region is always bbox-derived; meta.Occupied is not consulted
		// here (see loadTileMeta).
		Region: schem.BBox().AsRegion(),
		Ports:  ports,
	}, nil
}

package library

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"encoding/hex"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/andrewsmike/redhdl/internal/voxel"
)

// tileCache is a content-addressed cache of decoded tile.schem blocks,
// keyed by the SHA-256 digest of the tile's raw bytes. The cached blob is
// the already-decoded schematic, gob-encoded, not the raw gzip block
// list — a hit must skip the gzip+JSON decode entirely, not just skip the
// filesystem read. Library.Load consults it before running the
// (relatively expensive) gzip block-list decode, realizing §9's "library
// tiles are content-addressed by name" design note at the storage layer.
type tileCache struct {
	db *sql.DB
}

func openTileCache(path string) (*tileCache, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	schema := `CREATE TABLE IF NOT EXISTS tiles (
		digest TEXT PRIMARY KEY,
		blob   BLOB NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &tileCache{db: db}, nil
}

func (c *tileCache) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// get returns the decoded schematic cached for digest, if present. A hit
// is a plain gob decode of the cached blob — it never touches the
// original gzip block list or its decoder.
func (c *tileCache) get(digest [32]byte) (voxel.Schematic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	var blob []byte
	err := c.db.QueryRow(`SELECT blob FROM tiles WHERE digest = ?`, hex.EncodeToString(digest[:])).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var s voxel.Schematic
	if err := gob.NewDecoder(bytes.NewReader(blob)).Decode(&s); err != nil {
		return nil, false, err
	}
	return s, true, nil
}

// put gob-encodes the already-decoded schematic and stores it under
// digest, overwriting any prior entry (content-addressed, so a rewrite is
// always identical).
func (c *tileCache) put(digest [32]byte, schem voxel.Schematic) error {
	if c == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&schem); err != nil {
		return err
	}
	_, err := c.db.Exec(
		`INSERT INTO tiles (digest, blob) VALUES (?, ?) ON CONFLICT(digest) DO UPDATE SET blob = excluded.blob`,
		hex.EncodeToString(digest[:]), buf.Bytes(),
	)
	return err
}

// defaultCachePath returns the on-disk cache path for a library
// directory, stored alongside it so repeated runs against the same
// directory share a cache.
func defaultCachePath(dir string) string {
	return filepath.Join(dir, ".redhdl-tile-cache.sqlite")
}

package gpc

import (
	"database/sql"
	"fmt"

	"github.com/klauspost/compress/zstd"
	_ "github.com/mattn/go-sqlite3"
)

// AssetDB caches encoded GPC files keyed by the source image checksum and
// the options that affect the output.
type AssetDB struct {
	db  *sql.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// AssetKey identifies a single conversion.
type AssetKey struct {
	SHA1     string
	X, Y     int
	Quantize bool
}

// NewAssetDB opens or creates the cache at file.
func NewAssetDB(file string) (*AssetDB, error) {
	db, err := sql.Open("sqlite3", fmt.Sprintf("%s?_foreign_keys=on", file))
	if err != nil {
		return nil, err
	}
	// sqlite only allows a single writer
	db.SetMaxOpenConns(1)

	if _, err = db.Exec("CREATE TABLE IF NOT EXISTS asset (id INTEGER PRIMARY KEY NOT NULL, sha1 TEXT NOT NULL, x INTEGER NOT NULL, y INTEGER NOT NULL, quantize INTEGER NOT NULL, vertical INTEGER NOT NULL, gpc BLOB NOT NULL, UNIQUE(sha1, x, y, quantize))"); err != nil {
		db.Close()
		return nil, err
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		db.Close()
		return nil, err
	}

	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, err
	}

	return &AssetDB{
		db:  db,
		enc: enc,
		dec: dec,
	}, nil
}

// Close closes the underlying database.
func (db *AssetDB) Close() error {
	db.dec.Close()
	if err := db.enc.Close(); err != nil {
		db.db.Close()
		return err
	}
	return db.db.Close()
}

// Find returns the cached GPC file for key and the vertical interlace step
// it was encoded with, or nil if there isn't one.
func (db *AssetDB) Find(key AssetKey) ([]byte, int, error) {
	var blob []byte
	var vertical int
	switch err := db.db.QueryRow("SELECT vertical, gpc FROM asset WHERE sha1 = ? AND x = ? AND y = ? AND quantize = ?", key.SHA1, key.X, key.Y, key.Quantize).Scan(&vertical, &blob); err {
	case sql.ErrNoRows:
		return nil, 0, nil
	case nil:
		b, err := db.dec.DecodeAll(blob, nil)
		if err != nil {
			return nil, 0, err
		}
		return b, vertical, nil
	default:
		return nil, 0, err
	}
}

// Add stores a GPC file for key, replacing any previous one.
func (db *AssetDB) Add(key AssetKey, vertical int, gpc []byte) error {
	if _, err := db.db.Exec("INSERT OR REPLACE INTO asset (sha1, x, y, quantize, vertical, gpc) VALUES (?, ?, ?, ?, ?, ?)", key.SHA1, key.X, key.Y, key.Quantize, vertical, db.enc.EncodeAll(gpc, nil)); err != nil {
		return err
	}
	return nil
}

// Count returns the number of cached files.
func (db *AssetDB) Count() (int, error) {
	var n int
	if err := db.db.QueryRow("SELECT COUNT(*) FROM asset").Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

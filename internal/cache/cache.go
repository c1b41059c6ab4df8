// Package cache implements the incremental analysis cache: a
// modernc.org/sqlite-backed table keyed by (file path as the caller passes
// it, content hash) holding the function signatures and global-context deltas a file
// contributed on its last analysis. It is strictly a performance layer —
// a miss always falls back to full re-analysis, and nothing here feeds
// back into lattice correctness.
package cache

import (
	"bytes"
	"database/sql"
	"encoding/gob"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tsguard/tsguard/internal/typesystem"
)

func init() {
	gob.Register(typesystem.Mixed{})
	gob.Register(typesystem.Empty{})
	gob.Register(typesystem.Unset{})
	gob.Register(typesystem.ErrorType{})
	gob.Register(typesystem.Prim{})
	gob.Register(typesystem.Arr{})
	gob.Register(typesystem.Escaped{})
	gob.Register(typesystem.Trusted{})
	gob.Register(&typesystem.Param{})
	gob.Register(&typesystem.Fun{})
}

// Entry is everything worth persisting about one analysed file.
type Entry struct {
	Funcs       map[string]*typesystem.Fun
	GlobalDelta map[string]typesystem.Type
}

// Store wraps the sqlite-backed cache database.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}
	return &Store{db: db}, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS analysis_cache (
	path TEXT NOT NULL,
	hash TEXT NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (path, hash)
);
`

// Close closes the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Get looks up the cached Entry for (path, hash). The second return value
// is false on a cache miss; callers should fall back to full analysis.
func (s *Store) Get(path, hash string) (*Entry, bool, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT payload FROM analysis_cache WHERE path = ? AND hash = ?`,
		path, hash,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("querying cache for %s: %w", path, err)
	}

	var e Entry
	if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry for %s: %w", path, err)
	}
	return &e, true, nil
}

// Put stores (or replaces) the Entry for (path, hash), evicting any other
// hash previously cached for the same path since it is now stale.
func (s *Store) Put(path, hash string, e *Entry) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return fmt.Errorf("encoding cache entry for %s: %w", path, err)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning cache transaction for %s: %w", path, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM analysis_cache WHERE path = ?`, path); err != nil {
		return fmt.Errorf("evicting stale cache entries for %s: %w", path, err)
	}
	if _, err := tx.Exec(
		`INSERT INTO analysis_cache (path, hash, payload) VALUES (?, ?, ?)`,
		path, hash, buf.Bytes(),
	); err != nil {
		return fmt.Errorf("storing cache entry for %s: %w", path, err)
	}
	return tx.Commit()
}

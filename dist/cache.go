package dist

import (
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"
)

var log = commonlog.GetLogger("sigil.dist")

// ErrArtifactNotFound indicates the requested artifact is not cached.
var ErrArtifactNotFound = errors.New("artifact not found")

// Cache persists artifacts between builds in a SQLite database, keyed by
// content hash. Artifact payloads travel as CBOR so the cache schema never
// needs to track wire-format changes.
type Cache struct {
	db *sql.DB
	mu sync.Mutex
}

// OpenCache opens (creating if needed) the cache database at path.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS artifacts (
		hash TEXT PRIMARY KEY,
		unit INTEGER NOT NULL,
		data BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating artifacts table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put stores an artifact under its content hash. Re-inserting the same hash
// is a no-op.
func (c *Cache) Put(a *Artifact) error {
	data, err := MarshalArtifact(a)
	if err != nil {
		return fmt.Errorf("encoding artifact: %w", err)
	}
	h := a.ContentHash()

	c.mu.Lock()
	defer c.mu.Unlock()
	_, err = c.db.Exec(
		"INSERT OR IGNORE INTO artifacts (hash, unit, data) VALUES (?, ?, ?)",
		hex.EncodeToString(h[:]), uint32(a.Unit), data,
	)
	if err != nil {
		return fmt.Errorf("storing artifact: %w", err)
	}
	return nil
}

// Get returns the cached artifact with the given content hash, or
// ErrArtifactNotFound.
func (c *Cache) Get(h [32]byte) (*Artifact, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var data []byte
	err := c.db.QueryRow(
		"SELECT data FROM artifacts WHERE hash = ?", hex.EncodeToString(h[:]),
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrArtifactNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("loading artifact: %w", err)
	}
	return UnmarshalArtifact(data)
}

// LoadAll reads every cached artifact into a fresh Store.
func (c *Cache) LoadAll() (*Store, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query("SELECT data FROM artifacts")
	if err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	defer rows.Close()

	store := NewStore()
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning artifact: %w", err)
		}
		a, err := UnmarshalArtifact(data)
		if err != nil {
			return nil, err
		}
		store.Put(a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing artifacts: %w", err)
	}
	log.Debugf("loaded %d cached artifacts", store.Len())
	return store, nil
}

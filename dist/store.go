package dist

import (
	"sync"

	"github.com/chazu/sigil/compiler"
)

// ---------------------------------------------------------------------------
// Store: content-addressed index for unit artifacts
// ---------------------------------------------------------------------------

// Store indexes finished artifacts by content hash and by unit. The build
// step fills it in dependency order and hands Snapshot to each context that
// needs cross-unit bytecode.
type Store struct {
	mu     sync.RWMutex
	byHash map[[32]byte]*Artifact
	byUnit map[compiler.UnitID][32]byte
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byHash: make(map[[32]byte]*Artifact),
		byUnit: make(map[compiler.UnitID][32]byte),
	}
}

// Put adds an artifact, keyed by its content hash. A later artifact for the
// same unit replaces the earlier one.
func (s *Store) Put(a *Artifact) {
	h := a.ContentHash()
	s.mu.Lock()
	s.byHash[h] = a
	s.byUnit[a.Unit] = h
	s.mu.Unlock()
}

// ByHash returns the artifact for the given content hash, or nil.
func (s *Store) ByHash(h [32]byte) *Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.byHash[h]
}

// ByUnit returns the current artifact for a unit, or nil.
func (s *Store) ByUnit(unit compiler.UnitID) *Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.byUnit[unit]
	if !ok {
		return nil
	}
	return s.byHash[h]
}

// Len returns the number of distinct artifacts held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byHash)
}

// Snapshot returns the bytecode of every stored unit, keyed by unit, in the
// form compiler.Context.SetCompiledUnits takes. The returned map is freshly
// built and safe to hand off; callers treat it as immutable from then on.
func (s *Store) Snapshot() map[compiler.UnitID][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[compiler.UnitID][]byte, len(s.byUnit))
	for unit, h := range s.byUnit {
		out[unit] = s.byHash[h].Bytecode
	}
	return out
}

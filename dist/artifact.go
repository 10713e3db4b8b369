// Package dist packages assembled unit bytecode for storage and exchange
// between build steps: a CBOR wire format, an in-memory content-addressed
// store, and an on-disk build cache. It sits outside the code-generation
// critical path; its job is producing the cross-unit snapshots a
// compiler.Context consumes.
package dist

import (
	"crypto/sha256"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"

	"github.com/chazu/sigil/compiler"
)

// cborEncMode uses canonical mode so equal artifacts encode to identical
// bytes.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("dist: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

// Artifact is one unit's finished bytecode with build metadata.
type Artifact struct {
	Unit     compiler.UnitID `cbor:"1,keyasint"`
	Name     string          `cbor:"2,keyasint"`
	BuildID  string          `cbor:"3,keyasint"`
	Bytecode []byte          `cbor:"4,keyasint"`
}

// NewArtifact wraps assembled bytecode in an artifact with a fresh build ID.
func NewArtifact(unit compiler.UnitID, name string, bytecode []byte) *Artifact {
	return &Artifact{
		Unit:     unit,
		Name:     name,
		BuildID:  uuid.NewString(),
		Bytecode: bytecode,
	}
}

// ContentHash returns the sha256 of the artifact's bytecode. Identical
// bytecode hashes identically regardless of build ID.
func (a *Artifact) ContentHash() [32]byte {
	return sha256.Sum256(a.Bytecode)
}

// MarshalArtifact serializes an artifact to CBOR bytes.
func MarshalArtifact(a *Artifact) ([]byte, error) {
	return cborEncMode.Marshal(a)
}

// UnmarshalArtifact deserializes an artifact from CBOR bytes.
func UnmarshalArtifact(data []byte) (*Artifact, error) {
	var a Artifact
	if err := cbor.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("dist: unmarshal artifact: %w", err)
	}
	return &a, nil
}

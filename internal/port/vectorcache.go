package port

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"
)

// CacheSchemaVersion is bumped whenever the persisted snapshot layout changes.
const CacheSchemaVersion = 1

var (
	// ErrCacheMiss is returned by Load when no snapshot has been saved yet.
	ErrCacheMiss = errors.New("vector cache miss")

	// ErrCacheStale means a snapshot exists but does not describe the live catalogue.
	ErrCacheStale = errors.New("vector cache stale")
)

// VectorCache persists the catalogue vectors of a single corpus.
// Save replaces the previous snapshot completely.
type VectorCache interface {
	Load() (*Snapshot, error)

	Save(snapshot *Snapshot) error

	Close() error
}

// Snapshot is one complete set of catalogue vectors and the texts they were computed from.
type Snapshot struct {
	SchemaVersion int
	Model         string
	Fingerprint   string
	Vectors       [][]float64
	Texts         []string
	CreatedAt     time.Time
}

// Validate reports ErrCacheStale unless the snapshot matches the live catalogue.
// The row count check comes first: a snapshot for a different number of entries is never usable.
func (s *Snapshot) Validate(count int, model, fingerprint string) error {
	if s == nil {
		return ErrCacheMiss
	}
	if len(s.Vectors) != count {
		return fmt.Errorf("%w: cached %d vectors, catalogue has %d entries", ErrCacheStale, len(s.Vectors), count)
	}
	if s.SchemaVersion != CacheSchemaVersion {
		return fmt.Errorf("%w: schema v%d, want v%d", ErrCacheStale, s.SchemaVersion, CacheSchemaVersion)
	}
	if s.Model != model {
		return fmt.Errorf("%w: built by %q, engine uses %q", ErrCacheStale, s.Model, model)
	}
	if fingerprint != "" && s.Fingerprint != fingerprint {
		return fmt.Errorf("%w: catalogue content changed", ErrCacheStale)
	}
	return nil
}

// ContentFingerprint hashes the texts a snapshot was computed from.
func ContentFingerprint(texts []string) string {
	h := sha256.New()
	for _, t := range texts {
		h.Write([]byte(t))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil)[:16])
}

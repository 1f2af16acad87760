package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"assessrec/internal/port"
)

var keyMeta = []byte("snapshot")

// meta describes the stored snapshot.
type meta struct {
	SchemaVersion int       `json:"schema_version"`
	Model         string    `json:"model"`
	Fingerprint   string    `json:"fingerprint"`
	Count         int       `json:"count"`
	CreatedAt     time.Time `json:"created_at"`
}

func readMeta(tx *bbolt.Tx) (meta, error) {
	var m meta
	b := tx.Bucket(bucketMeta)
	if b == nil {
		return m, port.ErrCacheMiss
	}
	data := b.Get(keyMeta)
	if data == nil {
		return m, port.ErrCacheMiss
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("decode cache meta: %w", err)
	}
	if m.SchemaVersion == 0 {
		// snapshots written before versioning
		m.SchemaVersion = 1
	}
	return m, nil
}

func writeMeta(tx *bbolt.Tx, m meta) error {
	b, err := tx.CreateBucketIfNotExists(bucketMeta)
	if err != nil {
		return err
	}
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return b.Put(keyMeta, data)
}

// Status describes the stored snapshot without loading its vectors.
type Status struct {
	Present       bool
	SchemaVersion int
	Model         string
	Rows          int
	CreatedAt     time.Time
	NeedsRebuild  bool
	Reason        string
}

// Inspect reports what is stored and whether this build can reuse it.
func (c *BoltCache) Inspect() (*Status, error) {
	var st Status
	err := c.db.View(func(tx *bbolt.Tx) error {
		m, err := readMeta(tx)
		if err != nil {
			return err
		}
		st = Status{
			Present:       true,
			SchemaVersion: m.SchemaVersion,
			Model:         m.Model,
			Rows:          m.Count,
			CreatedAt:     m.CreatedAt,
		}
		switch {
		case m.SchemaVersion < port.CacheSchemaVersion:
			st.NeedsRebuild = true
			st.Reason = fmt.Sprintf("schema upgrade from v%d to v%d", m.SchemaVersion, port.CacheSchemaVersion)
		case m.SchemaVersion > port.CacheSchemaVersion:
			st.NeedsRebuild = true
			st.Reason = fmt.Sprintf("cache created by newer version (v%d > v%d)", m.SchemaVersion, port.CacheSchemaVersion)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, port.ErrCacheMiss) {
			return &Status{Reason: "no snapshot stored"}, nil
		}
		return nil, err
	}
	return &st, nil
}

package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"assessrec/internal/port"
)

var (
	bucketMeta    = []byte("meta")
	bucketVectors = []byte("vectors")
)

// BoltCache persists one vector snapshot in a bbolt database.
type BoltCache struct {
	db *bbolt.DB
}

type storedVector struct {
	Vector []float64 `json:"v"`
	Text   string    `json:"t"`
}

// Open opens or creates the cache database at path.
func Open(path string) (*BoltCache, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}
	return &BoltCache{db: db}, nil
}

// Load reads the stored snapshot. It returns port.ErrCacheMiss when nothing is stored.
func (c *BoltCache) Load() (*port.Snapshot, error) {
	var snap *port.Snapshot
	err := c.db.View(func(tx *bbolt.Tx) error {
		m, err := readMeta(tx)
		if err != nil {
			return err
		}

		vb := tx.Bucket(bucketVectors)
		if vb == nil {
			return fmt.Errorf("vectors bucket missing")
		}

		s := &port.Snapshot{
			SchemaVersion: m.SchemaVersion,
			Model:         m.Model,
			Fingerprint:   m.Fingerprint,
			CreatedAt:     m.CreatedAt,
			Vectors:       make([][]float64, 0, m.Count),
			Texts:         make([]string, 0, m.Count),
		}
		err = vb.ForEach(func(k, v []byte) error {
			if len(k) != 8 || binary.BigEndian.Uint64(k) != uint64(len(s.Vectors)) {
				return fmt.Errorf("unexpected row key %x", k)
			}
			var sv storedVector
			if err := json.Unmarshal(v, &sv); err != nil {
				return fmt.Errorf("decode row %d: %w", len(s.Vectors), err)
			}
			s.Vectors = append(s.Vectors, sv.Vector)
			s.Texts = append(s.Texts, sv.Text)
			return nil
		})
		if err != nil {
			return err
		}
		if len(s.Vectors) != m.Count {
			return fmt.Errorf("meta records %d rows, found %d", m.Count, len(s.Vectors))
		}
		snap = s
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Save replaces whatever was stored with snap in a single transaction.
func (c *BoltCache) Save(snap *port.Snapshot) error {
	if snap == nil {
		return errors.New("nil snapshot")
	}
	if snap.Texts != nil && len(snap.Texts) != len(snap.Vectors) {
		return fmt.Errorf("snapshot has %d vectors and %d texts", len(snap.Vectors), len(snap.Texts))
	}

	return c.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketMeta, bucketVectors} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return fmt.Errorf("drop bucket %s: %w", name, err)
			}
		}

		vb, err := tx.CreateBucket(bucketVectors)
		if err != nil {
			return fmt.Errorf("failed to create vectors bucket: %w", err)
		}
		for i, vec := range snap.Vectors {
			sv := storedVector{Vector: vec}
			if snap.Texts != nil {
				sv.Text = snap.Texts[i]
			}
			data, err := json.Marshal(sv)
			if err != nil {
				return err
			}
			// bbolt keeps key slices until commit, so each row gets its own.
			key := make([]byte, 8)
			binary.BigEndian.PutUint64(key, uint64(i))
			if err := vb.Put(key, data); err != nil {
				return err
			}
		}

		createdAt := snap.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}
		return writeMeta(tx, meta{
			SchemaVersion: snap.SchemaVersion,
			Model:         snap.Model,
			Fingerprint:   snap.Fingerprint,
			Count:         len(snap.Vectors),
			CreatedAt:     createdAt,
		})
	})
}

// Close closes the database.
func (c *BoltCache) Close() error {
	return c.db.Close()
}

package storage

import (
	"fmt"

	"github.com/cockroachdb/pebble"
)

// PebbleKV is the durable KV backed by a Pebble database on disk.
type PebbleKV struct {
	db *pebble.DB
}

func NewPebbleKV(path string) (*PebbleKV, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble at %s: %w", path, err)
	}
	return &PebbleKV{db: db}, nil
}

func (s *PebbleKV) Close() error { return s.db.Close() }

func (s *PebbleKV) Get(key string) ([]byte, bool, error) {
	val, closer, err := s.db.Get([]byte(key))
	if err == pebble.ErrNotFound {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	defer closer.Close()

	// val is only valid until closer.Close()
	out := append([]byte(nil), val...)
	return out, true, nil
}

func (s *PebbleKV) Set(key string, value []byte) error {
	// Sync write: the mutation is durable before the caller returns.
	if err := s.db.Set([]byte(key), value, pebble.Sync); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

var _ KV = (*PebbleKV)(nil)

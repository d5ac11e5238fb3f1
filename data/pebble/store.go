package pebble

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/cockroachdb/pebble"
)

// ErrInvalidID is returned for ids that cannot be stored. Stored ids are
// positive.
var ErrInvalidID = errors.New("pebble: id must be positive")

// Store keeps records keyed by id under a prefix.
type Store struct {
	db     *pebble.DB
	prefix []byte
	sync   bool
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithSync makes every write wait for the WAL to reach disk.
func WithSync(sync bool) StoreOption {
	return func(s *Store) { s.sync = sync }
}

// NewStore returns a store over db using keys prefixed with prefix.
func NewStore(db *pebble.DB, prefix string, opts ...StoreOption) *Store {
	s := &Store{db: db, prefix: []byte(prefix)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) writeOpts() *pebble.WriteOptions {
	if s.sync {
		return pebble.Sync
	}
	return pebble.NoSync
}

// key returns prefix + big-endian id.
func (s *Store) key(id int64) []byte {
	k := make([]byte, len(s.prefix)+8)
	copy(k, s.prefix)
	binary.BigEndian.PutUint64(k[len(s.prefix):], uint64(id))
	return k
}

// owns reports whether k has the shape of a key produced by key.
func (s *Store) owns(k []byte) bool {
	return len(k) == len(s.prefix)+8
}

// idOf decodes the id of a key produced by key.
func (s *Store) idOf(k []byte) (int64, error) {
	if !s.owns(k) {
		return 0, fmt.Errorf("pebble: malformed key %x", k)
	}
	return int64(binary.BigEndian.Uint64(k[len(s.prefix):])), nil
}

// upper returns the exclusive upper key for ids <= hi.
func (s *Store) upper(hi int64) []byte {
	if hi < math.MaxInt64 {
		return s.key(hi + 1)
	}
	return prefixEnd(s.prefix)
}

// prefixEnd returns the smallest key greater than every key with prefix p.
func prefixEnd(p []byte) []byte {
	end := append([]byte(nil), p...)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	// All 0xff: ids occupy at most 8 bytes past the prefix.
	return append(append([]byte(nil), p...), 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff)
}

// Put stores value under id.
func (s *Store) Put(id int64, value []byte) error {
	if id <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidID, id)
	}
	if err := s.db.Set(s.key(id), value, s.writeOpts()); err != nil {
		return fmt.Errorf("pebble: put %d: %w", id, err)
	}
	return nil
}

// PutBatch stores values atomically.
func (s *Store) PutBatch(values map[int64][]byte) error {
	b := s.db.NewBatch()
	defer b.Close()
	for id, v := range values {
		if id <= 0 {
			return fmt.Errorf("%w: %d", ErrInvalidID, id)
		}
		if err := b.Set(s.key(id), v, nil); err != nil {
			return fmt.Errorf("pebble: batch put %d: %w", id, err)
		}
	}
	if err := b.Commit(s.writeOpts()); err != nil {
		return fmt.Errorf("pebble: commit: %w", err)
	}
	return nil
}

// Get returns a copy of the value stored under id.
func (s *Store) Get(id int64) ([]byte, bool, error) {
	v, closer, err := s.db.Get(s.key(id))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("pebble: get %d: %w", id, err)
	}
	defer closer.Close()
	return append([]byte(nil), v...), true, nil
}

// Delete removes id.
func (s *Store) Delete(id int64) error {
	if err := s.db.Delete(s.key(id), s.writeOpts()); err != nil {
		return fmt.Errorf("pebble: delete %d: %w", id, err)
	}
	return nil
}

// Package registry keeps sets of uint64 sequences addressed by integer
// handles.
//
// Each set is created with its own hash function. Operations on an unknown
// handle, or with a nil or empty sequence, report failure instead of
// panicking. A Registry is safe for concurrent use.
package registry

import (
	"encoding/binary"
	"log/slog"
	"slices"
	"sync"

	"github.com/zeebo/blake3"
)

// ID is a set handle. Handles are never reused.
type ID uint64

// HashFunc hashes a sequence.
type HashFunc func(seq []uint64) uint64

// Blake3 hashes the little-endian encoding of seq with BLAKE3 and returns the
// first eight bytes of the digest.
func Blake3(seq []uint64) uint64 {
	h := blake3.New()
	var word [8]byte
	for _, v := range seq {
		binary.LittleEndian.PutUint64(word[:], v)
		h.Write(word[:])
	}
	return binary.LittleEndian.Uint64(h.Sum(nil))
}

type set struct {
	hash    HashFunc
	buckets map[uint64][][]uint64
	size    int
}

func (s *set) find(seq []uint64) (uint64, int) {
	sum := s.hash(seq)
	for i, stored := range s.buckets[sum] {
		if slices.Equal(stored, seq) {
			return sum, i
		}
	}
	return sum, -1
}

// Registry owns the sets.
type Registry struct {
	mu     sync.Mutex
	sets   map[ID]*set
	next   ID
	logger *slog.Logger
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger receiving debug records about rejected calls.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New returns an empty registry.
func New(opts ...Option) *Registry {
	r := &Registry{
		sets:   make(map[ID]*set),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create adds an empty set hashed by fn and returns its handle. A nil fn
// selects Blake3.
func (r *Registry) Create(fn HashFunc) ID {
	if fn == nil {
		fn = Blake3
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.next
	r.next++
	r.sets[id] = &set{hash: fn, buckets: make(map[uint64][][]uint64)}
	r.logger.Debug("registry: created", slog.Uint64("id", uint64(id)))
	return id
}

// Delete removes the set. Unknown handles are ignored.
func (r *Registry) Delete(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sets[id]; !ok {
		r.reject("delete", id, "unknown id")
		return
	}
	delete(r.sets, id)
}

// Size returns the number of sequences in the set, or 0 for unknown handles.
func (r *Registry) Size(id ID) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sets[id]
	if !ok {
		r.reject("size", id, "unknown id")
		return 0
	}
	return s.size
}

// Insert adds a copy of seq and reports whether it was absent.
func (r *Registry) Insert(id ID, seq []uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup("insert", id, seq)
	if s == nil {
		return false
	}
	sum, i := s.find(seq)
	if i >= 0 {
		return false
	}
	s.buckets[sum] = append(s.buckets[sum], slices.Clone(seq))
	s.size++
	return true
}

// Remove deletes seq and reports whether it was present.
func (r *Registry) Remove(id ID, seq []uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup("remove", id, seq)
	if s == nil {
		return false
	}
	sum, i := s.find(seq)
	if i < 0 {
		return false
	}
	bucket := slices.Delete(s.buckets[sum], i, i+1)
	if len(bucket) == 0 {
		delete(s.buckets, sum)
	} else {
		s.buckets[sum] = bucket
	}
	s.size--
	return true
}

// Clear empties the set. Unknown handles are ignored.
func (r *Registry) Clear(id ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sets[id]
	if !ok {
		r.reject("clear", id, "unknown id")
		return
	}
	clear(s.buckets)
	s.size = 0
}

// Test reports whether seq is in the set.
func (r *Registry) Test(id ID, seq []uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.lookup("test", id, seq)
	if s == nil {
		return false
	}
	_, i := s.find(seq)
	return i >= 0
}

func (r *Registry) lookup(op string, id ID, seq []uint64) *set {
	s, ok := r.sets[id]
	switch {
	case !ok:
		r.reject(op, id, "unknown id")
		return nil
	case seq == nil:
		r.reject(op, id, "nil sequence")
		return nil
	case len(seq) == 0:
		r.reject(op, id, "empty sequence")
		return nil
	}
	return s
}

func (r *Registry) reject(op string, id ID, reason string) {
	r.logger.Debug("registry: call rejected",
		slog.String("op", op),
		slog.Uint64("id", uint64(id)),
		slog.String("reason", reason))
}

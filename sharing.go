package kvfifo

import (
	"log/slog"
	"sync/atomic"

	"github.com/timzifer/kvfifo/internal/keyindex"
	"github.com/timzifer/kvfifo/internal/store"
	"github.com/timzifer/kvfifo/internal/telemetry"
)

// handle is the unit of sharing: one store, its key index and the number of
// queues referring to them.
type handle[K, V any] struct {
	store *store.Store[K, V]
	index *keyindex.Index[K]
	refs  atomic.Int32
}

func newHandle[K, V any](cfg *config[K]) *handle[K, V] {
	h := &handle[K, V]{
		store: store.New[K, V](cfg.capacity),
		index: keyindex.New(cfg.compare),
	}
	h.refs.Store(1)
	return h
}

func (h *handle[K, V]) acquire() *handle[K, V] {
	h.refs.Add(1)
	return h
}

func (h *handle[K, V]) release() {
	h.refs.Add(-1)
}

func (h *handle[K, V]) shared() bool {
	return h.refs.Load() > 1
}

// clone deep-copies the store and derives a fresh index from the copy. If the
// comparator panics, h is left untouched.
func (h *handle[K, V]) clone(compare func(a, b K) int) *handle[K, V] {
	s := h.store.Clone()
	c := &handle[K, V]{
		store: s,
		index: keyindex.Rebuild(s, compare),
	}
	c.refs.Store(1)
	return c
}

// state is what a single Queue owns. It lives apart from the Queue so the GC
// cleanup can release the handle without keeping the Queue reachable.
type state[K, V any] struct {
	h       *handle[K, V]
	exposed bool
}

func (st *state[K, V]) release() {
	if st.h != nil {
		st.h.release()
		st.h = nil
	}
	st.exposed = false
}

func (q *Queue[K, V]) usable() error {
	if q.st.h == nil {
		return ErrMovedFrom
	}
	return nil
}

func (q *Queue[K, V]) mustUsable() *handle[K, V] {
	if q.st.h == nil {
		panic(ErrMovedFrom)
	}
	return q.st.h
}

// mutable prepares q for a write: q must be usable and, if it shares its
// handle, gets a private copy first.
func (q *Queue[K, V]) mutable() (*handle[K, V], error) {
	if err := q.usable(); err != nil {
		return nil, err
	}
	if q.st.h.shared() {
		q.detach(telemetry.DetachOnWrite)
	}
	return q.st.h, nil
}

// expose is mutable plus marking that a *V alias is about to escape.
func (q *Queue[K, V]) expose() (*handle[K, V], error) {
	h, err := q.mutable()
	if err != nil {
		return nil, err
	}
	q.st.exposed = true
	return h, nil
}

func (q *Queue[K, V]) detach(reason telemetry.DetachReason) {
	old := q.st.h
	c := old.clone(q.cfg.compare)
	old.release()
	q.st.h = c
	q.st.exposed = false

	n := c.store.Len()
	telemetry.DefaultSharingMetrics().RecordDetach(reason, n)
	q.cfg.logger.Debug("kvfifo: detached",
		slog.String("reason", reason.String()),
		slog.Int("entries", n))
}

// Stats is a snapshot of process-wide copy-on-write counters.
type Stats struct {
	// Shares counts copies that shared storage with their source.
	Shares uint64
	// LazyDetaches counts shared queues that copied their storage on write.
	LazyDetaches uint64
	// EagerDetaches counts copies made from exposed queues.
	EagerDetaches uint64
	// ClonedEntries counts entries copied by all detaches.
	ClonedEntries uint64
}

// SharingStats returns the current copy-on-write counters.
func SharingStats() Stats {
	s := telemetry.DefaultSharingMetrics().Snapshot()
	return Stats{
		Shares:        s.Shares,
		LazyDetaches:  s.LazyDetaches,
		EagerDetaches: s.EagerDetaches,
		ClonedEntries: s.ClonedEntries,
	}
}

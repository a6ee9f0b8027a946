package kvfifo

import (
	"cmp"
	"fmt"
	"log/slog"
	"runtime"
	"strings"

	"github.com/timzifer/kvfifo/internal/telemetry"
)

// config is shared by a queue and every queue copied from it.
type config[K any] struct {
	compare  func(a, b K) int
	logger   *slog.Logger
	capacity int
}

// noCopy makes go vet's copylocks check flag accidental struct copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Queue is an ordered multi-key FIFO. The zero value is not usable; create
// queues with New or NewFunc and copy them with Clone.
type Queue[K, V any] struct {
	noCopy noCopy

	st  *state[K, V]
	cfg *config[K]
}

// New returns an empty queue whose keys are ordered by cmp.Compare.
func New[K cmp.Ordered, V any](opts ...Option) *Queue[K, V] {
	return NewFunc[K, V](cmp.Compare[K], opts...)
}

// NewFunc returns an empty queue whose keys are ordered by compare, which
// must define a strict weak ordering and return a negative number, zero or a
// positive number like cmp.Compare. Keys comparing equal are the same key.
func NewFunc[K, V any](compare func(a, b K) int, opts ...Option) *Queue[K, V] {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	cfg := &config[K]{
		compare:  compare,
		logger:   o.logger,
		capacity: o.capacity,
	}
	return newQueue(cfg, newHandle[K, V](cfg))
}

func newQueue[K, V any](cfg *config[K], h *handle[K, V]) *Queue[K, V] {
	q := &Queue[K, V]{
		st:  &state[K, V]{h: h},
		cfg: cfg,
	}
	runtime.AddCleanup(q, (*state[K, V]).release, q.st)
	return q
}

// Clone returns a copy of q. The copy shares storage with q until either is
// modified, unless q is exposed, in which case the copy gets private storage
// right away.
func (q *Queue[K, V]) Clone() *Queue[K, V] {
	h := q.mustUsable()
	if q.st.exposed {
		c := h.clone(q.cfg.compare)
		telemetry.DefaultSharingMetrics().RecordDetach(telemetry.DetachOnCopy, c.store.Len())
		q.cfg.logger.Debug("kvfifo: detached",
			slog.String("reason", telemetry.DetachOnCopy.String()),
			slog.Int("entries", c.store.Len()))
		return newQueue(q.cfg, c)
	}
	telemetry.DefaultSharingMetrics().RecordShare()
	return newQueue(q.cfg, h.acquire())
}

// Move returns a queue that takes over q's storage and exposure. q becomes
// moved-from.
func (q *Queue[K, V]) Move() *Queue[K, V] {
	h := q.mustUsable()
	m := newQueue(q.cfg, h)
	m.st.exposed = q.st.exposed
	q.st.h = nil
	q.st.exposed = false
	return m
}

// Assign makes q a copy of src under the same rules as Clone. q may be
// moved-from; it is usable afterwards.
func (q *Queue[K, V]) Assign(src *Queue[K, V]) error {
	if src == nil {
		return ErrMovedFrom
	}
	if err := src.usable(); err != nil {
		return err
	}
	if q == src {
		return nil
	}

	var h *handle[K, V]
	if src.st.exposed {
		h = src.st.h.clone(src.cfg.compare)
		telemetry.DefaultSharingMetrics().RecordDetach(telemetry.DetachOnCopy, h.store.Len())
	} else {
		h = src.st.h.acquire()
		telemetry.DefaultSharingMetrics().RecordShare()
	}

	q.st.release()
	q.st.h = h
	q.cfg = src.cfg
	return nil
}

// AssignMove transfers src's storage and exposure to q, releasing what q held
// before. src becomes moved-from.
func (q *Queue[K, V]) AssignMove(src *Queue[K, V]) error {
	if src == nil {
		return ErrMovedFrom
	}
	if err := src.usable(); err != nil {
		return err
	}
	if q == src {
		return nil
	}

	h, exposed := src.st.h, src.st.exposed
	src.st.h = nil
	src.st.exposed = false

	q.st.release()
	q.st.h = h
	q.st.exposed = exposed
	q.cfg = src.cfg
	return nil
}

// Release drops q's reference to its storage. q becomes moved-from. Releasing
// twice is harmless.
func (q *Queue[K, V]) Release() {
	q.st.release()
}

// Push appends (key, value) at the back of global order and as the newest
// entry of key.
func (q *Queue[K, V]) Push(key K, value V) error {
	h, err := q.mutable()
	if err != nil {
		return err
	}

	id := h.store.PushBack(key, value)
	indexed := false
	defer func() {
		if !indexed {
			h.store.Remove(id)
		}
	}()
	h.index.Append(key, id)
	indexed = true
	return nil
}

// Pop removes the entry at the front of global order.
func (q *Queue[K, V]) Pop() error {
	if err := q.usable(); err != nil {
		return err
	}
	if q.st.h.store.Len() == 0 {
		return ErrEmptyQueue
	}

	h, err := q.mutable()
	if err != nil {
		return err
	}
	id := h.store.Front()
	h.index.PopFront(h.store.Get(id).Key)
	h.store.Remove(id)
	return nil
}

// PopKey removes the oldest entry of key, wherever it sits in global order.
func (q *Queue[K, V]) PopKey(key K) error {
	if err := q.usable(); err != nil {
		return err
	}
	if q.st.h.index.Count(key) == 0 {
		return unknownKey(key)
	}

	h, err := q.mutable()
	if err != nil {
		return err
	}
	id, _ := h.index.PopFront(key)
	h.store.Remove(id)
	return nil
}

// MoveToBack moves every entry of key behind all other entries, keeping their
// relative order.
func (q *Queue[K, V]) MoveToBack(key K) error {
	if err := q.usable(); err != nil {
		return err
	}
	if q.st.h.index.Count(key) == 0 {
		return unknownKey(key)
	}

	h, err := q.mutable()
	if err != nil {
		return err
	}
	for _, id := range h.index.Positions(key) {
		h.store.MoveToBack(id)
	}
	return nil
}

// Clear removes every entry. Queues sharing storage with q keep theirs.
func (q *Queue[K, V]) Clear() error {
	if err := q.usable(); err != nil {
		return err
	}

	if q.st.h.shared() {
		q.st.h.release()
		q.st.h = newHandle[K, V](q.cfg)
	} else {
		q.st.h.store.Clear()
		q.st.h.index.Clear()
	}
	q.st.exposed = false
	return nil
}

// Len returns the number of entries.
func (q *Queue[K, V]) Len() int {
	return q.mustUsable().store.Len()
}

// Empty reports whether q has no entries.
func (q *Queue[K, V]) Empty() bool {
	return q.Len() == 0
}

// Count returns the number of entries of key.
func (q *Queue[K, V]) Count(key K) int {
	return q.mustUsable().index.Count(key)
}

// Shared reports whether q currently shares storage with another queue.
func (q *Queue[K, V]) Shared() bool {
	return q.mustUsable().shared()
}

// Exposed reports whether a *V alias into q's storage has been handed out
// since q last detached or was cleared.
func (q *Queue[K, V]) Exposed() bool {
	q.mustUsable()
	return q.st.exposed
}

// String formats the entries in global order.
func (q *Queue[K, V]) String() string {
	if q.st.h == nil {
		return "kvfifo(moved)"
	}
	var b strings.Builder
	b.WriteString("kvfifo[")
	first := true
	for k, v := range q.All() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "(%v, %v)", k, v)
	}
	b.WriteByte(']')
	return b.String()
}

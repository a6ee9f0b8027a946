package kvfifo

import "iter"

// Entry is a key/value pair.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// Reader is the read-only view of a Queue.
type Reader[K, V any] interface {
	Len() int
	Empty() bool
	Count(key K) int
	PeekFront() (K, V, error)
	PeekBack() (K, V, error)
	PeekFirst(key K) (K, V, error)
	PeekLast(key K) (K, V, error)
	Keys() iter.Seq[K]
	KeysBackward() iter.Seq[K]
	All() iter.Seq2[K, V]
	Entries() []Entry[K, V]
}

var _ Reader[string, int] = (*Queue[string, int])(nil)

// Keys yields the distinct keys in ascending order. The sequence can be
// ranged over repeatedly; it must not be used while q is being modified.
func (q *Queue[K, V]) Keys() iter.Seq[K] {
	q.mustUsable()
	return func(yield func(K) bool) {
		q.mustUsable().index.Ascend(func(key K, _ int) bool {
			return yield(key)
		})
	}
}

// KeysBackward yields the distinct keys in descending order.
func (q *Queue[K, V]) KeysBackward() iter.Seq[K] {
	q.mustUsable()
	return func(yield func(K) bool) {
		q.mustUsable().index.Descend(func(key K, _ int) bool {
			return yield(key)
		})
	}
}

// All yields the entries in global order.
func (q *Queue[K, V]) All() iter.Seq2[K, V] {
	q.mustUsable()
	return func(yield func(K, V) bool) {
		h := q.mustUsable()
		for id := range h.store.All() {
			e := h.store.Get(id)
			if !yield(e.Key, e.Value) {
				return
			}
		}
	}
}

// Entries returns a snapshot of the entries in global order.
func (q *Queue[K, V]) Entries() []Entry[K, V] {
	h := q.mustUsable()
	out := make([]Entry[K, V], 0, h.store.Len())
	for id := range h.store.All() {
		e := h.store.Get(id)
		out = append(out, Entry[K, V]{Key: e.Key, Value: e.Value})
	}
	return out
}

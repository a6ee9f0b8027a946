// Package keyindex maps keys to the store IDs of their entries.
//
// Keys are kept in a B-tree ordered by a caller supplied comparison, so
// lookups are O(log n) and keys iterate in sorted order. Each key owns a FIFO
// of IDs in the order the entries were indexed. A key is present iff its FIFO
// is non-empty.
package keyindex

import (
	"github.com/google/btree"

	"github.com/timzifer/kvfifo/internal/store"
)

const degree = 16

type bucket[K any] struct {
	key K
	ids []store.ID
}

// Index is an ordered key to ID-list mapping. It is not safe for concurrent use.
type Index[K any] struct {
	tree    *btree.BTreeG[*bucket[K]]
	compare func(a, b K) int
	ids     int
}

// New returns an empty index ordered by compare.
func New[K any](compare func(a, b K) int) *Index[K] {
	return &Index[K]{
		tree: btree.NewG(degree, func(a, b *bucket[K]) bool {
			return compare(a.key, b.key) < 0
		}),
		compare: compare,
	}
}

// Len returns the number of distinct keys.
func (x *Index[K]) Len() int {
	return x.tree.Len()
}

// IDs returns the total number of indexed IDs.
func (x *Index[K]) IDs() int {
	return x.ids
}

func (x *Index[K]) find(key K) *bucket[K] {
	b, ok := x.tree.Get(&bucket[K]{key: key})
	if !ok {
		return nil
	}
	return b
}

// Append records id as the newest entry for key.
func (x *Index[K]) Append(key K, id store.ID) {
	if b := x.find(key); b != nil {
		b.ids = append(b.ids, id)
	} else {
		x.tree.ReplaceOrInsert(&bucket[K]{key: key, ids: []store.ID{id}})
	}
	x.ids++
}

// Count returns the number of IDs recorded for key.
func (x *Index[K]) Count(key K) int {
	if b := x.find(key); b != nil {
		return len(b.ids)
	}
	return 0
}

// Front returns the oldest ID for key.
func (x *Index[K]) Front(key K) (store.ID, bool) {
	b := x.find(key)
	if b == nil {
		return store.None, false
	}
	return b.ids[0], true
}

// Back returns the newest ID for key.
func (x *Index[K]) Back(key K) (store.ID, bool) {
	b := x.find(key)
	if b == nil {
		return store.None, false
	}
	return b.ids[len(b.ids)-1], true
}

// PopFront drops the oldest ID for key and returns it. The key is erased when
// its last ID goes.
func (x *Index[K]) PopFront(key K) (store.ID, bool) {
	b := x.find(key)
	if b == nil {
		return store.None, false
	}

	id := b.ids[0]
	if len(b.ids) == 1 {
		x.tree.Delete(b)
	} else {
		b.ids = b.ids[1:]
	}
	x.ids--
	return id, true
}

// Positions returns the IDs for key, oldest first. The slice is owned by the
// index and must not be modified or retained across mutations.
func (x *Index[K]) Positions(key K) []store.ID {
	if b := x.find(key); b != nil {
		return b.ids
	}
	return nil
}

// Clear removes every key.
func (x *Index[K]) Clear() {
	x.tree.Clear(false)
	x.ids = 0
}

// Ascend calls fn for every key in ascending order until fn returns false.
func (x *Index[K]) Ascend(fn func(key K, count int) bool) {
	x.tree.Ascend(func(b *bucket[K]) bool {
		return fn(b.key, len(b.ids))
	})
}

// Descend calls fn for every key in descending order until fn returns false.
func (x *Index[K]) Descend(fn func(key K, count int) bool) {
	x.tree.Descend(func(b *bucket[K]) bool {
		return fn(b.key, len(b.ids))
	})
}

// Rebuild returns a new index over s, deriving every position from a walk of
// s in global order.
func Rebuild[K, V any](s *store.Store[K, V], compare func(a, b K) int) *Index[K] {
	x := New(compare)
	for id := range s.All() {
		x.Append(s.Get(id).Key, id)
	}
	return x
}

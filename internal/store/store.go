package store

import "iter"

// ID identifies a slot in a Store.
type ID int32

// None is the ID of no slot.
const None ID = -1

// Entry is a key/value pair held by the store.
type Entry[K, V any] struct {
	Key   K
	Value V
}

type slot[K, V any] struct {
	entry Entry[K, V]
	prev  ID
	next  ID
}

// Store keeps entries in global FIFO order.
type Store[K, V any] struct {
	slots []*slot[K, V]
	free  []ID
	head  ID
	tail  ID
	len   int
}

// New returns an empty store with room for capacity entries.
func New[K, V any](capacity int) *Store[K, V] {
	if capacity < 0 {
		capacity = 0
	}
	return &Store[K, V]{
		slots: make([]*slot[K, V], 0, capacity),
		head:  None,
		tail:  None,
	}
}

// Len returns the number of live entries.
func (s *Store[K, V]) Len() int {
	return s.len
}

// Front returns the ID of the oldest entry, or None.
func (s *Store[K, V]) Front() ID {
	return s.head
}

// Back returns the ID of the newest entry, or None.
func (s *Store[K, V]) Back() ID {
	return s.tail
}

// Next returns the ID following id in global order, or None.
func (s *Store[K, V]) Next(id ID) ID {
	return s.slots[id].next
}

// Prev returns the ID preceding id in global order, or None.
func (s *Store[K, V]) Prev(id ID) ID {
	return s.slots[id].prev
}

// Get returns the entry stored under id. The pointer stays valid until id is
// removed.
func (s *Store[K, V]) Get(id ID) *Entry[K, V] {
	return &s.slots[id].entry
}

// Live reports whether id refers to a live entry.
func (s *Store[K, V]) Live(id ID) bool {
	return id >= 0 && int(id) < len(s.slots) && s.slots[id] != nil
}

// PushBack appends an entry and returns its ID.
func (s *Store[K, V]) PushBack(key K, value V) ID {
	n := &slot[K, V]{entry: Entry[K, V]{Key: key, Value: value}}

	var id ID
	if last := len(s.free) - 1; last >= 0 {
		id = s.free[last]
		s.free = s.free[:last]
		s.slots[id] = n
	} else {
		id = ID(len(s.slots))
		s.slots = append(s.slots, n)
	}

	s.linkBack(id)
	s.len++
	return id
}

// Remove unlinks the entry under id and recycles the ID.
func (s *Store[K, V]) Remove(id ID) {
	s.unlink(id)
	s.slots[id] = nil
	s.free = append(s.free, id)
	s.len--
	if s.len == 0 {
		s.slots = s.slots[:0]
		s.free = s.free[:0]
	}
}

// MoveToBack relocates the entry under id to the back of global order. The ID
// is unchanged.
func (s *Store[K, V]) MoveToBack(id ID) {
	if id == s.tail {
		return
	}
	s.unlink(id)
	s.linkBack(id)
}

// Clear removes every entry.
func (s *Store[K, V]) Clear() {
	clear(s.slots)
	s.slots = s.slots[:0]
	s.free = s.free[:0]
	s.head = None
	s.tail = None
	s.len = 0
}

// All yields live IDs in global order. The store must not be modified while
// iterating.
func (s *Store[K, V]) All() iter.Seq[ID] {
	return func(yield func(ID) bool) {
		for id := s.head; id != None; id = s.slots[id].next {
			if !yield(id) {
				return
			}
		}
	}
}

// Backward yields live IDs from newest to oldest.
func (s *Store[K, V]) Backward() iter.Seq[ID] {
	return func(yield func(ID) bool) {
		for id := s.tail; id != None; id = s.slots[id].prev {
			if !yield(id) {
				return
			}
		}
	}
}

// Clone returns a store holding copies of the live entries in the same global
// order. IDs of the clone are assigned afresh and are unrelated to the IDs of
// s.
func (s *Store[K, V]) Clone() *Store[K, V] {
	c := New[K, V](s.len)
	for id := s.head; id != None; id = s.slots[id].next {
		e := s.slots[id].entry
		c.PushBack(e.Key, e.Value)
	}
	return c
}

func (s *Store[K, V]) linkBack(id ID) {
	n := s.slots[id]
	n.prev = s.tail
	n.next = None
	if s.tail == None {
		s.head = id
	} else {
		s.slots[s.tail].next = id
	}
	s.tail = id
}

func (s *Store[K, V]) unlink(id ID) {
	n := s.slots[id]
	if n.prev != None {
		s.slots[n.prev].next = n.next
	} else {
		s.head = n.next
	}

	if n.next != None {
		s.slots[n.next].prev = n.prev
	} else {
		s.tail = n.prev
	}

	n.prev = None
	n.next = None
}

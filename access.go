package kvfifo

import "github.com/timzifer/kvfifo/internal/store"

func (q *Queue[K, V]) frontID(h *handle[K, V]) (store.ID, error) {
	if h.store.Len() == 0 {
		return store.None, ErrEmptyQueue
	}
	return h.store.Front(), nil
}

func (q *Queue[K, V]) backID(h *handle[K, V]) (store.ID, error) {
	if h.store.Len() == 0 {
		return store.None, ErrEmptyQueue
	}
	return h.store.Back(), nil
}

func (q *Queue[K, V]) firstID(h *handle[K, V], key K) (store.ID, error) {
	id, ok := h.index.Front(key)
	if !ok {
		return store.None, unknownKey(key)
	}
	return id, nil
}

func (q *Queue[K, V]) lastID(h *handle[K, V], key K) (store.ID, error) {
	id, ok := h.index.Back(key)
	if !ok {
		return store.None, unknownKey(key)
	}
	return id, nil
}

// alias locates an entry, detaches and marks q exposed, then hands out the
// entry's key and a pointer to its value. Nothing changes when the lookup
// fails.
func (q *Queue[K, V]) alias(locate func(*handle[K, V]) (store.ID, error)) (K, *V, error) {
	var zero K
	if err := q.usable(); err != nil {
		return zero, nil, err
	}
	if _, err := locate(q.st.h); err != nil {
		return zero, nil, err
	}

	h, err := q.expose()
	if err != nil {
		return zero, nil, err
	}
	id, _ := locate(h)
	e := h.store.Get(id)
	return e.Key, &e.Value, nil
}

func (q *Queue[K, V]) peek(locate func(*handle[K, V]) (store.ID, error)) (K, V, error) {
	var (
		zeroK K
		zeroV V
	)
	if err := q.usable(); err != nil {
		return zeroK, zeroV, err
	}
	id, err := locate(q.st.h)
	if err != nil {
		return zeroK, zeroV, err
	}
	e := q.st.h.store.Get(id)
	return e.Key, e.Value, nil
}

func (q *Queue[K, V]) update(locate func(*handle[K, V]) (store.ID, error), fn func(key K, value *V)) error {
	if err := q.usable(); err != nil {
		return err
	}
	if _, err := locate(q.st.h); err != nil {
		return err
	}

	h, err := q.mutable()
	if err != nil {
		return err
	}
	id, _ := locate(h)
	e := h.store.Get(id)
	fn(e.Key, &e.Value)
	return nil
}

// Front returns the first entry in global order with a pointer to its value.
// Writing through the pointer changes q only. q is marked exposed, so copies
// made while the pointer may still be used get storage of their own. The
// pointer must not be used after q, or a queue sharing storage with it, is
// modified, released or assigned.
func (q *Queue[K, V]) Front() (K, *V, error) {
	return q.alias(q.frontID)
}

// Back is Front for the last entry in global order.
func (q *Queue[K, V]) Back() (K, *V, error) {
	return q.alias(q.backID)
}

// First is Front for the oldest entry of key.
func (q *Queue[K, V]) First(key K) (K, *V, error) {
	return q.alias(func(h *handle[K, V]) (store.ID, error) { return q.firstID(h, key) })
}

// Last is Front for the newest entry of key.
func (q *Queue[K, V]) Last(key K) (K, *V, error) {
	return q.alias(func(h *handle[K, V]) (store.ID, error) { return q.lastID(h, key) })
}

// PeekFront returns a copy of the first entry in global order.
func (q *Queue[K, V]) PeekFront() (K, V, error) {
	return q.peek(q.frontID)
}

// PeekBack returns a copy of the last entry in global order.
func (q *Queue[K, V]) PeekBack() (K, V, error) {
	return q.peek(q.backID)
}

// PeekFirst returns a copy of the oldest entry of key.
func (q *Queue[K, V]) PeekFirst(key K) (K, V, error) {
	return q.peek(func(h *handle[K, V]) (store.ID, error) { return q.firstID(h, key) })
}

// PeekLast returns a copy of the newest entry of key.
func (q *Queue[K, V]) PeekLast(key K) (K, V, error) {
	return q.peek(func(h *handle[K, V]) (store.ID, error) { return q.lastID(h, key) })
}

// UpdateFront calls fn with the first entry in global order and a pointer to
// its value, valid only for the duration of the call. Unlike Front it does not
// mark q exposed.
func (q *Queue[K, V]) UpdateFront(fn func(key K, value *V)) error {
	return q.update(q.frontID, fn)
}

// UpdateBack is UpdateFront for the last entry in global order.
func (q *Queue[K, V]) UpdateBack(fn func(key K, value *V)) error {
	return q.update(q.backID, fn)
}

// UpdateFirst is UpdateFront for the oldest entry of key.
func (q *Queue[K, V]) UpdateFirst(key K, fn func(key K, value *V)) error {
	return q.update(func(h *handle[K, V]) (store.ID, error) { return q.firstID(h, key) }, fn)
}

// UpdateLast is UpdateFront for the newest entry of key.
func (q *Queue[K, V]) UpdateLast(key K, fn func(key K, value *V)) error {
	return q.update(func(h *handle[K, V]) (store.ID, error) { return q.lastID(h, key) }, fn)
}

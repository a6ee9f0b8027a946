package store

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keys(s *Store[string, int]) []string {
	var out []string
	for id := range s.All() {
		out = append(out, s.Get(id).Key)
	}
	return out
}

func TestStorePushRemoveOrder(t *testing.T) {
	s := New[string, int](0)
	a := s.PushBack("a", 1)
	b := s.PushBack("b", 2)
	c := s.PushBack("c", 3)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, a, s.Front())
	assert.Equal(t, c, s.Back())
	assert.Equal(t, []string{"a", "b", "c"}, keys(s))

	s.Remove(b)
	assert.Equal(t, []string{"a", "c"}, keys(s))
	assert.Equal(t, c, s.Next(a))
	assert.Equal(t, a, s.Prev(c))
	assert.False(t, s.Live(b))

	s.Remove(a)
	assert.Equal(t, c, s.Front())
	assert.Equal(t, None, s.Prev(c))

	s.Remove(c)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, None, s.Front())
	assert.Equal(t, None, s.Back())
}

func TestStoreMoveToBackKeepsIDs(t *testing.T) {
	s := New[string, int](4)
	a := s.PushBack("a", 1)
	s.PushBack("b", 2)
	c := s.PushBack("a", 3)
	s.PushBack("d", 4)

	s.MoveToBack(a)
	s.MoveToBack(c)

	assert.Equal(t, []string{"b", "d", "a", "a"}, keys(s))
	assert.Equal(t, 1, s.Get(a).Value)
	assert.Equal(t, 3, s.Get(c).Value)
	assert.Equal(t, c, s.Back())

	s.MoveToBack(c)
	assert.Equal(t, []string{"b", "d", "a", "a"}, keys(s))
}

func TestStoreRecycledIDGetsFreshSlot(t *testing.T) {
	s := New[string, int](0)
	s.PushBack("keep", 0)
	a := s.PushBack("a", 1)
	alias := &s.Get(a).Value

	s.Remove(a)
	b := s.PushBack("b", 2)
	require.Equal(t, a, b)

	*alias = 100
	assert.Equal(t, 2, s.Get(b).Value)
}

func TestStoreGetPointerSurvivesGrowth(t *testing.T) {
	s := New[int, int](1)
	first := s.PushBack(0, 0)
	alias := &s.Get(first).Value
	for i := 1; i < 100; i++ {
		s.PushBack(i, i)
	}

	*alias = 42
	assert.Equal(t, 42, s.Get(first).Value)
}

func TestStoreCloneIsIndependent(t *testing.T) {
	s := New[string, int](0)
	a := s.PushBack("a", 1)
	s.PushBack("b", 2)
	s.PushBack("c", 3)
	s.MoveToBack(a)

	c := s.Clone()
	require.Equal(t, []string{"b", "c", "a"}, keys(c))

	c.Get(c.Front()).Value = 20
	c.Remove(c.Back())
	assert.Equal(t, 2, s.Get(s.Front()).Value)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2, c.Len())
}

func TestStoreBackwardAndEarlyStop(t *testing.T) {
	s := New[string, int](0)
	for _, k := range []string{"a", "b", "c"} {
		s.PushBack(k, 0)
	}

	var back []string
	for id := range s.Backward() {
		back = append(back, s.Get(id).Key)
	}
	assert.Equal(t, []string{"c", "b", "a"}, back)

	var firstTwo []string
	for id := range s.All() {
		firstTwo = append(firstTwo, s.Get(id).Key)
		if len(firstTwo) == 2 {
			break
		}
	}
	assert.Equal(t, []string{"a", "b"}, firstTwo)
}

func TestStoreClear(t *testing.T) {
	s := New[string, int](0)
	s.PushBack("a", 1)
	s.PushBack("b", 2)
	s.Clear()

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, slices.Collect(s.All()))

	id := s.PushBack("c", 3)
	assert.Equal(t, ID(0), id)
	assert.Equal(t, []string{"c"}, keys(s))
}

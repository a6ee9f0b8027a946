package kvfifo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCommitter struct{ err error }

func (f failingCommitter) PrepareCommit(context.Context) (func(), func(), error) {
	return nil, nil, f.err
}

func TestStageCommitPublishes(t *testing.T) {
	q := filled(t, Entry[string, int]{"a", 1})
	s, err := q.Stage()
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, s.ID())

	work := s.Queue()
	assert.True(t, q.Shared(), "a fresh stage shares the target's storage")
	require.NoError(t, work.Push("b", 2))
	require.NoError(t, work.PopKey("a"))
	assert.Equal(t, []Entry[string, int]{{"a", 1}}, q.Entries(), "target unchanged before commit")

	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, []Entry[string, int]{{"b", 2}}, q.Entries())

	require.NoError(t, work.Push("c", 3))
	assert.Equal(t, 1, q.Len(), "working copy stays private after commit")
	requireConsistent(t, q)
}

func TestCommitAllIsAllOrNothing(t *testing.T) {
	before := CommitCounters()
	left := filled(t, Entry[string, int]{"l", 1})
	right := New[int, string]()

	ls, err := left.Stage()
	require.NoError(t, err)
	rs, err := right.Stage()
	require.NoError(t, err)

	require.NoError(t, ls.Queue().Push("l", 2))
	require.NoError(t, rs.Queue().Push(7, "seven"))

	errPrepare := errors.New("prepare failed")
	err = CommitAll(context.Background(), ls, rs, failingCommitter{errPrepare})
	require.ErrorIs(t, err, errPrepare)
	assert.Equal(t, 1, left.Len())
	assert.True(t, right.Empty())

	require.NoError(t, CommitAll(context.Background(), ls, rs))
	assert.Equal(t, 2, left.Count("l"))
	assert.Equal(t, []Entry[int, string]{{7, "seven"}}, right.Entries())

	after := CommitCounters()
	assert.Equal(t, uint64(2), after.Attempts-before.Attempts)
	assert.Equal(t, uint64(1), after.Failures-before.Failures)
	assert.Equal(t, uint64(2), after.Published-before.Published)
}

func TestCommitAllRejectsNilCommitter(t *testing.T) {
	q := New[string, int]()
	s, err := q.Stage()
	require.NoError(t, err)

	assert.Error(t, CommitAll(context.Background(), s, nil))
}

func TestStageCommitCancelled(t *testing.T) {
	q := filled(t, Entry[string, int]{"a", 1})
	s, err := q.Stage()
	require.NoError(t, err)
	require.NoError(t, s.Queue().Clear())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, s.Commit(ctx), context.Canceled)
	assert.Equal(t, 1, q.Len())
}

func TestStageDiscard(t *testing.T) {
	q := filled(t, Entry[string, int]{"a", 1})
	s, err := q.Stage()
	require.NoError(t, err)
	require.True(t, q.Shared())

	s.Discard()
	assert.False(t, q.Shared())
	require.ErrorIs(t, s.Commit(context.Background()), ErrMovedFrom)
	assert.Equal(t, 1, q.Len())
}

func TestStageCommitRevivesMovedTarget(t *testing.T) {
	q := filled(t, Entry[string, int]{"a", 1})
	s, err := q.Stage()
	require.NoError(t, err)

	moved := q.Move()
	require.NoError(t, s.Commit(context.Background()))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, moved.Len())
}

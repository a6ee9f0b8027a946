package script

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/timzifer/kvfifo"
)

func run(t *testing.T, src string) (*Interpreter, string) {
	t.Helper()
	var out bytes.Buffer
	in := New(&out)
	t.Cleanup(in.Close)
	require.NoError(t, in.Run(context.Background(), strings.NewReader(src)))
	return in, out.String()
}

func TestRunCopyOnWriteSession(t *testing.T) {
	_, out := run(t, `
# build a queue
new a
push a x 1
push a y 2
push a x 3
front a
last a x

clone b a
shared a
push b z 9
shared a
dump a
keys b

alias r a front
set r 10
clone c a     # eager, a has an outstanding alias
set r 11
first c x
first a x

movetoback a x
dump a
count a x
`)
	assert.Equal(t, strings.Join([]string{
		"x 1",
		"x 3",
		"true",
		"false",
		"kvfifo[(x, 1) (y, 2) (x, 3)]",
		"x y z",
		"x 10",
		"x 11",
		"kvfifo[(y, 2) (x, 11) (x, 3)]",
		"2",
	}, "\n")+"\n", out)
}

func TestRunMoveAndStage(t *testing.T) {
	in, out := run(t, `
new a
push a k v
push a k w
move d a
dump a
size d
stage s d
pop s
size d
commit s
size d
discard s
list
`)
	assert.Equal(t, strings.Join([]string{
		"kvfifo(moved)",
		"2",
		"2",
		"1",
		"a queue kvfifo(moved)",
		"d queue kvfifo[(k, w)]",
	}, "\n")+"\n", out)
	assert.Nil(t, in.Queue("s"))
	require.NotNil(t, in.Queue("d"))
	assert.Equal(t, 1, in.Queue("d").Len())
}

func TestAssignRevivesReleasedQueue(t *testing.T) {
	_, out := run(t, `
new a
new b
push b k 1
release a
assign a b
dump a
assignmove a b
dump b
size a
`)
	assert.Equal(t, "kvfifo[(k, 1)]\nkvfifo(moved)\n1\n", out)
}

func TestExecErrors(t *testing.T) {
	in := New(&bytes.Buffer{})
	t.Cleanup(in.Close)
	require.NoError(t, in.Exec("new q"))

	cases := []struct {
		line string
		want error
	}{
		{"frobnicate q", ErrUnknownCommand},
		{"push q k", ErrUsage},
		{"size", ErrUsage},
		{"size nope", ErrUnknownName},
		{"new q", ErrNameTaken},
		{"pop q", kvfifo.ErrEmptyQueue},
		{"first q k", kvfifo.ErrUnknownKey},
		{"alias r q middle", ErrUsage},
		{"set r v", ErrUnknownName},
		{"commit nope", ErrUnknownName},
	}
	for _, tc := range cases {
		assert.ErrorIs(t, in.Exec(tc.line), tc.want, tc.line)
	}

	require.NoError(t, in.Exec("move p q"))
	assert.ErrorIs(t, in.Exec("size q"), kvfifo.ErrMovedFrom)
	assert.ErrorIs(t, in.Exec("clone r q"), kvfifo.ErrMovedFrom)
	assert.ErrorIs(t, in.Exec("push q k v"), kvfifo.ErrMovedFrom)
}

func TestRunReportsLine(t *testing.T) {
	in := New(&bytes.Buffer{})
	t.Cleanup(in.Close)
	err := in.Run(context.Background(), strings.NewReader("new q\n\npop q\n"))
	require.ErrorIs(t, err, kvfifo.ErrEmptyQueue)
	assert.Contains(t, err.Error(), "line 3:")
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := New(&bytes.Buffer{})
	t.Cleanup(in.Close)
	require.ErrorIs(t, in.Run(ctx, strings.NewReader("new q\n")), context.Canceled)
	assert.Nil(t, in.Queue("q"))
}

func TestQueueOptionsApply(t *testing.T) {
	in := New(&bytes.Buffer{}, WithQueueOptions(kvfifo.WithCapacity(8)))
	t.Cleanup(in.Close)
	require.NoError(t, in.Exec("new q"))
	require.NoError(t, in.Exec("push q a b"))
	assert.Equal(t, 1, in.Queue("q").Len())
}

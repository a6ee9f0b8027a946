package chart

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTranscript(t *testing.T) {
	input := strings.Join([]string{
		"NEW 10",
		"1 2 3",
		"2 3",
		"3",
		"NEW 10",
		"  TOP  ",
		"1 004",
		"1",
		"4\t5",
		"NEW 20",
		"TOP",
		"3",
		"1 1",
		"21",
		"NEW 15",
		"foo",
		"0",
		"  ",
		"TOP",
	}, "\n")

	var out, errOut bytes.Buffer
	c := New(&out, &errOut)
	require.NoError(t, c.Process(context.Background(), strings.NewReader(input)))

	assert.Equal(t, strings.Join([]string{
		"3 -", "2 -", "1 -",
		"3 -", "2 -", "1 -",
		"1 2", "4 -", "5 -",
		"1 2", "3 -1", "2 -1", "4 -", "5 -",
		"1 0", "3 0", "2 0", "4 0", "5 0",
	}, "\n")+"\n", out.String())

	assert.Equal(t, strings.Join([]string{
		"Error in line 12: 3",
		"Error in line 13: 1 1",
		"Error in line 14: 21",
		"Error in line 15: NEW 15",
		"Error in line 16: foo",
		"Error in line 17: 0",
	}, "\n")+"\n", errOut.String())
	assert.Equal(t, uint32(20), c.Max())
}

func TestExecErrors(t *testing.T) {
	c := New(&bytes.Buffer{}, &bytes.Buffer{}, WithMaxID(100))

	require.ErrorIs(t, c.Exec("1"), ErrUnknownID)
	require.NoError(t, c.Exec("NEW 50"))
	require.ErrorIs(t, c.Exec("7 8 7"), ErrDuplicate)
	require.ErrorIs(t, c.Exec("51"), ErrUnknownID)
	require.ErrorIs(t, c.Exec("NEW 40"), ErrMaxDecreased)
	require.ErrorIs(t, c.Exec("NEW 101"), ErrMaxTooLarge)
	require.ErrorIs(t, c.Exec("NEW"), ErrSyntax)
	require.ErrorIs(t, c.Exec("NEW 1 2"), ErrSyntax)
	require.ErrorIs(t, c.Exec("TOP 1"), ErrSyntax)
	require.ErrorIs(t, c.Exec("123456789"), ErrSyntax)
	require.ErrorIs(t, c.Exec("-3"), ErrSyntax)
	require.NoError(t, c.Exec("00000000050"))
}

func TestRejectedVoteLineCountsNothing(t *testing.T) {
	c := New(&bytes.Buffer{}, &bytes.Buffer{})
	_, err := c.NewPeriod(10)
	require.NoError(t, err)

	require.ErrorIs(t, c.Vote(1, 11), ErrUnknownID)
	require.NoError(t, c.Vote(2))
	rows, err := c.NewPeriod(10)
	require.NoError(t, err)
	assert.Equal(t, []Row{{ID: 2, Fresh: true}}, rows)
}

func TestTrimmedOutSongIsDropped(t *testing.T) {
	c := New(&bytes.Buffer{}, &bytes.Buffer{}, WithTop(2))
	_, err := c.NewPeriod(10)
	require.NoError(t, err)

	require.NoError(t, c.Vote(1, 2))
	require.NoError(t, c.Vote(1))
	rows, err := c.NewPeriod(10)
	require.NoError(t, err)
	assert.Equal(t, []Row{{ID: 1, Fresh: true}, {ID: 2, Fresh: true}}, rows)

	// 2 still gets a vote but falls behind 1 and 3.
	require.NoError(t, c.Vote(1, 2, 3))
	require.NoError(t, c.Vote(3))
	rows, err = c.NewPeriod(10)
	require.NoError(t, err)
	assert.Equal(t, []Row{{ID: 3, Fresh: true}, {ID: 1, Delta: -1}}, rows)

	require.ErrorIs(t, c.Vote(2), ErrDropped)
	require.NoError(t, c.Vote(1, 3))

	// Cumulative: 1 has 2+1, 3 has 2, 2 has 1 and is trimmed.
	assert.Equal(t, []Row{{ID: 1, Fresh: true}, {ID: 3, Fresh: true}}, c.Top())
	assert.Equal(t, []Row{{ID: 1}, {ID: 3}}, c.Top())
}

func TestTiesPreferSmallerID(t *testing.T) {
	c := New(&bytes.Buffer{}, &bytes.Buffer{})
	_, err := c.NewPeriod(99)
	require.NoError(t, err)
	require.NoError(t, c.Vote(42, 7, 19))
	rows, err := c.NewPeriod(99)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []uint32{7, 19, 42}, []uint32{rows[0].ID, rows[1].ID, rows[2].ID})
}

func TestProcessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	c := New(&out, &out)
	err := c.Process(ctx, strings.NewReader("NEW 5\n1\n"))
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, c.Max())
	assert.Empty(t, out.String())
}

func TestRowString(t *testing.T) {
	assert.Equal(t, "12 -", Row{ID: 12, Fresh: true}.String())
	assert.Equal(t, "12 -3", Row{ID: 12, Delta: -3}.String())
}

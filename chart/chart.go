// Package chart keeps a weekly hit list fed by a line based voting
// protocol.
//
// Input lines are one of
//
//	<id> [<id> ...]   votes in the current period
//	NEW <max>         close the period, the next one accepts ids up to max
//	TOP               print the cumulative ranking
//
// Blank lines are ignored. Any other line, or a vote or NEW line that breaks
// the rules, is reported as "Error in line N: <line>" on the error writer.
package chart

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/btree"
)

// Limits of the protocol.
const (
	DefaultTop   = 7
	DefaultMaxID = 99999999
)

var (
	ErrSyntax       = errors.New("chart: malformed line")
	ErrDuplicate    = errors.New("chart: duplicate vote")
	ErrUnknownID    = errors.New("chart: id above current maximum")
	ErrDropped      = errors.New("chart: id dropped from the chart")
	ErrMaxDecreased = errors.New("chart: maximum must not decrease")
	ErrMaxTooLarge  = errors.New("chart: maximum out of range")
)

const maxLine = 1 << 20

var idToken = regexp.MustCompile(`^0*[1-9][0-9]{0,7}$`)

// Row is one line of a summary. Delta is the previous rank minus the current
// one and is only meaningful when Fresh is false.
type Row struct {
	ID    uint32
	Delta int
	Fresh bool
}

func (r Row) String() string {
	if r.Fresh {
		return fmt.Sprintf("%d -", r.ID)
	}
	return fmt.Sprintf("%d %d", r.ID, r.Delta)
}

type score struct {
	points uint64
	id     uint32
}

// More points first, ties by the smaller id.
func scoreLess(a, b score) bool {
	if a.points != b.points {
		return a.points > b.points
	}
	return a.id < b.id
}

// ranking is the best n scores of a monotonically growing tally.
type ranking struct {
	n     int
	tally map[uint32]uint64
	best  *btree.BTreeG[score]
}

func newRanking(n int) *ranking {
	return &ranking{
		n:     n,
		tally: make(map[uint32]uint64),
		best:  btree.NewG(8, scoreLess),
	}
}

func (r *ranking) add(id uint32, delta uint64) {
	old := r.tally[id]
	r.best.Delete(score{old, id})
	r.tally[id] = old + delta
	r.best.ReplaceOrInsert(score{old + delta, id})
	for r.best.Len() > r.n {
		r.best.DeleteMax()
	}
}

func (r *ranking) contains(id uint32) bool {
	return r.best.Has(score{r.tally[id], id})
}

func (r *ranking) reset() {
	clear(r.tally)
	r.best.Clear(false)
}

// ranks returns the current positions starting at 1.
func (r *ranking) ranks() map[uint32]int {
	out := make(map[uint32]int, r.best.Len())
	r.best.Ascend(func(s score) bool {
		out[s.id] = len(out) + 1
		return true
	})
	return out
}

func (r *ranking) summary(prev map[uint32]int) []Row {
	rows := make([]Row, 0, r.best.Len())
	r.best.Ascend(func(s score) bool {
		row := Row{ID: s.id}
		if p, ok := prev[s.id]; ok {
			row.Delta = p - (len(rows) + 1)
		} else {
			row.Fresh = true
		}
		rows = append(rows, row)
		return true
	})
	return rows
}

// Chart is the hit list state. It is not safe for concurrent use.
type Chart struct {
	out    io.Writer
	errOut io.Writer
	logger *slog.Logger

	top   int
	limit uint32

	max  uint32
	line int

	period    *ranking
	total     *ranking
	prevRank  map[uint32]int
	prevTotal map[uint32]int
	dropped   map[uint32]struct{}
}

// Option configures a Chart.
type Option func(*Chart)

// WithTop sets how many positions a summary lists.
func WithTop(n int) Option {
	return func(c *Chart) {
		if n > 0 {
			c.top = n
		}
	}
}

// WithMaxID sets the largest maximum NEW accepts.
func WithMaxID(n uint32) Option {
	return func(c *Chart) {
		if n > 0 {
			c.limit = n
		}
	}
}

// WithLogger sets the logger for rejected lines and closed periods.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chart) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns an empty chart writing summaries to out and errors to errOut.
// The first period accepts no votes until NEW raises the maximum.
func New(out, errOut io.Writer, opts ...Option) *Chart {
	c := &Chart{
		out:       out,
		errOut:    errOut,
		logger:    slog.New(slog.DiscardHandler),
		top:       DefaultTop,
		limit:     DefaultMaxID,
		prevRank:  make(map[uint32]int),
		prevTotal: make(map[uint32]int),
		dropped:   make(map[uint32]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.period = newRanking(c.top)
	c.total = newRanking(c.top)
	return c
}

// Max returns the largest id the current period accepts.
func (c *Chart) Max() uint32 { return c.max }

// Vote records one vote for each id. The whole call is rejected if an id is
// repeated, above Max or dropped from the chart.
func (c *Chart) Vote(ids ...uint32) error {
	seen := make(map[uint32]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicate, id)
		}
		seen[id] = struct{}{}
	}
	for _, id := range ids {
		if id == 0 || id > c.max {
			return fmt.Errorf("%w: %d", ErrUnknownID, id)
		}
		if _, ok := c.dropped[id]; ok {
			return fmt.Errorf("%w: %d", ErrDropped, id)
		}
	}
	for _, id := range ids {
		c.period.add(id, 1)
	}
	return nil
}

// NewPeriod closes the current period and returns its summary. Positions
// 1..top earn top..1 points in the cumulative ranking; ids that were listed
// in the previous period but not in this one are dropped for good.
func (c *Chart) NewPeriod(next uint32) ([]Row, error) {
	if next > c.limit {
		return nil, fmt.Errorf("%w: %d", ErrMaxTooLarge, next)
	}
	if next < c.max {
		return nil, fmt.Errorf("%w: %d < %d", ErrMaxDecreased, next, c.max)
	}
	rows := c.period.summary(c.prevRank)

	for id := range c.prevRank {
		if !c.period.contains(id) {
			c.dropped[id] = struct{}{}
		}
	}
	c.prevRank = c.period.ranks()
	for id, rank := range c.prevRank {
		c.total.add(id, uint64(c.top-rank+1))
	}

	c.period.reset()
	c.max = next
	c.logger.Debug("period closed",
		slog.Int("listed", len(rows)),
		slog.Int("dropped", len(c.dropped)),
		slog.Uint64("max", uint64(next)))
	return rows, nil
}

// Top returns the cumulative summary relative to the previous call.
func (c *Chart) Top() []Row {
	rows := c.total.summary(c.prevTotal)
	c.prevTotal = c.total.ranks()
	return rows
}

// Exec applies one protocol line and writes its summary, if any, to the
// output writer. Rejected lines return an error wrapping ErrSyntax or one of
// the rule errors; nothing is written to the error writer.
func (c *Chart) Exec(line string) error {
	fields := strings.FieldsFunc(line, isSpace)
	switch {
	case len(fields) == 0:
		return nil
	case len(fields) == 1 && fields[0] == "TOP":
		return c.print(c.Top())
	case len(fields) == 2 && fields[0] == "NEW":
		next, err := parseID(fields[1])
		if err != nil {
			return err
		}
		rows, err := c.NewPeriod(next)
		if err != nil {
			return err
		}
		return c.print(rows)
	}
	ids := make([]uint32, 0, len(fields))
	for _, f := range fields {
		id, err := parseID(f)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}
	return c.Vote(ids...)
}

// Process feeds every line of r to Exec, reporting rejected lines on the
// error writer. It stops at the end of input, on a read or write error, or
// when ctx is done.
func (c *Chart) Process(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.line++
		line := sc.Text()
		err := c.Exec(line)
		if err == nil {
			continue
		}
		var werr *writeError
		if errors.As(err, &werr) {
			return werr.err
		}
		c.logger.Debug("line rejected", slog.Int("line", c.line), slog.Any("error", err))
		if _, err := fmt.Fprintf(c.errOut, "Error in line %d: %s\n", c.line, line); err != nil {
			return err
		}
	}
	return sc.Err()
}

type writeError struct{ err error }

func (e *writeError) Error() string { return "chart: write summary: " + e.err.Error() }
func (e *writeError) Unwrap() error { return e.err }

func (c *Chart) print(rows []Row) error {
	for _, row := range rows {
		if _, err := fmt.Fprintln(c.out, row); err != nil {
			return &writeError{err}
		}
	}
	return nil
}

func parseID(s string) (uint32, error) {
	if !idToken.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrSyntax, s)
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrSyntax, err)
	}
	return uint32(n), nil
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

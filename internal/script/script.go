// Package script drives named string queues from a small line based
// language. It backs the kvfifo command and doubles as a test harness for
// copy-on-write behaviour across many instances.
//
// One command per line, fields separated by white space, '#' starts a
// comment:
//
//	new Q                  create an empty queue Q
//	push Q K V             append (K, V)
//	pop Q [K]              remove the front entry, or the oldest entry of K
//	movetoback Q K         move every entry of K to the back
//	front Q | back Q       print the front or back entry
//	first Q K | last Q K   print the oldest or newest entry of K
//	alias A Q front|back|first K|last K
//	                       keep a mutable reference A to an entry's value
//	set A V                write V through alias A
//	clone D S              D becomes a copy of S
//	move D S               D takes over S, S becomes moved-from
//	assign D S             copy-assign S to an existing D
//	assignmove D S         move-assign S to an existing D
//	clear Q | release Q
//	count Q K | size Q | keys Q | dump Q | shared Q
//	stage S Q              working copy S of Q, usable as a queue named S
//	commit S [S...]        publish stages all-or-nothing
//	discard S
//	stats                  print process-wide sharing counters
package script

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"github.com/timzifer/kvfifo"
)

var (
	ErrUnknownCommand = errors.New("script: unknown command")
	ErrUsage          = errors.New("script: wrong number of arguments")
	ErrUnknownName    = errors.New("script: unknown name")
	ErrNameTaken      = errors.New("script: name already in use")
)

type queue = kvfifo.Queue[string, string]

type stage = kvfifo.Stage[string, string]

// Interpreter holds the named queues, stages and aliases of one script.
// It is not safe for concurrent use.
type Interpreter struct {
	out    io.Writer
	logger *slog.Logger
	qopts  []kvfifo.Option

	queues  map[string]*queue
	stages  map[string]*stage
	aliases map[string]*string
	line    int
	ctx     context.Context
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger for executed commands. It is also handed to
// every queue the script creates.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		if logger != nil {
			in.logger = logger
		}
	}
}

// WithQueueOptions adds options applied to every queue created by new.
func WithQueueOptions(opts ...kvfifo.Option) Option {
	return func(in *Interpreter) {
		in.qopts = append(in.qopts, opts...)
	}
}

// New returns an interpreter printing results to out.
func New(out io.Writer, opts ...Option) *Interpreter {
	in := &Interpreter{
		out:     out,
		logger:  slog.New(slog.DiscardHandler),
		queues:  make(map[string]*queue),
		stages:  make(map[string]*stage),
		aliases: make(map[string]*string),
		ctx:     context.Background(),
	}
	for _, opt := range opts {
		opt(in)
	}
	in.qopts = append(in.qopts, kvfifo.WithLogger(in.logger))
	return in
}

// Run executes r line by line and stops at the first failing command.
// Commits run under ctx.
func (in *Interpreter) Run(ctx context.Context, r io.Reader) error {
	in.ctx = ctx
	defer func() { in.ctx = context.Background() }()
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		in.line++
		if err := in.Exec(sc.Text()); err != nil {
			return fmt.Errorf("line %d: %w", in.line, err)
		}
	}
	return sc.Err()
}

// Exec executes a single line.
func (in *Interpreter) Exec(line string) (err error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	f := strings.Fields(line)
	if len(f) == 0 {
		return nil
	}
	defer func() {
		// Methods without an error result panic on moved-from queues.
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !errors.Is(e, kvfifo.ErrMovedFrom) {
				panic(r)
			}
			err = fmt.Errorf("%s: %w", f[0], e)
		}
	}()
	in.logger.Debug("script: exec", slog.String("cmd", f[0]), slog.Int("args", len(f)-1))

	cmd, ok := commands[f[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, f[0])
	}
	args := f[1:]
	if len(args) < cmd.min || (cmd.max >= 0 && len(args) > cmd.max) {
		return fmt.Errorf("%w: %s", ErrUsage, f[0])
	}
	if err := cmd.run(in, args); err != nil {
		return fmt.Errorf("%s: %w", f[0], err)
	}
	return nil
}

// Close releases every queue and stage still held by the script.
func (in *Interpreter) Close() {
	for name, q := range in.queues {
		if _, ok := in.stages[name]; ok {
			continue
		}
		q.Release()
	}
	for _, s := range in.stages {
		s.Discard()
	}
	clear(in.queues)
	clear(in.stages)
	clear(in.aliases)
}

// Queue returns the queue named name, or nil.
func (in *Interpreter) Queue(name string) *kvfifo.Queue[string, string] {
	return in.queues[name]
}

func (in *Interpreter) lookup(name string) (*queue, error) {
	q, ok := in.queues[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownName, name)
	}
	return q, nil
}

func (in *Interpreter) define(name string, q *queue) error {
	if _, ok := in.queues[name]; ok {
		return fmt.Errorf("%w: %s", ErrNameTaken, name)
	}
	in.queues[name] = q
	return nil
}

func (in *Interpreter) printf(format string, args ...any) error {
	_, err := fmt.Fprintf(in.out, format, args...)
	return err
}

func (in *Interpreter) printEntry(k, v string, err error) error {
	if err != nil {
		return err
	}
	return in.printf("%s %s\n", k, v)
}

func sortedNames[T any](m map[string]T) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

package script

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/timzifer/kvfifo"
)

type command struct {
	min, max int // max < 0 means unbounded
	run      func(in *Interpreter, args []string) error
}

var commands = map[string]command{
	"new":        {1, 1, (*Interpreter).cmdNew},
	"push":       {3, 3, (*Interpreter).cmdPush},
	"pop":        {1, 2, (*Interpreter).cmdPop},
	"movetoback": {2, 2, (*Interpreter).cmdMoveToBack},
	"front":      {1, 1, peekAt("front")},
	"back":       {1, 1, peekAt("back")},
	"first":      {2, 2, peekAt("first")},
	"last":       {2, 2, peekAt("last")},
	"alias":      {3, 4, (*Interpreter).cmdAlias},
	"set":        {2, 2, (*Interpreter).cmdSet},
	"clone":      {2, 2, (*Interpreter).cmdClone},
	"move":       {2, 2, (*Interpreter).cmdMove},
	"assign":     {2, 2, (*Interpreter).cmdAssign},
	"assignmove": {2, 2, (*Interpreter).cmdAssignMove},
	"clear":      {1, 1, (*Interpreter).cmdClear},
	"release":    {1, 1, (*Interpreter).cmdRelease},
	"count":      {2, 2, (*Interpreter).cmdCount},
	"size":       {1, 1, (*Interpreter).cmdSize},
	"keys":       {1, 1, (*Interpreter).cmdKeys},
	"dump":       {1, 1, (*Interpreter).cmdDump},
	"shared":     {1, 1, (*Interpreter).cmdShared},
	"stage":      {2, 2, (*Interpreter).cmdStage},
	"commit":     {1, -1, (*Interpreter).cmdCommit},
	"discard":    {1, 1, (*Interpreter).cmdDiscard},
	"list":       {0, 0, (*Interpreter).cmdList},
	"stats":      {0, 0, (*Interpreter).cmdStats},
}

func (in *Interpreter) cmdNew(args []string) error {
	return in.define(args[0], kvfifo.New[string, string](in.qopts...))
}

func (in *Interpreter) cmdPush(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	return q.Push(args[1], args[2])
}

func (in *Interpreter) cmdPop(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	if len(args) == 2 {
		return q.PopKey(args[1])
	}
	return q.Pop()
}

func (in *Interpreter) cmdMoveToBack(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	return q.MoveToBack(args[1])
}

// peekAt prints through the read-only view, so it never detaches or exposes.
func peekAt(pos string) func(*Interpreter, []string) error {
	return func(in *Interpreter, args []string) error {
		return in.peek(pos, args)
	}
}

func (in *Interpreter) peek(pos string, args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	var r kvfifo.Reader[string, string] = q
	switch pos {
	case "front":
		return in.printEntry(r.PeekFront())
	case "back":
		return in.printEntry(r.PeekBack())
	case "first":
		return in.printEntry(r.PeekFirst(args[1]))
	default:
		return in.printEntry(r.PeekLast(args[1]))
	}
}

func (in *Interpreter) cmdAlias(args []string) error {
	q, err := in.lookup(args[1])
	if err != nil {
		return err
	}
	var p *string
	switch pos := args[2]; {
	case pos == "front" && len(args) == 3:
		_, p, err = q.Front()
	case pos == "back" && len(args) == 3:
		_, p, err = q.Back()
	case pos == "first" && len(args) == 4:
		_, p, err = q.First(args[3])
	case pos == "last" && len(args) == 4:
		_, p, err = q.Last(args[3])
	default:
		return fmt.Errorf("%w: alias position %q", ErrUsage, strings.Join(args[2:], " "))
	}
	if err != nil {
		return err
	}
	in.aliases[args[0]] = p
	return nil
}

func (in *Interpreter) cmdSet(args []string) error {
	p, ok := in.aliases[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownName, args[0])
	}
	*p = args[1]
	return nil
}

func (in *Interpreter) cmdClone(args []string) error {
	src, err := in.lookup(args[1])
	if err != nil {
		return err
	}
	return in.define(args[0], src.Clone())
}

func (in *Interpreter) cmdMove(args []string) error {
	src, err := in.lookup(args[1])
	if err != nil {
		return err
	}
	return in.define(args[0], src.Move())
}

func (in *Interpreter) cmdAssign(args []string) error {
	dst, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	src, err := in.lookup(args[1])
	if err != nil {
		return err
	}
	return dst.Assign(src)
}

func (in *Interpreter) cmdAssignMove(args []string) error {
	dst, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	src, err := in.lookup(args[1])
	if err != nil {
		return err
	}
	return dst.AssignMove(src)
}

func (in *Interpreter) cmdClear(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	return q.Clear()
}

func (in *Interpreter) cmdRelease(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	q.Release()
	return nil
}

func (in *Interpreter) cmdCount(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	return in.printf("%d\n", q.Count(args[1]))
}

func (in *Interpreter) cmdSize(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	return in.printf("%d\n", q.Len())
}

func (in *Interpreter) cmdKeys(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	var keys []string
	for k := range q.Keys() {
		keys = append(keys, k)
	}
	return in.printf("%s\n", strings.Join(keys, " "))
}

func (in *Interpreter) cmdDump(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	return in.printf("%s\n", q)
}

func (in *Interpreter) cmdShared(args []string) error {
	q, err := in.lookup(args[0])
	if err != nil {
		return err
	}
	return in.printf("%t\n", q.Shared())
}

func (in *Interpreter) cmdStage(args []string) error {
	if _, ok := in.queues[args[0]]; ok {
		return fmt.Errorf("%w: %s", ErrNameTaken, args[0])
	}
	q, err := in.lookup(args[1])
	if err != nil {
		return err
	}
	s, err := q.Stage()
	if err != nil {
		return err
	}
	in.stages[args[0]] = s
	in.queues[args[0]] = s.Queue()
	in.logger.Debug("script: staged", slog.String("stage", args[0]), slog.String("id", s.ID().String()))
	return nil
}

func (in *Interpreter) cmdCommit(args []string) error {
	cs := make([]kvfifo.Committer, 0, len(args))
	for _, name := range args {
		s, ok := in.stages[name]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownName, name)
		}
		cs = append(cs, s)
	}
	return kvfifo.CommitAll(in.ctx, cs...)
}

func (in *Interpreter) cmdDiscard(args []string) error {
	s, ok := in.stages[args[0]]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownName, args[0])
	}
	s.Discard()
	delete(in.stages, args[0])
	delete(in.queues, args[0])
	return nil
}

func (in *Interpreter) cmdList([]string) error {
	for _, name := range sortedNames(in.queues) {
		q := in.queues[name]
		kind := "queue"
		if _, ok := in.stages[name]; ok {
			kind = "stage"
		}
		if err := in.printf("%s %s %s\n", name, kind, q); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) cmdStats([]string) error {
	s, c := kvfifo.SharingStats(), kvfifo.CommitCounters()
	return in.printf("shares=%d lazy=%d eager=%d cloned=%d commits=%d failed=%d\n",
		s.Shares, s.LazyDetaches, s.EagerDetaches, s.ClonedEntries, c.Attempts, c.Failures)
}

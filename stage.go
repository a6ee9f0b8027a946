package kvfifo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/timzifer/kvfifo/internal/core"
	"github.com/timzifer/kvfifo/internal/telemetry"
)

// Committer is anything CommitAll can publish: a Stage of any key and value
// type.
type Committer interface {
	PrepareCommit(ctx context.Context) (publish func(), abort func(), err error)
}

// Stage is a working copy of a queue that is published back to it on commit.
// The working copy starts out sharing storage with the target, so staging is
// cheap until the first write.
type Stage[K, V any] struct {
	id     uuid.UUID
	target *Queue[K, V]
	work   *Queue[K, V]
	logger *slog.Logger
}

// Stage starts a stage targeting q.
func (q *Queue[K, V]) Stage() (*Stage[K, V], error) {
	if err := q.usable(); err != nil {
		return nil, err
	}
	return &Stage[K, V]{
		id:     uuid.New(),
		target: q,
		work:   q.Clone(),
		logger: q.cfg.logger,
	}, nil
}

// ID identifies the stage in log records.
func (s *Stage[K, V]) ID() uuid.UUID {
	return s.id
}

// Queue returns the working copy.
func (s *Stage[K, V]) Queue() *Queue[K, V] {
	return s.work
}

// PrepareCommit freezes the current contents of the working copy. publish
// assigns them to the target; abort drops them. Neither touches the working
// copy, which stays usable for further changes.
func (s *Stage[K, V]) PrepareCommit(ctx context.Context) (func(), func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if err := s.work.usable(); err != nil {
		return nil, nil, fmt.Errorf("stage %s: %w", s.id, err)
	}

	snapshot := s.work.Clone()
	publish := func() {
		if err := s.target.Assign(snapshot); err != nil {
			s.logger.Warn("kvfifo: stage publish failed",
				slog.String("stage", s.id.String()),
				slog.Any("error", err))
		}
		snapshot.Release()
		s.logger.Debug("kvfifo: stage published",
			slog.String("stage", s.id.String()),
			slog.Int("entries", s.target.Len()))
	}
	abort := func() {
		snapshot.Release()
		s.logger.Debug("kvfifo: stage aborted", slog.String("stage", s.id.String()))
	}
	return publish, abort, nil
}

// Commit publishes the working copy to the target.
func (s *Stage[K, V]) Commit(ctx context.Context) error {
	return CommitAll(ctx, s)
}

// Discard releases the working copy. The stage must not be used afterwards.
func (s *Stage[K, V]) Discard() {
	s.work.Release()
}

// CommitAll publishes every stage or none of them. Stages are prepared in
// order; if one fails or ctx is cancelled before publication, no target
// changes.
func CommitAll(ctx context.Context, stages ...Committer) error {
	o := core.New(nil)
	for _, s := range stages {
		if err := o.Register(s); err != nil {
			return err
		}
	}
	return o.Commit(ctx)
}

// CommitStats is a snapshot of process-wide CommitAll counters.
type CommitStats struct {
	Attempts uint64
	Failures uint64
	// Published counts stages, not CommitAll calls.
	Published uint64
	Average   time.Duration
}

// CommitCounters returns the current CommitAll counters.
func CommitCounters() CommitStats {
	s := telemetry.DefaultCommitMetrics().Snapshot()
	return CommitStats{
		Attempts:  s.Attempts,
		Failures:  s.Failures,
		Published: s.Published,
		Average:   s.Average,
	}
}

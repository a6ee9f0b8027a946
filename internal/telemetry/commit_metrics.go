package telemetry

import (
	"context"
	"sync/atomic"
	"time"
)

// CommitStats ist eine Momentaufnahme der Commit-Zähler.
type CommitStats struct {
	Attempts  uint64
	Failures  uint64
	Published uint64 // veröffentlichte Teilnehmer, nicht Commits
	Average   time.Duration
}

// CommitMetrics zählt Versuche, Fehlschläge und veröffentlichte Stages.
type CommitMetrics struct {
	nanos     atomic.Int64
	attempts  atomic.Uint64
	failures  atomic.Uint64
	published atomic.Uint64
}

var defaultCommitMetrics CommitMetrics

// DefaultCommitMetrics liefert die globalen Commit-Metriken.
func DefaultCommitMetrics() *CommitMetrics {
	return &defaultCommitMetrics
}

// TraceCommit zählt einen Commit über participants Teilnehmer. Die
// zurückgegebene Funktion meldet das Ergebnis.
func TraceCommit(ctx context.Context, participants int) (context.Context, func(error)) {
	m := &defaultCommitMetrics
	m.attempts.Add(1)
	start := time.Now()
	return ctx, func(err error) {
		m.nanos.Add(int64(time.Since(start)))
		if err != nil {
			m.failures.Add(1)
			return
		}
		m.published.Add(uint64(participants))
	}
}

// Snapshot gibt die gesammelten Werte zurück.
func (m *CommitMetrics) Snapshot() CommitStats {
	s := CommitStats{
		Attempts:  m.attempts.Load(),
		Failures:  m.failures.Load(),
		Published: m.published.Load(),
	}
	if s.Attempts > 0 {
		s.Average = time.Duration(m.nanos.Load() / int64(s.Attempts))
	}
	return s
}

// Reset setzt alle Zähler zurück.
func (m *CommitMetrics) Reset() {
	m.nanos.Store(0)
	m.attempts.Store(0)
	m.failures.Store(0)
	m.published.Store(0)
}

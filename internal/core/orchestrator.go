package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/timzifer/kvfifo/internal/telemetry"
)

// ErrNilParticipant wird von Register für nil-Teilnehmer geliefert.
var ErrNilParticipant = errors.New("core: nil participant")

// Participant beschreibt einen Commit-fähigen Teilnehmer.
//
// PrepareCommit liefert Publish-/Abort-Callbacks. nil-Callbacks werden als
// No-op behandelt.
type Participant interface {
	PrepareCommit(ctx context.Context) (publish func(), abort func(), err error)
}

// Orchestrator serialisiert Commits über alle registrierten Teilnehmer.
type Orchestrator struct {
	mu           sync.Mutex
	participants []Participant
	version      atomic.Uint64
	logger       *slog.Logger
}

// Option konfiguriert einen Orchestrator.
type Option func(*Orchestrator)

// WithLogger setzt den Logger für Abbruch- und Fehlermeldungen.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

type commitObserverKey struct{}

// WithCommitObserver returns a context that notifies observer about the final
// outcome of Commit. On success the observer is invoked immediately before the
// publish callbacks run; on failure it is invoked before the error is returned.
func WithCommitObserver(ctx context.Context, observer func(error)) context.Context {
	if observer == nil {
		return ctx
	}
	return context.WithValue(ctx, commitObserverKey{}, observer)
}

// New erzeugt einen Orchestrator für die angegebenen Teilnehmer.
func New(participants []Participant, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		participants: append([]Participant(nil), participants...),
		logger:       slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Register hängt zur Laufzeit einen weiteren Teilnehmer an.
func (o *Orchestrator) Register(p Participant) error {
	if p == nil {
		return ErrNilParticipant
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	o.participants = append(o.participants, p)
	return nil
}

// Len liefert die Anzahl registrierter Teilnehmer.
func (o *Orchestrator) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.participants)
}

// Version gibt den aktuell veröffentlichten Commit-Stand zurück.
func (o *Orchestrator) Version() uint64 {
	return o.version.Load()
}

// Commit führt beide Phasen für alle Teilnehmer innerhalb einer globalen
// kritischen Sektion aus.
func (o *Orchestrator) Commit(ctx context.Context) (err error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	ctx, finish := telemetry.TraceCommit(ctx, len(o.participants))
	defer func() { finish(err) }()

	observer, _ := ctx.Value(commitObserverKey{}).(func(error))
	notify := func(err error) {
		if observer != nil {
			observer(err)
		}
	}

	if len(o.participants) == 0 {
		notify(nil)
		return nil
	}

	publishes := make([]func(), 0, len(o.participants))
	aborts := make([]func(), 0, len(o.participants))

	for i, p := range o.participants {
		if err = ctx.Err(); err != nil {
			break
		}
		var publish, abort func()
		publish, abort, err = p.PrepareCommit(ctx)
		if err != nil {
			err = fmt.Errorf("prepare participant %d: %w", i, err)
			break
		}
		if publish == nil {
			publish = func() {}
		}
		if abort == nil {
			abort = func() {}
		}
		publishes = append(publishes, publish)
		aborts = append(aborts, abort)
	}

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		for i := len(aborts) - 1; i >= 0; i-- {
			aborts[i]()
		}
		o.logger.Debug("commit aborted",
			slog.Int("prepared", len(aborts)),
			slog.Int("participants", len(o.participants)),
			slog.Any("error", err))
		notify(err)
		return err
	}

	notify(nil)
	for _, publish := range publishes {
		publish()
	}

	version := o.version.Add(1)
	o.logger.Debug("commit published",
		slog.Uint64("version", version),
		slog.Int("participants", len(publishes)))
	return nil
}

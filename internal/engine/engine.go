// Package engine drives a live workout session: it owns the current
// Session value, advances both clocks from a single one-second tick,
// applies ledger mutations, autosaves after every change, and handles
// the completion/discard/recovery lifecycle.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/claude/repline/internal/workout"
)

var (
	// ErrNoSession is returned by mutations that need an active session.
	ErrNoSession = errors.New("no active session")
	// ErrSessionCompleted rejects mutations after the terminal transition.
	ErrSessionCompleted = errors.New("session already completed")
	// ErrCompletionInFlight rejects a second completion while scoring runs.
	ErrCompletionInFlight = errors.New("completion already in flight")
)

// Store is the single-key persistence contract the engine autosaves
// through. Load returns (nil, nil) when nothing is stored.
type Store interface {
	Save(s *workout.Session) error
	Load() (*workout.Session, error)
	Clear() error
}

// ScoreResult is what the scoring collaborator returns for a finished
// session. Grade may be empty; the engine defaults it.
type ScoreResult struct {
	Score     float64            `json:"score"`
	Grade     string             `json:"grade,omitempty"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
}

// Scorer grades a finished session. It is the one external call the
// engine awaits.
type Scorer interface {
	Score(ctx context.Context, s *workout.Session, m workout.LiveMetrics) (*ScoreResult, error)
}

// Archiver receives completed summaries for long-term storage. Archive
// failures are logged, never surfaced: history is best-effort.
type Archiver interface {
	ArchiveWorkout(ctx context.Context, sum *workout.Summary, s *workout.Session) error
}

// Engine serializes all access behind one mutex: the host runs HTTP
// handlers and the ticker on separate goroutines even though the
// product model is a single user in a single window.
type Engine struct {
	mu           sync.Mutex
	session      *workout.Session
	lastSummary  *workout.Summary
	completing   bool
	bodyWeightKg float64

	store   Store
	scorer  Scorer
	archive Archiver
	log     *slog.Logger

	// saveMu serializes store operations. saveSeq (assigned under mu)
	// and saveApplied (under saveMu) order them, so a snapshot that
	// lost the race to a newer snapshot or to a clear is dropped
	// instead of resurrecting stale state.
	saveMu      sync.Mutex
	saveSeq     uint64
	saveApplied uint64

	obsMu     sync.Mutex
	observers []func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithArchiver attaches a history archiver for completed workouts.
func WithArchiver(a Archiver) Option {
	return func(e *Engine) { e.archive = a }
}

// WithBodyWeight sets the athlete's body weight in kg for calorie
// estimation. Zero disables the estimate.
func WithBodyWeight(kg float64) Option {
	return func(e *Engine) { e.bodyWeightKg = kg }
}

// New creates an idle engine. store and scorer are required; a nil
// store degrades to in-memory-only operation.
func New(store Store, scorer Scorer, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		scorer: scorer,
		log:    log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drives the tick loop until ctx is cancelled. The ticker is the
// only goroutine the engine owns; cancelling ctx is the guaranteed
// cancellation path for both clocks.
func (e *Engine) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.Tick()
		}
	}
}

// Tick advances both clocks by one second. The elapsed clock runs only
// while unpaused; the rest countdown auto-stops at zero. A completed
// or absent session makes this a no-op, so a tick that races the
// terminal transition can never mutate a finished session.
func (e *Engine) Tick() {
	e.mu.Lock()
	s := e.session
	if s == nil || s.Completed {
		e.mu.Unlock()
		return
	}

	if !s.Paused {
		s.ElapsedSeconds++
	}
	if s.RestTimerActive {
		s.RestTimerRemaining--
		if s.RestTimerRemaining <= 0 {
			s.RestTimerRemaining = 0
			s.RestTimerActive = false
		}
	}
	e.persistLocked()
	e.mu.Unlock()
	e.notify()
}

// TogglePause freezes or resumes the elapsed clock.
func (e *Engine) TogglePause() error {
	return e.mutate(func(s *workout.Session) {
		s.Paused = !s.Paused
	})
}

// StartRestTimer begins a countdown of the given duration; zero or
// negative means the sticky default.
func (e *Engine) StartRestTimer(seconds int) error {
	return e.mutate(func(s *workout.Session) {
		if seconds <= 0 {
			seconds = s.DefaultRestSeconds
		}
		s.RestTimerActive = true
		s.RestTimerSeconds = seconds
		s.RestTimerRemaining = seconds
	})
}

// SkipRestTimer forces the countdown's terminal state immediately.
func (e *Engine) SkipRestTimer() error {
	return e.mutate(func(s *workout.Session) {
		s.RestTimerActive = false
		s.RestTimerRemaining = 0
	})
}

// ExtendRestTimer adds time to an in-flight countdown without
// resetting its progress.
func (e *Engine) ExtendRestTimer(extra int) error {
	if extra <= 0 {
		return nil
	}
	return e.mutate(func(s *workout.Session) {
		if !s.RestTimerActive {
			return
		}
		s.RestTimerSeconds += extra
		s.RestTimerRemaining += extra
	})
}

// SetDefaultRest changes the sticky default used by future rest timers
// started without an explicit duration. An in-flight countdown is not
// affected.
func (e *Engine) SetDefaultRest(seconds int) error {
	if seconds <= 0 {
		return nil
	}
	return e.mutate(func(s *workout.Session) {
		s.DefaultRestSeconds = seconds
	})
}

// Session returns a deep copy of the current session, or nil when
// idle.
func (e *Engine) Session() *workout.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Clone()
}

// Metrics derives live metrics from the current session.
func (e *Engine) Metrics() workout.LiveMetrics {
	e.mu.Lock()
	defer e.mu.Unlock()
	return workout.Metrics(e.session, e.bodyWeightKg)
}

// LastSummary returns the summary of the most recent completion, nil
// if none this process lifetime.
func (e *Engine) LastSummary() *workout.Summary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSummary
}

// Subscribe registers a callback invoked after every state change.
// Callbacks run outside the engine lock and must not block.
func (e *Engine) Subscribe(fn func()) {
	e.obsMu.Lock()
	e.observers = append(e.observers, fn)
	e.obsMu.Unlock()
}

func (e *Engine) notify() {
	e.obsMu.Lock()
	obs := make([]func(), len(e.observers))
	copy(obs, e.observers)
	e.obsMu.Unlock()
	for _, fn := range obs {
		fn()
	}
}

// mutate applies fn to the session in place under the lock, then
// autosaves and notifies. The engine owns its session value
// exclusively, so in-place mutation here is safe; external readers
// only ever see clones.
func (e *Engine) mutate(fn func(s *workout.Session)) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return ErrNoSession
	}
	if e.session.Completed {
		e.mu.Unlock()
		return ErrSessionCompleted
	}
	fn(e.session)
	e.persistLocked()
	e.mu.Unlock()
	e.notify()
	return nil
}

// persistLocked snapshots the session and hands it to the store on a
// separate goroutine, so the tick path never blocks on I/O. Each
// snapshot carries a sequence number assigned under the session lock;
// the writer applies only writes newer than the last applied one, so
// the latest snapshot always wins and a straggler cannot land after a
// newer save or a clear.
func (e *Engine) persistLocked() {
	if e.store == nil || e.session == nil {
		return
	}
	e.saveSeq++
	seq := e.saveSeq
	snap := e.session.Clone()
	go func() {
		e.saveMu.Lock()
		defer e.saveMu.Unlock()
		if seq <= e.saveApplied {
			return
		}
		e.saveApplied = seq
		if err := e.store.Save(snap); err != nil {
			e.log.Warn("autosave failed", "session_id", snap.ID, "error", err)
		}
	}()
}

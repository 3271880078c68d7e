package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/claude/repline/internal/workout"
)

// Start builds a fresh session from the template and makes it the
// active one, replacing whatever was there before. A nil template
// leaves the engine idle and returns nil.
func (e *Engine) Start(tpl *workout.Template, history workout.History) *workout.Session {
	s := workout.NewSession(tpl, history)
	if s == nil {
		return nil
	}

	e.mu.Lock()
	e.session = s
	e.lastSummary = nil
	e.persistLocked()
	snap := s.Clone()
	e.mu.Unlock()

	e.notify()
	e.log.Info("session started", "session_id", s.ID, "name", s.Name, "exercises", len(s.Exercises))
	return snap
}

// replace swaps in the session value produced by a ledger operation.
// Ledger ops return the input unchanged for no-ops, in which case
// nothing is persisted or announced.
func (e *Engine) replace(op func(s *workout.Session) *workout.Session) error {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return ErrNoSession
	}
	if e.session.Completed {
		e.mu.Unlock()
		return ErrSessionCompleted
	}
	next := op(e.session)
	if next == e.session {
		e.mu.Unlock()
		return nil
	}
	e.session = next
	e.persistLocked()
	e.mu.Unlock()
	e.notify()
	return nil
}

// UpdateSet writes one weight/reps field on a set.
func (e *Engine) UpdateSet(exIdx, setIdx int, field workout.SetField, value string) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.UpdateSet(s, exIdx, setIdx, field, value)
	})
}

// CompleteSet marks a set done.
func (e *Engine) CompleteSet(exIdx, setIdx int) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.CompleteSet(s, exIdx, setIdx)
	})
}

// AddSet appends a set to an exercise.
func (e *Engine) AddSet(exIdx int) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.AddSet(s, exIdx)
	})
}

// RemoveSet deletes a set, keeping at least one per exercise.
func (e *Engine) RemoveSet(exIdx, setIdx int) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.RemoveSet(s, exIdx, setIdx)
	})
}

// UpdateNotes replaces an exercise's notes.
func (e *Engine) UpdateNotes(exIdx int, notes string) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.UpdateNotes(s, exIdx, notes)
	})
}

// IncrementWeight nudges a set's weight by delta.
func (e *Engine) IncrementWeight(exIdx, setIdx int, delta float64) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.IncrementWeight(s, exIdx, setIdx, delta)
	})
}

// SwapExercise substitutes a different movement into a slot.
func (e *Engine) SwapExercise(exIdx int, desc workout.ExerciseDescriptor) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.SwapExercise(s, exIdx, desc)
	})
}

// SetCurrentExercise moves the execution cursor.
func (e *Engine) SetCurrentExercise(idx int) error {
	return e.replace(func(s *workout.Session) *workout.Session {
		return workout.SetCurrentExercise(s, idx)
	})
}

// Complete finalizes the session: detect PRs, score it, assemble the
// summary, mark the session terminal, and clear the autosave record.
// With no active session it returns (nil, nil). The scoring call is
// awaited outside the lock; while it runs, a second Complete is
// rejected with ErrCompletionInFlight. A scoring failure leaves the
// session active and clears the guard so the caller can retry.
func (e *Engine) Complete(ctx context.Context) (*workout.Summary, error) {
	e.mu.Lock()
	if e.session == nil {
		e.mu.Unlock()
		return nil, nil
	}
	if e.session.Completed {
		e.mu.Unlock()
		return nil, ErrSessionCompleted
	}
	if e.completing {
		e.mu.Unlock()
		return nil, ErrCompletionInFlight
	}
	e.completing = true
	snap := e.session.Clone()
	metrics := workout.Metrics(e.session, e.bodyWeightKg)
	e.mu.Unlock()

	result, err := e.scorer.Score(ctx, snap, metrics)
	if err != nil {
		e.mu.Lock()
		e.completing = false
		e.mu.Unlock()
		return nil, fmt.Errorf("scoring workout: %w", err)
	}

	grade := result.Grade
	if grade == "" {
		grade = "C"
	}

	e.mu.Lock()
	// Ticks kept running during scoring; rederive from the final state.
	metrics = workout.Metrics(e.session, e.bodyWeightKg)
	records := workout.DetectRecords(e.session)
	sum := &workout.Summary{
		SessionID:          e.session.ID,
		Name:               e.session.Name,
		Type:               e.session.Type,
		StartedAt:          e.session.StartedAt,
		CompletedAt:        time.Now(),
		DurationSeconds:    e.session.ElapsedSeconds,
		TotalVolume:        metrics.TotalVolume,
		TotalSets:          metrics.CompletedSets,
		ExercisesCompleted: metrics.ExercisesWorked,
		EstimatedCalories:  metrics.EstimatedCalories,
		Score:              result.Score,
		Grade:              grade,
		Breakdown:          result.Breakdown,
		Records:            records,
	}
	e.session.Completed = true
	e.session.RestTimerActive = false
	e.lastSummary = sum
	e.completing = false
	final := e.session.Clone()
	e.mu.Unlock()
	e.notify()

	e.clearAutosave(sum.SessionID)

	if e.archive != nil {
		if err := e.archive.ArchiveWorkout(ctx, sum, final); err != nil {
			e.log.Warn("workout archive failed", "session_id", sum.SessionID, "error", err)
		}
	}

	e.log.Info("session completed", "session_id", sum.SessionID,
		"volume", sum.TotalVolume, "sets", sum.TotalSets, "grade", sum.Grade, "prs", len(records))
	return sum, nil
}

// Discard drops the active session and summary without scoring and
// clears the autosave record.
func (e *Engine) Discard() {
	e.mu.Lock()
	s := e.session
	e.session = nil
	e.lastSummary = nil
	e.mu.Unlock()
	e.notify()

	if s != nil {
		e.clearAutosave(s.ID)
		e.log.Info("session discarded", "session_id", s.ID)
	}
}

// Recover reloads an interrupted session from the autosave record.
// It reports false when there is nothing usable: no record, a read
// error, a record already marked completed, or an engine that already
// has a session. A recovered session always comes back paused; the
// lifter decides when the clock resumes.
func (e *Engine) Recover() bool {
	if e.store == nil {
		return false
	}

	s, err := e.store.Load()
	if err != nil {
		e.log.Warn("autosave read failed, nothing to recover", "error", err)
		return false
	}
	if s == nil || s.Completed {
		return false
	}

	e.mu.Lock()
	if e.session != nil {
		e.mu.Unlock()
		return false
	}
	s.Paused = true
	e.session = s
	e.mu.Unlock()
	e.notify()

	e.log.Info("session recovered", "session_id", s.ID, "elapsed_seconds", s.ElapsedSeconds)
	return true
}

// clearAutosave removes the stored snapshot. The clear takes a
// sequence number like every save, so a save still in flight when the
// session ends is either applied before the clear or dropped after it;
// it can never resurrect the record.
func (e *Engine) clearAutosave(sessionID string) {
	if e.store == nil {
		return
	}
	e.mu.Lock()
	e.saveSeq++
	seq := e.saveSeq
	e.mu.Unlock()

	e.saveMu.Lock()
	defer e.saveMu.Unlock()
	if seq <= e.saveApplied {
		return
	}
	e.saveApplied = seq
	if err := e.store.Clear(); err != nil {
		e.log.Warn("autosave clear failed", "session_id", sessionID, "error", err)
	}
}

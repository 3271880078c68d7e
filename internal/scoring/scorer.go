// Package scoring grades finished workout sessions. It implements the
// engine's Scorer contract with a deterministic local formula.
package scoring

import (
	"context"

	"github.com/claude/repline/internal/engine"
	"github.com/claude/repline/internal/workout"
)

// Scorer computes a 0-100 score from completion ratio, volume, and
// session length, then maps it to a letter grade.
type Scorer struct{}

// New returns a Scorer.
func New() *Scorer {
	return &Scorer{}
}

// Compile-time check: *Scorer satisfies engine.Scorer.
var _ engine.Scorer = (*Scorer)(nil)

// Weighting: finishing planned sets dominates, volume and putting in
// time round it out.
const (
	completionPoints = 60.0
	volumePoints     = 25.0
	durationPoints   = 15.0

	// Full volume credit at 5000 kg moved, full duration credit at 45 min.
	fullCreditVolume   = 5000.0
	fullCreditDuration = 45 * 60
)

// Score implements engine.Scorer.
func (sc *Scorer) Score(_ context.Context, s *workout.Session, m workout.LiveMetrics) (*engine.ScoreResult, error) {
	planned := 0
	for _, ex := range s.Exercises {
		planned += len(ex.Sets)
	}

	completion := 0.0
	if planned > 0 {
		completion = float64(m.CompletedSets) / float64(planned)
	}

	volume := m.TotalVolume / fullCreditVolume
	if volume > 1 {
		volume = 1
	}
	duration := float64(s.ElapsedSeconds) / fullCreditDuration
	if duration > 1 {
		duration = 1
	}

	breakdown := map[string]float64{
		"completion": completion * completionPoints,
		"volume":     volume * volumePoints,
		"duration":   duration * durationPoints,
	}
	score := breakdown["completion"] + breakdown["volume"] + breakdown["duration"]

	return &engine.ScoreResult{
		Score:     score,
		Grade:     gradeFor(score),
		Breakdown: breakdown,
	}, nil
}

func gradeFor(score float64) string {
	switch {
	case score >= 90:
		return "A"
	case score >= 75:
		return "B"
	case score >= 50:
		return "C"
	case score >= 25:
		return "D"
	default:
		return "F"
	}
}

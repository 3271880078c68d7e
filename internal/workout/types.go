// Package workout holds the live-session data model and the pure
// operations over it: building a session from a template, mutating its
// set ledger, deriving metrics, and detecting personal records.
package workout

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// Set is one performance of an exercise within a session. Weight and
// reps stay strings at the model boundary so partial user input ("8.")
// survives round trips; they are parsed defensively wherever numbers
// are needed.
type Set struct {
	SetNumber   int        `json:"set_number"`
	Weight      string     `json:"weight"`
	Reps        string     `json:"reps"`
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SetRecord is a historical weight/reps pair for an exercise,
// most-recent-first, used for PR comparison and weight pre-fill.
type SetRecord struct {
	Weight float64 `json:"weight"`
	Reps   int     `json:"reps"`
}

// Exercise is one slot in the session's execution order. Sets never
// drops below length 1.
type Exercise struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	MuscleGroup  string      `json:"muscle_group,omitempty"`
	Tips         string      `json:"tips,omitempty"`
	TargetReps   string      `json:"target_reps,omitempty"`
	Notes        string      `json:"notes"`
	Sets         []Set       `json:"sets"`
	PreviousBest []SetRecord `json:"previous_best,omitempty"`
}

// Session is the live, mutable record of one in-progress workout. It is
// owned by the engine for its lifetime; ledger operations return fresh
// copies rather than mutating in place.
type Session struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Emoji     string     `json:"emoji,omitempty"`
	Type      string     `json:"type"`
	Exercises []Exercise `json:"exercises"`

	CurrentExerciseIndex int       `json:"current_exercise_index"`
	StartedAt            time.Time `json:"started_at"`
	ElapsedSeconds       int       `json:"elapsed_seconds"`
	Paused               bool      `json:"paused"`
	Completed            bool      `json:"completed"`

	RestTimerActive    bool `json:"rest_timer_active"`
	RestTimerSeconds   int  `json:"rest_timer_seconds"`
	RestTimerRemaining int  `json:"rest_timer_remaining"`
	DefaultRestSeconds int  `json:"default_rest_seconds"`
}

// Clone returns a deep copy of the session. Ledger operations clone
// before mutating so callers holding the previous value never observe
// a change.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Exercises = make([]Exercise, len(s.Exercises))
	for i, ex := range s.Exercises {
		out.Exercises[i] = ex.clone()
	}
	return &out
}

func (e Exercise) clone() Exercise {
	out := e
	out.Sets = make([]Set, len(e.Sets))
	for i, set := range e.Sets {
		out.Sets[i] = set
		if set.CompletedAt != nil {
			ts := *set.CompletedAt
			out.Sets[i].CompletedAt = &ts
		}
	}
	if e.PreviousBest != nil {
		out.PreviousBest = append([]SetRecord(nil), e.PreviousBest...)
	}
	return out
}

// PRType distinguishes the two kinds of personal record.
type PRType string

const (
	PRWeight PRType = "weight"
	PRReps   PRType = "reps"
)

// PersonalRecord is a newly-exceeded historical best for one exercise,
// emitted at most once per exercise per completion.
type PersonalRecord struct {
	ExerciseName string  `json:"exercise_name"`
	Type         PRType  `json:"pr_type"`
	NewValue     float64 `json:"new_value"`
	OldValue     float64 `json:"old_value"`
}

// Summary is the immutable result of completing a session.
type Summary struct {
	SessionID          string             `json:"session_id"`
	Name               string             `json:"name"`
	Type               string             `json:"type"`
	StartedAt          time.Time          `json:"started_at"`
	CompletedAt        time.Time          `json:"completed_at"`
	DurationSeconds    int                `json:"duration_seconds"`
	TotalVolume        float64            `json:"total_volume"`
	TotalSets          int                `json:"total_sets"`
	ExercisesCompleted int                `json:"exercises_completed"`
	EstimatedCalories  float64            `json:"estimated_calories"`
	Score              float64            `json:"score"`
	Grade              string             `json:"grade"`
	Breakdown          map[string]float64 `json:"breakdown,omitempty"`
	Records            []PersonalRecord   `json:"prs"`
}

// Template is the workout plan a session is built from. Content
// generation lives elsewhere; by the time a template reaches the
// builder it is fully formed. MainSet takes precedence over Exercises
// when both are present.
type Template struct {
	Name      string             `json:"name"`
	Emoji     string             `json:"emoji,omitempty"`
	Type      string             `json:"type"`
	MainSet   []TemplateExercise `json:"main_set,omitempty"`
	Exercises []TemplateExercise `json:"exercises,omitempty"`
}

// TemplateExercise describes one planned exercise.
type TemplateExercise struct {
	Name        string   `json:"name"`
	Sets        SetCount `json:"sets"`
	Reps        string   `json:"reps,omitempty"`
	Rest        string   `json:"rest,omitempty"`
	MuscleGroup string   `json:"muscle_group,omitempty"`
	Tips        string   `json:"tips,omitempty"`
}

// SetCount tolerates templates that declare set counts as numbers or
// numeric strings ("3", "3x"). Anything unparseable decodes to zero
// and the builder falls back to its default.
type SetCount int

func (c *SetCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*c = SetCount(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*c = 0
		return nil
	}
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		*c = 0
		return nil
	}
	*c = SetCount(n)
	return nil
}

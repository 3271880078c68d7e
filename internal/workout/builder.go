package workout

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultSetCount is used when a template declares no usable set count.
const DefaultSetCount = 3

// DefaultRestSeconds is the initial sticky rest-timer preference.
const DefaultRestSeconds = 90

// History maps exercise name to historical weight/reps entries,
// most-recent-first.
type History map[string][]SetRecord

// NewSession builds the initial mutable session from a template. A nil
// template yields a nil session, the idle pre-workout state. When
// history carries entries for an exercise, set i pre-fills its weight
// from entry i; reps are always left for the user.
func NewSession(tpl *Template, history History) *Session {
	if tpl == nil {
		return nil
	}

	planned := tpl.MainSet
	if len(planned) == 0 {
		planned = tpl.Exercises
	}

	s := &Session{
		ID:                 newSessionID(),
		Name:               tpl.Name,
		Emoji:              tpl.Emoji,
		Type:               tpl.Type,
		Exercises:          make([]Exercise, 0, len(planned)),
		StartedAt:          time.Now(),
		RestTimerSeconds:   DefaultRestSeconds,
		DefaultRestSeconds: DefaultRestSeconds,
	}

	for _, te := range planned {
		count := int(te.Sets)
		if count < 1 {
			count = DefaultSetCount
		}

		prev := lookupHistory(history, te.Name)
		ex := Exercise{
			ID:           uuid.NewString(),
			Name:         te.Name,
			MuscleGroup:  te.MuscleGroup,
			Tips:         te.Tips,
			TargetReps:   te.Reps,
			Sets:         make([]Set, count),
			PreviousBest: prev,
		}
		for i := range ex.Sets {
			ex.Sets[i] = Set{SetNumber: i + 1}
			if i < len(prev) {
				ex.Sets[i].Weight = formatWeight(prev[i].Weight)
			}
		}
		s.Exercises = append(s.Exercises, ex)
	}

	return s
}

// newSessionID combines a millisecond timestamp with a random suffix so
// two sessions started from the same template never collide.
func newSessionID() string {
	return fmt.Sprintf("%d-%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}

func lookupHistory(h History, name string) []SetRecord {
	if h == nil {
		return nil
	}
	if recs, ok := h[name]; ok {
		return append([]SetRecord(nil), recs...)
	}
	// Template names and logged names can differ in casing.
	for k, recs := range h {
		if strings.EqualFold(k, name) {
			return append([]SetRecord(nil), recs...)
		}
	}
	return nil
}

func formatWeight(w float64) string {
	if w == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", w), "0"), ".")
}

package workout

import (
	"strconv"
	"strings"
	"time"
)

// SetField names a user-editable field on a set.
type SetField string

const (
	FieldWeight SetField = "weight"
	FieldReps   SetField = "reps"
)

// Ledger operations return a fresh session value and leave the input
// untouched, so the host can keep prior snapshots for undo or
// re-render diffing. Out-of-bounds indices and other structural
// violations are no-ops returning the input unchanged; a completed
// session is terminal and rejects every mutation the same way.

// UpdateSet writes a single weight or reps field. The value is stored
// verbatim; numeric parsing happens at metric computation time.
func UpdateSet(s *Session, exIdx, setIdx int, field SetField, value string) *Session {
	if !setInBounds(s, exIdx, setIdx) {
		return s
	}
	out := s.Clone()
	set := &out.Exercises[exIdx].Sets[setIdx]
	switch field {
	case FieldWeight:
		set.Weight = value
	case FieldReps:
		set.Reps = value
	default:
		return s
	}
	return out
}

// CompleteSet marks a set done and stamps the completion time.
// Completing an already-completed set just re-stamps.
func CompleteSet(s *Session, exIdx, setIdx int) *Session {
	if !setInBounds(s, exIdx, setIdx) {
		return s
	}
	out := s.Clone()
	now := time.Now()
	set := &out.Exercises[exIdx].Sets[setIdx]
	set.Completed = true
	set.CompletedAt = &now
	return out
}

// AddSet appends one set to an exercise, pre-filling its weight from
// the current last set so progressive sets start from where the lifter
// left off.
func AddSet(s *Session, exIdx int) *Session {
	if !exerciseInBounds(s, exIdx) {
		return s
	}
	out := s.Clone()
	sets := out.Exercises[exIdx].Sets
	next := Set{SetNumber: len(sets) + 1}
	if len(sets) > 0 {
		next.Weight = sets[len(sets)-1].Weight
	}
	out.Exercises[exIdx].Sets = append(sets, next)
	return out
}

// RemoveSet deletes a set and renumbers the remainder contiguously.
// An exercise always keeps at least one set; removing the last one is
// a no-op.
func RemoveSet(s *Session, exIdx, setIdx int) *Session {
	if !setInBounds(s, exIdx, setIdx) {
		return s
	}
	if len(s.Exercises[exIdx].Sets) <= 1 {
		return s
	}
	out := s.Clone()
	sets := out.Exercises[exIdx].Sets
	sets = append(sets[:setIdx], sets[setIdx+1:]...)
	for i := range sets {
		sets[i].SetNumber = i + 1
	}
	out.Exercises[exIdx].Sets = sets
	return out
}

// UpdateNotes replaces an exercise's notes.
func UpdateNotes(s *Session, exIdx int, notes string) *Session {
	if !exerciseInBounds(s, exIdx) {
		return s
	}
	out := s.Clone()
	out.Exercises[exIdx].Notes = notes
	return out
}

// IncrementWeight nudges a set's weight by delta, treating a blank or
// unparseable current value as zero and clamping the result at zero.
func IncrementWeight(s *Session, exIdx, setIdx int, delta float64) *Session {
	if !setInBounds(s, exIdx, setIdx) {
		return s
	}
	out := s.Clone()
	set := &out.Exercises[exIdx].Sets[setIdx]
	w := ParseNumber(set.Weight) + delta
	if w < 0 {
		w = 0
	}
	set.Weight = strconv.FormatFloat(w, 'f', -1, 64)
	return out
}

// ExerciseDescriptor carries the replacement identity for a swap.
type ExerciseDescriptor struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group,omitempty"`
	Tips        string `json:"tips,omitempty"`
}

// SwapExercise substitutes a different movement into a slot. The set
// count and numbering survive, but all entered data, notes, and the
// historical baseline are cleared since they belonged to the old
// movement.
func SwapExercise(s *Session, exIdx int, desc ExerciseDescriptor) *Session {
	if !exerciseInBounds(s, exIdx) {
		return s
	}
	out := s.Clone()
	ex := &out.Exercises[exIdx]
	ex.ID = desc.ID
	ex.Name = desc.Name
	ex.MuscleGroup = desc.MuscleGroup
	ex.Tips = desc.Tips
	ex.Notes = ""
	ex.PreviousBest = nil
	for i := range ex.Sets {
		ex.Sets[i].Weight = ""
		ex.Sets[i].Reps = ""
		ex.Sets[i].Completed = false
		ex.Sets[i].CompletedAt = nil
	}
	return out
}

// SetCurrentExercise moves the execution cursor.
func SetCurrentExercise(s *Session, idx int) *Session {
	if !exerciseInBounds(s, idx) {
		return s
	}
	out := s.Clone()
	out.CurrentExerciseIndex = idx
	return out
}

func exerciseInBounds(s *Session, exIdx int) bool {
	return s != nil && !s.Completed && exIdx >= 0 && exIdx < len(s.Exercises)
}

func setInBounds(s *Session, exIdx, setIdx int) bool {
	return exerciseInBounds(s, exIdx) && setIdx >= 0 && setIdx < len(s.Exercises[exIdx].Sets)
}

// ParseNumber parses user-entered numeric text, returning 0 for blank,
// malformed, or negative input.
func ParseNumber(v string) float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

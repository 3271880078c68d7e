package workout

import "testing"

func testSession() *Session {
	return NewSession(&Template{
		Name: "Legs",
		Type: "strength",
		Exercises: []TemplateExercise{
			{Name: "Squat", Sets: 3},
			{Name: "Leg Press", Sets: 2},
		},
	}, nil)
}

// TestUpdateSetImmutable verifies that ledger operations leave the
// input session untouched and return a fresh value.
func TestUpdateSetImmutable(t *testing.T) {
	before := testSession()
	after := UpdateSet(before, 0, 0, FieldWeight, "100")

	if before.Exercises[0].Sets[0].Weight != "" {
		t.Errorf("input session mutated: weight = %q", before.Exercises[0].Sets[0].Weight)
	}
	if after.Exercises[0].Sets[0].Weight != "100" {
		t.Errorf("weight = %q, want %q", after.Exercises[0].Sets[0].Weight, "100")
	}
	if before == after {
		t.Error("UpdateSet returned the input pointer for a real change")
	}
}

// TestUpdateSetPartialInput verifies that partial numeric input is
// stored verbatim; parsing is deferred to metric computation.
func TestUpdateSetPartialInput(t *testing.T) {
	s := UpdateSet(testSession(), 0, 0, FieldReps, "8.")
	if got := s.Exercises[0].Sets[0].Reps; got != "8." {
		t.Errorf("reps = %q, want %q stored verbatim", got, "8.")
	}
}

// TestUpdateSetOutOfBounds verifies that bad indices are no-ops, not
// panics or errors.
func TestUpdateSetOutOfBounds(t *testing.T) {
	s := testSession()
	cases := []struct {
		name       string
		ex, setIdx int
	}{
		{"exercise too high", 5, 0},
		{"negative exercise", -1, 0},
		{"set too high", 0, 9},
		{"negative set", 0, -2},
	}
	for _, tc := range cases {
		if got := UpdateSet(s, tc.ex, tc.setIdx, FieldWeight, "50"); got != s {
			t.Errorf("%s: expected no-op returning input", tc.name)
		}
	}
}

// TestCompleteSetStampsTimestamp verifies completion flips the flag and
// stamps a time; completing again just re-stamps.
func TestCompleteSetStampsTimestamp(t *testing.T) {
	s := CompleteSet(testSession(), 0, 1)
	set := s.Exercises[0].Sets[1]
	if !set.Completed {
		t.Error("set not marked completed")
	}
	if set.CompletedAt == nil {
		t.Fatal("completedAt not stamped")
	}

	first := *set.CompletedAt
	s2 := CompleteSet(s, 0, 1)
	set2 := s2.Exercises[0].Sets[1]
	if !set2.Completed || set2.CompletedAt == nil {
		t.Fatal("re-completion lost state")
	}
	if set2.CompletedAt.Before(first) {
		t.Error("re-stamp went backwards")
	}
}

// TestAddSetPrefillsWeight verifies AddSet grows by exactly one,
// numbers contiguously, and copies the last set's weight.
func TestAddSetPrefillsWeight(t *testing.T) {
	s := UpdateSet(testSession(), 0, 2, FieldWeight, "120")
	s = AddSet(s, 0)

	sets := s.Exercises[0].Sets
	if len(sets) != 4 {
		t.Fatalf("sets = %d, want 4", len(sets))
	}
	last := sets[3]
	if last.SetNumber != 4 {
		t.Errorf("new set number = %d, want 4", last.SetNumber)
	}
	if last.Weight != "120" {
		t.Errorf("new set weight = %q, want %q copied from previous", last.Weight, "120")
	}
	if last.Reps != "" || last.Completed {
		t.Errorf("new set should start empty and incomplete: %+v", last)
	}
}

// TestRemoveSetRenumbers verifies removal renumbers remaining sets
// contiguously from 1.
func TestRemoveSetRenumbers(t *testing.T) {
	s := RemoveSet(testSession(), 0, 1)
	sets := s.Exercises[0].Sets
	if len(sets) != 2 {
		t.Fatalf("sets = %d, want 2", len(sets))
	}
	for i, set := range sets {
		if set.SetNumber != i+1 {
			t.Errorf("set %d number = %d, want %d", i, set.SetNumber, i+1)
		}
	}
}

// TestRemoveLastSetNoOp verifies an exercise never drops below one set.
func TestRemoveLastSetNoOp(t *testing.T) {
	s := testSession()
	s = RemoveSet(s, 1, 0)
	if got := len(s.Exercises[1].Sets); got != 1 {
		t.Fatalf("after first removal sets = %d, want 1", got)
	}
	if got := RemoveSet(s, 1, 0); got != s {
		t.Error("removing the only set should be a no-op")
	}
}

// TestIncrementWeight verifies delta arithmetic over string weights,
// including the invalid-input-as-zero and clamp-at-zero rules.
func TestIncrementWeight(t *testing.T) {
	cases := []struct {
		name    string
		initial string
		delta   float64
		want    string
	}{
		{"add to number", "100", 2.5, "102.5"},
		{"subtract", "100", -20, "80"},
		{"empty treated as zero", "", 5, "5"},
		{"invalid treated as zero", "abc", 10, "10"},
		{"clamped at zero", "5", -20, "0"},
	}
	for _, tc := range cases {
		s := UpdateSet(testSession(), 0, 0, FieldWeight, tc.initial)
		s = IncrementWeight(s, 0, 0, tc.delta)
		if got := s.Exercises[0].Sets[0].Weight; got != tc.want {
			t.Errorf("%s: weight = %q, want %q", tc.name, got, tc.want)
		}
	}
}

// TestSwapExerciseResets verifies a swap replaces identity, clears
// notes, history, and all set data, but keeps the set count.
func TestSwapExerciseResets(t *testing.T) {
	s := NewSession(&Template{
		Name:      "Push",
		Exercises: []TemplateExercise{{Name: "Bench Press", Sets: 3}},
	}, History{"Bench Press": {{Weight: 80, Reps: 8}}})

	s = UpdateSet(s, 0, 0, FieldReps, "8")
	s = CompleteSet(s, 0, 0)
	s = UpdateNotes(s, 0, "felt heavy")

	s = SwapExercise(s, 0, ExerciseDescriptor{ID: "db-press", Name: "Dumbbell Press", MuscleGroup: "chest"})

	ex := s.Exercises[0]
	if ex.Name != "Dumbbell Press" || ex.ID != "db-press" {
		t.Errorf("identity not replaced: %+v", ex)
	}
	if ex.Notes != "" {
		t.Errorf("notes = %q, want cleared", ex.Notes)
	}
	if len(ex.PreviousBest) != 0 {
		t.Error("previousBest should be cleared on swap")
	}
	if len(ex.Sets) != 3 {
		t.Fatalf("set count = %d, want 3 preserved", len(ex.Sets))
	}
	for i, set := range ex.Sets {
		if set.Weight != "" || set.Reps != "" || set.Completed || set.CompletedAt != nil {
			t.Errorf("set %d not reset: %+v", i+1, set)
		}
		if set.SetNumber != i+1 {
			t.Errorf("set %d number = %d, want %d", i, set.SetNumber, i+1)
		}
	}
}

// TestCompletedSessionRejectsMutation verifies the terminal state: no
// ledger operation touches a completed session.
func TestCompletedSessionRejectsMutation(t *testing.T) {
	s := testSession()
	s.Completed = true

	if got := UpdateSet(s, 0, 0, FieldWeight, "60"); got != s {
		t.Error("UpdateSet mutated a completed session")
	}
	if got := AddSet(s, 0); got != s {
		t.Error("AddSet mutated a completed session")
	}
	if got := SetCurrentExercise(s, 1); got != s {
		t.Error("SetCurrentExercise mutated a completed session")
	}
}

// TestSetCurrentExercise verifies the cursor moves for valid indices.
func TestSetCurrentExercise(t *testing.T) {
	s := SetCurrentExercise(testSession(), 1)
	if s.CurrentExerciseIndex != 1 {
		t.Errorf("currentExerciseIndex = %d, want 1", s.CurrentExerciseIndex)
	}
}

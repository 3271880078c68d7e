package autosave

import (
	"testing"

	"github.com/claude/repline/internal/workout"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSession() *workout.Session {
	s := workout.NewSession(&workout.Template{
		Name: "Push Day",
		Type: "strength",
		Exercises: []workout.TemplateExercise{
			{Name: "Bench Press", Sets: 3},
		},
	}, nil)
	s = workout.UpdateSet(s, 0, 0, workout.FieldWeight, "80")
	s = workout.UpdateSet(s, 0, 0, workout.FieldReps, "8")
	s = workout.CompleteSet(s, 0, 0)
	s.ElapsedSeconds = 421
	return s
}

// TestLoadEmpty verifies an untouched store reports nothing to recover
// rather than an error.
func TestLoadEmpty(t *testing.T) {
	store := openTestStore(t)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load on empty store = %+v, want nil", got)
	}
}

// TestSaveLoadRoundTrip verifies a saved session comes back with all
// the state recovery needs: identity, clocks, and per-set entries.
func TestSaveLoadRoundTrip(t *testing.T) {
	store := openTestStore(t)
	sess := sampleSession()

	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil {
		t.Fatal("Load returned nil after save")
	}

	if got.ID != sess.ID {
		t.Errorf("id = %q, want %q", got.ID, sess.ID)
	}
	if got.ElapsedSeconds != 421 {
		t.Errorf("elapsedSeconds = %d, want 421", got.ElapsedSeconds)
	}
	set := got.Exercises[0].Sets[0]
	if set.Weight != "80" || set.Reps != "8" || !set.Completed {
		t.Errorf("set state lost: %+v", set)
	}
	if set.CompletedAt == nil {
		t.Error("completedAt lost in round trip")
	}
}

// TestSaveOverwrites verifies the store holds exactly one snapshot and
// the latest write wins.
func TestSaveOverwrites(t *testing.T) {
	store := openTestStore(t)

	first := sampleSession()
	if err := store.Save(first); err != nil {
		t.Fatalf("Save: %v", err)
	}
	second := sampleSession()
	second.ElapsedSeconds = 999
	if err := store.Save(second); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.ID != second.ID || got.ElapsedSeconds != 999 {
		t.Errorf("loaded snapshot = %q/%d, want latest %q/999", got.ID, got.ElapsedSeconds, second.ID)
	}
}

// TestClear verifies clearing returns the store to the
// nothing-to-recover state and is safe on an already-empty store.
func TestClear(t *testing.T) {
	store := openTestStore(t)

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear on empty store: %v", err)
	}

	if err := store.Save(sampleSession()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got != nil {
		t.Errorf("Load after clear = %+v, want nil", got)
	}
}

// TestReopenPersists verifies the snapshot survives closing and
// reopening the database, the actual crash-recovery scenario.
func TestReopenPersists(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	sess := sampleSession()
	if err := store.Save(sess); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got == nil || got.ID != sess.ID {
		t.Errorf("snapshot did not survive reopen: %+v", got)
	}
}

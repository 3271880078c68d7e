package scoring

import (
	"context"
	"math"
	"testing"

	"github.com/claude/repline/internal/workout"
)

func scoredSession(completedSets, totalSets int) (*workout.Session, workout.LiveMetrics) {
	s := workout.NewSession(&workout.Template{
		Name:      "Test",
		Type:      "strength",
		Exercises: []workout.TemplateExercise{{Name: "Squat", Sets: workout.SetCount(totalSets)}},
	}, nil)
	for i := 0; i < completedSets; i++ {
		s = workout.UpdateSet(s, 0, i, workout.FieldWeight, "100")
		s = workout.UpdateSet(s, 0, i, workout.FieldReps, "10")
		s = workout.CompleteSet(s, 0, i)
	}
	return s, workout.Metrics(s, 0)
}

// TestScorePerfectSession verifies a fully completed, high-volume,
// full-length session earns every point.
func TestScorePerfectSession(t *testing.T) {
	s, m := scoredSession(5, 5) // 5000 kg moved
	s.ElapsedSeconds = 45 * 60

	res, err := New().Score(context.Background(), s, m)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if math.Abs(res.Score-100) > 1e-9 {
		t.Errorf("score = %v, want 100", res.Score)
	}
	if res.Grade != "A" {
		t.Errorf("grade = %q, want A", res.Grade)
	}
}

// TestScoreNothingCompleted verifies an untouched session with no
// elapsed time scores zero.
func TestScoreNothingCompleted(t *testing.T) {
	s, m := scoredSession(0, 5)

	res, err := New().Score(context.Background(), s, m)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if res.Score != 0 {
		t.Errorf("score = %v, want 0", res.Score)
	}
	if res.Grade != "F" {
		t.Errorf("grade = %q, want F", res.Grade)
	}
}

// TestScoreBreakdownSums verifies the breakdown components always add
// up to the score.
func TestScoreBreakdownSums(t *testing.T) {
	s, m := scoredSession(2, 4)
	s.ElapsedSeconds = 20 * 60

	res, err := New().Score(context.Background(), s, m)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	sum := 0.0
	for _, v := range res.Breakdown {
		sum += v
	}
	if math.Abs(sum-res.Score) > 1e-9 {
		t.Errorf("breakdown sums to %v, score is %v", sum, res.Score)
	}
	for _, key := range []string{"completion", "volume", "duration"} {
		if _, ok := res.Breakdown[key]; !ok {
			t.Errorf("breakdown missing %q", key)
		}
	}
}

// TestScoreVolumeCapped verifies volume beyond full credit earns no
// extra points.
func TestScoreVolumeCapped(t *testing.T) {
	s := workout.NewSession(&workout.Template{
		Name:      "Test",
		Exercises: []workout.TemplateExercise{{Name: "Deadlift", Sets: 1}},
	}, nil)
	s = workout.UpdateSet(s, 0, 0, workout.FieldWeight, "2000")
	s = workout.UpdateSet(s, 0, 0, workout.FieldReps, "10") // 20000 kg
	s = workout.CompleteSet(s, 0, 0)
	m := workout.Metrics(s, 0)

	res, err := New().Score(context.Background(), s, m)
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got := res.Breakdown["volume"]; math.Abs(got-volumePoints) > 1e-9 {
		t.Errorf("volume points = %v, want capped at %v", got, volumePoints)
	}
}

// TestGradeBoundaries verifies the letter thresholds, boundaries
// inclusive.
func TestGradeBoundaries(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "A"},
		{90, "A"},
		{89.9, "B"},
		{75, "B"},
		{74.9, "C"},
		{50, "C"},
		{49.9, "D"},
		{25, "D"},
		{24.9, "F"},
		{0, "F"},
	}
	for _, tc := range cases {
		if got := gradeFor(tc.score); got != tc.want {
			t.Errorf("gradeFor(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

package workout

import (
	"math"
	"testing"
)

// TestMetricsSingleSet verifies volume is exactly weight x reps for one
// completed set.
func TestMetricsSingleSet(t *testing.T) {
	s := testSession()
	s = UpdateSet(s, 0, 0, FieldWeight, "100")
	s = UpdateSet(s, 0, 0, FieldReps, "5")
	s = CompleteSet(s, 0, 0)

	m := Metrics(s, 0)
	if m.TotalVolume != 500 {
		t.Errorf("totalVolume = %v, want 500", m.TotalVolume)
	}
	if m.CompletedSets != 1 || m.CompletedReps != 5 || m.ExercisesWorked != 1 {
		t.Errorf("counts = %+v, want 1 set / 5 reps / 1 exercise", m)
	}
}

// TestMetricsAdditiveAcrossExercises verifies volume accumulates
// across exercises and incomplete sets contribute nothing.
func TestMetricsAdditiveAcrossExercises(t *testing.T) {
	s := testSession()
	s = UpdateSet(s, 0, 0, FieldWeight, "100")
	s = UpdateSet(s, 0, 0, FieldReps, "5")
	s = CompleteSet(s, 0, 0)
	s = UpdateSet(s, 1, 0, FieldWeight, "200")
	s = UpdateSet(s, 1, 0, FieldReps, "10")
	s = CompleteSet(s, 1, 0)
	// Entered but never completed
	s = UpdateSet(s, 0, 1, FieldWeight, "999")
	s = UpdateSet(s, 0, 1, FieldReps, "99")

	m := Metrics(s, 0)
	if m.TotalVolume != 2500 {
		t.Errorf("totalVolume = %v, want 2500", m.TotalVolume)
	}
	if m.ExercisesWorked != 2 {
		t.Errorf("exercisesWorked = %d, want 2", m.ExercisesWorked)
	}
}

// TestMetricsUnparseableAsZero verifies defensive parsing: garbage
// weight or reps counts as zero rather than erroring.
func TestMetricsUnparseableAsZero(t *testing.T) {
	s := testSession()
	s = UpdateSet(s, 0, 0, FieldWeight, "heavy")
	s = UpdateSet(s, 0, 0, FieldReps, "some")
	s = CompleteSet(s, 0, 0)

	m := Metrics(s, 80)
	if m.TotalVolume != 0 {
		t.Errorf("totalVolume = %v, want 0 for unparseable input", m.TotalVolume)
	}
	if m.CompletedSets != 1 {
		t.Errorf("completedSets = %d, want 1 (completion is independent of parsing)", m.CompletedSets)
	}
}

// TestMetricsNilSession verifies a nil session derives all-zero
// metrics.
func TestMetricsNilSession(t *testing.T) {
	if m := Metrics(nil, 80); m != (LiveMetrics{}) {
		t.Errorf("Metrics(nil) = %+v, want zero value", m)
	}
}

// TestEstimateCalories verifies the MET formula and its zero guards.
func TestEstimateCalories(t *testing.T) {
	cases := []struct {
		name    string
		typ     string
		kg      float64
		elapsed int
		want    float64
	}{
		{"strength one hour", "strength", 80, 3600, 480}, // 6.0 * 80 * 1
		{"strength half hour", "strength", 80, 1800, 240},
		{"hiit", "hiit", 70, 3600, 700}, // 10.0 * 70 * 1
		{"unknown type falls back", "yoga-ish", 80, 3600, 480},
		{"no body weight", "strength", 0, 3600, 0},
		{"no elapsed time", "strength", 80, 0, 0},
	}
	for _, tc := range cases {
		got := EstimateCalories(tc.typ, tc.kg, tc.elapsed)
		if math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("%s: calories = %v, want %v", tc.name, got, tc.want)
		}
	}
}

// TestMetricsCaloriesGrowWithTime verifies the estimate is a function
// of elapsed time alone, growing without any user action.
func TestMetricsCaloriesGrowWithTime(t *testing.T) {
	s := testSession()
	s.ElapsedSeconds = 60
	early := Metrics(s, 80).EstimatedCalories

	s.ElapsedSeconds = 120
	late := Metrics(s, 80).EstimatedCalories

	if late <= early {
		t.Errorf("calories did not grow with time: %v then %v", early, late)
	}
	if math.Abs(late-2*early) > 1e-9 {
		t.Errorf("calories not linear in time: %v vs 2x%v", late, early)
	}
}

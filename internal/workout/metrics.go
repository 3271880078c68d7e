package workout

// LiveMetrics is a read-only derivation over the current session
// snapshot. It is recomputed on every request rather than cached;
// estimated calories in particular grows with every elapsed second.
type LiveMetrics struct {
	TotalVolume        float64 `json:"total_volume"`
	CompletedSets      int     `json:"completed_sets"`
	CompletedReps      int     `json:"completed_reps"`
	ExercisesWorked    int     `json:"exercises_worked"`
	EstimatedCalories  float64 `json:"estimated_calories"`
	ElapsedSeconds     int     `json:"elapsed_seconds"`
	RestTimerRemaining int     `json:"rest_timer_remaining"`
}

// metByType maps a workout type to its metabolic equivalent. Unknown
// types fall back to the strength value.
var metByType = map[string]float64{
	"strength":    6.0,
	"hypertrophy": 6.0,
	"cardio":      8.0,
	"hiit":        10.0,
	"mobility":    2.5,
	"stretching":  2.5,
}

const metDefault = 6.0

// Metrics derives volume, completed counts, and a calorie estimate
// from the session. bodyWeightKg may be zero when unknown, in which
// case calories stay zero. Unparseable weight or reps count as zero.
func Metrics(s *Session, bodyWeightKg float64) LiveMetrics {
	if s == nil {
		return LiveMetrics{}
	}

	m := LiveMetrics{
		ElapsedSeconds:     s.ElapsedSeconds,
		RestTimerRemaining: s.RestTimerRemaining,
	}

	for _, ex := range s.Exercises {
		worked := false
		for _, set := range ex.Sets {
			if !set.Completed {
				continue
			}
			worked = true
			weight := ParseNumber(set.Weight)
			reps := ParseNumber(set.Reps)
			m.TotalVolume += weight * reps
			m.CompletedSets++
			m.CompletedReps += int(reps)
		}
		if worked {
			m.ExercisesWorked++
		}
	}

	m.EstimatedCalories = EstimateCalories(s.Type, bodyWeightKg, s.ElapsedSeconds)
	return m
}

// EstimateCalories applies the standard MET formula: MET x body weight
// in kg x elapsed hours.
func EstimateCalories(workoutType string, bodyWeightKg float64, elapsedSeconds int) float64 {
	if bodyWeightKg <= 0 || elapsedSeconds <= 0 {
		return 0
	}
	met, ok := metByType[workoutType]
	if !ok {
		met = metDefault
	}
	return met * bodyWeightKg * float64(elapsedSeconds) / 3600
}

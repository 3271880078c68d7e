package workout

// DetectRecords compares each exercise's best completed set this
// session against its historical best and emits at most one record per
// exercise: a weight PR when the new top weight exceeds the old one,
// otherwise a reps PR when the weight matches the historical best but
// more reps were done at it. Exercises with no history never produce a
// record.
func DetectRecords(s *Session) []PersonalRecord {
	if s == nil {
		return nil
	}

	var records []PersonalRecord
	for _, ex := range s.Exercises {
		if len(ex.PreviousBest) == 0 {
			continue
		}

		bestW, bestR, ok := bestCompletedSet(ex)
		if !ok {
			continue
		}
		histW, histR := historicalBest(ex.PreviousBest)

		switch {
		case bestW > histW:
			records = append(records, PersonalRecord{
				ExerciseName: ex.Name,
				Type:         PRWeight,
				NewValue:     bestW,
				OldValue:     histW,
			})
		case bestW == histW && bestR > histR:
			records = append(records, PersonalRecord{
				ExerciseName: ex.Name,
				Type:         PRReps,
				NewValue:     bestR,
				OldValue:     histR,
			})
		}
	}
	return records
}

// bestCompletedSet returns the heaviest completed set, ties broken by
// reps. ok is false when nothing was completed.
func bestCompletedSet(ex Exercise) (weight, reps float64, ok bool) {
	for _, set := range ex.Sets {
		if !set.Completed {
			continue
		}
		w := ParseNumber(set.Weight)
		r := ParseNumber(set.Reps)
		if !ok || w > weight || (w == weight && r > reps) {
			weight, reps, ok = w, r, true
		}
	}
	return weight, reps, ok
}

// historicalBest picks the max weight on record and, among entries at
// that weight, the max reps.
func historicalBest(recs []SetRecord) (weight, reps float64) {
	for _, rec := range recs {
		if rec.Weight > weight {
			weight = rec.Weight
			reps = float64(rec.Reps)
		} else if rec.Weight == weight && float64(rec.Reps) > reps {
			reps = float64(rec.Reps)
		}
	}
	return weight, reps
}

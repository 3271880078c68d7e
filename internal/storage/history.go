package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/claude/repline/internal/workout"
)

// historyDepth bounds how many past sets feed the pre-fill/PR baseline
// per exercise.
const historyDepth = 12

// ExerciseHistory returns recent completed sets per exercise name,
// most-recent-first, in the shape the session builder consumes.
// Only sets actually marked completed count as history.
func (db *DB) ExerciseHistory(ctx context.Context, names []string) (workout.History, error) {
	if len(names) == 0 {
		return workout.History{}, nil
	}

	rows, err := db.Pool.Query(ctx,
		`SELECT ws.exercise_name, ws.weight_kg, ws.reps
		 FROM workout_sets ws
		 JOIN workouts w ON w.id = ws.workout_id
		 WHERE ws.completed AND ws.exercise_name = ANY($1)
		 ORDER BY w.completed_at DESC, ws.set_number ASC`,
		names)
	if err != nil {
		return nil, fmt.Errorf("querying exercise history: %w", err)
	}
	defer rows.Close()

	history := workout.History{}
	for rows.Next() {
		var name string
		var rec workout.SetRecord
		if err := rows.Scan(&name, &rec.Weight, &rec.Reps); err != nil {
			return nil, fmt.Errorf("scanning exercise history: %w", err)
		}
		if len(history[name]) < historyDepth {
			history[name] = append(history[name], rec)
		}
	}
	return history, rows.Err()
}

// PersonalRecordRow is a stored personal record.
type PersonalRecordRow struct {
	WorkoutID    uuid.UUID `json:"workout_id"`
	ExerciseName string    `json:"exercise_name"`
	PRType       string    `json:"pr_type"`
	NewValue     float64   `json:"new_value"`
	OldValue     float64   `json:"old_value"`
	AchievedAt   time.Time `json:"achieved_at"`
}

// QueryPersonalRecords retrieves records, optionally filtered by
// exercise name or workout id, newest first.
func (db *DB) QueryPersonalRecords(ctx context.Context, exerciseFilter string, workoutID *uuid.UUID) ([]PersonalRecordRow, error) {
	query := `SELECT workout_id, exercise_name, pr_type, new_value, old_value, achieved_at
		 FROM personal_records WHERE 1=1`
	var args []any
	if exerciseFilter != "" {
		args = append(args, exerciseFilter)
		query += fmt.Sprintf(" AND exercise_name = $%d", len(args))
	}
	if workoutID != nil {
		args = append(args, *workoutID)
		query += fmt.Sprintf(" AND workout_id = $%d", len(args))
	}
	query += ` ORDER BY achieved_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying personal records: %w", err)
	}
	defer rows.Close()

	var result []PersonalRecordRow
	for rows.Next() {
		var pr PersonalRecordRow
		if err := rows.Scan(&pr.WorkoutID, &pr.ExerciseName, &pr.PRType, &pr.NewValue, &pr.OldValue, &pr.AchievedAt); err != nil {
			return nil, fmt.Errorf("scanning personal record: %w", err)
		}
		result = append(result, pr)
	}
	return result, rows.Err()
}

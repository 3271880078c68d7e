package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/claude/repline/internal/workout"
)

// WorkoutRow is a completed workout as stored in the workouts table.
type WorkoutRow struct {
	ID                 uuid.UUID `json:"id"`
	SessionID          string    `json:"session_id"`
	Name               string    `json:"name"`
	WorkoutType        string    `json:"type"`
	StartedAt          time.Time `json:"started_at"`
	CompletedAt        time.Time `json:"completed_at"`
	DurationSec        int       `json:"duration_sec"`
	TotalVolume        float64   `json:"total_volume"`
	TotalSets          int       `json:"total_sets"`
	ExercisesCompleted int       `json:"exercises_completed"`
	EstimatedCalories  float64   `json:"estimated_calories"`
	Score              float64   `json:"score"`
	Grade              string    `json:"grade"`
}

// WorkoutSetRow is one logged set of a completed workout.
type WorkoutSetRow struct {
	WorkoutID      uuid.UUID  `json:"workout_id"`
	ExerciseNumber int        `json:"exercise_number"`
	ExerciseName   string     `json:"exercise_name"`
	MuscleGroup    string     `json:"muscle_group,omitempty"`
	SetNumber      int        `json:"set_number"`
	WeightKg       float64    `json:"weight_kg"`
	Reps           int        `json:"reps"`
	Completed      bool       `json:"completed"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}

// ArchiveWorkout persists a summary with its sets and personal records
// in one transaction. Implements engine.Archiver.
func (db *DB) ArchiveWorkout(ctx context.Context, sum *workout.Summary, s *workout.Session) error {
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning archive tx: %w", err)
	}
	defer tx.Rollback(ctx)

	workoutID := uuid.New()
	_, err = tx.Exec(ctx,
		`INSERT INTO workouts (id, session_id, name, workout_type, started_at, completed_at,
		 duration_sec, total_volume, total_sets, exercises_completed, estimated_calories, score, grade)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		workoutID, sum.SessionID, sum.Name, sum.Type, sum.StartedAt, sum.CompletedAt,
		sum.DurationSeconds, sum.TotalVolume, sum.TotalSets, sum.ExercisesCompleted,
		sum.EstimatedCalories, sum.Score, sum.Grade)
	if err != nil {
		return fmt.Errorf("inserting workout: %w", err)
	}

	if err := insertSets(ctx, tx, workoutID, s); err != nil {
		return err
	}

	for _, pr := range sum.Records {
		_, err = tx.Exec(ctx,
			`INSERT INTO personal_records (workout_id, exercise_name, pr_type, new_value, old_value, achieved_at)
			 VALUES ($1,$2,$3,$4,$5,$6)`,
			workoutID, pr.ExerciseName, string(pr.Type), pr.NewValue, pr.OldValue, sum.CompletedAt)
		if err != nil {
			return fmt.Errorf("inserting personal record: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing archive tx: %w", err)
	}
	return nil
}

func insertSets(ctx context.Context, tx pgx.Tx, workoutID uuid.UUID, s *workout.Session) error {
	var args []any
	var values []string
	n := 0
	for ei, ex := range s.Exercises {
		for _, set := range ex.Sets {
			base := n * 9
			values = append(values, fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9))
			args = append(args, workoutID, ei+1, ex.Name, ex.MuscleGroup, set.SetNumber,
				workout.ParseNumber(set.Weight), int(workout.ParseNumber(set.Reps)),
				set.Completed, set.CompletedAt)
			n++
		}
	}
	if n == 0 {
		return nil
	}

	query := `INSERT INTO workout_sets (workout_id, exercise_number, exercise_name, muscle_group,
		set_number, weight_kg, reps, completed, completed_at) VALUES ` + strings.Join(values, ",")
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("inserting workout sets: %w", err)
	}
	return nil
}

// QueryWorkouts retrieves completed workouts in a time range, newest
// first, optionally filtered by type.
func (db *DB) QueryWorkouts(ctx context.Context, start, end time.Time, typeFilter string) ([]WorkoutRow, error) {
	query := `SELECT id, session_id, name, workout_type, started_at, completed_at,
		 duration_sec, total_volume, total_sets, exercises_completed, estimated_calories, score, grade
		 FROM workouts
		 WHERE completed_at >= $1 AND completed_at < $2`
	args := []any{start, end}
	if typeFilter != "" {
		query += ` AND workout_type = $3`
		args = append(args, typeFilter)
	}
	query += ` ORDER BY completed_at DESC`

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying workouts: %w", err)
	}
	defer rows.Close()

	var result []WorkoutRow
	for rows.Next() {
		var w WorkoutRow
		if err := rows.Scan(&w.ID, &w.SessionID, &w.Name, &w.WorkoutType, &w.StartedAt, &w.CompletedAt,
			&w.DurationSec, &w.TotalVolume, &w.TotalSets, &w.ExercisesCompleted,
			&w.EstimatedCalories, &w.Score, &w.Grade); err != nil {
			return nil, fmt.Errorf("scanning workout: %w", err)
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// WorkoutDetail is a workout with its logged sets and records.
type WorkoutDetail struct {
	WorkoutRow
	Sets    []WorkoutSetRow     `json:"sets"`
	Records []PersonalRecordRow `json:"personal_records,omitempty"`
}

// GetWorkout retrieves a single workout with all associated data.
func (db *DB) GetWorkout(ctx context.Context, workoutID uuid.UUID) (*WorkoutDetail, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, session_id, name, workout_type, started_at, completed_at,
		 duration_sec, total_volume, total_sets, exercises_completed, estimated_calories, score, grade
		 FROM workouts WHERE id = $1`,
		workoutID)

	var w WorkoutRow
	err := row.Scan(&w.ID, &w.SessionID, &w.Name, &w.WorkoutType, &w.StartedAt, &w.CompletedAt,
		&w.DurationSec, &w.TotalVolume, &w.TotalSets, &w.ExercisesCompleted,
		&w.EstimatedCalories, &w.Score, &w.Grade)
	if err != nil {
		return nil, fmt.Errorf("querying workout: %w", err)
	}

	detail := &WorkoutDetail{WorkoutRow: w}

	setRows, err := db.Pool.Query(ctx,
		`SELECT workout_id, exercise_number, exercise_name, muscle_group,
		 set_number, weight_kg, reps, completed, completed_at
		 FROM workout_sets
		 WHERE workout_id = $1
		 ORDER BY exercise_number ASC, set_number ASC`,
		workoutID)
	if err != nil {
		return nil, fmt.Errorf("querying workout sets: %w", err)
	}
	defer setRows.Close()

	for setRows.Next() {
		var sr WorkoutSetRow
		if err := setRows.Scan(&sr.WorkoutID, &sr.ExerciseNumber, &sr.ExerciseName, &sr.MuscleGroup,
			&sr.SetNumber, &sr.WeightKg, &sr.Reps, &sr.Completed, &sr.CompletedAt); err != nil {
			return nil, fmt.Errorf("scanning workout set: %w", err)
		}
		detail.Sets = append(detail.Sets, sr)
	}
	if err := setRows.Err(); err != nil {
		return nil, err
	}

	records, err := db.QueryPersonalRecords(ctx, "", &workoutID)
	if err != nil {
		return nil, err
	}
	detail.Records = records

	return detail, nil
}

package exercises

import (
	"context"
	"fmt"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const exerciseColumns = "id, user_id, name, type, exercise_category, duration, calories_burned, " +
	"sets, reps, weight, distance, exercise_time, created_at, updated_at"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type OrderBy string

const (
	OrderByExerciseTime OrderBy = "exercise_time"
	OrderByCreatedAt    OrderBy = "created_at"
)

type ListParams struct {
	UserID string
	// From is inclusive, To exclusive
	From    *time.Time
	To      *time.Time
	OrderBy OrderBy
	Limit   uint64
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, exercise Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query, args, err := insertQuery(exercise)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	added, err := scanExercise(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, fmt.Errorf("insert exercise: %w", err)
	}
	span.SetAttributes(attribute.String("exercise.id", added.ID))

	return added, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	row := r.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercises WHERE id = $1`, id)
	exercise, err := scanExercise(row)
	if pkg.IsNoRowsError(err) {
		return nil, ErrExerciseNotFound
	}
	if err != nil {
		return nil, err
	}

	return exercise, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	query, args, err := listQuery(params)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exercises := []Exercise{}
	for rows.Next() {
		exercise, err := scanExercise(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		exercises = append(exercises, *exercise)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("exercises.count", len(exercises)))

	return exercises, nil
}

// Delete removes the exercise only if it belongs to userID.
func (r *Repo) Delete(ctx context.Context, id, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}

// insertQuery writes only the columns of the exercise's category, the rest stay NULL.
func insertQuery(exercise Exercise) (string, []any, error) {
	row := exercise.flat()
	return psql.Insert("exercises").
		Columns(
			"user_id", "name", "type", "exercise_category",
			"duration", "calories_burned", "sets", "reps", "weight", "distance",
			"exercise_time",
		).
		Values(
			row.UserID, row.Name, row.Type, row.Category,
			row.Duration, row.CaloriesBurned, row.Sets, row.Reps, row.Weight, row.Distance,
			row.ExerciseTime,
		).
		Suffix("RETURNING " + exerciseColumns).
		ToSql()
}

func listQuery(params ListParams) (string, []any, error) {
	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = OrderByExerciseTime
	}

	q := psql.Select(exerciseColumns).
		From("exercises").
		Where(sq.Eq{"user_id": params.UserID}).
		OrderBy(string(orderBy) + " DESC")

	if params.From != nil {
		q = q.Where(sq.GtOrEq{"exercise_time": *params.From})
	}
	if params.To != nil {
		q = q.Where(sq.Lt{"exercise_time": *params.To})
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	return q.ToSql()
}

func scanExercise(row pgx.Row) (*Exercise, error) {
	var r flatExercise
	if err := row.Scan(
		&r.ID, &r.UserID, &r.Name, &r.Type, &r.Category,
		&r.Duration, &r.CaloriesBurned, &r.Sets, &r.Reps, &r.Weight, &r.Distance,
		&r.ExerciseTime, &r.CreatedAt, &r.UpdatedAt,
	); err != nil {
		return nil, err
	}
	e := r.exercise()
	return &e, nil
}

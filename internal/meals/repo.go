package meals

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

const mealColumns = "id, user_id, name, calories, protein, carbs, fat, meal_time, created_at, updated_at"

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

type OrderBy string

const (
	OrderByMealTime  OrderBy = "meal_time"
	OrderByCreatedAt OrderBy = "created_at"
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

func (r *Repo) Add(ctx context.Context, meal Meal) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := r.db.QueryRow(
		ctx,
		`INSERT INTO meals (user_id, name, calories, protein, carbs, fat, meal_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+mealColumns,
		meal.UserID, meal.Name, meal.Calories, meal.Protein, meal.Carbs, meal.Fat, meal.MealTime,
	)

	added, err := scanMeal(row)
	if err != nil {
		return nil, fmt.Errorf("insert meal: %w", err)
	}
	span.SetAttributes(attribute.String("meal.id", added.ID))

	return added, nil
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	row := r.db.QueryRow(ctx, `SELECT `+mealColumns+` FROM meals WHERE id = $1`, id)
	meal, err := scanMeal(row)
	if pkg.IsNoRowsError(err) {
		return nil, ErrMealNotFound
	}
	if err != nil {
		return nil, err
	}

	return meal, nil
}

func (r *Repo) List(ctx context.Context, params ListParams) (_ []Meal, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.list")
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

	meals := []Meal{}
	for rows.Next() {
		meal, err := scanMeal(rows)
		if err != nil {
			return nil, fmt.Errorf("rows scan: %w", err)
		}
		meals = append(meals, *meal)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("meals.count", len(meals)))

	return meals, nil
}

// Delete removes the meal only if it belongs to userID.
func (r *Repo) Delete(ctx context.Context, id, userID string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.meals.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM meals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrMealNotFound
	}
	return nil
}

func listQuery(params ListParams) (string, []any, error) {
	orderBy := params.OrderBy
	if orderBy == "" {
		orderBy = OrderByMealTime
	}

	q := psql.Select(mealColumns).
		From("meals").
		Where(sq.Eq{"user_id": params.UserID}).
		OrderBy(string(orderBy) + " DESC")

	if params.From != nil {
		q = q.Where(sq.GtOrEq{"meal_time": *params.From})
	}
	if params.To != nil {
		q = q.Where(sq.Lt{"meal_time": *params.To})
	}
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}

	return q.ToSql()
}

func scanMeal(row pgx.Row) (*Meal, error) {
	var m Meal
	if err := row.Scan(
		&m.ID, &m.UserID, &m.Name,
		&m.Calories, &m.Protein, &m.Carbs, &m.Fat,
		&m.MealTime, &m.CreatedAt, &m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &m, nil
}

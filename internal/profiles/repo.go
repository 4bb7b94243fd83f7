package profiles

import (
	"context"
	"fmt"

	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

const profileColumns = "id, email, full_name, avatar_url, height, weight, goal_weight, " +
	"activity_level, daily_calorie_goal, created_at, updated_at"

// upsertQuery is a single statement so concurrent saves for the same user never race.
const upsertQuery = `INSERT INTO profiles (id, email, full_name, avatar_url, height, weight, goal_weight, activity_level, daily_calorie_goal)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO UPDATE SET
	email = EXCLUDED.email,
	full_name = EXCLUDED.full_name,
	avatar_url = EXCLUDED.avatar_url,
	height = EXCLUDED.height,
	weight = EXCLUDED.weight,
	goal_weight = EXCLUDED.goal_weight,
	activity_level = EXCLUDED.activity_level,
	daily_calorie_goal = EXCLUDED.daily_calorie_goal,
	updated_at = now()
RETURNING ` + profileColumns

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Get(ctx context.Context, id string) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", id))

	row := r.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id)
	profile, err := scanProfile(row)
	if pkg.IsNoRowsError(err) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return profile, nil
}

func (r *Repo) Upsert(ctx context.Context, p Profile) (_ *Profile, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.profiles.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("id", p.ID))

	row := r.db.QueryRow(
		ctx,
		upsertQuery,
		p.ID, p.Email, p.FullName, p.AvatarURL, p.Height, p.Weight, p.GoalWeight, p.ActivityLevel, p.DailyCalorieGoal,
	)
	saved, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}

	return saved, nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var email *string
	if err := row.Scan(
		&p.ID, &email, &p.FullName, &p.AvatarURL,
		&p.Height, &p.Weight, &p.GoalWeight,
		&p.ActivityLevel, &p.DailyCalorieGoal,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if email != nil {
		p.Email = *email
	}
	return &p, nil
}

package recommend

import (
	"context"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

type Recommendation struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Equipment      string    `json:"equipment"`
	FitnessLevel   string    `json:"fitness_level"`
	Goals          string    `json:"goals"`
	Recommendation string    `json:"recommendation"`
	CreatedAt      time.Time `json:"created_at"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, rec Recommendation) (id string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recommendations.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("user.id", rec.UserID))

	err = r.db.QueryRow(
		ctx,
		`INSERT INTO workout_recommendations (user_id, equipment, fitness_level, goals, recommendation, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		rec.UserID, rec.Equipment, rec.FitnessLevel, rec.Goals, rec.Recommendation, rec.CreatedAt,
	).Scan(&id)

	return id, err
}

package exercises

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/metrics"
	"github.com/2beens/fittrack/internal/timeutil"
	"github.com/2beens/fittrack/pkg"

	"github.com/google/uuid"
)

//go:generate mockgen -source=$GOFILE -destination=exercises_mocks_test.go -package=exercises_test

type exercisesRepo interface {
	Add(ctx context.Context, exercise Exercise) (*Exercise, error)
	Get(ctx context.Context, id string) (*Exercise, error)
	List(ctx context.Context, params ListParams) ([]Exercise, error)
	Delete(ctx context.Context, id, userID string) error
}

// Service holds the exercise rules shared by the JSON API and the exercise page.
type Service struct {
	repo    exercisesRepo
	zone    *timeutil.Zone
	metrics *metrics.Manager
	now     func() time.Time
}

func NewService(repo exercisesRepo, zone *timeutil.Zone, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		zone:    zone,
		metrics: metricsManager,
		now:     time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Zone() *timeutil.Zone {
	return s.zone
}

// List returns the user's exercises, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]Exercise, error) {
	return s.repo.List(ctx, ListParams{UserID: userID, OrderBy: OrderByExerciseTime})
}

// Recent returns up to limit of the user's latest exercises by exercise time.
func (s *Service) Recent(ctx context.Context, userID string, limit uint64) ([]Exercise, error) {
	return s.repo.List(ctx, ListParams{UserID: userID, OrderBy: OrderByExerciseTime, Limit: limit})
}

func (s *Service) Add(ctx context.Context, userID string, form Form) (*Exercise, error) {
	exercise, err := form.Validate(s.zone, userID, s.now())
	if err != nil {
		return nil, err
	}

	added, err := s.repo.Add(ctx, *exercise)
	if err != nil {
		return nil, fmt.Errorf("add exercise: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterExercisesAdded.Inc()
	}

	return added, nil
}

func ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", pkg.NewFieldError("id", "Exercise ID is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", pkg.NewFieldError("id", "Invalid exercise ID")
	}
	return id, nil
}

// Delete removes the exercise if userID owns it.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	id, err := ValidateID(id)
	if err != nil {
		return err
	}

	exercise, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if exercise.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrExerciseNotFound) {
			return ErrExerciseNotFound
		}
		return fmt.Errorf("delete exercise: %w", err)
	}

	return nil
}

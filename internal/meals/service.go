package meals

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

//go:generate mockgen -source=$GOFILE -destination=meals_mocks_test.go -package=meals_test

type mealsRepo interface {
	Add(ctx context.Context, meal Meal) (*Meal, error)
	Get(ctx context.Context, id string) (*Meal, error)
	List(ctx context.Context, params ListParams) ([]Meal, error)
	Delete(ctx context.Context, id, userID string) error
}

// Service holds the meal rules shared by the JSON API and the diet page.
type Service struct {
	repo    mealsRepo
	zone    *timeutil.Zone
	metrics *metrics.Manager
	now     func() time.Time
}

func NewService(repo mealsRepo, zone *timeutil.Zone, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:    repo,
		zone:    zone,
		metrics: metricsManager,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for defaulting meal times.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

func (s *Service) Zone() *timeutil.Zone {
	return s.zone
}

// List returns the user's meals, most recent first.
func (s *Service) List(ctx context.Context, userID string) ([]Meal, error) {
	return s.repo.List(ctx, ListParams{UserID: userID, OrderBy: OrderByMealTime})
}

// Add validates the form and stores the meal under userID.
// Validation problems come back as *pkg.FieldError.
func (s *Service) Add(ctx context.Context, userID string, form Form) (*Meal, error) {
	meal, err := form.Validate(s.zone, userID, s.now())
	if err != nil {
		return nil, err
	}

	added, err := s.repo.Add(ctx, *meal)
	if err != nil {
		return nil, fmt.Errorf("add meal: %w", err)
	}

	if s.metrics != nil {
		s.metrics.CounterMealsAdded.Inc()
	}

	return added, nil
}

// ValidateID checks a meal id before any store access.
func ValidateID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", pkg.NewFieldError("id", "Meal ID is required")
	}
	if _, err := uuid.Parse(id); err != nil {
		return "", pkg.NewFieldError("id", "Invalid meal ID")
	}
	return id, nil
}

// Delete removes the meal if userID owns it.
// Returns ErrMealNotFound or ErrNotOwner otherwise, and leaves the row alone.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	id, err := ValidateID(id)
	if err != nil {
		return err
	}

	meal, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if meal.UserID != userID {
		return ErrNotOwner
	}

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, ErrMealNotFound) {
			// deleted in between
			return ErrMealNotFound
		}
		return fmt.Errorf("delete meal: %w", err)
	}

	return nil
}

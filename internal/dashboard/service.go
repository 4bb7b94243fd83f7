package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/meals"
	"github.com/2beens/fittrack/internal/profiles"
	"github.com/2beens/fittrack/internal/telemetry/tracing"
	"github.com/2beens/fittrack/internal/timeutil"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=$GOFILE -destination=dashboard_mocks_test.go -package=dashboard_test

type profileReader interface {
	Get(ctx context.Context, id string) (*profiles.Profile, error)
}

type mealLister interface {
	List(ctx context.Context, params meals.ListParams) ([]meals.Meal, error)
}

type exerciseLister interface {
	List(ctx context.Context, params exercises.ListParams) ([]exercises.Exercise, error)
}

type Service struct {
	profiles  profileReader
	meals     mealLister
	exercises exerciseLister
	zone      *timeutil.Zone
	now       func() time.Time
}

func NewService(
	profileRepo profileReader,
	mealsRepo mealLister,
	exercisesRepo exerciseLister,
	zone *timeutil.Zone,
) *Service {
	return &Service{
		profiles:  profileRepo,
		meals:     mealsRepo,
		exercises: exercisesRepo,
		zone:      zone,
		now:       time.Now,
	}
}

func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Stats gathers the dashboard numbers for the user. A failed read is logged
// and its statistic falls back to zero or the default, it never fails the page.
func (s *Service) Stats(ctx context.Context, user *auth.User) *Stats {
	ctx, span := tracing.GlobalTracer.Start(ctx, "dashboard.stats")
	defer span.End()

	now := s.now()
	dayFrom, dayTo := s.zone.StartOfDay(now), s.zone.EndOfDay(now)
	weekFrom, weekTo := s.zone.StartOfWeek(now), s.zone.EndOfWeek(now)

	var (
		profile         *profiles.Profile
		todayMeals      []meals.Meal
		weekExercises   []exercises.Exercise
		recentMeals     []meals.Meal
		recentExercises []exercises.Exercise
	)

	// every read swallows its own error, so the group never cancels
	var g errgroup.Group
	g.Go(func() error {
		p, err := s.profiles.Get(ctx, user.ID)
		if err != nil && !errors.Is(err, profiles.ErrProfileNotFound) {
			log.Errorf("dashboard: get profile for %s: %s", user.ID, err)
		}
		profile = p
		return nil
	})
	g.Go(func() error {
		list, err := s.meals.List(ctx, meals.ListParams{UserID: user.ID, From: &dayFrom, To: &dayTo})
		if err != nil {
			log.Errorf("dashboard: list today's meals for %s: %s", user.ID, err)
		}
		todayMeals = list
		return nil
	})
	g.Go(func() error {
		list, err := s.exercises.List(ctx, exercises.ListParams{UserID: user.ID, From: &weekFrom, To: &weekTo})
		if err != nil {
			log.Errorf("dashboard: list week exercises for %s: %s", user.ID, err)
		}
		weekExercises = list
		return nil
	})
	g.Go(func() error {
		list, err := s.meals.List(ctx, meals.ListParams{
			UserID:  user.ID,
			OrderBy: meals.OrderByCreatedAt,
			Limit:   recentLimit,
		})
		if err != nil {
			log.Errorf("dashboard: list recent meals for %s: %s", user.ID, err)
		}
		recentMeals = list
		return nil
	})
	g.Go(func() error {
		list, err := s.exercises.List(ctx, exercises.ListParams{
			UserID:  user.ID,
			OrderBy: exercises.OrderByCreatedAt,
			Limit:   recentLimit,
		})
		if err != nil {
			log.Errorf("dashboard: list recent exercises for %s: %s", user.ID, err)
		}
		recentExercises = list
		return nil
	})
	_ = g.Wait()

	if recentMeals == nil {
		recentMeals = []meals.Meal{}
	}
	if recentExercises == nil {
		recentExercises = []exercises.Exercise{}
	}

	stats := &Stats{
		DailyCalories:   DailyCalories(s.zone, todayMeals, now),
		CalorieTarget:   profile.CalorieGoal(),
		ActiveDays:      ActiveDays(s.zone, weekExercises, now),
		RecentMeals:     recentMeals,
		RecentExercises: recentExercises,
	}
	stats.CurrentWeight, stats.GoalWeight = WeightProgress(profile)
	stats.Cards = cards(*stats, CalorieTargetLabel(profile))

	return stats
}

package web_test

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"sync"

	"github.com/2beens/fittrack/internal/auth"
	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/meals"
	"github.com/2beens/fittrack/internal/profiles"
	"github.com/2beens/fittrack/internal/recommend"

	"github.com/brianvoe/gofakeit/v6"
)

type fakeChecker struct {
	user *auth.User
}

func (c fakeChecker) UserFromRequest(*http.Request) (*auth.User, error) {
	if c.user == nil {
		return nil, auth.ErrSessionNotFound
	}
	return c.user, nil
}

type fakeMeals struct {
	mu      sync.Mutex
	rows    map[string]meals.Meal
	listErr error
}

func newFakeMeals() *fakeMeals {
	return &fakeMeals{rows: map[string]meals.Meal{}}
}

func (f *fakeMeals) Add(_ context.Context, meal meals.Meal) (*meals.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meal.ID = gofakeit.UUID()
	f.rows[meal.ID] = meal
	return &meal, nil
}

func (f *fakeMeals) Get(_ context.Context, id string) (*meals.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	meal, ok := f.rows[id]
	if !ok {
		return nil, meals.ErrMealNotFound
	}
	return &meal, nil
}

func (f *fakeMeals) List(_ context.Context, params meals.ListParams) ([]meals.Meal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var list []meals.Meal
	for _, m := range f.rows {
		if m.UserID == params.UserID {
			list = append(list, m)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].MealTime.After(list[j].MealTime) })
	return list, nil
}

func (f *fakeMeals) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	meal, ok := f.rows[id]
	if !ok || meal.UserID != userID {
		return meals.ErrMealNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeExercises struct {
	mu   sync.Mutex
	rows map[string]exercises.Exercise
}

func newFakeExercises() *fakeExercises {
	return &fakeExercises{rows: map[string]exercises.Exercise{}}
}

func (f *fakeExercises) Add(_ context.Context, e exercises.Exercise) (*exercises.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = gofakeit.UUID()
	f.rows[e.ID] = e
	return &e, nil
}

func (f *fakeExercises) Get(_ context.Context, id string) (*exercises.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok {
		return nil, exercises.ErrExerciseNotFound
	}
	return &e, nil
}

func (f *fakeExercises) List(_ context.Context, params exercises.ListParams) ([]exercises.Exercise, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var list []exercises.Exercise
	for _, e := range f.rows {
		if e.UserID == params.UserID {
			list = append(list, e)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ExerciseTime.After(list[j].ExerciseTime) })
	if params.Limit > 0 && uint64(len(list)) > params.Limit {
		list = list[:params.Limit]
	}
	return list, nil
}

func (f *fakeExercises) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.rows[id]
	if !ok || e.UserID != userID {
		return exercises.ErrExerciseNotFound
	}
	delete(f.rows, id)
	return nil
}

type fakeProfiles struct {
	mu   sync.Mutex
	rows map[string]profiles.Profile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{rows: map[string]profiles.Profile{}}
}

func (f *fakeProfiles) Get(_ context.Context, id string) (*profiles.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.rows[id]
	if !ok {
		return nil, profiles.ErrProfileNotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Upsert(_ context.Context, p profiles.Profile) (*profiles.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[p.ID] = p
	return &p, nil
}

type fakeGenerator struct {
	workout string
	err     error
	prompts []string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.prompts = append(g.prompts, prompt)
	return g.workout, g.err
}

type fakeRecommendations struct {
	stored []recommend.Recommendation
}

func (f *fakeRecommendations) Add(_ context.Context, rec recommend.Recommendation) (string, error) {
	f.stored = append(f.stored, rec)
	return gofakeit.UUID(), nil
}

var errStoreDown = errors.New("store down")

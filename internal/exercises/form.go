package exercises

import (
	"errors"
	"math"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/timeutil"
	"github.com/2beens/fittrack/pkg"
)

// Form is an exercise as submitted by a client. All category fields may be present,
// only the ones matching Category are kept.
type Form struct {
	Name           string        `json:"name"`
	Type           string        `json:"type"`
	Category       string        `json:"exercise_category"`
	Duration       pkg.FlexFloat `json:"duration"`
	CaloriesBurned pkg.FlexFloat `json:"calories_burned"`
	Sets           pkg.FlexFloat `json:"sets"`
	Reps           pkg.FlexFloat `json:"reps"`
	Weight         pkg.FlexFloat `json:"weight"`
	Distance       pkg.FlexFloat `json:"distance"`
	// the exercise page sends "date"
	Date         string `json:"date"`
	ExerciseTime string `json:"exercise_time"`
}

type numberField struct {
	name  string
	label string
	dest  *pkg.FlexFloat
}

func (f *Form) numberFields() []numberField {
	return []numberField{
		{"duration", "Duration", &f.Duration},
		{"calories_burned", "Calories burned", &f.CaloriesBurned},
		{"sets", "Sets", &f.Sets},
		{"reps", "Reps", &f.Reps},
		{"weight", "Weight", &f.Weight},
		{"distance", "Distance", &f.Distance},
	}
}

func FormFromValues(values url.Values) (Form, error) {
	f := Form{
		Name:         values.Get("name"),
		Type:         values.Get("type"),
		Category:     values.Get("exercise_category"),
		Date:         values.Get("date"),
		ExerciseTime: values.Get("exercise_time"),
	}

	for _, field := range f.numberFields() {
		v, err := pkg.ParseFlexFloat(values.Get(field.name))
		if err != nil {
			return f, pkg.NewFieldError(field.name, field.label+" must be a number")
		}
		*field.dest = v
	}

	return f, nil
}

// Validate turns the form into an exercise owned by userID.
// A missing or unreadable time falls back to now.
func (f Form) Validate(zone *timeutil.Zone, userID string, now time.Time) (*Exercise, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, pkg.NewFieldError("name", "Exercise name is required")
	}
	exType := strings.TrimSpace(f.Type)
	if exType == "" {
		return nil, pkg.NewFieldError("type", "Exercise type is required")
	}
	category, ok := ParseCategory(strings.TrimSpace(f.Category))
	if !ok {
		return nil, pkg.NewFieldError("exercise_category", "Invalid exercise category")
	}

	for _, field := range f.numberFields() {
		if field.dest.Set && field.dest.Value < 0 {
			return nil, pkg.NewFieldError(field.name, field.label+" must be a positive number")
		}
	}

	var details Details
	switch category {
	case CategoryCardio:
		details = Cardio{
			Duration:       f.Duration.Ptr(),
			Distance:       f.Distance.Ptr(),
			CaloriesBurned: f.CaloriesBurned.Ptr(),
		}
	case CategoryStrength:
		sets, err := wholeNumber(f.Sets)
		if err != nil {
			return nil, pkg.NewFieldError("sets", "Sets must be a whole number")
		}
		reps, err := wholeNumber(f.Reps)
		if err != nil {
			return nil, pkg.NewFieldError("reps", "Reps must be a whole number")
		}
		details = Strength{
			Sets:   sets,
			Reps:   reps,
			Weight: f.Weight.Ptr(),
		}
	case CategoryFlexibility:
		details = Flexibility{
			Duration:       f.Duration.Ptr(),
			CaloriesBurned: f.CaloriesBurned.Ptr(),
		}
	case CategorySports:
		details = Sports{
			Duration:       f.Duration.Ptr(),
			CaloriesBurned: f.CaloriesBurned.Ptr(),
		}
	}

	rawTime := f.ExerciseTime
	if rawTime == "" {
		rawTime = f.Date
	}
	exerciseTime, err := zone.ParseInstant(rawTime, now)
	if err != nil {
		exerciseTime = now
	}

	return &Exercise{
		UserID:       userID,
		Name:         name,
		Type:         exType,
		Details:      details,
		ExerciseTime: exerciseTime.UTC(),
	}, nil
}

var errNotWhole = errors.New("not a whole number")

func wholeNumber(f pkg.FlexFloat) (*int, error) {
	if !f.Set {
		return nil, nil
	}
	if f.Value != math.Trunc(f.Value) || f.Value > math.MaxInt32 {
		return nil, errNotWhole
	}
	n := int(f.Value)
	return &n, nil
}

package meals

import (
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/timeutil"
	"github.com/2beens/fittrack/pkg"
)

// Form is a meal as submitted by a client. Numbers may come as JSON numbers or strings.
// Any user_id in the payload is ignored, the owner always comes from the session.
type Form struct {
	Name     string        `json:"name"`
	Calories pkg.FlexFloat `json:"calories"`
	Protein  pkg.FlexFloat `json:"protein"`
	Carbs    pkg.FlexFloat `json:"carbs"`
	Fat      pkg.FlexFloat `json:"fat"`
	MealTime string        `json:"meal_time"`
	// the diet page form names the field "time"
	Time string `json:"time"`
}

func FormFromValues(values url.Values) (Form, error) {
	f := Form{
		Name:     values.Get("name"),
		MealTime: values.Get("meal_time"),
		Time:     values.Get("time"),
	}

	for _, field := range []struct {
		name  string
		label string
		dest  *pkg.FlexFloat
	}{
		{"calories", "Calories", &f.Calories},
		{"protein", "Protein", &f.Protein},
		{"carbs", "Carbs", &f.Carbs},
		{"fat", "Fat", &f.Fat},
	} {
		v, err := pkg.ParseFlexFloat(values.Get(field.name))
		if err != nil {
			return f, pkg.NewFieldError(field.name, field.label+" must be a number")
		}
		*field.dest = v
	}

	return f, nil
}

// Validate turns the form into a meal owned by userID.
// Missing numbers count as zero, negative ones are rejected.
func (f Form) Validate(zone *timeutil.Zone, userID string, now time.Time) (*Meal, error) {
	name := strings.TrimSpace(f.Name)
	if name == "" {
		return nil, pkg.NewFieldError("name", "Meal name is required")
	}

	meal := &Meal{
		UserID:   userID,
		Name:     name,
		Calories: f.Calories.Value,
		Protein:  f.Protein.Value,
		Carbs:    f.Carbs.Value,
		Fat:      f.Fat.Value,
	}

	for _, n := range []struct {
		field string
		label string
		value float64
	}{
		{"calories", "Calories", meal.Calories},
		{"protein", "Protein", meal.Protein},
		{"carbs", "Carbs", meal.Carbs},
		{"fat", "Fat", meal.Fat},
	} {
		if n.value < 0 {
			return nil, pkg.NewFieldError(n.field, n.label+" must be a positive number")
		}
	}

	rawTime := f.MealTime
	if rawTime == "" {
		rawTime = f.Time
	}
	mealTime, err := zone.ParseInstant(rawTime, now)
	if err != nil {
		return nil, pkg.NewFieldError("meal_time", "Invalid meal time")
	}
	meal.MealTime = mealTime

	return meal, nil
}

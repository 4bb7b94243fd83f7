package profiles

import (
	"math"
	"net/url"
	"strings"

	"github.com/2beens/fittrack/pkg"
)

type Form struct {
	FullName         string        `json:"full_name"`
	AvatarURL        string        `json:"avatar_url"`
	Height           pkg.FlexFloat `json:"height"`
	Weight           pkg.FlexFloat `json:"weight"`
	GoalWeight       pkg.FlexFloat `json:"goal_weight"`
	ActivityLevel    string        `json:"activity_level"`
	DailyCalorieGoal pkg.FlexFloat `json:"daily_calorie_goal"`
}

type numberField struct {
	name  string
	label string
	dest  *pkg.FlexFloat
}

func (f *Form) numberFields() []numberField {
	return []numberField{
		{"height", "Height", &f.Height},
		{"weight", "Weight", &f.Weight},
		{"goal_weight", "Goal weight", &f.GoalWeight},
		{"daily_calorie_goal", "Daily calorie goal", &f.DailyCalorieGoal},
	}
}

func FormFromValues(values url.Values) (Form, error) {
	f := Form{
		FullName:      values.Get("full_name"),
		AvatarURL:     values.Get("avatar_url"),
		ActivityLevel: values.Get("activity_level"),
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

// Validate builds the profile stored for the given user.
// Zero numbers are kept as zero, missing ones stay NULL.
func (f Form) Validate(userID, email string) (*Profile, error) {
	for _, field := range f.numberFields() {
		if field.dest.Set && field.dest.Value < 0 {
			return nil, pkg.NewFieldError(field.name, field.label+" must be a positive number")
		}
	}

	profile := &Profile{
		ID:         userID,
		Email:      email,
		FullName:   optionalString(f.FullName),
		AvatarURL:  optionalString(f.AvatarURL),
		Height:     f.Height.Ptr(),
		Weight:     f.Weight.Ptr(),
		GoalWeight: f.GoalWeight.Ptr(),
	}

	level := strings.TrimSpace(f.ActivityLevel)
	if level == "" {
		level = DefaultActivityLevel
	}
	if !IsActivityLevel(level) {
		return nil, pkg.NewFieldError("activity_level", "Invalid activity level")
	}
	profile.ActivityLevel = &level

	if f.DailyCalorieGoal.Set {
		goal := f.DailyCalorieGoal.Value
		if goal != math.Trunc(goal) || goal > math.MaxInt32 {
			return nil, pkg.NewFieldError("daily_calorie_goal", "Daily calorie goal must be a whole number")
		}
		g := int(goal)
		profile.DailyCalorieGoal = &g
	}

	return profile, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

package profiles

import (
	"errors"
	"fmt"
	"time"
)

const (
	DefaultActivityLevel    = "Moderately Active"
	DefaultDailyCalorieGoal = 2300
)

var ErrProfileNotFound = errors.New("profile not found")

var ActivityLevels = []string{
	"Sedentary",
	"Lightly Active",
	"Moderately Active",
	"Very Active",
	"Extremely Active",
}

func IsActivityLevel(s string) bool {
	for _, level := range ActivityLevels {
		if s == level {
			return true
		}
	}
	return false
}

// Profile shares its id with the auth user it describes.
type Profile struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	FullName         *string   `json:"full_name"`
	AvatarURL        *string   `json:"avatar_url"`
	Height           *float64  `json:"height"`
	Weight           *float64  `json:"weight"`
	GoalWeight       *float64  `json:"goal_weight"`
	ActivityLevel    *string   `json:"activity_level"`
	DailyCalorieGoal *int      `json:"daily_calorie_goal"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Default is what a user without a stored profile sees.
func Default(userID, email string) Profile {
	p := Profile{
		ID:    userID,
		Email: email,
	}
	return p.WithDefaults()
}

// WithDefaults fills in the activity level and calorie goal when unset.
func (p Profile) WithDefaults() Profile {
	if p.ActivityLevel == nil || *p.ActivityLevel == "" {
		level := DefaultActivityLevel
		p.ActivityLevel = &level
	}
	if p.DailyCalorieGoal == nil || *p.DailyCalorieGoal == 0 {
		goal := DefaultDailyCalorieGoal
		p.DailyCalorieGoal = &goal
	}
	return p
}

// CalorieGoal is the daily target, falling back to the default.
func (p *Profile) CalorieGoal() int {
	if p == nil || p.DailyCalorieGoal == nil || *p.DailyCalorieGoal <= 0 {
		return DefaultDailyCalorieGoal
	}
	return *p.DailyCalorieGoal
}

// FormatWeight renders a weight for display, "Not set" when missing.
func FormatWeight(w *float64) string {
	if w == nil || *w == 0 {
		return "Not set"
	}
	return fmt.Sprintf("%g kg", *w)
}

package dashboard

import (
	"strconv"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/meals"
	"github.com/2beens/fittrack/internal/profiles"
	"github.com/2beens/fittrack/internal/timeutil"
)

const recentLimit = 5

// Card is one headline number on the dashboard, shown as "value / target".
type Card struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Target string `json:"target"`
}

type Stats struct {
	DailyCalories   float64              `json:"daily_calories"`
	CalorieTarget   int                  `json:"calorie_target"`
	ActiveDays      int                  `json:"active_days"`
	CurrentWeight   string               `json:"current_weight"`
	GoalWeight      string               `json:"goal_weight"`
	Cards           []Card               `json:"cards"`
	RecentMeals     []meals.Meal         `json:"recent_meals"`
	RecentExercises []exercises.Exercise `json:"recent_exercises"`
}

// DailyCalories sums calories of meals eaten on now's calendar day in the zone.
func DailyCalories(zone *timeutil.Zone, mealList []meals.Meal, now time.Time) float64 {
	from, to := zone.StartOfDay(now), zone.EndOfDay(now)
	total := 0.0
	for _, m := range mealList {
		if !m.MealTime.Before(from) && m.MealTime.Before(to) {
			total += m.Calories
		}
	}
	return total
}

// ActiveDays counts distinct days of now's week with at least one exercise.
func ActiveDays(zone *timeutil.Zone, exerciseList []exercises.Exercise, now time.Time) int {
	from, to := zone.StartOfWeek(now), zone.EndOfWeek(now)
	days := make(map[string]struct{})
	for _, e := range exerciseList {
		if e.ExerciseTime.Before(from) || !e.ExerciseTime.Before(to) {
			continue
		}
		days[zone.DateKey(e.ExerciseTime)] = struct{}{}
	}
	return len(days)
}

// WeightProgress returns the current and goal weight for display.
func WeightProgress(p *profiles.Profile) (current, goal string) {
	if p == nil {
		return profiles.FormatWeight(nil), profiles.FormatWeight(nil)
	}
	return profiles.FormatWeight(p.Weight), profiles.FormatWeight(p.GoalWeight)
}

// CalorieTargetLabel shows a stored goal as entered and the default goal grouped, like "2,300".
func CalorieTargetLabel(p *profiles.Profile) string {
	if p == nil || p.DailyCalorieGoal == nil || *p.DailyCalorieGoal <= 0 {
		return groupThousands(profiles.DefaultDailyCalorieGoal)
	}
	return strconv.Itoa(*p.DailyCalorieGoal)
}

func cards(s Stats, calorieTarget string) []Card {
	return []Card{
		{
			Name:   "Daily Calories",
			Value:  strconv.FormatFloat(s.DailyCalories, 'f', -1, 64),
			Target: calorieTarget,
		},
		{
			Name:   "Current Weight",
			Value:  s.CurrentWeight,
			Target: s.GoalWeight,
		},
		{
			Name:   "Active Days",
			Value:  strconv.Itoa(s.ActiveDays) + "/7",
			Target: "7/7",
		},
	}
}

// groupThousands formats 2300 as "2,300".
func groupThousands(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		return "-" + groupThousands(-n)
	}
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	head := len(s) % 3
	if head > 0 {
		b.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

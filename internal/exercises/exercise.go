package exercises

import (
	"encoding/json"
	"errors"
	"time"
)

var (
	ErrExerciseNotFound = errors.New("exercise not found")
	ErrNotOwner         = errors.New("exercise owned by another user")
)

type Category string

const (
	CategoryCardio      Category = "cardio"
	CategoryStrength    Category = "strength"
	CategoryFlexibility Category = "flexibility"
	CategorySports      Category = "sports"
)

var Categories = []Category{CategoryCardio, CategoryStrength, CategoryFlexibility, CategorySports}

// TypesByCategory are the suggested exercise types for each category.
var TypesByCategory = map[Category][]string{
	CategoryCardio:      {"Running", "Cycling", "Swimming", "Walking", "Rowing", "HIIT", "Other Cardio"},
	CategoryStrength:    {"Weight Training", "Bodyweight Exercise", "Resistance Bands", "Other Strength"},
	CategoryFlexibility: {"Yoga", "Pilates", "Stretching", "Other Flexibility"},
	CategorySports:      {"Basketball", "Tennis", "Soccer", "Other Sports"},
}

func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	for _, known := range Categories {
		if c == known {
			return c, true
		}
	}
	return "", false
}

// Details holds the measurements that make sense for one category.
// It is one of Cardio, Strength, Flexibility, Sports or Uncategorized.
type Details interface {
	Category() Category
	flatten(row *flatExercise)
}

type Cardio struct {
	Duration       *float64
	Distance       *float64
	CaloriesBurned *float64
}

type Strength struct {
	Sets   *int
	Reps   *int
	Weight *float64
}

type Flexibility struct {
	Duration       *float64
	CaloriesBurned *float64
}

type Sports struct {
	Duration       *float64
	CaloriesBurned *float64
}

// Uncategorized is for rows stored before categories existed.
type Uncategorized struct {
	Duration       *float64
	CaloriesBurned *float64
}

func (Cardio) Category() Category        { return CategoryCardio }
func (Strength) Category() Category      { return CategoryStrength }
func (Flexibility) Category() Category   { return CategoryFlexibility }
func (Sports) Category() Category        { return CategorySports }
func (Uncategorized) Category() Category { return "" }

func (d Cardio) flatten(row *flatExercise) {
	row.Duration, row.Distance, row.CaloriesBurned = d.Duration, d.Distance, d.CaloriesBurned
}

func (d Strength) flatten(row *flatExercise) {
	row.Sets, row.Reps, row.Weight = d.Sets, d.Reps, d.Weight
}

func (d Flexibility) flatten(row *flatExercise) {
	row.Duration, row.CaloriesBurned = d.Duration, d.CaloriesBurned
}

func (d Sports) flatten(row *flatExercise) {
	row.Duration, row.CaloriesBurned = d.Duration, d.CaloriesBurned
}

func (d Uncategorized) flatten(row *flatExercise) {
	row.Duration, row.CaloriesBurned = d.Duration, d.CaloriesBurned
}

type Exercise struct {
	ID           string
	UserID       string
	Name         string
	Type         string
	Details      Details
	ExerciseTime time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Duration in minutes, if the category tracks one.
func (e Exercise) Duration() *float64 {
	switch d := e.Details.(type) {
	case Cardio:
		return d.Duration
	case Flexibility:
		return d.Duration
	case Sports:
		return d.Duration
	case Uncategorized:
		return d.Duration
	default:
		return nil
	}
}

func (e Exercise) CaloriesBurned() *float64 {
	switch d := e.Details.(type) {
	case Cardio:
		return d.CaloriesBurned
	case Flexibility:
		return d.CaloriesBurned
	case Sports:
		return d.CaloriesBurned
	case Uncategorized:
		return d.CaloriesBurned
	default:
		return nil
	}
}

// flatExercise is the table shape, also used on the wire.
type flatExercise struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Name           string    `json:"name"`
	Type           string    `json:"type"`
	Category       *string   `json:"exercise_category"`
	Duration       *float64  `json:"duration"`
	CaloriesBurned *float64  `json:"calories_burned"`
	Sets           *int      `json:"sets"`
	Reps           *int      `json:"reps"`
	Weight         *float64  `json:"weight"`
	Distance       *float64  `json:"distance"`
	ExerciseTime   time.Time `json:"exercise_time"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (e Exercise) flat() flatExercise {
	row := flatExercise{
		ID:           e.ID,
		UserID:       e.UserID,
		Name:         e.Name,
		Type:         e.Type,
		ExerciseTime: e.ExerciseTime,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
	if e.Details != nil {
		if c := e.Details.Category(); c != "" {
			category := string(c)
			row.Category = &category
		}
		e.Details.flatten(&row)
	}
	return row
}

// exercise picks only the columns that belong to the row's category.
func (row flatExercise) exercise() Exercise {
	e := Exercise{
		ID:           row.ID,
		UserID:       row.UserID,
		Name:         row.Name,
		Type:         row.Type,
		ExerciseTime: row.ExerciseTime,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}

	var category Category
	if row.Category != nil {
		category = Category(*row.Category)
	}

	switch category {
	case CategoryCardio:
		e.Details = Cardio{Duration: row.Duration, Distance: row.Distance, CaloriesBurned: row.CaloriesBurned}
	case CategoryStrength:
		e.Details = Strength{Sets: row.Sets, Reps: row.Reps, Weight: row.Weight}
	case CategoryFlexibility:
		e.Details = Flexibility{Duration: row.Duration, CaloriesBurned: row.CaloriesBurned}
	case CategorySports:
		e.Details = Sports{Duration: row.Duration, CaloriesBurned: row.CaloriesBurned}
	default:
		e.Details = Uncategorized{Duration: row.Duration, CaloriesBurned: row.CaloriesBurned}
	}

	return e
}

func (e Exercise) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.flat())
}

func (e *Exercise) UnmarshalJSON(data []byte) error {
	var row flatExercise
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	*e = row.exercise()
	return nil
}

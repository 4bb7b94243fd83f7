package meals

import (
	"errors"
	"time"
)

var (
	ErrMealNotFound = errors.New("meal not found")
	ErrNotOwner     = errors.New("meal owned by another user")
)

type Meal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	MealTime  time.Time `json:"meal_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
)

type mealResponse struct {
	ID       string  `json:"id"`
	UserID   string  `json:"user_id"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
}

type exerciseResponse struct {
	ID       string   `json:"id"`
	UserID   string   `json:"user_id"`
	Name     string   `json:"name"`
	Category *string  `json:"exercise_category"`
	Duration *float64 `json:"duration"`
	Sets     *int     `json:"sets"`
}

func (s *IntegrationTestSuite) TestTestConnection() {
	resp, body := s.newClient().get(s, "/api/test-connection")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.JSONEq(`{"status":"Connected to database successfully!"}`, string(body))
}

func (s *IntegrationTestSuite) TestSignIn() {
	c := s.newClient()

	resp, body := c.doJSON(s, http.MethodPost, "/auth/signin", map[string]string{
		"email":    testUserAna.Email,
		"password": "wrong-password",
	})
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	s.JSONEq(`{"error":"Invalid login credentials"}`, string(body))

	resp, _ = c.get(s, "/api/meals")
	s.Equal(http.StatusUnauthorized, resp.StatusCode)

	resp, _ = c.postForm(s, "/auth/signin", url.Values{
		"email":          {testUserAna.Email},
		"password":       {testPassword},
		"redirectedFrom": {"/diet"},
	})
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/diet", resp.Header.Get("Location"))

	resp, _ = c.get(s, "/api/meals")
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, _ = c.postForm(s, "/auth/signout", url.Values{})
	s.Equal(http.StatusSeeOther, resp.StatusCode)

	resp, _ = c.get(s, "/dashboard")
	s.Equal(http.StatusSeeOther, resp.StatusCode)
	s.Equal("/auth/signin?redirectedFrom=%2Fdashboard", resp.Header.Get("Location"))
}

func (s *IntegrationTestSuite) TestMeals() {
	ana := s.signedIn(testUserAna.Email)
	bob := s.signedIn(testUserBob.Email)

	resp, body := ana.doJSON(s, http.MethodPost, "/api/meals", map[string]any{
		"name":     "Oatmeal",
		"calories": "350",
		"protein":  12,
		"carbs":    60,
		"fat":      6,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var added mealResponse
	s.Require().NoError(json.Unmarshal(body, &added))
	s.NotEmpty(added.ID)
	s.Equal(testUserAna.ID, added.UserID)
	s.Equal(350.0, added.Calories)

	resp, body = ana.doJSON(s, http.MethodPost, "/api/meals", map[string]any{
		"name":     "Salad",
		"calories": -5,
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"error":"Calories must be a positive number"}`, string(body))

	resp, body = ana.get(s, "/api/meals")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var anaMeals []mealResponse
	s.Require().NoError(json.Unmarshal(body, &anaMeals))
	s.Require().Len(anaMeals, 1)
	s.Equal("Oatmeal", anaMeals[0].Name)

	resp, body = bob.get(s, "/api/meals")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var bobMeals []mealResponse
	s.Require().NoError(json.Unmarshal(body, &bobMeals))
	s.Empty(bobMeals)

	resp, body = bob.doJSON(s, http.MethodDelete, "/api/meals?id="+added.ID, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.JSONEq(`{"error":"Unauthorized to delete this meal"}`, string(body))

	resp, body = ana.doJSON(s, http.MethodDelete, "/api/meals?id=not-a-uuid", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.JSONEq(`{"error":"Invalid meal ID"}`, string(body))

	resp, _ = ana.doJSON(s, http.MethodDelete, "/api/meals?id="+added.ID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)

	resp, body = ana.doJSON(s, http.MethodDelete, "/api/meals?id="+added.ID, nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	s.JSONEq(`{"error":"Meal not found"}`, string(body))

	var count int
	s.Require().NoError(s.DB.QueryRow("SELECT count(*) FROM meals").Scan(&count))
	s.Equal(0, count)
}

func (s *IntegrationTestSuite) TestExercises() {
	ana := s.signedIn(testUserAna.Email)

	resp, body := ana.doJSON(s, http.MethodPost, "/api/exercises", map[string]any{
		"name":              "Morning run",
		"type":              "Running",
		"exercise_category": "cardio",
		"duration":          "30",
		"distance":          5,
		// strength fields are dropped for cardio
		"sets": 3,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	var added exerciseResponse
	s.Require().NoError(json.Unmarshal(body, &added))
	s.Require().NotNil(added.Category)
	s.Equal("cardio", *added.Category)
	s.Require().NotNil(added.Duration)
	s.Equal(30.0, *added.Duration)
	s.Nil(added.Sets)

	var storedSets *int
	s.Require().NoError(s.DB.QueryRow("SELECT sets FROM exercises WHERE id = $1", added.ID).Scan(&storedSets))
	s.Nil(storedSets)

	resp, body = ana.doJSON(s, http.MethodPost, "/api/exercises", map[string]any{
		"name":              "Mystery",
		"type":              "Other",
		"exercise_category": "juggling",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = ana.get(s, "/api/exercises")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var list []exerciseResponse
	s.Require().NoError(json.Unmarshal(body, &list))
	s.Len(list, 1)

	bob := s.signedIn(testUserBob.Email)
	resp, _ = bob.doJSON(s, http.MethodDelete, "/api/exercises?id="+added.ID, nil)
	s.Equal(http.StatusForbidden, resp.StatusCode)

	resp, _ = ana.doJSON(s, http.MethodDelete, "/api/exercises?id="+added.ID, nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestProfileAndDashboard() {
	ana := s.signedIn(testUserAna.Email)

	resp, body := ana.doJSON(s, http.MethodPut, "/api/profile", map[string]any{
		"full_name":          "Ana Runner",
		"weight":             "64.5",
		"goal_weight":        60,
		"activity_level":     "Moderately Active",
		"daily_calorie_goal": 2100,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, body = ana.doJSON(s, http.MethodPut, "/api/profile", map[string]any{
		"activity_level": "couch",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = ana.get(s, "/api/profile")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var profile struct {
		Email            string  `json:"email"`
		FullName         *string `json:"full_name"`
		DailyCalorieGoal *int    `json:"daily_calorie_goal"`
	}
	s.Require().NoError(json.Unmarshal(body, &profile))
	s.Equal(testUserAna.Email, profile.Email)
	s.Require().NotNil(profile.FullName)
	s.Equal("Ana Runner", *profile.FullName)
	s.Require().NotNil(profile.DailyCalorieGoal)
	s.Equal(2100, *profile.DailyCalorieGoal)

	resp, body = ana.doJSON(s, http.MethodPost, "/api/meals", map[string]any{"name": "Lunch", "calories": 700})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, body = ana.get(s, "/api/dashboard")
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	var stats struct {
		DailyCalories float64 `json:"daily_calories"`
		CalorieTarget int     `json:"calorie_target"`
	}
	s.Require().NoError(json.Unmarshal(body, &stats))
	s.Equal(700.0, stats.DailyCalories)
	s.Equal(2100, stats.CalorieTarget)

	resp, body = ana.get(s, "/dashboard")
	s.Equal(http.StatusOK, resp.StatusCode)
	s.Contains(string(body), "700</strong> / 2100")
}

func (s *IntegrationTestSuite) TestRecommend() {
	ana := s.signedIn(testUserAna.Email)

	resp, body := ana.doJSON(s, http.MethodPost, "/api/exercises", map[string]any{
		"name":              "Evening yoga",
		"type":              "Yoga",
		"exercise_category": "flexibility",
		"duration":          45,
	})
	s.Require().Equal(http.StatusCreated, resp.StatusCode, string(body))

	resp, body = ana.doJSON(s, http.MethodPost, "/api/exercise/recommend", map[string]string{
		"fitnessLevel": "beginner",
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode, string(body))

	resp, body = ana.doJSON(s, http.MethodPost, "/api/exercise/recommend", map[string]string{
		"equipment":    "kettlebell",
		"fitnessLevel": "beginner",
		"goals":        "lose weight",
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var result struct {
		Workout     string `json:"workout"`
		Explanation string `json:"explanation"`
	}
	s.Require().NoError(json.Unmarshal(body, &result))
	s.Contains(result.Workout, "goblet squats")
	s.NotEmpty(result.Explanation)

	prompt := s.generator.lastPrompt()
	s.Contains(prompt, "kettlebell")
	s.Contains(prompt, "Yoga")

	var stored string
	s.Require().NoError(s.DB.QueryRow(
		"SELECT recommendation FROM workout_recommendations WHERE user_id = $1", testUserAna.ID,
	).Scan(&stored))
	s.True(strings.Contains(stored, "goblet squats"))
}

package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/exercises"
	"github.com/2beens/fittrack/internal/telemetry/metrics"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultFitnessLevel = "intermediate"
	DefaultGoals        = "general fitness"

	Explanation = "This personalized workout plan is based on your available equipment, fitness level, and recent exercise history."

	historyLimit = 5
)

var ErrEquipmentRequired = errors.New("equipment information is required")

//go:generate mockgen -source=$GOFILE -destination=recommend_mocks_test.go -package=recommend_test

type historyReader interface {
	List(ctx context.Context, params exercises.ListParams) ([]exercises.Exercise, error)
}

type recommendationsRepo interface {
	Add(ctx context.Context, rec Recommendation) (string, error)
}

type Request struct {
	Equipment    string `json:"equipment"`
	FitnessLevel string `json:"fitnessLevel"`
	Goals        string `json:"goals"`
}

type Result struct {
	Workout     string `json:"workout"`
	Explanation string `json:"explanation"`
}

type Service struct {
	generator Generator
	history   historyReader
	repo      recommendationsRepo
	metrics   *metrics.Manager
	now       func() time.Time
}

func NewService(
	generator Generator,
	history historyReader,
	repo recommendationsRepo,
	metricsManager *metrics.Manager,
) *Service {
	return &Service{
		generator: generator,
		history:   history,
		repo:      repo,
		metrics:   metricsManager,
		now:       time.Now,
	}
}

// Recommend asks the generator for a workout plan tailored to the user's recent exercises.
// The plan is stored afterwards, a failed store does not fail the request.
func (s *Service) Recommend(ctx context.Context, userID string, req Request) (*Result, error) {
	equipment := strings.TrimSpace(req.Equipment)
	if equipment == "" {
		return nil, ErrEquipmentRequired
	}
	fitnessLevel := strings.TrimSpace(req.FitnessLevel)
	if fitnessLevel == "" {
		fitnessLevel = DefaultFitnessLevel
	}
	goals := strings.TrimSpace(req.Goals)
	if goals == "" {
		goals = DefaultGoals
	}

	history := noHistory
	recent, err := s.history.List(ctx, exercises.ListParams{
		UserID:  userID,
		OrderBy: exercises.OrderByExerciseTime,
		Limit:   historyLimit,
	})
	if err != nil {
		log.Errorf("recommend: read exercise history for %s: %s", userID, err)
	} else {
		history = formatHistory(recent)
	}

	prompt := buildPrompt(equipment, fitnessLevel, goals, history)

	start := time.Now()
	workout, err := s.generator.Generate(ctx, prompt)
	if s.metrics != nil {
		s.metrics.HistogramGenerationDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		outcome := metrics.RecommendationFailed
		if errors.Is(err, ErrGenerationUnavailable) {
			outcome = metrics.RecommendationUnavailable
		}
		s.countOutcome(outcome)
		return nil, fmt.Errorf("generate workout: %w", err)
	}
	s.countOutcome(metrics.RecommendationOK)

	if _, err := s.repo.Add(ctx, Recommendation{
		UserID:         userID,
		Equipment:      equipment,
		FitnessLevel:   fitnessLevel,
		Goals:          goals,
		Recommendation: workout,
		CreatedAt:      s.now(),
	}); err != nil {
		log.Errorf("recommend: store recommendation for %s: %s", userID, err)
	}

	return &Result{
		Workout:     workout,
		Explanation: Explanation,
	}, nil
}

func (s *Service) countOutcome(outcome string) {
	if s.metrics == nil {
		return
	}
	s.metrics.CounterRecommendations.WithLabelValues(outcome).Inc()
}

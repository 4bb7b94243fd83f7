package recommend

import (
	"context"
	"errors"
)

// ErrGenerationUnavailable wraps every failure of the text generation backend.
var ErrGenerationUnavailable = errors.New("workout generation unavailable")

// TrainerInstruction is prepended to every prompt sent to a generator.
const TrainerInstruction = "You are an expert fitness trainer. Create a personalized workout plan. "

//go:generate mockgen -source=$GOFILE -destination=generator_mocks_test.go -package=recommend_test

type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

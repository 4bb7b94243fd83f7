package recommend

import (
	"encoding/json"
	"fmt"

	"github.com/2beens/fittrack/internal/exercises"
)

const noHistory = "No recent history"

type historyEntry struct {
	Type     string   `json:"type"`
	Duration *float64 `json:"duration"`
}

// formatHistory renders recent exercises as a compact JSON list for the prompt.
func formatHistory(recent []exercises.Exercise) string {
	entries := make([]historyEntry, 0, len(recent))
	for _, e := range recent {
		entries = append(entries, historyEntry{Type: e.Type, Duration: e.Duration()})
	}
	b, err := json.Marshal(entries)
	if err != nil {
		return noHistory
	}
	return string(b)
}

func buildPrompt(equipment, fitnessLevel, goals, history string) string {
	return fmt.Sprintf(`Create a personalized workout routine based on:

Equipment Available: %s
Fitness Level: %s
Fitness Goals: %s
Recent Exercise History: %s

Please provide:
1. Warm-up routine (2-3 exercises)
2. Main workout with:
   - Exercise name
   - Sets and reps
   - Proper form cues
   - Rest periods
3. Cool-down routine
4. Total estimated time
5. Safety tips

Format the response in a clear, structured way.`, equipment, fitnessLevel, goals, history)
}

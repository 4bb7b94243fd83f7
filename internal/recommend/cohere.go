package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const cohereVersion = "2022-12-06"

var _ Generator = (*CohereGenerator)(nil)

// CohereGenerator uses the Cohere generate endpoint.
type CohereGenerator struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewCohereGenerator(url, apiKey, model string) *CohereGenerator {
	return &CohereGenerator{
		url:    url,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout:   60 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type cohereRequest struct {
	Model             string   `json:"model"`
	Prompt            string   `json:"prompt"`
	MaxTokens         int      `json:"max_tokens"`
	Temperature       float64  `json:"temperature"`
	K                 int      `json:"k"`
	StopSequences     []string `json:"stop_sequences"`
	ReturnLikelihoods string   `json:"return_likelihoods"`
}

type cohereResponse struct {
	Generations []struct {
		Text string `json:"text"`
	} `json:"generations"`
	Message string `json:"message"`
}

func (g *CohereGenerator) Generate(ctx context.Context, prompt string) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "generator.cohere")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("model", g.model))

	reqBody, err := json.Marshal(cohereRequest{
		Model:             g.model,
		Prompt:            TrainerInstruction + prompt,
		MaxTokens:         1000,
		Temperature:       0.7,
		K:                 0,
		StopSequences:     []string{},
		ReturnLikelihoods: "NONE",
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %w", ErrGenerationUnavailable, err)
	}
	req.Header.Set("Authorization", "Bearer "+g.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Cohere-Version", cohereVersion)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrGenerationUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", ErrGenerationUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		log.Debugf("cohere responded with %d: %s", resp.StatusCode, respBytes)
		return "", fmt.Errorf("%w: cohere status %s", ErrGenerationUnavailable, resp.Status)
	}

	var genResp cohereResponse
	if err := json.Unmarshal(respBytes, &genResp); err != nil {
		return "", fmt.Errorf("%w: unmarshal response: %w", ErrGenerationUnavailable, err)
	}
	if len(genResp.Generations) == 0 || strings.TrimSpace(genResp.Generations[0].Text) == "" {
		return "", fmt.Errorf("%w: empty generation", ErrGenerationUnavailable)
	}

	return genResp.Generations[0].Text, nil
}

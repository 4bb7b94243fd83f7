package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

var _ Provider = (*RemoteProvider)(nil)

// RemoteProvider talks to a hosted auth REST API (GoTrue compatible).
type RemoteProvider struct {
	baseURL    string
	apiKey     string
	siteURL    string
	httpClient *http.Client
}

func NewRemoteProvider(baseURL, apiKey, siteURL string) *RemoteProvider {
	return &RemoteProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		siteURL: strings.TrimRight(siteURL, "/"),
		httpClient: &http.Client{
			Timeout:   15 * time.Second,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type remoteUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// token and signup responses either wrap the user or are the user itself
type remoteAuthResponse struct {
	remoteUser
	User *remoteUser `json:"user"`
}

func (r remoteAuthResponse) toUser() (*User, error) {
	u := r.remoteUser
	if r.User != nil {
		u = *r.User
	}
	if u.ID == "" {
		return nil, fmt.Errorf("%w: response without user id", ErrProviderFailure)
	}
	return &User{ID: u.ID, Email: u.Email}, nil
}

type remoteErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
	Msg              string `json:"msg"`
	ErrorCode        string `json:"error_code"`
}

func (p *RemoteProvider) SignIn(ctx context.Context, email, password string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authProvider.signIn")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	reqURL := p.baseURL + "/auth/v1/token?grant_type=password"
	resp, err := p.post(ctx, reqURL, credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("user.id", resp.ID))

	return resp.toUser()
}

func (p *RemoteProvider) SignUp(ctx context.Context, email, password string) (_ *User, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "authProvider.signUp")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	reqURL := p.baseURL + "/auth/v1/signup"
	if p.siteURL != "" {
		reqURL += "?redirect_to=" + url.QueryEscape(p.siteURL+"/auth/verify-email")
	}

	resp, err := p.post(ctx, reqURL, credentialsRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	return resp.toUser()
}

func (p *RemoteProvider) post(ctx context.Context, reqURL string, body any) (*remoteAuthResponse, error) {
	reqBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", p.apiKey)
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProviderFailure, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %w", ErrProviderFailure, err)
	}

	if resp.StatusCode >= 300 {
		return nil, p.mapError(resp.StatusCode, respBytes)
	}

	authResp := &remoteAuthResponse{}
	if err := json.Unmarshal(respBytes, authResp); err != nil {
		return nil, fmt.Errorf("%w: unmarshal response: %w", ErrProviderFailure, err)
	}

	return authResp, nil
}

func (p *RemoteProvider) mapError(statusCode int, body []byte) error {
	var errResp remoteErrorResponse
	_ = json.Unmarshal(body, &errResp)
	log.Debugf("auth provider responded with %d: %s", statusCode, body)

	switch {
	case errResp.ErrorCode == "user_already_exists",
		strings.Contains(strings.ToLower(errResp.Msg), "already registered"):
		return ErrUserExists
	case statusCode == http.StatusBadRequest && errResp.Error == "invalid_grant",
		errResp.ErrorCode == "invalid_credentials":
		return ErrInvalidCredentials
	case statusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrProviderFailure, statusCode)
	default:
		msg := errResp.Msg
		if msg == "" {
			msg = errResp.ErrorDescription
		}
		return fmt.Errorf("%w: status %d: %s", ErrProviderFailure, statusCode, msg)
	}
}

func IsProviderFailure(err error) bool {
	return errors.Is(err, ErrProviderFailure)
}

//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/2beens/fittrack/internal/auth"
)

type apiClient struct {
	http *http.Client
}

func (s *IntegrationTestSuite) newClient() *apiClient {
	jar, err := cookiejar.New(nil)
	s.Require().NoError(err)
	return &apiClient{
		http: &http.Client{
			Jar:     jar,
			Timeout: 10 * time.Second,
			// redirects are asserted, not followed
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// signedIn returns a client holding a session cookie for user.
func (s *IntegrationTestSuite) signedIn(email string) *apiClient {
	c := s.newClient()
	resp, body := c.doJSON(s, http.MethodPost, "/auth/signin", map[string]string{
		"email":    email,
		"password": testPassword,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	endpoint, err := url.Parse(serverEndpoint)
	s.Require().NoError(err)
	var found bool
	for _, cookie := range c.http.Jar.Cookies(endpoint) {
		if cookie.Name == auth.SessionCookieName {
			found = true
		}
	}
	s.Require().True(found, "session cookie not set")
	return c
}

func (c *apiClient) doJSON(s *IntegrationTestSuite, method, path string, body any) (*http.Response, []byte) {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		s.Require().NoError(err)
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, serverEndpoint+path, reqBody)
	s.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.do(s, req)
}

func (c *apiClient) postForm(s *IntegrationTestSuite, path string, values url.Values) (*http.Response, []byte) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodPost, serverEndpoint+path, strings.NewReader(values.Encode()))
	s.Require().NoError(err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(s, req)
}

func (c *apiClient) get(s *IntegrationTestSuite, path string) (*http.Response, []byte) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, serverEndpoint+path, nil)
	s.Require().NoError(err)
	return c.do(s, req)
}

func (c *apiClient) do(s *IntegrationTestSuite, req *http.Request) (*http.Response, []byte) {
	resp, err := c.http.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	s.Require().NoError(err)
	return resp, respBytes
}

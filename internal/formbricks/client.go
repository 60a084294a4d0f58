// Package formbricks is a thin client for the Formbricks REST surface
// the seeder needs: the health endpoint, the management API (bearer
// auth) for users and surveys, and the public client API for responses.
package formbricks

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/seedlabs/formseed/internal/errors"
	"github.com/seedlabs/formseed/internal/httpclient"
	"github.com/seedlabs/formseed/internal/httpclient/rest"
	"github.com/seedlabs/formseed/internal/seed"
)

// Config holds connection settings for a Formbricks instance.
type Config struct {
	// BaseURL is the instance root, e.g. "http://localhost:3000".
	BaseURL string
	// APIKey is the management API bearer token.
	APIKey string
	// Timeout applies to management and client API calls. Defaults to 30s.
	Timeout time.Duration
	// ProbeTimeout bounds a single health probe. Defaults to 5s.
	ProbeTimeout time.Duration
}

// Client talks to a Formbricks instance.
type Client struct {
	rest         *rest.Client
	probeTimeout time.Duration
}

// New creates a Formbricks client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.InvalidInput("formbricks base URL is required")
	}
	if cfg.ProbeTimeout == 0 {
		cfg.ProbeTimeout = 5 * time.Second
	}

	var auth *httpclient.AuthConfig
	if cfg.APIKey != "" {
		auth = httpclient.BearerAuth(cfg.APIKey)
	}

	rc, err := rest.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    auth,
	})
	if err != nil {
		return nil, fmt.Errorf("formbricks: create client: %w", err)
	}

	return &Client{rest: rc, probeTimeout: cfg.ProbeTimeout}, nil
}

// Probe performs a single health check against /api/health. It returns
// nil only for a 200 response; the probe is bounded by the configured
// probe timeout independently of the parent context.
func (c *Client) Probe(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	resp, err := rest.Get[struct{}](ctx, c.rest, "/api/health")
	if err != nil {
		return fmt.Errorf("formbricks: health probe: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("formbricks: health probe: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// createdSurvey is the subset of the survey creation response we need.
type createdSurvey struct {
	ID string `json:"id"`
}

// surveyPayload is the survey creation request body. Responses are
// submitted separately through the client API, so they are stripped here.
type surveyPayload struct {
	Name      string          `json:"name"`
	Questions []seed.Question `json:"questions"`
}

// CreateUser creates a user through the management API. Anything other
// than 201 Created counts as failure.
func (c *Client) CreateUser(ctx context.Context, user seed.User) error {
	resp, err := rest.Post[struct{}](ctx, c.rest, "/api/management/users", user)
	if err != nil {
		return fmt.Errorf("formbricks: create user: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("formbricks: create user: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// CreateSurvey creates a survey through the management API and returns
// the server-assigned survey id.
func (c *Client) CreateSurvey(ctx context.Context, survey seed.Survey) (string, error) {
	payload := surveyPayload{Name: survey.Name, Questions: survey.Questions}

	resp, err := rest.Post[createdSurvey](ctx, c.rest, "/api/management/surveys", payload)
	if err != nil {
		return "", fmt.Errorf("formbricks: create survey: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return "", fmt.Errorf("formbricks: create survey: unexpected status %d", resp.StatusCode)
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("formbricks: create survey: response missing id")
	}
	return resp.Data.ID, nil
}

// CreateResponse submits a response through the public client API.
// The client API is unauthenticated, so the management bearer token is
// suppressed for this call.
func (c *Client) CreateResponse(ctx context.Context, surveyID string, response seed.Response) error {
	path := fmt.Sprintf("/api/client/surveys/%s/responses", url.PathEscape(surveyID))

	resp, err := rest.Post[struct{}](ctx, c.rest, path, response,
		rest.WithAuth(&httpclient.AuthConfig{Type: httpclient.AuthNone}))
	if err != nil {
		return fmt.Errorf("formbricks: create response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("formbricks: create response: unexpected status %d", resp.StatusCode)
	}
	return nil
}

package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/story-catalog/storycat/internal/models"
)

// Credentials is the login payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the account creation payload.
type Registration struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResult struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

// Login exchanges credentials for a bearer token and returns the
// session record. Persisting it is the caller's responsibility.
func (c *Client) Login(ctx context.Context, creds Credentials) (*models.Session, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	env, err := c.postJSON(ctx, "/login", creds)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if env.LoginResult == nil || env.LoginResult.Token == "" {
		return nil, &APIError{StatusCode: http.StatusOK, Message: "login response missing token"}
	}

	return &models.Session{
		ID:     models.DefaultSessionID,
		UserID: env.LoginResult.UserID,
		Name:   env.LoginResult.Name,
		Token:  env.LoginResult.Token,
	}, nil
}

// Register creates a new account. The API does not log the user in;
// callers follow up with Login.
func (c *Client) Register(ctx context.Context, reg Registration) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	if _, err := c.postJSON(ctx, "/register", reg); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

// postJSON sends an unauthenticated JSON request and decodes the envelope.
func (c *Client) postJSON(ctx context.Context, path string, payload interface{}) (*envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(c.plain, req)
}

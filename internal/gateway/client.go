package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/story-catalog/storycat/internal/models"
)

const (
	// DefaultRateLimit is requests per minute against the Story API.
	DefaultRateLimit = 60

	// DefaultTimeout bounds each request.
	DefaultTimeout = 10 * time.Second
)

// SessionProvider supplies the current auth session. The store
// implements it; the client never holds the token itself so a login in
// one component is immediately visible to all callers.
type SessionProvider interface {
	GetSession() (*models.Session, error)
}

// sessionTokenSource adapts a SessionProvider to oauth2.TokenSource so
// the standard oauth2 transport injects the bearer token.
type sessionTokenSource struct {
	sessions SessionProvider
}

func (ts *sessionTokenSource) Token() (*oauth2.Token, error) {
	session, err := ts.sessions.GetSession()
	if err != nil {
		return nil, err
	}
	if !session.IsAuthenticated() {
		return nil, ErrAuthenticationRequired
	}
	return &oauth2.Token{AccessToken: session.Token}, nil
}

// Client is the concrete Story API adapter.
type Client struct {
	baseURL  string
	sessions SessionProvider
	limiter  *rate.Limiter

	// authed injects the bearer token; plain is for login/register.
	authed *http.Client
	plain  *http.Client
}

// NewClient creates a Story API client. rateLimit is requests per
// minute; zero or negative selects the default.
func NewClient(baseURL string, sessions SessionProvider, rateLimit int) *Client {
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	ts := &sessionTokenSource{sessions: sessions}

	return &Client{
		baseURL:  baseURL,
		sessions: sessions,
		limiter:  rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit),
		authed: &http.Client{
			Timeout:   DefaultTimeout,
			Transport: &oauth2.Transport{Source: ts},
		},
		plain: &http.Client{Timeout: DefaultTimeout},
	}
}

// envelope is the Story API response wrapper.
type envelope struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`

	ListStory   []storyPayload `json:"listStory,omitempty"`
	Story       *storyPayload  `json:"story,omitempty"`
	LoginResult *loginResult   `json:"loginResult,omitempty"`
}

type storyPayload struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	PhotoURL    string    `json:"photoUrl"`
	Lat         *float64  `json:"lat"`
	Lon         *float64  `json:"lon"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (p *storyPayload) toModel() models.Story {
	return models.Story{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		PhotoURL:    p.PhotoURL,
		Lat:         p.Lat,
		Lon:         p.Lon,
		CreatedAt:   p.CreatedAt,
	}
}

// IsAuthenticated reports whether a session token is held.
func (c *Client) IsAuthenticated() bool {
	session, err := c.sessions.GetSession()
	return err == nil && session.IsAuthenticated()
}

// FetchStories retrieves all stories, location fields included.
func (c *Client) FetchStories(ctx context.Context) ([]models.Story, error) {
	if !c.IsAuthenticated() {
		return nil, ErrAuthenticationRequired
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stories?location=1", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	env, err := c.do(c.authed, req)
	if err != nil {
		return nil, fmt.Errorf("fetch stories: %w", err)
	}

	stories := make([]models.Story, 0, len(env.ListStory))
	for i := range env.ListStory {
		stories = append(stories, env.ListStory[i].toModel())
	}
	return stories, nil
}

// CreateStory submits a new story as a multipart form. When the server
// acknowledges without echoing the record, a story is synthesized from
// the input so callers always receive a committed representation.
func (c *Client) CreateStory(ctx context.Context, input CreateStoryInput) (*models.Story, error) {
	if !c.IsAuthenticated() {
		return nil, ErrAuthenticationRequired
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("description", input.Description); err != nil {
		return nil, fmt.Errorf("write description: %w", err)
	}

	if len(input.Photo) > 0 {
		name := input.PhotoName
		if name == "" {
			name = "story-photo.jpg"
		}
		part, err := form.CreateFormFile("photo", name)
		if err != nil {
			return nil, fmt.Errorf("create photo part: %w", err)
		}
		if _, err := part.Write(input.Photo); err != nil {
			return nil, fmt.Errorf("write photo: %w", err)
		}
	}

	if input.Lat != nil && input.Lon != nil {
		if err := form.WriteField("lat", strconv.FormatFloat(*input.Lat, 'f', -1, 64)); err != nil {
			return nil, fmt.Errorf("write lat: %w", err)
		}
		if err := form.WriteField("lon", strconv.FormatFloat(*input.Lon, 'f', -1, 64)); err != nil {
			return nil, fmt.Errorf("write lon: %w", err)
		}
	}

	if err := form.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stories", &body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	env, err := c.do(c.authed, req)
	if err != nil {
		return nil, fmt.Errorf("create story: %w", err)
	}

	if env.Story != nil {
		story := env.Story.toModel()
		return &story, nil
	}

	return &models.Story{
		Description: input.Description,
		Lat:         input.Lat,
		Lon:         input.Lon,
		CreatedAt:   time.Now(),
	}, nil
}

// Ping probes API reachability without authentication. Used by the
// connectivity monitor.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL+"/stories", nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	resp, err := c.plain.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any HTTP response, even a 401, means the API is reachable.
	return nil
}

// do executes a request and decodes the response envelope, mapping
// transport and HTTP failures onto the error taxonomy.
func (c *Client) do(client *http.Client, req *http.Request) (*envelope, error) {
	resp, err := client.Do(req)
	if err != nil {
		// oauth2.Transport surfaces token source errors directly.
		if errors.Is(err, ErrAuthenticationRequired) {
			return nil, ErrAuthenticationRequired
		}
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrNetworkFailure, err)
	}

	var env envelope
	if len(data) > 0 {
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return nil, ErrAuthenticationRequired
	}

	if resp.StatusCode >= 400 || env.Error {
		msg := env.Message
		if msg == "" {
			msg = resp.Status
		}
		return nil, &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	return &env, nil
}

// Package gateway provides the client for the remote Story API.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/story-catalog/storycat/internal/models"
)

// Sentinel errors for the failure taxonomy callers branch on.
var (
	// ErrNetworkFailure indicates a transient transport-level failure.
	// The sync engine responds by queueing (on create) or incrementing
	// per-item retry bookkeeping (on drain).
	ErrNetworkFailure = errors.New("network failure")

	// ErrAuthenticationRequired indicates a privileged call was made
	// without a valid session. Surfaced as a skip-and-report condition,
	// never a crash.
	ErrAuthenticationRequired = errors.New("authentication required")
)

// APIError is a non-transient rejection from the Story API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// CreateStoryInput is the payload for a remote story create.
type CreateStoryInput struct {
	Description string
	Photo       []byte
	PhotoName   string
	Lat         *float64
	Lon         *float64
}

// Gateway is the capability contract the sync engine consumes. Exactly
// one concrete adapter (Client) implements it in production; tests
// substitute fakes.
type Gateway interface {
	// FetchStories retrieves all stories. No side effects.
	FetchStories(ctx context.Context) ([]models.Story, error)

	// CreateStory submits a new story and returns the committed record.
	CreateStory(ctx context.Context, input CreateStoryInput) (*models.Story, error)

	// IsAuthenticated reports whether a valid session token is held.
	// Gates whether a cache refresh is attempted.
	IsAuthenticated() bool
}

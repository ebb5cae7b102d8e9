// Package telemetry provides anonymous usage tracking via PostHog.
package telemetry

import (
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
)

// PostHogAPIKey is set at compile time via ldflags.
var PostHogAPIKey string

// TrackingIDProvider is an interface for getting tracking IDs.
// This allows for testing without a real database.
type TrackingIDProvider interface {
	GetOrCreateTrackingID() string
}

// Client interface for telemetry operations.
type Client interface {
	Track(event string, properties map[string]interface{})
	Close()
	GetTrackingID() string

	// CLI events
	TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64)
	TrackCLIError(commandName, errorType string)

	// Sync events
	TrackStoryCreated(queued bool, hasPhoto, hasLocation bool)
	TrackSyncCompleted(syncedCount, failedCount, totalProcessed int, durationMs int64)
	TrackSyncFailed(errorType string)
	TrackConnectivityChanged(online bool)

	// Catalog events
	TrackStoriesListed(storyCount, pendingCount int, refreshed bool)
	TrackFavoriteAdded()
	TrackFavoriteRemoved()
	TrackLogin(success bool)
}

// posthogClient wraps the PostHog SDK.
type posthogClient struct {
	client     posthog.Client
	trackingID string
	sessionID  string
	mu         sync.Mutex
}

// noopClient does nothing (for disabled telemetry).
type noopClient struct{}

// IsEnabled returns true if telemetry is enabled.
// Telemetry is opt-out: enabled by default unless
// STORYCAT_TELEMETRY_TRACKING_ENABLED=false.
func IsEnabled() bool {
	return os.Getenv("STORYCAT_TELEMETRY_TRACKING_ENABLED") != "false" && PostHogAPIKey != ""
}

// New creates a new telemetry client with a persistent tracking ID from
// the store. If provider is nil, a new UUID is generated per session.
func New(provider TrackingIDProvider) Client {
	if !IsEnabled() {
		return &noopClient{}
	}

	client, err := posthog.NewWithConfig(PostHogAPIKey, posthog.Config{
		Endpoint:  "https://us.i.posthog.com",
		BatchSize: 250,
		Interval:  5 * time.Second,
	})
	if err != nil {
		return &noopClient{}
	}

	trackingID := uuid.NewString()
	if provider != nil {
		trackingID = provider.GetOrCreateTrackingID()
	}

	return &posthogClient{
		client:     client,
		trackingID: trackingID,
		sessionID:  uuid.NewString(),
	}
}

func (c *posthogClient) Track(event string, properties map[string]interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	props := posthog.NewProperties().Set("session_id", c.sessionID)
	for k, v := range properties {
		props.Set(k, v)
	}

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.trackingID,
		Event:      event,
		Properties: props,
	})
}

func (c *posthogClient) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.client.Close()
}

func (c *posthogClient) GetTrackingID() string {
	return c.trackingID
}

func (c *posthogClient) TrackCLICommandExecuted(commandName string, hasFlags bool, durationMs int64) {
	c.Track("cli_command_executed", map[string]interface{}{
		"command_name": commandName,
		"has_flags":    hasFlags,
		"duration_ms":  durationMs,
	})
}

func (c *posthogClient) TrackCLIError(commandName, errorType string) {
	c.Track("cli_error", map[string]interface{}{
		"command_name": commandName,
		"error_type":   errorType,
	})
}

func (c *posthogClient) TrackStoryCreated(queued bool, hasPhoto, hasLocation bool) {
	c.Track("story_created", map[string]interface{}{
		"queued":       queued,
		"has_photo":    hasPhoto,
		"has_location": hasLocation,
	})
}

func (c *posthogClient) TrackSyncCompleted(syncedCount, failedCount, totalProcessed int, durationMs int64) {
	c.Track("sync_completed", map[string]interface{}{
		"synced_count":    syncedCount,
		"failed_count":    failedCount,
		"total_processed": totalProcessed,
		"duration_ms":     durationMs,
	})
}

func (c *posthogClient) TrackSyncFailed(errorType string) {
	c.Track("sync_failed", map[string]interface{}{
		"error_type": errorType,
	})
}

func (c *posthogClient) TrackConnectivityChanged(online bool) {
	c.Track("connectivity_changed", map[string]interface{}{
		"online": online,
	})
}

func (c *posthogClient) TrackStoriesListed(storyCount, pendingCount int, refreshed bool) {
	c.Track("stories_listed", map[string]interface{}{
		"story_count":   storyCount,
		"pending_count": pendingCount,
		"refreshed":     refreshed,
	})
}

func (c *posthogClient) TrackFavoriteAdded() {
	c.Track("favorite_added", nil)
}

func (c *posthogClient) TrackFavoriteRemoved() {
	c.Track("favorite_removed", nil)
}

func (c *posthogClient) TrackLogin(success bool) {
	c.Track("login", map[string]interface{}{
		"success": success,
	})
}

// noopClient implementations.

func (c *noopClient) Track(string, map[string]interface{})               {}
func (c *noopClient) Close()                                            {}
func (c *noopClient) GetTrackingID() string                             { return "" }
func (c *noopClient) TrackCLICommandExecuted(string, bool, int64)       {}
func (c *noopClient) TrackCLIError(string, string)                      {}
func (c *noopClient) TrackStoryCreated(bool, bool, bool)                {}
func (c *noopClient) TrackSyncCompleted(int, int, int, int64)           {}
func (c *noopClient) TrackSyncFailed(string)                            {}
func (c *noopClient) TrackConnectivityChanged(bool)                     {}
func (c *noopClient) TrackStoriesListed(int, int, bool)                 {}
func (c *noopClient) TrackFavoriteAdded()                               {}
func (c *noopClient) TrackFavoriteRemoved()                             {}
func (c *noopClient) TrackLogin(bool)                                   {}

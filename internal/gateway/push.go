package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/story-catalog/storycat/internal/models"
)

// SubscribeNotifications registers a push subscription record with the
// API. Only the handshake is handled here; delivery is server-side.
func (c *Client) SubscribeNotifications(ctx context.Context, sub models.PushSubscription) error {
	if !c.IsAuthenticated() {
		return ErrAuthenticationRequired
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode subscription: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/notifications/subscribe", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(c.authed, req); err != nil {
		return fmt.Errorf("subscribe notifications: %w", err)
	}
	return nil
}

// UnsubscribeNotifications removes a push subscription record by
// endpoint.
func (c *Client) UnsubscribeNotifications(ctx context.Context, endpoint string) error {
	if !c.IsAuthenticated() {
		return ErrAuthenticationRequired
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	payload := struct {
		Endpoint string `json:"endpoint"`
	}{Endpoint: endpoint}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/notifications/subscribe", bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	if _, err := c.do(c.authed, req); err != nil {
		return fmt.Errorf("unsubscribe notifications: %w", err)
	}
	return nil
}

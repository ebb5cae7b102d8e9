package cli

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/story-catalog/storycat/internal/models"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Manage push notification subscriptions",
	Long: `Manage push notification subscriptions.

The subscribe handshake registers this client with the API's
notification endpoint; delivery itself is handled server-side. The
subscription record is kept locally so unsubscribe can reference it.

Subcommands:
  subscribe    Register for push notifications (requires login)
  unsubscribe  Remove the push notification registration`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var notifySubscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Register for push notifications",
	Args:  cobra.NoArgs,
	RunE:  runNotifySubscribe,
}

var notifyUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe",
	Short: "Remove the push notification registration",
	Args:  cobra.NoArgs,
	RunE:  runNotifyUnsubscribe,
}

func init() {
	notifyCmd.AddCommand(notifySubscribeCmd)
	notifyCmd.AddCommand(notifyUnsubscribeCmd)
}

func runNotifySubscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("notify subscribe", err)
	}
	defer cleanup()

	existing, err := loadSubscription(a)
	if err != nil {
		return trackCLIError("notify subscribe", err)
	}
	if existing != nil {
		fmt.Println("Already subscribed to push notifications.")
		return nil
	}

	sub, err := newSubscription(a.cfg.API.BaseURL)
	if err != nil {
		return trackCLIError("notify subscribe", err)
	}

	if err := a.client.SubscribeNotifications(ctx, *sub); err != nil {
		return trackCLIError("notify subscribe", fmt.Errorf("subscribe: %w", err))
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return trackCLIError("notify subscribe", fmt.Errorf("encode subscription: %w", err))
	}
	if err := a.store.SetSyncMeta(models.SyncMetaPushSubscription, string(data)); err != nil {
		return trackCLIError("notify subscribe", fmt.Errorf("save subscription: %w", err))
	}

	fmt.Println("Subscribed to push notifications.")
	return nil
}

func runNotifyUnsubscribe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	a, cleanup, err := setup()
	if err != nil {
		return trackCLIError("notify unsubscribe", err)
	}
	defer cleanup()

	sub, err := loadSubscription(a)
	if err != nil {
		return trackCLIError("notify unsubscribe", err)
	}
	if sub == nil {
		fmt.Println("Not subscribed to push notifications.")
		return nil
	}

	if err := a.client.UnsubscribeNotifications(ctx, sub.Endpoint); err != nil {
		return trackCLIError("notify unsubscribe", fmt.Errorf("unsubscribe: %w", err))
	}

	if err := a.store.DeleteSyncMeta(models.SyncMetaPushSubscription); err != nil {
		return trackCLIError("notify unsubscribe", fmt.Errorf("clear subscription: %w", err))
	}

	fmt.Println("Unsubscribed from push notifications.")
	return nil
}

// loadSubscription reads the locally stored subscription record, or nil
// when none exists.
func loadSubscription(a *app) (*models.PushSubscription, error) {
	raw, err := a.store.GetSyncMeta(models.SyncMetaPushSubscription)
	if err != nil {
		return nil, fmt.Errorf("read subscription: %w", err)
	}
	if raw == "" {
		return nil, nil
	}

	var sub models.PushSubscription
	if err := json.Unmarshal([]byte(raw), &sub); err != nil {
		return nil, fmt.Errorf("decode subscription: %w", err)
	}
	return &sub, nil
}

// newSubscription builds a fresh subscription record with a unique
// endpoint and random client keys.
func newSubscription(apiBaseURL string) (*models.PushSubscription, error) {
	p256dh, err := randomKey(65)
	if err != nil {
		return nil, err
	}
	auth, err := randomKey(16)
	if err != nil {
		return nil, err
	}

	return &models.PushSubscription{
		Endpoint: fmt.Sprintf("%s/clients/%s", apiBaseURL, uuid.NewString()),
		Keys: models.PushSubscriptionKeys{
			P256dh: p256dh,
			Auth:   auth,
		},
	}, nil
}

func randomKey(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStory_HasLocation(t *testing.T) {
	lat, lon := -6.2, 106.8

	tests := []struct {
		name  string
		story Story
		want  bool
	}{
		{"both coords", Story{Lat: &lat, Lon: &lon}, true},
		{"no coords", Story{}, false},
		{"lat only", Story{Lat: &lat}, false},
		{"lon only", Story{Lon: &lon}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.story.HasLocation())
		})
	}
}

func TestPendingStory_DisplayID(t *testing.T) {
	p := PendingStory{TempID: 42}
	assert.Equal(t, "offline-42", p.DisplayID())
}

func TestPendingStory_Retryable(t *testing.T) {
	tests := []struct {
		name string
		p    PendingStory
		want bool
	}{
		{"fresh", PendingStory{}, true},
		{"synced", PendingStory{Synced: true}, false},
		{"failed", PendingStory{SyncFailed: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.p.Retryable())
		})
	}
}

func TestPendingStory_RecordFailure(t *testing.T) {
	p := PendingStory{}
	syncErr := errors.New("boom")

	for i := 1; i < MaxSyncRetries; i++ {
		p.RecordFailure(syncErr, time.Now())
		assert.Equal(t, i, p.RetryCount)
		assert.False(t, p.SyncFailed, "must not fail before the cap")
	}

	p.RecordFailure(syncErr, time.Now())
	assert.Equal(t, MaxSyncRetries, p.RetryCount)
	assert.True(t, p.SyncFailed)
	assert.Equal(t, "boom", p.LastError)
	assert.NotNil(t, p.LastRetryAt)
}

func TestFavorite_SnapshotRoundTrip(t *testing.T) {
	lat, lon := 1.5, 2.5
	original := Story{
		ID:          "s1",
		Name:        "Alice",
		Description: "a walk",
		PhotoURL:    "https://x/1.jpg",
		Lat:         &lat,
		Lon:         &lon,
	}

	var fav Favorite
	require.NoError(t, fav.SetSnapshot(original))

	got, err := fav.GetSnapshot()
	require.NoError(t, err)
	assert.Equal(t, original.ID, got.ID)
	assert.Equal(t, original.Name, got.Name)
	assert.True(t, got.HasLocation())
}

func TestFavorite_EmptySnapshot(t *testing.T) {
	var fav Favorite
	got, err := fav.GetSnapshot()
	require.NoError(t, err)
	assert.Empty(t, got.ID)
}

func TestSyncAction_Valid(t *testing.T) {
	assert.True(t, ActionCreate.Valid())
	assert.True(t, ActionUpdate.Valid())
	assert.True(t, ActionDelete.Valid())
	assert.False(t, SyncAction("upsert").Valid())
	assert.False(t, SyncAction("").Valid())
}

func TestSession_IsAuthenticated(t *testing.T) {
	var nilSession *Session
	assert.False(t, nilSession.IsAuthenticated())
	assert.False(t, (&Session{}).IsAuthenticated())
	assert.True(t, (&Session{Token: "t"}).IsAuthenticated())
}

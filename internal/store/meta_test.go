package store

import (
	"testing"

	"github.com/story-catalog/storycat/internal/models"
)

func TestSyncMeta_SetGet(t *testing.T) {
	st := testStore(t)

	if err := st.SetSyncMeta("custom_key", "v1"); err != nil {
		t.Fatalf("SetSyncMeta() error = %v", err)
	}

	got, err := st.GetSyncMeta("custom_key")
	if err != nil {
		t.Fatalf("GetSyncMeta() error = %v", err)
	}
	if got != "v1" {
		t.Errorf("GetSyncMeta() = %q, want v1", got)
	}

	// Overwrite.
	if err := st.SetSyncMeta("custom_key", "v2"); err != nil {
		t.Fatalf("SetSyncMeta() overwrite error = %v", err)
	}
	got, err = st.GetSyncMeta("custom_key")
	if err != nil {
		t.Fatalf("GetSyncMeta() error = %v", err)
	}
	if got != "v2" {
		t.Errorf("GetSyncMeta() = %q, want v2", got)
	}
}

func TestSyncMeta_MissingKey(t *testing.T) {
	st := testStore(t)

	got, err := st.GetSyncMeta("no_such_key")
	if err != nil {
		t.Fatalf("GetSyncMeta() error = %v", err)
	}
	if got != "" {
		t.Errorf("GetSyncMeta() = %q, want empty", got)
	}
}

func TestSyncMeta_Delete(t *testing.T) {
	st := testStore(t)

	if err := st.SetSyncMeta(models.SyncMetaPushSubscription, "{}"); err != nil {
		t.Fatalf("SetSyncMeta() error = %v", err)
	}
	if err := st.DeleteSyncMeta(models.SyncMetaPushSubscription); err != nil {
		t.Fatalf("DeleteSyncMeta() error = %v", err)
	}

	got, err := st.GetSyncMeta(models.SyncMetaPushSubscription)
	if err != nil {
		t.Fatalf("GetSyncMeta() error = %v", err)
	}
	if got != "" {
		t.Errorf("GetSyncMeta() = %q after delete, want empty", got)
	}
}

func TestGetOrCreateTrackingID_Stable(t *testing.T) {
	st := testStore(t)

	first := st.GetOrCreateTrackingID()
	if first == "" {
		t.Fatal("GetOrCreateTrackingID() returned empty id")
	}

	second := st.GetOrCreateTrackingID()
	if second != first {
		t.Errorf("tracking id changed between calls: %q then %q", first, second)
	}
}

package store

import (
	"errors"
	"testing"
	"time"

	"github.com/story-catalog/storycat/internal/models"
)

func TestAddPendingStory_AssignsKeyAndTimestamp(t *testing.T) {
	st := testStore(t)

	pending := models.PendingStory{Description: "offline draft"}
	if err := st.AddPendingStory(&pending); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}

	if pending.TempID == 0 {
		t.Error("TempID not assigned")
	}
	if pending.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
	if pending.DisplayID() == "" {
		t.Error("DisplayID() empty")
	}
}

func TestAddPendingStory_KeepsExplicitTimestamp(t *testing.T) {
	st := testStore(t)

	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	pending := models.PendingStory{Description: "draft", CreatedAt: created}
	if err := st.AddPendingStory(&pending); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}

	got, err := st.GetPendingStory(pending.TempID)
	if err != nil {
		t.Fatalf("GetPendingStory() error = %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
}

func TestGetPendingStories_OldestFirst(t *testing.T) {
	st := testStore(t)

	base := time.Now().Add(-time.Hour)
	for i, desc := range []string{"first", "second", "third"} {
		pending := models.PendingStory{
			Description: desc,
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.AddPendingStory(&pending); err != nil {
			t.Fatalf("AddPendingStory(%s) error = %v", desc, err)
		}
	}

	pending, err := st.GetPendingStories()
	if err != nil {
		t.Fatalf("GetPendingStories() error = %v", err)
	}
	if len(pending) != 3 {
		t.Fatalf("len = %d, want 3", len(pending))
	}
	if pending[0].Description != "first" || pending[2].Description != "third" {
		t.Errorf("order = [%s %s %s], want authoring order",
			pending[0].Description, pending[1].Description, pending[2].Description)
	}
}

func TestGetPendingStories_ExcludesSyncedAndFailed(t *testing.T) {
	st := testStore(t)

	active := models.PendingStory{Description: "active"}
	if err := st.AddPendingStory(&active); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}

	synced := models.PendingStory{Description: "synced"}
	if err := st.AddPendingStory(&synced); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}
	if err := st.MarkStorySynced(synced.TempID, "api-1"); err != nil {
		t.Fatalf("MarkStorySynced() error = %v", err)
	}

	failed := models.PendingStory{Description: "failed", SyncFailed: true, RetryCount: models.MaxSyncRetries}
	if err := st.AddPendingStory(&failed); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}

	pending, err := st.GetPendingStories()
	if err != nil {
		t.Fatalf("GetPendingStories() error = %v", err)
	}
	if len(pending) != 1 || pending[0].Description != "active" {
		t.Errorf("GetPendingStories() = %+v, want only the active draft", pending)
	}
}

func TestGetFailedStories(t *testing.T) {
	st := testStore(t)

	failed := models.PendingStory{Description: "gave up", SyncFailed: true}
	if err := st.AddPendingStory(&failed); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}
	ok := models.PendingStory{Description: "fine"}
	if err := st.AddPendingStory(&ok); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}

	got, err := st.GetFailedStories()
	if err != nil {
		t.Fatalf("GetFailedStories() error = %v", err)
	}
	if len(got) != 1 || got[0].Description != "gave up" {
		t.Errorf("GetFailedStories() = %+v, want only the failed draft", got)
	}
}

func TestMarkStorySynced(t *testing.T) {
	st := testStore(t)

	pending := models.PendingStory{Description: "draft"}
	if err := st.AddPendingStory(&pending); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}

	if err := st.MarkStorySynced(pending.TempID, "api-42"); err != nil {
		t.Fatalf("MarkStorySynced() error = %v", err)
	}

	got, err := st.GetPendingStory(pending.TempID)
	if err != nil {
		t.Fatalf("GetPendingStory() error = %v", err)
	}
	if !got.Synced {
		t.Error("Synced = false, want true")
	}
	if got.APIID != "api-42" {
		t.Errorf("APIID = %q, want api-42", got.APIID)
	}
	if got.SyncedAt == nil {
		t.Error("SyncedAt = nil, want timestamp")
	}
	if got.Retryable() {
		t.Error("Retryable() = true for a synced story")
	}
}

func TestUpdatePendingStory_RetryBookkeeping(t *testing.T) {
	st := testStore(t)

	pending := models.PendingStory{Description: "flaky"}
	if err := st.AddPendingStory(&pending); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}

	syncErr := errors.New("connection refused")
	for i := 0; i < models.MaxSyncRetries; i++ {
		pending.RecordFailure(syncErr, time.Now())
		if err := st.UpdatePendingStory(&pending); err != nil {
			t.Fatalf("UpdatePendingStory() error = %v", err)
		}
	}

	got, err := st.GetPendingStory(pending.TempID)
	if err != nil {
		t.Fatalf("GetPendingStory() error = %v", err)
	}
	if got.RetryCount != models.MaxSyncRetries {
		t.Errorf("RetryCount = %d, want %d", got.RetryCount, models.MaxSyncRetries)
	}
	if !got.SyncFailed {
		t.Error("SyncFailed = false after exhausting retries")
	}
	if got.LastError != "connection refused" {
		t.Errorf("LastError = %q, want connection refused", got.LastError)
	}

	// Exhausted records drop out of the drain scan.
	pendingList, err := st.GetPendingStories()
	if err != nil {
		t.Fatalf("GetPendingStories() error = %v", err)
	}
	if len(pendingList) != 0 {
		t.Errorf("GetPendingStories() = %d records, want 0", len(pendingList))
	}
}

func TestDeletePendingStory_Idempotent(t *testing.T) {
	st := testStore(t)

	pending := models.PendingStory{Description: "ephemeral"}
	if err := st.AddPendingStory(&pending); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}
	if err := st.DeletePendingStory(pending.TempID); err != nil {
		t.Fatalf("DeletePendingStory() error = %v", err)
	}
	if err := st.DeletePendingStory(pending.TempID); err != nil {
		t.Errorf("DeletePendingStory() second call error = %v, want nil", err)
	}
}

package store

import (
	"testing"
	"time"

	"github.com/story-catalog/storycat/internal/models"
)

func TestEnqueueSyncItem_SetsTimestamp(t *testing.T) {
	st := testStore(t)

	item := models.SyncQueueItem{Action: models.ActionCreate, PendingID: 1}
	if err := st.EnqueueSyncItem(&item); err != nil {
		t.Fatalf("EnqueueSyncItem() error = %v", err)
	}

	if item.ID == 0 {
		t.Error("ID not assigned")
	}
	if item.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestGetSyncQueue_EnqueueOrder(t *testing.T) {
	st := testStore(t)

	base := time.Now().Add(-time.Hour)
	for i := uint(1); i <= 3; i++ {
		item := models.SyncQueueItem{
			Action:    models.ActionCreate,
			PendingID: i,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.EnqueueSyncItem(&item); err != nil {
			t.Fatalf("EnqueueSyncItem(%d) error = %v", i, err)
		}
	}

	queue, err := st.GetSyncQueue()
	if err != nil {
		t.Fatalf("GetSyncQueue() error = %v", err)
	}
	if len(queue) != 3 {
		t.Fatalf("len = %d, want 3", len(queue))
	}
	for i, item := range queue {
		if item.PendingID != uint(i+1) {
			t.Errorf("queue[%d].PendingID = %d, want %d", i, item.PendingID, i+1)
		}
	}
}

func TestGetSyncQueueItem_NotFound(t *testing.T) {
	st := testStore(t)

	item, err := st.GetSyncQueueItem(999)
	if err != nil {
		t.Fatalf("GetSyncQueueItem() error = %v", err)
	}
	if item != nil {
		t.Errorf("GetSyncQueueItem() = %+v, want nil", item)
	}
}

func TestRemoveSyncQueueItemsForPending(t *testing.T) {
	st := testStore(t)

	for _, pendingID := range []uint{1, 1, 2} {
		item := models.SyncQueueItem{Action: models.ActionCreate, PendingID: pendingID}
		if err := st.EnqueueSyncItem(&item); err != nil {
			t.Fatalf("EnqueueSyncItem() error = %v", err)
		}
	}

	if err := st.RemoveSyncQueueItemsForPending(1); err != nil {
		t.Fatalf("RemoveSyncQueueItemsForPending() error = %v", err)
	}

	queue, err := st.GetSyncQueue()
	if err != nil {
		t.Fatalf("GetSyncQueue() error = %v", err)
	}
	if len(queue) != 1 || queue[0].PendingID != 2 {
		t.Errorf("queue = %+v, want only pending_id=2", queue)
	}
}

func TestClearSyncQueue(t *testing.T) {
	st := testStore(t)

	item := models.SyncQueueItem{Action: models.ActionDelete, Payload: `{"id":"s1"}`}
	if err := st.EnqueueSyncItem(&item); err != nil {
		t.Fatalf("EnqueueSyncItem() error = %v", err)
	}

	if err := st.ClearSyncQueue(); err != nil {
		t.Fatalf("ClearSyncQueue() error = %v", err)
	}

	queue, err := st.GetSyncQueue()
	if err != nil {
		t.Fatalf("GetSyncQueue() error = %v", err)
	}
	if len(queue) != 0 {
		t.Errorf("queue = %d items after clear, want 0", len(queue))
	}
}

// Package sync orchestrates reconciliation between the local store and
// the remote Story API. The engine owns the connectivity state machine,
// drains pending offline writes, refreshes the story cache, and exposes
// a merged read view that hides online/offline distinctions from callers.
package sync

import (
	"context"
	"errors"
	"fmt"
	"sort"
	stdsync "sync"
	"time"

	"github.com/story-catalog/storycat/internal/gateway"
	"github.com/story-catalog/storycat/internal/log"
	"github.com/story-catalog/storycat/internal/models"
	"github.com/story-catalog/storycat/internal/store"
)

// State is the engine's connectivity/sync state.
type State string

const (
	StateIdle    State = "idle"
	StateSyncing State = "syncing"
	StateOffline State = "offline"
)

// ErrOffline is returned by a forced sync while disconnected.
var ErrOffline = errors.New("device is offline")

// Engine reconciles the persistent store with the remote gateway. Both
// collaborators are injected at construction; the engine holds no
// ambient global state.
type Engine struct {
	store    *store.Store
	gw       gateway.Gateway
	notifier *Notifier

	mu       stdsync.Mutex
	state    State
	online   bool
	draining bool
	lastSync *time.Time
}

// NewEngine creates a sync engine. The engine starts in the online/idle
// state; callers without connectivity follow up with SetOnline(false).
func NewEngine(st *store.Store, gw gateway.Gateway) *Engine {
	return &Engine{
		store:    st,
		gw:       gw,
		notifier: NewNotifier(),
		state:    StateIdle,
		online:   true,
	}
}

// Notifier returns the engine's event notifier for subscriptions.
func (e *Engine) Notifier() *Notifier {
	return e.notifier
}

// Initialize drains pending work if the device is online. Safe to call
// once at startup.
func (e *Engine) Initialize(ctx context.Context) error {
	if !e.Online() {
		return nil
	}
	if _, err := e.Drain(ctx); err != nil && !errors.Is(err, ErrOffline) {
		return err
	}
	return nil
}

// Online reports the current connectivity assumption.
func (e *Engine) Online() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.online
}

// State returns the current engine state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// SetOnline records a connectivity transition. Going offline mid-pass
// lets the in-flight item fail naturally; no new network operations are
// started. Going online triggers a drain pass.
func (e *Engine) SetOnline(ctx context.Context, online bool) {
	e.mu.Lock()
	if e.online == online {
		e.mu.Unlock()
		return
	}
	e.online = online
	if !online {
		e.state = StateOffline
	} else if !e.draining {
		e.state = StateIdle
	}
	e.mu.Unlock()

	if online {
		log.Printf("sync: connection restored\n")
		e.notifier.Emit(Event{Type: EventOnline})
		if _, err := e.Drain(ctx); err != nil && !errors.Is(err, ErrOffline) {
			log.Errorf("sync: drain after reconnect: %v", err)
		}
	} else {
		log.Printf("sync: connection lost, entering offline mode\n")
		e.notifier.Emit(Event{Type: EventOffline})
	}
}

// CreateResult is the outcome of a create request: either a committed
// story or a queued pending record, never both, never neither.
type CreateResult struct {
	Story   *models.Story
	Pending *models.PendingStory
}

// Queued reports whether the story was stored locally for a later drain.
func (r *CreateResult) Queued() bool {
	return r.Pending != nil
}

// CreateStory attempts an immediate remote create when online and falls
// back to durable local queueing on network failure or while offline.
// A failed create never loses authored content. Authentication and
// server validation errors surface to the caller unqueued.
func (e *Engine) CreateStory(ctx context.Context, input gateway.CreateStoryInput) (*CreateResult, error) {
	if e.Online() {
		story, err := e.gw.CreateStory(ctx, input)
		if err == nil {
			if story.ID != "" {
				if perr := e.store.PutStory(story); perr != nil {
					log.Errorf("sync: cache created story: %v", perr)
				}
			}
			return &CreateResult{Story: story}, nil
		}
		if !errors.Is(err, gateway.ErrNetworkFailure) {
			return nil, err
		}
		log.Printf("sync: create failed (%v), queueing locally\n", err)
	}

	pending, err := e.queueLocally(input)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Pending: pending}, nil
}

// queueLocally persists the input as a pending story plus a mirrored
// sync queue item.
func (e *Engine) queueLocally(input gateway.CreateStoryInput) (*models.PendingStory, error) {
	pending := &models.PendingStory{
		Description: input.Description,
		PhotoData:   input.Photo,
		PhotoName:   input.PhotoName,
		Lat:         input.Lat,
		Lon:         input.Lon,
		CreatedAt:   time.Now(),
	}

	if err := e.store.AddPendingStory(pending); err != nil {
		return nil, fmt.Errorf("add pending story: %w", err)
	}

	item := &models.SyncQueueItem{
		Action:    models.ActionCreate,
		PendingID: pending.TempID,
		Timestamp: pending.CreatedAt,
	}
	if err := e.store.EnqueueSyncItem(item); err != nil {
		return nil, fmt.Errorf("enqueue sync item: %w", err)
	}

	log.Printf("sync: story queued offline (temp id %d)\n", pending.TempID)
	return pending, nil
}

// DrainResult aggregates the outcome of one reconciliation pass.
type DrainResult struct {
	SyncedCount    int `json:"synced_count"`
	FailedCount    int `json:"failed_count"`
	TotalProcessed int `json:"total_processed"`
}

// Drain runs one reconciliation pass: commit all pending work, process
// the sync queue, then refresh the story cache. Items are handled
// sequentially and failures are isolated per item. A trigger while a
// pass is already running coalesces into a no-op and returns nil, nil.
func (e *Engine) Drain(ctx context.Context) (*DrainResult, error) {
	e.mu.Lock()
	if e.draining {
		e.mu.Unlock()
		log.Printf("sync: drain already in progress\n")
		return nil, nil
	}
	if !e.online {
		e.mu.Unlock()
		return nil, ErrOffline
	}
	e.draining = true
	e.state = StateSyncing
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.draining = false
		if e.online {
			e.state = StateIdle
		} else {
			e.state = StateOffline
		}
		e.mu.Unlock()
	}()

	e.notifier.Emit(Event{Type: EventSyncStart})

	pending, err := e.store.GetPendingStories()
	if err != nil {
		err = fmt.Errorf("enumerate pending stories: %w", err)
		e.notifier.Emit(Event{Type: EventSyncError, Err: err})
		return nil, err
	}
	queue, err := e.store.GetSyncQueue()
	if err != nil {
		err = fmt.Errorf("enumerate sync queue: %w", err)
		e.notifier.Emit(Event{Type: EventSyncError, Err: err})
		return nil, err
	}

	result := &DrainResult{TotalProcessed: len(pending) + len(queue)}

	for i := range pending {
		if !e.Online() {
			break
		}
		p := &pending[i]
		if err := e.syncPendingStory(ctx, p); err != nil {
			result.FailedCount++
			e.notifier.Emit(Event{Type: EventStorySynced, Story: p, Success: false, Err: err})
			continue
		}
		result.SyncedCount++
		e.notifier.Emit(Event{Type: EventStorySynced, Story: p, Success: true})
	}

	for i := range queue {
		if !e.Online() {
			break
		}
		item := &queue[i]
		done, err := e.processQueueItem(item)
		if err != nil {
			e.notifier.Emit(Event{Type: EventQueueItemSynced, Item: item, Success: false, Err: err})
			continue
		}
		if done {
			if err := e.store.RemoveSyncQueueItem(item.ID); err != nil {
				log.Errorf("sync: remove queue item %d: %v", item.ID, err)
			}
			e.notifier.Emit(Event{Type: EventQueueItemSynced, Item: item, Success: true})
		}
	}

	if e.Online() && e.gw.IsAuthenticated() {
		if err := e.refreshCache(ctx); err != nil {
			log.Errorf("sync: refresh story cache: %v", err)
		}
	}

	now := time.Now()
	e.mu.Lock()
	e.lastSync = &now
	e.mu.Unlock()

	log.Printf("sync: pass complete (synced=%d failed=%d total=%d)\n",
		result.SyncedCount, result.FailedCount, result.TotalProcessed)
	e.notifier.Emit(Event{Type: EventSyncComplete, Result: result})

	return result, nil
}

// syncPendingStory attempts the remote create for one pending story and
// records the outcome.
func (e *Engine) syncPendingStory(ctx context.Context, p *models.PendingStory) error {
	story, err := e.gw.CreateStory(ctx, gateway.CreateStoryInput{
		Description: p.Description,
		Photo:       p.PhotoData,
		PhotoName:   p.PhotoName,
		Lat:         p.Lat,
		Lon:         p.Lon,
	})
	if err != nil {
		p.RecordFailure(err, time.Now())
		if uerr := e.store.UpdatePendingStory(p); uerr != nil {
			log.Errorf("sync: update retry bookkeeping for %d: %v", p.TempID, uerr)
		}
		if p.SyncFailed {
			log.Printf("sync: story %d exhausted retries, excluded from future drains\n", p.TempID)
		}
		return err
	}

	if err := e.store.MarkStorySynced(p.TempID, story.ID); err != nil {
		return fmt.Errorf("mark story synced: %w", err)
	}
	p.Synced = true
	p.APIID = story.ID

	if story.ID != "" {
		if err := e.store.PutStory(story); err != nil {
			log.Errorf("sync: cache synced story: %v", err)
		}
	}

	if err := e.store.RemoveSyncQueueItemsForPending(p.TempID); err != nil {
		log.Errorf("sync: dequeue items for %d: %v", p.TempID, err)
	}

	return nil
}

// processQueueItem handles one sync queue item. Create items are carried
// by their pending story, which the pending loop already attempted this
// pass: the item is done once that story is synced or gone. Update and
// delete are not implemented yet; they complete as logged no-ops.
func (e *Engine) processQueueItem(item *models.SyncQueueItem) (done bool, err error) {
	switch item.Action {
	case models.ActionCreate:
		pending, err := e.store.GetPendingStory(item.PendingID)
		if err != nil {
			return false, fmt.Errorf("lookup pending story %d: %w", item.PendingID, err)
		}
		if pending == nil || pending.Synced {
			return true, nil
		}
		// Still unsynced; leave the item for the next pass.
		return false, nil
	case models.ActionUpdate, models.ActionDelete:
		log.Printf("sync: %s action not implemented yet, skipping queue item %d\n", item.Action, item.ID)
		return true, nil
	default:
		log.Errorf("sync: unknown queue action %q on item %d", item.Action, item.ID)
		return true, nil
	}
}

// refreshCache replaces the committed story cache wholesale from the
// API. Pending stories and the sync queue are never touched here.
func (e *Engine) refreshCache(ctx context.Context) error {
	stories, err := e.gw.FetchStories(ctx)
	if err != nil {
		return err
	}

	if err := e.store.ReplaceStories(stories); err != nil {
		return fmt.Errorf("replace stories: %w", err)
	}

	if err := e.store.SetSyncMeta(models.SyncMetaLastFullSync, time.Now().Format(time.RFC3339)); err != nil {
		log.Errorf("sync: record last full sync: %v", err)
	}
	if err := e.store.SetSyncMeta(models.SyncMetaTotalStories, fmt.Sprintf("%d", len(stories))); err != nil {
		log.Errorf("sync: record story count: %v", err)
	}

	log.Printf("sync: cached %d stories from API\n", len(stories))
	return nil
}

// ForceSync runs a drain pass on explicit user request. Errors when the
// device is offline.
func (e *Engine) ForceSync(ctx context.Context) (*DrainResult, error) {
	if !e.Online() {
		return nil, ErrOffline
	}
	return e.Drain(ctx)
}

// StoryView is one entry of the merged read view: a committed story, or
// a pending one tagged with its offline provenance and a display-only
// identifier that cannot collide with remote ids.
type StoryView struct {
	models.Story
	IsOffline   bool `json:"isOffline"`
	SyncPending bool `json:"syncPending"`
}

// GetStories returns the merged view of committed and unsynced pending
// stories, sorted by creation time descending. With forceRefresh set
// and the device online, the cache is refreshed from the API first;
// refresh failures fall back to cached data.
func (e *Engine) GetStories(ctx context.Context, forceRefresh bool) ([]StoryView, error) {
	if forceRefresh && e.Online() {
		if err := e.refreshCache(ctx); err != nil {
			log.Printf("sync: refresh failed, using cached data: %v\n", err)
		}
	}

	committed, err := e.store.GetAllStories()
	if err != nil {
		return nil, fmt.Errorf("read cached stories: %w", err)
	}
	pending, err := e.store.GetPendingStories()
	if err != nil {
		return nil, fmt.Errorf("read pending stories: %w", err)
	}

	views := make([]StoryView, 0, len(committed)+len(pending))
	for _, story := range committed {
		views = append(views, StoryView{Story: story})
	}
	for _, p := range pending {
		views = append(views, StoryView{
			Story: models.Story{
				ID:          p.DisplayID(),
				Description: p.Description,
				Lat:         p.Lat,
				Lon:         p.Lon,
				CreatedAt:   p.CreatedAt,
			},
			IsOffline:   true,
			SyncPending: true,
		})
	}

	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})

	return views, nil
}

// HasPendingChanges reports whether any local work awaits the next
// drain pass.
func (e *Engine) HasPendingChanges() (bool, error) {
	pending, err := e.store.GetPendingStories()
	if err != nil {
		return false, err
	}
	if len(pending) > 0 {
		return true, nil
	}
	queue, err := e.store.GetSyncQueue()
	if err != nil {
		return false, err
	}
	return len(queue) > 0, nil
}

// Status is a snapshot of the engine for UI collaborators.
type Status struct {
	Online         bool       `json:"online"`
	State          State      `json:"state"`
	LastSyncAt     *time.Time `json:"last_sync_at"`
	PendingChanges bool       `json:"pending_changes"`
}

// GetStatus returns the current sync status.
func (e *Engine) GetStatus() Status {
	e.mu.Lock()
	online, state, lastSync := e.online, e.state, e.lastSync
	e.mu.Unlock()

	hasPending, err := e.HasPendingChanges()
	if err != nil {
		log.Errorf("sync: check pending changes: %v", err)
	}

	return Status{
		Online:         online,
		State:          state,
		LastSyncAt:     lastSync,
		PendingChanges: hasPending,
	}
}

// ClearLocalData empties every local collection. Authored content that
// has not synced is lost; callers confirm with the user first.
func (e *Engine) ClearLocalData() error {
	if err := e.store.ClearAll(); err != nil {
		return err
	}
	e.notifier.Emit(Event{Type: EventDataCleared})
	return nil
}

package store

import (
	"testing"
	"time"

	"github.com/story-catalog/storycat/internal/models"
)

func TestPutStory_Upsert(t *testing.T) {
	st := testStore(t)

	story := models.Story{ID: "s1", Name: "First", Description: "original"}
	if err := st.PutStory(&story); err != nil {
		t.Fatalf("PutStory() error = %v", err)
	}

	story.Description = "updated"
	if err := st.PutStory(&story); err != nil {
		t.Fatalf("PutStory() upsert error = %v", err)
	}

	got, err := st.GetStory("s1")
	if err != nil {
		t.Fatalf("GetStory() error = %v", err)
	}
	if got.Description != "updated" {
		t.Errorf("Description = %q, want updated", got.Description)
	}

	count, err := st.CountStories()
	if err != nil {
		t.Fatalf("CountStories() error = %v", err)
	}
	if count != 1 {
		t.Errorf("CountStories() = %d, want 1", count)
	}
}

func TestGetStory_NotFound(t *testing.T) {
	st := testStore(t)

	story, err := st.GetStory("missing")
	if err != nil {
		t.Fatalf("GetStory() error = %v", err)
	}
	if story != nil {
		t.Errorf("GetStory() = %+v, want nil", story)
	}
}

func TestGetStory_Location(t *testing.T) {
	st := testStore(t)

	lat, lon := -6.2, 106.8
	if err := st.PutStory(&models.Story{ID: "s1", Name: "Located", Lat: &lat, Lon: &lon}); err != nil {
		t.Fatalf("PutStory() error = %v", err)
	}
	if err := st.PutStory(&models.Story{ID: "s2", Name: "Nowhere"}); err != nil {
		t.Fatalf("PutStory() error = %v", err)
	}

	located, err := st.GetStory("s1")
	if err != nil {
		t.Fatalf("GetStory() error = %v", err)
	}
	if !located.HasLocation() {
		t.Error("HasLocation() = false, want true")
	}
	if *located.Lat != lat || *located.Lon != lon {
		t.Errorf("coords = (%v, %v), want (%v, %v)", *located.Lat, *located.Lon, lat, lon)
	}

	bare, err := st.GetStory("s2")
	if err != nil {
		t.Fatalf("GetStory() error = %v", err)
	}
	if bare.HasLocation() {
		t.Error("HasLocation() = true for story without coords")
	}
}

func TestGetAllStories_NewestFirst(t *testing.T) {
	st := testStore(t)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"old", "mid", "new"} {
		story := models.Story{
			ID:        id,
			Name:      id,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := st.PutStory(&story); err != nil {
			t.Fatalf("PutStory(%s) error = %v", id, err)
		}
	}

	stories, err := st.GetAllStories()
	if err != nil {
		t.Fatalf("GetAllStories() error = %v", err)
	}
	if len(stories) != 3 {
		t.Fatalf("len = %d, want 3", len(stories))
	}
	if stories[0].ID != "new" || stories[2].ID != "old" {
		t.Errorf("order = [%s %s %s], want [new mid old]",
			stories[0].ID, stories[1].ID, stories[2].ID)
	}
}

func TestDeleteStory_Idempotent(t *testing.T) {
	st := testStore(t)

	if err := st.PutStory(&models.Story{ID: "s1", Name: "A"}); err != nil {
		t.Fatalf("PutStory() error = %v", err)
	}
	if err := st.DeleteStory("s1"); err != nil {
		t.Fatalf("DeleteStory() error = %v", err)
	}
	if err := st.DeleteStory("s1"); err != nil {
		t.Errorf("DeleteStory() second call error = %v, want nil", err)
	}
}

func TestReplaceStories(t *testing.T) {
	st := testStore(t)

	if err := st.PutStory(&models.Story{ID: "stale", Name: "Stale"}); err != nil {
		t.Fatalf("PutStory() error = %v", err)
	}

	fresh := []models.Story{
		{ID: "f1", Name: "Fresh One"},
		{ID: "f2", Name: "Fresh Two"},
	}
	if err := st.ReplaceStories(fresh); err != nil {
		t.Fatalf("ReplaceStories() error = %v", err)
	}

	stale, err := st.GetStory("stale")
	if err != nil {
		t.Fatalf("GetStory() error = %v", err)
	}
	if stale != nil {
		t.Error("stale story survived ReplaceStories")
	}

	count, err := st.CountStories()
	if err != nil {
		t.Fatalf("CountStories() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountStories() = %d, want 2", count)
	}
}

func TestReplaceStories_LeavesOtherCollections(t *testing.T) {
	st := testStore(t)

	pending := models.PendingStory{Description: "draft"}
	if err := st.AddPendingStory(&pending); err != nil {
		t.Fatalf("AddPendingStory() error = %v", err)
	}
	fav := models.Favorite{StoryID: "s1", AddedAt: time.Now()}
	if err := st.PutFavorite(&fav); err != nil {
		t.Fatalf("PutFavorite() error = %v", err)
	}

	if err := st.ReplaceStories([]models.Story{{ID: "s1", Name: "A"}}); err != nil {
		t.Fatalf("ReplaceStories() error = %v", err)
	}

	drafts, err := st.GetPendingStories()
	if err != nil {
		t.Fatalf("GetPendingStories() error = %v", err)
	}
	if len(drafts) != 1 {
		t.Errorf("pending stories = %d after cache refresh, want 1", len(drafts))
	}

	favs, err := st.GetFavorites()
	if err != nil {
		t.Fatalf("GetFavorites() error = %v", err)
	}
	if len(favs) != 1 {
		t.Errorf("favorites = %d after cache refresh, want 1", len(favs))
	}
}

package history

import (
	"path/filepath"
	"testing"
)

func TestLoadMissingFile(t *testing.T) {
	h, err := Load(filepath.Join(t.TempDir(), "history.json"))
	if err != nil {
		t.Fatalf("missing file should yield empty history: %v", err)
	}
	if len(h.Videos) != 0 || len(h.Shorts) != 0 || h.TotalUploads != 0 {
		t.Errorf("empty history expected, got %+v", h)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.json")

	h := &History{}
	h.AddVideo("vid1", "Sunset Mix", "https://youtu.be/vid1", "unlisted", "/tmp/mix.mp4")
	h.AddShort("short1", "Sunset Short", "https://youtu.be/short1", "unlisted", "/tmp/short.mp4", "vid1")

	if err := h.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.TotalUploads != 2 {
		t.Errorf("total uploads = %d, want 2", loaded.TotalUploads)
	}
	if len(loaded.Videos) != 1 || loaded.Videos[0].VideoID != "vid1" {
		t.Errorf("videos = %+v", loaded.Videos)
	}
	if len(loaded.PendingTasks) != 1 || loaded.PendingTasks[0].LinkToVideoID != "vid1" {
		t.Errorf("pending tasks = %+v", loaded.PendingTasks)
	}
	if loaded.Videos[0].ID == "" || loaded.Videos[0].UploadedAt == "" {
		t.Error("entry id and timestamp should be set")
	}
}

func TestAddShortWithoutLink(t *testing.T) {
	h := &History{}
	h.AddShort("short1", "Loose Short", "https://youtu.be/short1", "public", "/tmp/s.mp4", "")
	if len(h.PendingTasks) != 0 {
		t.Errorf("no link id should queue no task, got %+v", h.PendingTasks)
	}
}

func TestCompleteTask(t *testing.T) {
	h := &History{}
	h.AddShort("s1", "one", "", "unlisted", "", "vidA")
	h.AddShort("s2", "two", "", "unlisted", "", "vidB")

	if !h.CompleteTask("s1") {
		t.Error("CompleteTask should find s1")
	}
	if len(h.PendingTasks) != 1 || h.PendingTasks[0].ShortID != "s2" {
		t.Errorf("remaining tasks = %+v", h.PendingTasks)
	}
	if h.CompleteTask("s1") {
		t.Error("CompleteTask should not find s1 twice")
	}
}

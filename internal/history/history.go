// Package history keeps the JSON-file run history: what was uploaded, when,
// and which manual follow-ups are still pending in the studio UI.
package history

import (
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
)

// Entry records one published video or short.
type Entry struct {
	ID         string `json:"id"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title"`
	URL        string `json:"url"`
	Privacy    string `json:"privacy"`
	LocalFile  string `json:"local_file"`
	UploadedAt string `json:"uploaded_at"`
}

// RelatedTask is a pending manual step: linking a short to its full video.
type RelatedTask struct {
	ShortID       string `json:"short_id"`
	ShortTitle    string `json:"short_title"`
	LinkToVideoID string `json:"link_to_video_id"`
}

// History is the persisted channel run history.
type History struct {
	Videos       []Entry       `json:"videos"`
	Shorts       []Entry       `json:"shorts"`
	PendingTasks []RelatedTask `json:"pending_tasks"`
	TotalUploads int           `json:"total_uploads"`
}

// Load reads history from path, returning an empty history when the file
// does not exist yet.
func Load(path string) (*History, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &History{}, nil
		}
		return nil, err
	}
	var h History
	if err := json.Unmarshal(data, &h); err != nil {
		return nil, err
	}
	return &h, nil
}

// Save writes history to path.
func (h *History) Save(path string) error {
	data, err := json.MarshalIndent(h, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// AddVideo records a published long-form video.
func (h *History) AddVideo(videoID, title, url, privacy, localFile string) {
	h.Videos = append(h.Videos, newEntry(videoID, title, url, privacy, localFile))
	h.TotalUploads++
}

// AddShort records a published short and queues the related-video task
// linking it to the full video, when one is known.
func (h *History) AddShort(videoID, title, url, privacy, localFile, linkToVideoID string) {
	h.Shorts = append(h.Shorts, newEntry(videoID, title, url, privacy, localFile))
	h.TotalUploads++
	if linkToVideoID != "" {
		h.PendingTasks = append(h.PendingTasks, RelatedTask{
			ShortID:       videoID,
			ShortTitle:    title,
			LinkToVideoID: linkToVideoID,
		})
	}
}

// CompleteTask removes a pending related-video task by short ID.
func (h *History) CompleteTask(shortID string) bool {
	for i, task := range h.PendingTasks {
		if task.ShortID == shortID {
			h.PendingTasks = append(h.PendingTasks[:i], h.PendingTasks[i+1:]...)
			return true
		}
	}
	return false
}

func newEntry(videoID, title, url, privacy, localFile string) Entry {
	return Entry{
		ID:         uuid.NewString(),
		VideoID:    videoID,
		Title:      title,
		URL:        url,
		Privacy:    privacy,
		LocalFile:  localFile,
		UploadedAt: time.Now().Format(time.RFC3339),
	}
}

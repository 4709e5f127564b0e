// Package youtube uploads finished videos through the YouTube Data API.
// OAuth token acquisition and refresh live outside this tool; the access
// token arrives through the environment.
package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
)

const uploadEndpoint = "https://www.googleapis.com/upload/youtube/v3/videos?uploadType=resumable&part=snippet,status"

// Metadata describes the video being published.
type Metadata struct {
	Title       string
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
}

// UploadResult is the published identifier handed back to run history.
type UploadResult struct {
	VideoID string
	URL     string
}

// Uploader drives resumable uploads.
type Uploader struct {
	logger zerolog.Logger
	http   *http.Client
	token  string
}

// NewUploader creates an uploader with a bearer access token.
func NewUploader(logger zerolog.Logger, token string) *Uploader {
	return &Uploader{
		logger: logger.With().Str("component", "youtube").Logger(),
		http:   &http.Client{Timeout: 30 * time.Minute},
		token:  token,
	}
}

type snippet struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	CategoryID  string   `json:"categoryId"`
}

type status struct {
	PrivacyStatus           string `json:"privacyStatus"`
	SelfDeclaredMadeForKids bool   `json:"selfDeclaredMadeForKids"`
}

type insertBody struct {
	Snippet snippet `json:"snippet"`
	Status  status  `json:"status"`
}

type insertResponse struct {
	ID string `json:"id"`
}

// Upload starts a resumable session and streams the video file. Returns the
// published video ID and watch URL.
func (u *Uploader) Upload(ctx context.Context, videoPath string, meta Metadata) (*UploadResult, error) {
	if u.token == "" {
		return nil, fmt.Errorf("youtube access token not set")
	}

	f, err := os.Open(videoPath)
	if err != nil {
		return nil, fmt.Errorf("video not found: %w", err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}

	sessionURL, err := u.startSession(ctx, meta, stat.Size())
	if err != nil {
		return nil, err
	}

	u.logger.Info().
		Str("title", meta.Title).
		Str("privacy", meta.Privacy).
		Int64("bytes", stat.Size()).
		Msg("uploading video")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, sessionURL, f)
	if err != nil {
		return nil, err
	}
	req.ContentLength = stat.Size()
	req.Header.Set("Content-Type", "video/mp4")

	resp, err := u.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("upload returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed insertResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse upload response: %w", err)
	}
	if parsed.ID == "" {
		return nil, fmt.Errorf("no video id in upload response")
	}

	result := &UploadResult{
		VideoID: parsed.ID,
		URL:     "https://youtu.be/" + parsed.ID,
	}
	u.logger.Info().Str("url", result.URL).Msg("upload complete")
	return result, nil
}

// startSession opens the resumable-upload session and returns its URL.
func (u *Uploader) startSession(ctx context.Context, meta Metadata, size int64) (string, error) {
	payload, err := json.Marshal(insertBody{
		Snippet: snippet{
			Title:       meta.Title,
			Description: meta.Description,
			Tags:        meta.Tags,
			CategoryID:  meta.CategoryID,
		},
		Status: status{PrivacyStatus: meta.Privacy},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+u.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Upload-Content-Type", "video/mp4")
	req.Header.Set("X-Upload-Content-Length", fmt.Sprintf("%d", size))

	resp, err := u.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to start upload session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload session returned %d: %s", resp.StatusCode, string(body))
	}

	location := resp.Header.Get("Location")
	if location == "" {
		return "", fmt.Errorf("no session URL in response")
	}
	return location, nil
}

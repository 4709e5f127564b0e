// Package suno fetches track metadata and media assets from Suno track
// pages. The page embeds its clip record as JSON in a __NEXT_DATA__ script
// tag; that embedded record is the only thing parsed here.
package suno

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/latentflow/mixforge/internal/track"
	"github.com/latentflow/mixforge/pkg/util"
)

const userAgent = "Mozilla/5.0 (compatible; MixforgeBot/1.0)"

var nextDataPattern = regexp.MustCompile(`<script id="__NEXT_DATA__"[^>]*>([^<]+)</script>`)
var jsonScriptPattern = regexp.MustCompile(`<script[^>]*type="application/json"[^>]*>([^<]+)</script>`)

// Client fetches metadata and downloads assets.
type Client struct {
	logger zerolog.Logger
	http   *http.Client
}

// NewClient creates a metadata client.
func NewClient(logger zerolog.Logger) *Client {
	return &Client{
		logger: logger.With().Str("component", "suno").Logger(),
		http:   &http.Client{Timeout: 60 * time.Second},
	}
}

// pageData mirrors the slice of the embedded page JSON we care about.
type pageData struct {
	Props struct {
		PageProps struct {
			Clip clipData `json:"clip"`
		} `json:"pageProps"`
	} `json:"props"`
}

type clipData struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DisplayName string `json:"display_name"`
	AudioURL    string `json:"audio_url"`
	ImageURL    string `json:"image_url"`
	ImageLarge  string `json:"image_large_url"`
	PlayCount   int    `json:"play_count"`
	CreatedAt   string `json:"created_at"`
	Metadata    struct {
		Duration float64 `json:"duration"`
		Prompt   string  `json:"prompt"`
		Tags     string  `json:"tags"`
	} `json:"metadata"`
}

// Fetch retrieves one track's metadata. An empty title in the page record is
// treated as total failure for that URL.
func (c *Client) Fetch(ctx context.Context, trackURL string) (*track.Track, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, trackURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", trackURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, trackURL)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	clip, err := extractClip(string(body))
	if err != nil {
		return nil, fmt.Errorf("no track metadata in %s: %w", trackURL, err)
	}
	if clip.Title == "" {
		return nil, fmt.Errorf("no title for %s", trackURL)
	}

	imageURL := clip.ImageLarge
	if imageURL == "" {
		imageURL = clip.ImageURL
	}

	t := &track.Track{
		Slug:        track.Slugify(clip.Title),
		Title:       clip.Title,
		Artist:      clip.DisplayName,
		Description: clip.Metadata.Prompt,
		Duration:    clip.Metadata.Duration,
		BPM:         track.ExtractBPM(clip.Metadata.Prompt),
		Tags:        clip.Metadata.Tags,
		Plays:       clip.PlayCount,
		CreatedAt:   clip.CreatedAt,
		SourceURL:   trackURL,
		SourceID:    sourceID(clip.ID, trackURL),
		AudioURL:    clip.AudioURL,
		ImageURL:    imageURL,
	}

	c.logger.Info().
		Str("title", t.Title).
		Float64("duration", t.Duration).
		Int("bpm", t.BPM).
		Msg("fetched track metadata")

	return t, nil
}

// extractClip locates the embedded JSON record, preferring the __NEXT_DATA__
// script and falling back to any application/json script tag.
func extractClip(html string) (*clipData, error) {
	for _, pattern := range []*regexp.Regexp{nextDataPattern, jsonScriptPattern} {
		m := pattern.FindStringSubmatch(html)
		if m == nil {
			continue
		}
		var page pageData
		if err := json.Unmarshal([]byte(m[1]), &page); err != nil {
			continue
		}
		if page.Props.PageProps.Clip.Title != "" {
			clip := page.Props.PageProps.Clip
			return &clip, nil
		}
	}
	return nil, fmt.Errorf("embedded clip record not found")
}

// sourceID prefers the page's clip id, else the last URL path element.
func sourceID(clipID, trackURL string) string {
	if clipID != "" {
		return clipID
	}
	u, err := url.Parse(trackURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	return parts[len(parts)-1]
}

// DownloadAudio fetches the track's audio to dir/<slug>.mp3, skipping the
// download when the file already exists.
func (c *Client) DownloadAudio(ctx context.Context, t *track.Track, dir string) (string, error) {
	if t.AudioURL == "" {
		return "", fmt.Errorf("track %s has no audio URL", t.Slug)
	}
	path := filepath.Join(dir, t.Slug+".mp3")
	if util.FileExists(path) {
		c.logger.Debug().Str("path", path).Msg("audio exists, skipping download")
		return path, nil
	}
	if err := c.download(ctx, t.AudioURL, path); err != nil {
		return "", err
	}
	return path, nil
}

// DownloadCover fetches the source's own cover image to dir/<slug>_cover.png.
func (c *Client) DownloadCover(ctx context.Context, t *track.Track, dir string) (string, error) {
	if t.ImageURL == "" {
		return "", fmt.Errorf("track %s has no image URL", t.Slug)
	}
	path := filepath.Join(dir, t.Slug+"_cover.png")
	if util.FileExists(path) {
		return path, nil
	}
	if err := c.download(ctx, t.ImageURL, path); err != nil {
		return "", err
	}
	return path, nil
}

func (c *Client) download(ctx context.Context, fileURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	if err := util.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, resp.Body); err != nil {
		os.Remove(path)
		return err
	}

	c.logger.Info().Str("path", path).Msg("downloaded")
	return nil
}

package track

import (
	"regexp"
	"strconv"
	"strings"
)

// Track is one sourced audio track moving through the pipeline. Metadata
// acquisition creates it, classification sets Mood, the asset-fetch stages fill
// in the Local* paths. Once a track enters compilation it is treated as
// immutable.
type Track struct {
	Slug        string  `json:"slug"`
	Title       string  `json:"title"`
	Artist      string  `json:"artist,omitempty"`
	Description string  `json:"description"`
	Duration    float64 `json:"duration"`
	Mood        Mood    `json:"detected_mood,omitempty"`
	BPM         int     `json:"bpm"`
	Tags        string  `json:"genre_tags,omitempty"`
	Plays       int     `json:"plays,omitempty"`
	CreatedAt   string  `json:"created_at,omitempty"`

	SourceURL string `json:"source_url,omitempty"`
	SourceID  string `json:"source_id,omitempty"`
	AudioURL  string `json:"audio_url,omitempty"`
	ImageURL  string `json:"image_url,omitempty"`

	LocalAudio         string `json:"local_audio,omitempty"`
	LocalImage         string `json:"local_image,omitempty"`
	LocalImageVertical string `json:"local_image_vertical,omitempty"`
	LocalMask          string `json:"local_mask,omitempty"`
}

// HasAssets reports whether the track has the local files compilation needs.
func (t *Track) HasAssets() bool {
	return t.LocalAudio != "" && t.LocalImage != ""
}

var (
	slugStrip    = regexp.MustCompile(`[^\w\s-]`)
	slugCollapse = regexp.MustCompile(`[\s-]+`)
	bpmPattern   = regexp.MustCompile(`(\d{2,3})\s*bpm`)
)

// Slugify converts a track title to a filesystem-safe slug.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStrip.ReplaceAllString(slug, "")
	slug = slugCollapse.ReplaceAllString(slug, "_")
	return slug
}

// ExtractBPM pulls a tempo estimate out of free-form description text.
// Returns 0 when no "NNN bpm" marker is present.
func ExtractBPM(text string) int {
	m := bpmPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0
	}
	bpm, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return bpm
}

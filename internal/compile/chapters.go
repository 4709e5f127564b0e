package compile

import (
	"fmt"
	"strings"

	"github.com/latentflow/mixforge/internal/track"
)

// Chapter marks where one track begins within the concatenated compilation.
type Chapter struct {
	Title     string  `json:"title"`
	Start     float64 `json:"start"`
	Timestamp string  `json:"timestamp"`
}

// FormatTimestamp renders a chapter offset the way video descriptions expect:
// H:MM:SS at an hour or more, M:SS below.
func FormatTimestamp(seconds float64) string {
	hours := int(seconds) / 3600
	minutes := (int(seconds) % 3600) / 60
	secs := int(seconds) % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// BuildChapters computes chapter offsets as the cumulative sum of the ordered
// track durations. Regenerated whenever track order changes; reordering after
// this point is a correctness bug.
func BuildChapters(tracks []*track.Track) []Chapter {
	chapters := make([]Chapter, 0, len(tracks))
	var offset float64
	for _, t := range tracks {
		chapters = append(chapters, Chapter{
			Title:     t.Title,
			Start:     offset,
			Timestamp: FormatTimestamp(offset),
		})
		offset += t.Duration
	}
	return chapters
}

// ChapterText formats the chapter list as the timestamp-title block pasted
// into an upload description.
func ChapterText(chapters []Chapter) string {
	var sb strings.Builder
	sb.WriteString("CHAPTERS:\n")
	for _, ch := range chapters {
		sb.WriteString(ch.Timestamp)
		sb.WriteString(" - ")
		sb.WriteString(ch.Title)
		sb.WriteString("\n")
	}
	return sb.String()
}

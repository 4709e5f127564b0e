package compile

import (
	"fmt"
	"strings"

	"github.com/latentflow/mixforge/internal/track"
)

var moodEmoji = map[track.Mood]string{
	track.MoodChill:  "☕",
	track.MoodParty:  "🔥",
	track.MoodDeep:   "💫",
	track.MoodFusion: "🌍",
}

// Description builds the upload description for a compilation: primary-mood
// header, chapter list, and channel boilerplate.
func Description(info *CompilationInfo, channelName string) string {
	emoji, ok := moodEmoji[primaryMood(info.Tracks)]
	if !ok {
		emoji = "🎵"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s %s | Amapiano Mix\n\n", emoji, info.Name)
	fmt.Fprintf(&sb, "%.0f minutes of smooth amapiano vibes. Perfect for studying, working, or just vibing.\n\n", info.TotalMinutes)
	sb.WriteString("📑 CHAPTERS (click to jump):\n\n")
	for _, ch := range info.Chapters {
		fmt.Fprintf(&sb, "%s - %s\n", ch.Timestamp, ch.Title)
	}
	fmt.Fprintf(&sb, "\n🔔 Subscribe to @%s for more Amapiano\n\n", channelName)
	sb.WriteString("🎧 Playlists:\n")
	sb.WriteString("▶️ Chill - Study & Relax\n")
	sb.WriteString("▶️ Party - High Energy\n")
	sb.WriteString("▶️ Deep - Soulful Vibes\n\n")
	sb.WriteString("#amapiano #amapianomix #studymusic #chillbeats #southafrica\n\n")
	fmt.Fprintf(&sb, "© %s - AI Generated Music\n", channelName)
	return sb.String()
}

// primaryMood is the most common detected mood across the track list.
func primaryMood(tracks []*track.Track) track.Mood {
	counts := make(map[track.Mood]int)
	for _, t := range tracks {
		counts[t.Mood]++
	}
	best := track.MoodChill
	bestCount := 0
	for _, mood := range []track.Mood{track.MoodChill, track.MoodParty, track.MoodDeep, track.MoodFusion} {
		if counts[mood] > bestCount {
			best = mood
			bestCount = counts[mood]
		}
	}
	return best
}

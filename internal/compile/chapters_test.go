package compile

import (
	"strings"
	"testing"

	"github.com/latentflow/mixforge/internal/track"
)

func TestFormatTimestamp(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0:00"},
		{59, "0:59"},
		{60, "1:00"},
		{150, "2:30"},
		{3599, "59:59"},
		{3600, "1:00:00"},
		{3661, "1:01:01"},
		{7325.9, "2:02:05"},
	}
	for _, tc := range cases {
		if got := FormatTimestamp(tc.in); got != tc.want {
			t.Errorf("FormatTimestamp(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestBuildChapters(t *testing.T) {
	tracks := []*track.Track{
		{Title: "Opening", Duration: 150},
		{Title: "Middle", Duration: 300},
		{Title: "Closer", Duration: 200},
	}

	chapters := BuildChapters(tracks)
	if len(chapters) != 3 {
		t.Fatalf("got %d chapters, want 3", len(chapters))
	}

	want := []struct {
		start float64
		ts    string
	}{
		{0, "0:00"},
		{150, "2:30"},
		{450, "7:30"},
	}
	for i, w := range want {
		if chapters[i].Start != w.start {
			t.Errorf("chapter %d start = %v, want %v", i, chapters[i].Start, w.start)
		}
		if chapters[i].Timestamp != w.ts {
			t.Errorf("chapter %d timestamp = %q, want %q", i, chapters[i].Timestamp, w.ts)
		}
	}
}

func TestBuildChaptersMonotonic(t *testing.T) {
	tracks := []*track.Track{
		{Title: "a", Duration: 10},
		{Title: "b", Duration: 0},
		{Title: "c", Duration: 5},
	}
	chapters := BuildChapters(tracks)
	for i := 1; i < len(chapters); i++ {
		if chapters[i].Start < chapters[i-1].Start {
			t.Errorf("chapter starts not monotonic: %v then %v", chapters[i-1].Start, chapters[i].Start)
		}
	}
}

// End-to-end over ordering: chapters follow the mood-then-BPM sequence, not
// the input order.
func TestChaptersFollowOrdering(t *testing.T) {
	tracks := []*track.Track{
		{Title: "Banger", Mood: track.MoodParty, Duration: 200},
		{Title: "Sunset", Mood: track.MoodChill, Duration: 150},
		{Title: "Soul", Mood: track.MoodDeep, Duration: 300},
	}

	ordered := track.Order(tracks)
	chapters := BuildChapters(ordered)

	want := []struct {
		title string
		ts    string
	}{
		{"Sunset", "0:00"},
		{"Soul", "2:30"},
		{"Banger", "7:30"},
	}
	for i, w := range want {
		if chapters[i].Title != w.title || chapters[i].Timestamp != w.ts {
			t.Errorf("chapter %d = %s@%s, want %s@%s",
				i, chapters[i].Title, chapters[i].Timestamp, w.title, w.ts)
		}
	}

	if total := track.TotalDuration(ordered); FormatTimestamp(total) != "10:50" {
		t.Errorf("total = %q, want 10:50", FormatTimestamp(total))
	}
}

func TestChapterText(t *testing.T) {
	chapters := []Chapter{
		{Title: "Opening", Timestamp: "0:00"},
		{Title: "Closer", Timestamp: "2:30"},
	}
	text := ChapterText(chapters)
	if !strings.HasPrefix(text, "CHAPTERS:\n") {
		t.Errorf("missing header: %q", text)
	}
	if !strings.Contains(text, "0:00 - Opening\n") || !strings.Contains(text, "2:30 - Closer\n") {
		t.Errorf("missing chapter lines: %q", text)
	}
}

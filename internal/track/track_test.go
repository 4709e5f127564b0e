package track

import "testing"

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Midnight in Soweto", "midnight_in_soweto"},
		{"  Golden Hour (Remix)  ", "golden_hour_remix"},
		{"Piano & Strings!", "piano_strings"},
		{"already_slugged", "already_slugged"},
		{"Dash - Separated - Title", "dash_separated_title"},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestExtractBPM(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"deep groove at 112 bpm with log drums", 112},
		{"slow burner, 95bpm", 95},
		{"fast one 128 BPM", 128},
		{"no tempo mentioned here", 0},
		{"9 bpm is too few digits", 0},
	}

	for _, tc := range cases {
		if got := ExtractBPM(tc.in); got != tc.want {
			t.Errorf("ExtractBPM(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestHasAssets(t *testing.T) {
	tr := &Track{Slug: "x"}
	if tr.HasAssets() {
		t.Error("empty track should not have assets")
	}
	tr.LocalAudio = "/tmp/x.mp3"
	if tr.HasAssets() {
		t.Error("audio alone is not enough")
	}
	tr.LocalImage = "/tmp/x.jpg"
	if !tr.HasAssets() {
		t.Error("audio plus image should satisfy HasAssets")
	}
}

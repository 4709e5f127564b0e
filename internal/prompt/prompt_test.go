package prompt

import (
	"strings"
	"testing"

	"github.com/latentflow/mixforge/internal/track"
)

func TestSynthesizeBaseScene(t *testing.T) {
	tr := &track.Track{Mood: track.MoodDeep, Description: "plain description"}
	p := Synthesize(tr, Horizontal)
	if !strings.HasPrefix(p, baseScenes[track.MoodDeep]) {
		t.Errorf("prompt should start with the mood base scene: %q", p)
	}
	if !strings.HasSuffix(p, horizontalQualifiers) {
		t.Errorf("horizontal prompt should end with horizontal qualifiers: %q", p)
	}
}

func TestSynthesizeTriggers(t *testing.T) {
	tr := &track.Track{
		Mood:        track.MoodChill,
		Description: "A nostalgic sunset over the township, children at the playground",
	}
	p := Synthesize(tr, Horizontal)

	for _, want := range []string{
		"children playing in distance",
		"golden hour sunset",
		"South African township",
		"dreamy nostalgic atmosphere",
	} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing fragment %q: %s", want, p)
		}
	}
	if strings.Contains(p, "nighttime city lights") {
		t.Errorf("unmatched trigger leaked into prompt: %s", p)
	}
}

func TestSynthesizeVertical(t *testing.T) {
	tr := &track.Track{Mood: track.MoodParty, Description: "club night energy"}
	p := Synthesize(tr, Vertical)

	if !strings.Contains(p, "electric nightlife with neon reflections") {
		t.Errorf("vertical prompt should use the vertical fragment: %s", p)
	}
	if !strings.Contains(p, "9:16 aspect ratio") {
		t.Errorf("vertical prompt missing vertical qualifiers: %s", p)
	}
	if strings.Contains(p, horizontalQualifiers) {
		t.Errorf("vertical prompt should not carry horizontal qualifiers: %s", p)
	}
}

// Both phrases of one trigger matching must not duplicate the fragment.
func TestSynthesizeNoDuplicateFragments(t *testing.T) {
	tr := &track.Track{Mood: track.MoodChill, Description: "sunset with golden light"}
	p := Synthesize(tr, Horizontal)
	if strings.Count(p, "golden hour sunset") != 1 {
		t.Errorf("fragment duplicated: %s", p)
	}
}

func TestSynthesizeInvalidMood(t *testing.T) {
	tr := &track.Track{Mood: track.Mood("bogus"), Description: ""}
	p := Synthesize(tr, Horizontal)
	if !strings.HasPrefix(p, baseScenes[track.MoodChill]) {
		t.Errorf("invalid mood should fall back to the chill scene: %q", p)
	}
}

func TestSynthesizeDeterministic(t *testing.T) {
	tr := &track.Track{Mood: track.MoodFusion, Description: "piano night in the township"}
	first := Synthesize(tr, Vertical)
	for i := 0; i < 20; i++ {
		if got := Synthesize(tr, Vertical); got != first {
			t.Fatal("Synthesize not deterministic")
		}
	}
}

func TestStyle(t *testing.T) {
	if Style("neon_city") != Styles["neon_city"] {
		t.Error("named style not returned")
	}
	if Style("does_not_exist") != Styles["nostalgic"] {
		t.Error("unknown style should fall back to nostalgic")
	}
}

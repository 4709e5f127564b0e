package track

import "testing"

func TestOrder(t *testing.T) {
	tracks := []*Track{
		{Slug: "banger", Mood: MoodParty, BPM: 120},
		{Slug: "sunset", Mood: MoodChill, BPM: 100},
		{Slug: "soul", Mood: MoodDeep, BPM: 110},
		{Slug: "slow_chill", Mood: MoodChill, BPM: 90},
		{Slug: "roots", Mood: MoodFusion, BPM: 105},
	}

	ordered := Order(tracks)

	want := []string{"slow_chill", "sunset", "soul", "roots", "banger"}
	for i, slug := range want {
		if ordered[i].Slug != slug {
			t.Errorf("position %d: got %s, want %s", i, ordered[i].Slug, slug)
		}
	}

	// Input order preserved.
	if tracks[0].Slug != "banger" {
		t.Error("Order modified its input slice")
	}
}

// A zero BPM sorts as the default tempo, landing between slower and faster
// tracks of the same mood.
func TestOrderDefaultBPM(t *testing.T) {
	tracks := []*Track{
		{Slug: "fast", Mood: MoodChill, BPM: 118},
		{Slug: "unknown", Mood: MoodChill},
		{Slug: "slow", Mood: MoodChill, BPM: 85},
	}

	ordered := Order(tracks)
	want := []string{"slow", "unknown", "fast"}
	for i, slug := range want {
		if ordered[i].Slug != slug {
			t.Errorf("position %d: got %s, want %s", i, ordered[i].Slug, slug)
		}
	}
}

// Stability: equal keys keep input order.
func TestOrderStable(t *testing.T) {
	tracks := []*Track{
		{Slug: "a", Mood: MoodDeep, BPM: 100},
		{Slug: "b", Mood: MoodDeep, BPM: 100},
		{Slug: "c", Mood: MoodDeep, BPM: 100},
	}

	ordered := Order(tracks)
	for i, slug := range []string{"a", "b", "c"} {
		if ordered[i].Slug != slug {
			t.Errorf("position %d: got %s, want %s", i, ordered[i].Slug, slug)
		}
	}
}

func TestGroupByMood(t *testing.T) {
	tracks := []*Track{
		{Slug: "a", Mood: MoodChill},
		{Slug: "b", Mood: MoodParty},
		{Slug: "c", Mood: MoodChill},
	}

	groups := GroupByMood(tracks)
	if len(groups[MoodChill]) != 2 {
		t.Errorf("chill group has %d tracks, want 2", len(groups[MoodChill]))
	}
	if len(groups[MoodParty]) != 1 {
		t.Errorf("party group has %d tracks, want 1", len(groups[MoodParty]))
	}
	if len(groups[MoodDeep]) != 0 {
		t.Errorf("deep group has %d tracks, want 0", len(groups[MoodDeep]))
	}
}

func TestTotalDuration(t *testing.T) {
	tracks := []*Track{
		{Duration: 180.5},
		{Duration: 219.5},
	}
	if got := TotalDuration(tracks); got != 400 {
		t.Errorf("TotalDuration = %f, want 400", got)
	}
	if got := TotalDuration(nil); got != 0 {
		t.Errorf("TotalDuration(nil) = %f, want 0", got)
	}
}

package track

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		desc string
		want Mood
	}{
		{"nostalgic mellow evening, warm and soft", MoodChill},
		{"high energy club banger with heavy bass", MoodParty},
		{"deep soulful introspective journey", MoodDeep},
		{"hausa fusion with goje and traditional rhythms", MoodFusion},
		{"", MoodChill},
		{"completely unrelated text about cooking", MoodChill},
	}

	for _, tc := range cases {
		if got := Classify(tc.desc); got != tc.want {
			t.Errorf("Classify(%q) = %s, want %s", tc.desc, got, tc.want)
		}
	}
}

// Scoring counts occurrences, so a repeated keyword outweighs a single match
// from another mood.
func TestClassifyOccurrenceCount(t *testing.T) {
	desc := "deep deep deep cuts with a party feel"
	if got := Classify(desc); got != MoodDeep {
		t.Errorf("Classify(%q) = %s, want deep", desc, got)
	}
}

// Substring matching is intentional: "hype" inside "hyperactive" still counts.
func TestClassifySubstring(t *testing.T) {
	if got := Classify("hyperactive rhythms"); got != MoodParty {
		t.Errorf("Classify(hyperactive) = %s, want party", got)
	}
}

// Equal scores resolve to the first-declared mood.
func TestClassifyTieBreak(t *testing.T) {
	desc := "chill party"
	if got := Classify(desc); got != MoodChill {
		t.Errorf("Classify(%q) = %s, want chill (declaration-order tie break)", desc, got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	desc := "soulful deep groove with warm party energy"
	first := Classify(desc)
	for i := 0; i < 50; i++ {
		if got := Classify(desc); got != first {
			t.Fatalf("Classify not deterministic: %s then %s", first, got)
		}
	}
}

func TestMoodRank(t *testing.T) {
	order := []Mood{MoodChill, MoodDeep, MoodFusion, MoodParty}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("rank of %s (%d) should be below %s (%d)",
				order[i-1], order[i-1].Rank(), order[i], order[i].Rank())
		}
	}
	if Mood("unknown").Rank() != MoodChill.Rank() {
		t.Error("unknown mood should rank with chill")
	}
}

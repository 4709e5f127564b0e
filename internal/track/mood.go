package track

import "strings"

// Mood is a coarse energy classification driving both track ordering and
// visual theme selection.
type Mood string

const (
	MoodChill  Mood = "chill"
	MoodParty  Mood = "party"
	MoodDeep   Mood = "deep"
	MoodFusion Mood = "fusion"
)

// moodOrder is the declaration order used for tie-breaking in Classify.
var moodOrder = []Mood{MoodChill, MoodParty, MoodDeep, MoodFusion}

// moodKeywords maps each mood to the keyword substrings scored against track
// descriptions. Treated as configuration data.
var moodKeywords = map[Mood][]string{
	MoodChill:  {"nostalgic", "chill", "mellow", "relax", "warm", "soft", "gentle", "calm", "ambient", "study"},
	MoodParty:  {"party", "dance", "energy", "club", "hype", "bass", "upbeat", "groove", "bounce", "high energy"},
	MoodDeep:   {"deep", "soulful", "emotional", "introspective", "melancholic", "reflective", "moody"},
	MoodFusion: {"fusion", "world", "experimental", "hausa", "fuji", "afrobeat", "goje", "traditional", "ethnic"},
}

// Valid reports whether m is one of the closed mood set.
func (m Mood) Valid() bool {
	_, ok := moodKeywords[m]
	return ok
}

// Rank is the fixed total order used for sequencing: compilations flow from
// calm to energetic.
func (m Mood) Rank() int {
	switch m {
	case MoodChill:
		return 0
	case MoodDeep:
		return 1
	case MoodFusion:
		return 2
	case MoodParty:
		return 3
	default:
		return 0
	}
}

// Classify maps a free-text description to a mood. Keyword matching is by
// substring, not token: "hype" matches inside "hyperactive". Highest non-zero
// score wins, ties go to the first-declared mood, and a zero score for every
// mood falls back to chill.
func Classify(description string) Mood {
	desc := strings.ToLower(description)

	best := MoodChill
	bestScore := 0
	for _, mood := range moodOrder {
		score := 0
		for _, kw := range moodKeywords[mood] {
			score += strings.Count(desc, kw)
		}
		if score > bestScore {
			best = mood
			bestScore = score
		}
	}
	return best
}

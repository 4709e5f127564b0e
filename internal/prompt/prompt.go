// Package prompt derives deterministic image-generation prompts from track
// metadata. No external calls happen here; the output string is handed to the
// image-generation client.
package prompt

import (
	"strings"

	"github.com/latentflow/mixforge/internal/track"
)

// Orientation selects the framing the prompt is tuned for.
type Orientation string

const (
	Horizontal Orientation = "horizontal"
	Vertical   Orientation = "vertical"
)

// trigger is a thematic phrase scanned for in track descriptions. Matches
// append the scene fragment, in declaration order, duplicates suppressed.
type trigger struct {
	phrases            []string
	horizontalFragment string
	verticalFragment   string
}

var triggers = []trigger{
	{
		phrases:            []string{"playground", "children"},
		horizontalFragment: "children playing in distance",
		verticalFragment:   "children playing joyfully in golden sunlight",
	},
	{
		phrases:            []string{"sunset", "golden"},
		horizontalFragment: "golden hour sunset",
		verticalFragment:   "breathtaking golden hour sunset with volumetric rays",
	},
	{
		phrases:            []string{"township", "south africa"},
		horizontalFragment: "South African township",
		verticalFragment:   "vibrant South African township with colorful houses",
	},
	{
		phrases:            []string{"night", "club"},
		horizontalFragment: "nighttime city lights",
		verticalFragment:   "electric nightlife with neon reflections",
	},
	{
		phrases:            []string{"nature", "savanna"},
		horizontalFragment: "African savanna landscape",
		verticalFragment:   "majestic African savanna with acacia silhouettes",
	},
	{
		phrases:            []string{"nostalgic", "memories"},
		horizontalFragment: "dreamy nostalgic atmosphere",
		verticalFragment:   "dreamy nostalgic atmosphere with warm film grain",
	},
	{
		phrases:            []string{"piano"},
		horizontalFragment: "elegant piano keys with dramatic lighting",
		verticalFragment:   "elegant piano keys with dramatic lighting",
	},
}

// baseScenes is the mood-indexed starting scene for each prompt.
var baseScenes = map[track.Mood]string{
	track.MoodChill:  "Nostalgic warm scene, soft golden light, peaceful atmosphere",
	track.MoodParty:  "Vibrant nightlife scene, neon colors, energetic crowd silhouettes",
	track.MoodDeep:   "Moody atmospheric scene, purple and blue tones, introspective vibe",
	track.MoodFusion: "African cultural fusion, traditional patterns, modern aesthetic",
}

const horizontalQualifiers = "amapiano music visualizer style, cinematic, 4K"

const verticalQualifiers = "dramatic vertical composition with strong focal point, " +
	"cinematic lighting with volumetric god rays, " +
	"vibrant saturated colors, " +
	"shallow depth of field with beautiful bokeh, " +
	"professional music video aesthetic, " +
	"vertical portrait orientation 9:16 aspect ratio, " +
	"masterpiece quality, photorealistic"

// Synthesize builds the image prompt for a track. The construction is pure and
// deterministic: mood base scene, matched description fragments, then
// orientation-tuned quality qualifiers.
func Synthesize(t *track.Track, orientation Orientation) string {
	mood := t.Mood
	if !mood.Valid() {
		mood = track.MoodChill
	}

	desc := strings.ToLower(t.Description)

	var fragments []string
	seen := make(map[string]bool)
	for _, trg := range triggers {
		matched := false
		for _, phrase := range trg.phrases {
			if strings.Contains(desc, phrase) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		frag := trg.horizontalFragment
		if orientation == Vertical {
			frag = trg.verticalFragment
		}
		if !seen[frag] {
			seen[frag] = true
			fragments = append(fragments, frag)
		}
	}

	parts := []string{baseScenes[mood]}
	parts = append(parts, fragments...)
	if orientation == Vertical {
		parts = append(parts, verticalQualifiers)
	} else {
		parts = append(parts, horizontalQualifiers)
	}

	return strings.Join(parts, ", ")
}

package track

import "sort"

// defaultBPM is the tempo assumed for tracks with no estimate, so that
// unknown-tempo tracks land mid-bucket rather than at an extreme.
const defaultBPM = 100

// Order arranges tracks for listening flow: mood buckets from calm to
// energetic, tempo ascending within a bucket. The sort is stable, so tracks
// with equal (mood, tempo) keep their input order. The input slice is not
// modified.
func Order(tracks []*Track) []*Track {
	ordered := make([]*Track, len(tracks))
	copy(ordered, tracks)

	sort.SliceStable(ordered, func(i, j int) bool {
		ri, rj := ordered[i].Mood.Rank(), ordered[j].Mood.Rank()
		if ri != rj {
			return ri < rj
		}
		return sortBPM(ordered[i]) < sortBPM(ordered[j])
	})

	return ordered
}

func sortBPM(t *Track) int {
	if t.BPM > 0 {
		return t.BPM
	}
	return defaultBPM
}

// GroupByMood buckets tracks by their detected mood.
func GroupByMood(tracks []*Track) map[Mood][]*Track {
	groups := make(map[Mood][]*Track, len(moodOrder))
	for _, t := range tracks {
		groups[t.Mood] = append(groups[t.Mood], t)
	}
	return groups
}

// TotalDuration sums the durations of all tracks, in seconds.
func TotalDuration(tracks []*Track) float64 {
	var total float64
	for _, t := range tracks {
		total += t.Duration
	}
	return total
}

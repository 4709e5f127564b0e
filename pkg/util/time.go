package util

import "fmt"

// FormatSeconds converts a duration in seconds to the HH:MM:SS.mmm form
// that ffmpeg accepts for -ss and -t arguments.
func FormatSeconds(seconds float64) string {
	hours := int(seconds / 3600)
	minutes := int((seconds - float64(hours*3600)) / 60)
	secs := seconds - float64(hours*3600) - float64(minutes*60)
	return fmt.Sprintf("%02d:%02d:%06.3f", hours, minutes, secs)
}

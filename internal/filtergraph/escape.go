package filtergraph

import "strings"

var textEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	`:`, `\:`,
)

// EscapeText sanitizes a string destined for a drawtext stage. Backslash,
// quote, and colon all carry meaning in ffmpeg's filter argument parser and
// must be escaped before the text is embedded in a graph.
func EscapeText(s string) string {
	return textEscaper.Replace(s)
}

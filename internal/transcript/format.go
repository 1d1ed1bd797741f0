package transcript

import (
	"fmt"
	"math"
	"strings"
)

// FormatSRT renders segments as a standard SubRip document with 1-based cue
// numbers and comma millisecond separators.
func FormatSRT(segments []Segment) string {
	var builder strings.Builder
	cue := 0
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		cue++
		fmt.Fprintf(&builder, "%d\n%s --> %s\n%s\n\n", cue, srtTimestamp(segment.Start), srtTimestamp(segment.End), text)
	}
	return builder.String()
}

// FormatText renders segments as plain lines, one utterance per line.
func FormatText(segments []Segment) string {
	var builder strings.Builder
	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		builder.WriteString(text)
		builder.WriteByte('\n')
	}
	return builder.String()
}

func srtTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	hours := millis / 3600000
	millis -= hours * 3600000
	minutes := millis / 60000
	millis -= minutes * 60000
	secs := millis / 1000
	millis -= secs * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}

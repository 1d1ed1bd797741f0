package cards

import (
	"strings"

	"lectern/internal/detect"
	"lectern/internal/transcript"
)

// NoTranscriptPlaceholder fills a card whose window contains no speech.
const NoTranscriptPlaceholder = "(no transcript detected)"

// Pair is one slide joined with the speech spoken around it.
type Pair struct {
	Position       int
	ImagePath      string
	SlideTimestamp float64
	TranscriptText string
	Included       bool
}

// MatchOptions bound the transcript window attached to each slide.
type MatchOptions struct {
	// WindowSeconds is how far past the slide's appearance speech is
	// collected.
	WindowSeconds float64
	// PreContextSeconds is how far before the slide's appearance speech is
	// collected, clamped at the start of the recording.
	PreContextSeconds float64
}

// Match pairs every slide with the transcript tokens whose start time falls
// inside the slide's window. Both window edges are inclusive. With no slides
// or no tokens at all there is nothing to pair and the result is empty; a
// slide whose own window is silent receives the placeholder text instead,
// so no slide is ever dropped mid-run.
func Match(slides []detect.DetectedSlide, tokens []transcript.Token, opts MatchOptions) []Pair {
	if len(slides) == 0 || len(tokens) == 0 {
		return nil
	}

	pairs := make([]Pair, 0, len(slides))
	for i, slide := range slides {
		from := slide.Timestamp - opts.PreContextSeconds
		if from < 0 {
			from = 0
		}
		to := slide.Timestamp + opts.WindowSeconds

		var parts []string
		for _, token := range tokens {
			if token.Start >= from && token.Start <= to {
				parts = append(parts, token.Text)
			}
		}

		text := strings.Join(parts, " ")
		if text == "" {
			text = NoTranscriptPlaceholder
		}
		pairs = append(pairs, Pair{
			Position:       i,
			ImagePath:      slide.ImagePath,
			SlideTimestamp: slide.Timestamp,
			TranscriptText: text,
			Included:       true,
		})
	}
	return pairs
}

package cards

import (
	"testing"

	"lectern/internal/detect"
	"lectern/internal/transcript"
)

func TestMatchWindowBoundsAreInclusive(t *testing.T) {
	slides := []detect.DetectedSlide{{Timestamp: 10.0, FrameIndex: 0, ImagePath: "slide_0000_10.0s.png"}}
	tokens := []transcript.Token{
		{Text: "early", Start: 4.99},
		{Text: "opening", Start: 5.0},
		{Text: "middle", Start: 12.0},
		{Text: "closing", Start: 20.0},
		{Text: "late", Start: 20.01},
	}

	pairs := Match(slides, tokens, MatchOptions{WindowSeconds: 10, PreContextSeconds: 5})
	if len(pairs) != 1 {
		t.Fatalf("expected 1 pair, got %d", len(pairs))
	}
	if pairs[0].TranscriptText != "opening middle closing" {
		t.Fatalf("unexpected window text %q", pairs[0].TranscriptText)
	}
}

func TestMatchClampsPreContextAtZero(t *testing.T) {
	slides := []detect.DetectedSlide{{Timestamp: 2.0}}
	tokens := []transcript.Token{
		{Text: "intro", Start: 0.0},
		{Text: "words", Start: 1.5},
	}

	pairs := Match(slides, tokens, MatchOptions{WindowSeconds: 10, PreContextSeconds: 5})
	if pairs[0].TranscriptText != "intro words" {
		t.Fatalf("expected tokens from the recording start, got %q", pairs[0].TranscriptText)
	}
}

func TestMatchEmptyWindowGetsPlaceholder(t *testing.T) {
	slides := []detect.DetectedSlide{
		{Timestamp: 100.0, ImagePath: "a.png"},
		{Timestamp: 200.0, ImagePath: "b.png"},
	}
	tokens := []transcript.Token{{Text: "hello", Start: 150.0}}

	pairs := Match(slides, tokens, MatchOptions{WindowSeconds: 10, PreContextSeconds: 5})
	if len(pairs) != 2 {
		t.Fatalf("no slide may be dropped, got %d pairs", len(pairs))
	}
	if pairs[0].TranscriptText != NoTranscriptPlaceholder {
		t.Fatalf("expected placeholder for silent window, got %q", pairs[0].TranscriptText)
	}
	if pairs[1].TranscriptText != NoTranscriptPlaceholder {
		t.Fatalf("expected placeholder for silent window, got %q", pairs[1].TranscriptText)
	}
	for i, pair := range pairs {
		if pair.Position != i {
			t.Fatalf("expected position %d, got %d", i, pair.Position)
		}
		if !pair.Included {
			t.Fatalf("new pairs start included")
		}
	}
}

func TestMatchNoSlides(t *testing.T) {
	pairs := Match(nil, []transcript.Token{{Text: "speech", Start: 1}}, MatchOptions{WindowSeconds: 10})
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs without slides, got %d", len(pairs))
	}
}

func TestMatchNoTokens(t *testing.T) {
	slides := []detect.DetectedSlide{{Timestamp: 1.0, ImagePath: "a.png"}}

	pairs := Match(slides, nil, MatchOptions{WindowSeconds: 10, PreContextSeconds: 5})
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs without tokens, got %d", len(pairs))
	}

	pairs = Match(slides, transcript.Flatten(nil), MatchOptions{WindowSeconds: 10, PreContextSeconds: 5})
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs for an empty transcript, got %d", len(pairs))
	}
}

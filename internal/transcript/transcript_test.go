package transcript

import (
	"strings"
	"testing"
)

func TestTokensPrefersWordAlignment(t *testing.T) {
	segment := Segment{
		Text:  "hello world",
		Start: 1.0,
		End:   2.5,
		Words: []Word{
			{Text: " hello", Start: 1.0, End: 1.4},
			{Text: "   ", Start: 1.4, End: 1.6},
			{Text: "world ", Start: 1.6, End: 2.5},
		},
	}
	tokens := segment.Tokens()
	if len(tokens) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(tokens))
	}
	if tokens[0].Text != "hello" || tokens[1].Text != "world" {
		t.Fatalf("unexpected token texts %q, %q", tokens[0].Text, tokens[1].Text)
	}
	if tokens[0].Start != 1.0 || tokens[1].End != 2.5 {
		t.Fatalf("word timing not preserved: %+v", tokens)
	}
}

func TestTokensFallsBackToSegment(t *testing.T) {
	segment := Segment{Text: "  unaligned utterance ", Start: 3.0, End: 7.0}
	tokens := segment.Tokens()
	if len(tokens) != 1 {
		t.Fatalf("expected a single fallback token, got %d", len(tokens))
	}
	if tokens[0].Text != "unaligned utterance" {
		t.Fatalf("unexpected token text %q", tokens[0].Text)
	}
	if tokens[0].Start != 3.0 || tokens[0].End != 7.0 {
		t.Fatalf("fallback token should span the segment, got %+v", tokens[0])
	}
}

func TestTokensEmptySegment(t *testing.T) {
	if tokens := (Segment{Text: "   "}).Tokens(); len(tokens) != 0 {
		t.Fatalf("expected no tokens for blank segment, got %d", len(tokens))
	}
}

func TestFlattenPreservesOrder(t *testing.T) {
	segments := []Segment{
		{Text: "first", Start: 0, End: 1},
		{Text: "second third", Start: 1, End: 3, Words: []Word{
			{Text: "second", Start: 1, End: 2},
			{Text: "third", Start: 2, End: 3},
		}},
	}
	tokens := Flatten(segments)
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	want := []string{"first", "second", "third"}
	for i, text := range want {
		if tokens[i].Text != text {
			t.Fatalf("token %d: expected %q, got %q", i, text, tokens[i].Text)
		}
	}
}

func TestFormatSRT(t *testing.T) {
	segments := []Segment{
		{Text: "Welcome to the course.", Start: 0, End: 4.25},
		{Text: "   ", Start: 4.25, End: 5},
		{Text: "Today we cover graphs.", Start: 3661.5, End: 3665.004},
	}
	got := FormatSRT(segments)
	want := "1\n00:00:00,000 --> 00:00:04,250\nWelcome to the course.\n\n" +
		"2\n01:01:01,500 --> 01:01:05,004\nToday we cover graphs.\n\n"
	if got != want {
		t.Fatalf("unexpected SRT output:\n%s", got)
	}
}

func TestFormatText(t *testing.T) {
	segments := []Segment{
		{Text: " one "},
		{Text: ""},
		{Text: "two"},
	}
	got := FormatText(segments)
	if got != "one\ntwo\n" {
		t.Fatalf("unexpected text output %q", got)
	}
	if strings.Count(got, "\n") != 2 {
		t.Fatalf("expected one line per utterance")
	}
}

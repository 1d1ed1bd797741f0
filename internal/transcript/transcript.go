package transcript

import "strings"

// Word is one aligned word inside a segment. Words without usable timing
// are dropped during tokenization rather than guessed at.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Segment is one transcribed utterance with its time bounds in seconds.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Words []Word  `json:"words,omitempty"`
}

// Token is the unit the matcher windows over. When word-level alignment is
// available each word becomes a token; otherwise the whole segment collapses
// into a single token spanning its bounds.
type Token struct {
	Text  string
	Start float64
	End   float64
}

// Tokens expands a segment into matchable tokens. Word entries with empty
// text are skipped; a segment with no usable words falls back to one token
// covering the segment.
func (s Segment) Tokens() []Token {
	tokens := make([]Token, 0, len(s.Words))
	for _, word := range s.Words {
		text := strings.TrimSpace(word.Text)
		if text == "" {
			continue
		}
		tokens = append(tokens, Token{Text: text, Start: word.Start, End: word.End})
	}
	if len(tokens) > 0 {
		return tokens
	}
	text := strings.TrimSpace(s.Text)
	if text == "" {
		return nil
	}
	return []Token{{Text: text, Start: s.Start, End: s.End}}
}

// Flatten expands every segment into tokens, preserving order.
func Flatten(segments []Segment) []Token {
	var tokens []Token
	for _, segment := range segments {
		tokens = append(tokens, segment.Tokens()...)
	}
	return tokens
}

// Package refsegmenter is a reference implementation of the
// nlp.Segmenter capability: a simple period/exclamation/question-mark
// boundary splitter used by tests and default wiring where no real
// sentence-segmentation model is configured.
package refsegmenter

import (
	"strings"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
)

// Segmenter splits text into sentence spans at '.', '!', or '?'
// followed by whitespace or end of text.
type Segmenter struct{}

// New creates a Segmenter.
func New() *Segmenter { return &Segmenter{} }

// Segment implements nlp.Segmenter.
func (s *Segmenter) Segment(text string) []nlp.Span {
	var spans []nlp.Span
	start := 0
	for i, r := range text {
		if r == '.' || r == '!' || r == '?' {
			end := i + 1
			if end >= len(text) || isBoundary(rune(text[end])) {
				trimmed := strings.TrimSpace(text[start:end])
				if trimmed != "" {
					spans = append(spans, nlp.Span{Start: start + leadingSpace(text[start:end]), End: end})
				}
				start = end
			}
		}
	}
	if strings.TrimSpace(text[start:]) != "" {
		spans = append(spans, nlp.Span{Start: start + leadingSpace(text[start:]), End: len(text)})
	}
	return spans
}

func isBoundary(r rune) bool {
	return r == ' ' || r == '\n' || r == '\t'
}

func leadingSpace(s string) int {
	n := 0
	for _, r := range s {
		if r != ' ' && r != '\n' && r != '\t' {
			break
		}
		n++
	}
	return n
}

var _ nlp.Segmenter = (*Segmenter)(nil)

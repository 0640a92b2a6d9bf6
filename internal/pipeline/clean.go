package pipeline

import (
	"strings"
	"unicode"

	"github.com/dpriskorn/riksdagen-sentences/internal/textscan"
)

// sentenceStripChars is the character set §4.4 removes before stripping
// punctuation: `: ( ) - – /` plus the literal mis-decoded en-dash
// "â€“" that appears in some source documents.
const sentenceStripChars = ":()-–/"

// CleanSentence produces the cleaned form of a sentence per §4.4: tab
// replaced with space, the named characters removed, all punctuation
// stripped, digit-words dropped, and whitespace collapsed. The result
// is used exclusively for language identification and word counting,
// never for storage.
func CleanSentence(text string) string {
	s := strings.ReplaceAll(text, "\t", " ")
	s = strings.ReplaceAll(s, "â€“", "")
	s = textscan.StripChars(s, sentenceStripChars)
	s = stripUnicodePunctuation(s)

	words := strings.Fields(s)
	kept := words[:0]
	for _, w := range words {
		if !textscan.ContainsDigit(w) {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

func stripUnicodePunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// WordCount counts the space-separated words in an already-cleaned
// sentence.
func WordCount(cleaned string) int {
	if cleaned == "" {
		return 0
	}
	return len(strings.Fields(cleaned))
}

// IsSuitable reports whether a cleaned sentence is suitable per §4.4:
// strictly more than five words.
func IsSuitable(cleaned string, minimumWords int) bool {
	return WordCount(cleaned) > minimumWords
}

// RoundScore rounds a confidence to two decimals, as §4.4 requires
// before interning it through the Score table.
func RoundScore(confidence float64) float64 {
	return float64(int(confidence*100+0.5)) / 100
}

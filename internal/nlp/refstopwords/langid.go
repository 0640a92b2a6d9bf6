// Package refstopwords is a reference implementation of the
// nlp.LanguageID capability: a stopword-overlap heuristic used as the
// default/test language identifier. It scores each candidate language
// by the fraction of a cleaned sentence's words that are stopwords of
// that language, and returns the best match.
package refstopwords

import (
	"strings"

	"github.com/orsinium-labs/stopwords"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
)

var candidates = map[string]stopwords.StopWords{
	"en": stopwords.English,
	"sv": stopwords.Swedish,
	"de": stopwords.German,
	"fr": stopwords.French,
}

// Identifier implements nlp.LanguageID via stopword overlap.
type Identifier struct {
	languages map[string]stopwords.StopWords
}

// New builds an Identifier restricted to the given accepted ISO codes.
// Codes with no known stopword list fall back to being skipped, so the
// caller's accepted-language set can exceed what this reference
// implementation actually recognises.
func New(acceptedISOCodes []string) *Identifier {
	langs := make(map[string]stopwords.StopWords, len(acceptedISOCodes))
	for _, code := range acceptedISOCodes {
		if sw, ok := candidates[code]; ok {
			langs[code] = sw
		}
	}
	return &Identifier{languages: langs}
}

// Identify implements nlp.LanguageID.
func (id *Identifier) Identify(cleanedText string) (string, float64) {
	words := strings.Fields(strings.ToLower(cleanedText))
	if len(words) == 0 {
		return "", 0
	}

	bestCode := ""
	bestScore := 0.0
	for code, sw := range id.languages {
		hits := 0
		for _, w := range words {
			if sw.Contains(w) {
				hits++
			}
		}
		score := float64(hits) / float64(len(words))
		if score > bestScore {
			bestScore = score
			bestCode = code
		}
	}
	return bestCode, round2(bestScore)
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}

var _ nlp.LanguageID = (*Identifier)(nil)

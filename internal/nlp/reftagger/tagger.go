// Package reftagger is a reference implementation of the nlp.Tagger
// capability: a small dictionary-plus-heuristic part-of-speech tagger
// used by tests and by default wiring where no real NLP model is
// configured. It tags with the tagset §4.3's acceptance predicate
// expects (POS tags in the unaccepted set are "SPACE", "PUNCT", "SYM",
// "X"; everything else is an accepted open- or closed-class tag).
package reftagger

import (
	"strings"
	"unicode"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
)

// POS tags produced by this tagger.
const (
	Determiner      = "DET"
	Preposition     = "ADP"
	Auxiliary       = "AUX"
	Modal           = "AUX"
	Conjunction     = "CONJ"
	Pronoun         = "PRON"
	RelativePronoun = "PRON"
	Adjective       = "ADJ"
	Adverb          = "ADV"
	Verb            = "VERB"
	Noun            = "NOUN"
	ProperNoun      = "PROPN"
	Punctuation     = "PUNCT"
	Space           = "SPACE"
	Other           = "X"
)

// Tagger performs part-of-speech tagging with a two-pass approach: a
// baseline dictionary-and-suffix lookup, then contextual reinforcement
// rules that correct common ambiguities.
type Tagger struct {
	lexicon map[string]string
}

// New creates a Tagger with its default lexicon loaded.
func New() *Tagger {
	t := &Tagger{lexicon: make(map[string]string)}
	t.loadDefaultLexicon()
	return t
}

// Tag implements nlp.Tagger. It splits sentenceText on whitespace only
// and tags each resulting word; punctuation attached to a word stays
// part of that word's token.
func (t *Tagger) Tag(sentenceText string) []nlp.Token {
	words := splitWords(sentenceText)
	tags := make([]string, len(words))

	for i, word := range words {
		tags[i] = t.lookupBaseline(word)
	}

	for i := range tags {
		currentWord := words[i]
		currentTag := tags[i]

		prevTag := Other
		if i > 0 {
			prevTag = tags[i-1]
		}

		if (prevTag == Determiner || isModifier(prevTag)) && isVerbal(currentTag) {
			tags[i] = Noun
			continue
		}
		if prevTag == Modal && isNominal(currentTag) {
			tags[i] = Verb
			continue
		}
		if i > 0 && isTo(words[i-1]) && isNominal(currentTag) {
			tags[i] = Verb
			continue
		}
		if i > 0 && isOf(words[i-1]) && isVerbal(currentTag) {
			tags[i] = Noun
			continue
		}
		if len(currentWord) == 1 && unicode.IsPunct(rune(currentWord[0])) {
			tags[i] = Punctuation
		}
	}

	out := make([]nlp.Token, len(words))
	for i, word := range words {
		out[i] = nlp.Token{Text: word, POS: tags[i]}
	}
	return out
}

func splitWords(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r)
	})
}

func (t *Tagger) lookupBaseline(word string) string {
	lower := fastLower(word)
	if pos, ok := t.lexicon[lower]; ok {
		return pos
	}
	return t.inferPOS(word)
}

func (t *Tagger) inferPOS(word string) string {
	lower := fastLower(word)

	if len(word) == 1 {
		ch := rune(word[0])
		if unicode.IsPunct(ch) {
			return Punctuation
		}
		if unicode.IsSpace(ch) {
			return Space
		}
	}

	if len(word) > 0 && unicode.IsUpper(rune(word[0])) {
		return ProperNoun
	}

	switch {
	case strings.HasSuffix(lower, "ly"):
		return Adverb
	case strings.HasSuffix(lower, "ing"), strings.HasSuffix(lower, "ed"), strings.HasSuffix(lower, "en"):
		return Verb
	case strings.HasSuffix(lower, "ness"), strings.HasSuffix(lower, "tion"),
		strings.HasSuffix(lower, "ment"), strings.HasSuffix(lower, "ity"),
		strings.HasSuffix(lower, "er"), strings.HasSuffix(lower, "or"):
		return Noun
	case strings.HasSuffix(lower, "ful"), strings.HasSuffix(lower, "less"),
		strings.HasSuffix(lower, "ous"), strings.HasSuffix(lower, "ive"),
		strings.HasSuffix(lower, "able"), strings.HasSuffix(lower, "ible"):
		return Adjective
	}
	return Noun
}

func isModifier(pos string) bool { return pos == Adjective || pos == Adverb || pos == Determiner }
func isVerbal(pos string) bool   { return pos == Verb }
func isNominal(pos string) bool  { return pos == Noun || pos == ProperNoun }

func fastLower(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if 'A' <= c && c <= 'Z' {
			return strings.ToLower(s)
		}
	}
	return s
}

func isTo(s string) bool {
	return len(s) == 2 && (s[0] == 't' || s[0] == 'T') && (s[1] == 'o' || s[1] == 'O')
}

func isOf(s string) bool {
	return len(s) == 2 && (s[0] == 'o' || s[0] == 'O') && (s[1] == 'f' || s[1] == 'F')
}

func (t *Tagger) loadDefaultLexicon() {
	for _, w := range []string{"the", "a", "an", "this", "that", "these", "those", "my", "your",
		"his", "her", "its", "our", "their", "some", "any", "no", "every", "each", "all", "both",
		"few", "many", "much", "most", "other"} {
		t.lexicon[w] = Determiner
	}
	for _, w := range []string{"in", "on", "at", "to", "for", "with", "by", "from", "of", "about",
		"into", "through", "during", "before", "after", "above", "below", "between", "under", "over"} {
		t.lexicon[w] = Preposition
	}
	for _, w := range []string{"is", "are", "was", "were", "be", "been", "being", "am",
		"have", "has", "had", "having", "do", "does", "did", "doing"} {
		t.lexicon[w] = Auxiliary
	}
	for _, w := range []string{"can", "could", "will", "would", "shall", "should", "may", "might", "must"} {
		t.lexicon[w] = Modal
	}
	for _, w := range []string{"and", "or", "but", "nor", "yet", "so", "because", "although",
		"while", "if", "unless", "until", "since", "when", "where", "whether"} {
		t.lexicon[w] = Conjunction
	}
	for _, w := range []string{"i", "you", "he", "she", "it", "we", "they", "me", "him", "us", "them"} {
		t.lexicon[w] = Pronoun
	}
	for _, w := range []string{"who", "whom", "whose", "which"} {
		t.lexicon[w] = RelativePronoun
	}
	for _, w := range []string{"old", "new", "good", "bad", "great", "small", "large", "big", "little",
		"young", "long", "short", "high", "low", "early", "late", "first", "last"} {
		t.lexicon[w] = Adjective
	}
	for _, w := range []string{"very", "quite", "rather", "really", "too", "just", "only",
		"now", "then", "here", "there", "always", "never", "often", "sometimes"} {
		t.lexicon[w] = Adverb
	}
	for _, w := range []string{"go", "went", "gone", "going", "come", "came", "coming",
		"say", "said", "saying", "see", "saw", "seen", "seeing", "know", "knew", "known",
		"take", "took", "taken", "taking", "get", "got", "getting", "make", "made", "making"} {
		t.lexicon[w] = Verb
	}
	for _, w := range []string{"man", "woman", "child", "city", "country", "document", "report",
		"committee", "proposal", "government", "parliament", "law", "motion"} {
		t.lexicon[w] = Noun
	}
}

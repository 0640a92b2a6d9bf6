package textscan

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/coregx/ahocorasick"
)

// isJoiner returns true for punctuation that commonly appears inside
// names (apostrophes, hyphens, periods), preserved during
// canonicalization so multiword entities stay coherent.
func isJoiner(r rune) bool {
	switch r {
	case '\'', '’', '‘',
		'-', '–', '—',
		'.', '_', '/', '&':
		return true
	default:
		return false
	}
}

// CanonicalizeForMatch lower-cases text, preserves letters/digits/
// joiners, and collapses every other run of characters to a single
// space. It is used for both pattern compilation and text scanning so
// the two stay comparable.
func CanonicalizeForMatch(s string) string {
	var out strings.Builder
	out.Grow(len(s))
	lastWasSpace := true

	for _, ch := range s {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			out.WriteRune(c)
			lastWasSpace = false
		} else if !lastWasSpace {
			out.WriteRune(' ')
			lastWasSpace = true
		}
	}
	result := out.String()
	if len(result) > 0 && result[len(result)-1] == ' ' {
		result = result[:len(result)-1]
	}
	return result
}

// Entry is one named entry registered into a Dictionary: a surface
// form and an opaque type tag carried through to Match.
type Entry struct {
	Surface string
	Type    string
}

// Match is one dictionary hit found by Dictionary.Scan, with offsets
// into the original (non-canonicalized) text.
type Match struct {
	Start int
	End   int
	Text  string
	Type  string
}

// Dictionary is a compiled Aho-Corasick automaton over a fixed set of
// entries, used as a full-text scanner via Scan.
type Dictionary struct {
	ac            *ahocorasick.Automaton
	patterns      []string
	patternToType []string
}

// Compile builds a Dictionary from entries. Patterns are canonicalized
// before compilation so Scan's canonicalized haystack lines up.
func Compile(entries []Entry) (*Dictionary, error) {
	d := &Dictionary{
		patterns:      make([]string, 0, len(entries)),
		patternToType: make([]string, 0, len(entries)),
	}
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := CanonicalizeForMatch(e.Surface)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		d.patterns = append(d.patterns, key)
		d.patternToType = append(d.patternToType, e.Type)
	}

	automaton, err := ahocorasick.NewBuilder().
		AddStrings(d.patterns).
		SetMatchKind(ahocorasick.LeftmostLongest).
		SetPrefilter(true).
		Build()
	if err != nil {
		return nil, err
	}
	d.ac = automaton
	return d, nil
}

// Scan finds every dictionary entry mentioned in text, with offsets
// mapped back onto the original (non-canonicalized) text.
func (d *Dictionary) Scan(text string) []Match {
	if d.ac == nil {
		return nil
	}
	canonical := CanonicalizeForMatch(text)
	offsets := buildOffsetMap(text)

	hits := d.ac.FindAllOverlapping([]byte(canonical))
	out := make([]Match, 0, len(hits))
	for _, h := range hits {
		start := mapOffset(h.Start, offsets, len(text))
		end := mapOffset(h.End, offsets, len(text))
		if start >= len(text) || end > len(text) || start >= end {
			continue
		}
		out = append(out, Match{
			Start: start,
			End:   end,
			Text:  text[start:end],
			Type:  d.patternToType[h.PatternID],
		})
	}
	return out
}

// buildOffsetMap returns, for every byte offset in the canonicalized
// form of original, the corresponding byte offset in original. Since
// canonicalization only lower-cases, substitutes single runes, or
// collapses separator runs to a single space, the canonicalized form
// is never longer than the original, so a forward scan suffices.
func buildOffsetMap(original string) []int {
	mapping := make([]int, 0, len(original))
	lastWasSpace := true
	for i, ch := range original {
		c := unicode.ToLower(ch)
		if c == '’' || c == '‘' {
			c = '\''
		}
		if c == '–' || c == '—' {
			c = '-'
		}
		if unicode.IsLetter(c) || unicode.IsDigit(c) || isJoiner(c) {
			for n := utf8.RuneLen(c); n > 0; n-- {
				mapping = append(mapping, i)
			}
			lastWasSpace = false
		} else if !lastWasSpace {
			mapping = append(mapping, i)
			lastWasSpace = true
		}
	}
	return mapping
}

func mapOffset(canonOffset int, mapping []int, originalLen int) int {
	if canonOffset < len(mapping) {
		return mapping[canonOffset]
	}
	return originalLen
}

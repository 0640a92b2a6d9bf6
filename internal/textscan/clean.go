// Package textscan provides the character-level scanning primitives
// shared by the token and sentence analysers: stripping the character
// sets named in §4.3/§4.4, digit detection, and reject-character
// detection. It also provides a reference Aho-Corasick dictionary
// matcher used by the default NER collaborator.
package textscan

import (
	"strings"
	"unicode"
)

// StripChars removes every rune in cutset from s.
func StripChars(s, cutset string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if strings.ContainsRune(cutset, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ContainsDigit reports whether s contains any ASCII or Unicode digit.
func ContainsDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// ContainsAny reports whether s contains any rune from set.
func ContainsAny(s, set string) bool {
	return strings.ContainsAny(s, set)
}

// tokenRejectChars is the reject set of §4.3's acceptance predicate.
const tokenRejectChars = "¶¤¥~$€|"

// tokenStripChars is the character set §4.3 strips before checking a
// token surface form for emptiness: `: , . ( ) - – / \r`.
const tokenStripChars = ": ,.()-–/\r"

// IsRejectedTokenSurface reports whether a raw token's surface form
// fails §4.3's character-level checks (digits present, or a reject
// character present). It does not check POS or language.
func IsRejectedTokenSurface(surface string) bool {
	return ContainsDigit(surface) || ContainsAny(surface, tokenRejectChars)
}

// CleanedTokenSurface strips the token-level punctuation set of §4.3,
// used to test for emptiness after stripping.
func CleanedTokenSurface(surface string) string {
	return StripChars(surface, tokenStripChars)
}

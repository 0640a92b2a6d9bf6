package pipeline

import (
	"errors"
	"fmt"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
	"github.com/dpriskorn/riksdagen-sentences/internal/textscan"
)

// unacceptedPOS is the set of tags §4.3 never accepts: space,
// punctuation, symbol, unclassified.
var unacceptedPOS = map[string]bool{
	"SPACE": true,
	"PUNCT": true,
	"SYM":   true,
	"X":     true,
}

// TokenAnalyser maps one NLP token to its persisted form: it decides
// acceptance, computes raw/normalised forms, resolves the lexical
// category reference, and inserts/links raw-token and norm-token rows
// (§4.3).
type TokenAnalyser struct {
	store *store.Store
	cache *refcache.Cache
}

// NewTokenAnalyser constructs a TokenAnalyser over the given store and
// reference cache.
func NewTokenAnalyser(s *store.Store, c *refcache.Cache) *TokenAnalyser {
	return &TokenAnalyser{store: s, cache: c}
}

// Accepted reports whether tok is accepted per §4.3, without touching
// the store. languageAccepted is the sentence-level language-acceptance
// result from §4.4, which participates in the token-acceptance
// predicate.
func Accepted(tok nlp.Token, languageAccepted bool) bool {
	if unacceptedPOS[tok.POS] {
		return false
	}
	cleaned := CleanedTokenSurface(tok.Text)
	if cleaned == "" {
		return false
	}
	if textscan.IsRejectedTokenSurface(tok.Text) {
		return false
	}
	return languageAccepted
}

// CleanedTokenSurface is re-exported from textscan for callers in this
// package that only need the stripped surface form.
func CleanedTokenSurface(surface string) string {
	return textscan.CleanedTokenSurface(surface)
}

// Analyze runs §4.3 for one token. If the token is accepted, it ensures
// the RawToken/NormToken rows and their link exist and returns the
// RawToken id with ok=true. If not accepted, it returns ok=false and no
// error. An unknown POS tag is a MissingReference error — but an
// unaccepted POS tag (space/punct/sym/x) is not unknown, it is simply
// rejected, so only a POS tag absent from the lexical-category
// reference table triggers MissingReference.
func (a *TokenAnalyser) Analyze(tok nlp.Token, languageAccepted bool, languageID, scoreID int64) (rawTokenID int64, ok bool, err error) {
	if !Accepted(tok, languageAccepted) {
		return 0, false, nil
	}

	categoryID, known := a.cache.LexicalCategoryByPOSTag(tok.POS)
	if !known {
		id, err := a.store.LexicalCategoryIDByPOSTag(tok.POS)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return 0, false, MissingReference(fmt.Sprintf("token analyser: pos tag %q", tok.POS), err)
			}
			return 0, false, TransientStore("token analyser: lexical category lookup", err)
		}
		categoryID = id
		a.cache.PutLexicalCategory(tok.POS, 0, id)
	}

	rawID, err := a.store.UpsertRawToken(tok.Text, categoryID, languageID, scoreID)
	if err != nil {
		return 0, false, TransientStore("token analyser: upsert raw token", err)
	}

	normID, err := a.store.UpsertNormToken(tok.Text)
	if err != nil {
		return 0, false, TransientStore("token analyser: upsert norm token", err)
	}

	if err := a.store.LinkRawTokenNormToken(rawID, normID); err != nil {
		return 0, false, TransientStore("token analyser: link raw/norm token", err)
	}

	return rawID, true, nil
}

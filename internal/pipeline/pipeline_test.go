package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
	"github.com/dpriskorn/riksdagen-sentences/internal/nlp/refsegmenter"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

// stubTagger tags every word NOUN except a configurable stopset tagged
// PUNCT, so tests can control token acceptance precisely.
type stubTagger struct {
	punct map[string]bool
}

func (s stubTagger) Tag(text string) []nlp.Token {
	var toks []nlp.Token
	word := ""
	flush := func() {
		if word == "" {
			return
		}
		pos := "NOUN"
		if s.punct[word] {
			pos = "PUNCT"
		}
		toks = append(toks, nlp.Token{Text: word, POS: pos})
		word = ""
	}
	for _, r := range text {
		if r == ' ' {
			flush()
			continue
		}
		word += string(r)
	}
	flush()
	return toks
}

// stubLangID always reports the configured language at the configured
// confidence.
type stubLangID struct {
	code       string
	confidence float64
}

func (s stubLangID) Identify(string) (string, float64) { return s.code, s.confidence }

func newTestEnv(t *testing.T) (*store.Store, *refcache.Cache, int64, int64) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cache := refcache.New()
	langID, err := s.UpsertLanguage("Swedish", "sv", 9027)
	require.NoError(t, err)
	cache.PutLanguage("sv", langID)

	catID, err := s.UpsertLexicalCategory("NOUN", 1084)
	require.NoError(t, err)
	cache.PutLexicalCategory("NOUN", 1084, catID)

	datasetID, err := s.UpsertDataset("Test", "/tmp/test", 1, nil)
	require.NoError(t, err)
	docID, _, err := s.UpsertDocument(datasetID, "D1")
	require.NoError(t, err)

	return s, cache, langID, docID
}

func TestSentenceAnalyserAcceptsSuitableSentence(t *testing.T) {
	s, cache, _, docID := newTestEnv(t)

	analyser := NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{code: "sv", confidence: 0.9}, AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{"sv": {}},
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})

	text := "Sverige ligger i norra Europa och har en lång kust."
	err := analyser.Analyze(SentenceInput{Text: text, Span: nlp.Span{Start: 0, End: len(text)}, DocumentID: docID})
	require.NoError(t, err)

	rec, err := s.FindSentence(text, docID, func() int64 { id, _ := cache.Language("sv"); return id }())
	require.NoError(t, err)
	require.Equal(t, text, rec.Text)
}

func TestSentenceAnalyserRejectsShortSentence(t *testing.T) {
	s, cache, langID, docID := newTestEnv(t)

	analyser := NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{code: "sv", confidence: 0.9}, AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{"sv": {}},
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})

	text := "Kort mening här."
	err := analyser.Analyze(SentenceInput{Text: text, Span: nlp.Span{Start: 0, End: len(text)}, DocumentID: docID})
	require.NoError(t, err)

	_, err = s.FindSentence(text, docID, langID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSentenceAnalyserRejectsLowConfidence(t *testing.T) {
	s, cache, langID, docID := newTestEnv(t)

	analyser := NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{code: "sv", confidence: 0.1}, AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{"sv": {}},
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})

	text := "Sverige ligger i norra Europa och har en lång kust."
	err := analyser.Analyze(SentenceInput{Text: text, Span: nlp.Span{Start: 0, End: len(text)}, DocumentID: docID})
	require.NoError(t, err)

	_, err = s.FindSentence(text, docID, langID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSentenceAnalyserDoesNotLinkTokensForUnacceptedLanguage(t *testing.T) {
	s, cache, _, docID := newTestEnv(t)

	analyser := NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{code: "sv", confidence: 0.9}, AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{}, // sv not accepted
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})

	text := "Sverige ligger i norra Europa och har en lång kust."
	err := analyser.Analyze(SentenceInput{Text: text, Span: nlp.Span{Start: 0, End: len(text)}, DocumentID: docID})
	require.NoError(t, err)

	// Sentence must not be committed...
	langID, _ := cache.Language("sv")
	_, err = s.FindSentence(text, docID, langID)
	require.ErrorIs(t, err, store.ErrNotFound)

	// ...but the tokens should not have been linked to any raw token
	// since languageAccepted is false for every token in this sentence.
	catID, _ := cache.LexicalCategoryByPOSTag("NOUN")
	_, err = s.RawTokenID("Sverige", catID, langID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSentenceAnalyserIdempotentOnRepeat(t *testing.T) {
	s, cache, _, docID := newTestEnv(t)

	analyser := NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{code: "sv", confidence: 0.9}, AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{"sv": {}},
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})

	text := "Sverige ligger i norra Europa och har en lång kust."
	in := SentenceInput{Text: text, Span: nlp.Span{Start: 0, End: len(text)}, DocumentID: docID}
	require.NoError(t, analyser.Analyze(in))
	require.NoError(t, analyser.Analyze(in))

	langID, _ := cache.Language("sv")
	result, err := s.LookupPhrase("Sverige", langID, 50, 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.Total)
}

func TestConductorCommitsEntitiesWithinSentenceSpan(t *testing.T) {
	s, cache, _, docID := newTestEnv(t)
	_, err := s.UpsertEntityTypeLabel("LOC", "Location")
	require.NoError(t, err)
	id, err := s.EntityTypeLabelID("LOC")
	require.NoError(t, err)
	cache.PutEntityTypeLabel("LOC", id)

	analyser := NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{code: "sv", confidence: 0.9}, AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{"sv": {}},
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})
	ner := stubNER{entities: []nlp.Entity{
		{Label: "Sverige", Type: "LOC", Span: nlp.Span{Start: 0, End: 7}},
	}}
	conductor := NewConductor(refsegmenter.New(), stubTagger{}, ner, stubLangID{code: "sv", confidence: 0.9}, analyser, zap.NewNop())

	text := "Sverige ligger i norra Europa och har en lång kust."
	require.NoError(t, conductor.AnalyzeDocument(docID, text, []Chunk{{Text: text, Offset: 0}}))

	langID, _ := cache.Language("sv")
	rec, err := s.FindSentence(text, docID, langID)
	require.NoError(t, err)
	require.NotZero(t, rec.ID)
}

type stubNER struct{ entities []nlp.Entity }

func (n stubNER) Recognize(string) []nlp.Entity { return n.entities }

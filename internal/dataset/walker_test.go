package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
	"github.com/dpriskorn/riksdagen-sentences/internal/pipeline"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

type stubSegmenter struct{}

func (stubSegmenter) Segment(text string) []nlp.Span {
	return []nlp.Span{{Start: 0, End: len(text)}}
}

type stubTagger struct{}

func (stubTagger) Tag(text string) []nlp.Token { return nil }

type stubNER struct{}

func (stubNER) Recognize(string) []nlp.Entity { return nil }

type stubLangID struct{}

func (stubLangID) Identify(string) (string, float64) { return "sv", 0.9 }

func newTestWalker(t *testing.T) (*Walker, *store.Store) {
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

	analyser := pipeline.NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{}, pipeline.AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{"sv": {}},
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})
	conductor := pipeline.NewConductor(stubSegmenter{}, stubTagger{}, stubNER{}, stubLangID{}, analyser, zap.NewNop())
	processor := pipeline.NewDocumentProcessor(s, conductor, 100000, zap.NewNop())

	return New(processor, zap.NewNop()), s
}

func writeJSON(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestWalkProcessesValidDocuments(t *testing.T) {
	w, s := newTestWalker(t)
	dir := t.TempDir()
	writeJSON(t, dir, "a.json", `{"dokumentstatus":{"dokument":{"dok_id":"A1","text":"Sverige ligger i norra Europa och har en lång kust."}}}`)
	writeJSON(t, dir, "b.json", `{"dokumentstatus":{"dokument":{"dok_id":"B1","text":"Norge ligger ock i norra Europa med en lång kust."}}}`)
	writeJSON(t, dir, "ignored.txt", `not json at all`)

	datasetID, err := s.UpsertDataset("Test", dir, 1, nil)
	require.NoError(t, err)

	stats, err := w.Walk(context.Background(), datasetID, dir, 0)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Processed)
	require.Equal(t, 0, stats.Skipped)
}

func TestWalkSkipsMalformedAndEmptyRecords(t *testing.T) {
	w, s := newTestWalker(t)
	dir := t.TempDir()
	writeJSON(t, dir, "malformed.json", `{not valid json`)
	writeJSON(t, dir, "empty.json", `{"dokumentstatus":{"dokument":{"dok_id":"E1"}}}`)
	writeJSON(t, dir, "missing_id.json", `{"dokumentstatus":{"dokument":{"text":"has text but no id"}}}`)

	datasetID, err := s.UpsertDataset("Test2", dir, 2, nil)
	require.NoError(t, err)

	stats, err := w.Walk(context.Background(), datasetID, dir, 0)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Processed)
	require.Equal(t, 3, stats.Skipped)
}

func TestWalkHonoursMaxDocuments(t *testing.T) {
	w, s := newTestWalker(t)
	dir := t.TempDir()
	for i, id := range []string{"A1", "A2", "A3"} {
		writeJSON(t, dir, id+".json", `{"dokumentstatus":{"dokument":{"dok_id":"`+id+`","text":"Sverige ligger i norra Europa och har en lång kust nummer `+string(rune('0'+i))+`."}}}`)
	}

	datasetID, err := s.UpsertDataset("Test3", dir, 3, nil)
	require.NoError(t, err)

	stats, err := w.Walk(context.Background(), datasetID, dir, 2)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Processed)
}

func TestWalkStopsOnCancelledContext(t *testing.T) {
	w, s := newTestWalker(t)
	dir := t.TempDir()
	writeJSON(t, dir, "a.json", `{"dokumentstatus":{"dokument":{"dok_id":"A1","text":"Sverige ligger i norra Europa och har en lång kust."}}}`)

	datasetID, err := s.UpsertDataset("Test4", dir, 4, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := w.Walk(ctx, datasetID, dir, 0)
	require.NoError(t, err)
	require.Equal(t, 0, stats.Processed)
}

func TestStripBOM(t *testing.T) {
	withBOM := append([]byte{0xEF, 0xBB, 0xBF}, []byte(`{}`)...)
	require.Equal(t, []byte(`{}`), stripBOM(withBOM))
	require.Equal(t, []byte(`{}`), stripBOM([]byte(`{}`)))
}

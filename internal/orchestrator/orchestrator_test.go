package orchestrator

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/dataset"
	"github.com/dpriskorn/riksdagen-sentences/internal/nlp"
	"github.com/dpriskorn/riksdagen-sentences/internal/pipeline"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/refdata"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

type stubSegmenter struct{}

func (stubSegmenter) Segment(text string) []nlp.Span { return []nlp.Span{{Start: 0, End: len(text)}} }

type stubTagger struct{}

func (stubTagger) Tag(string) []nlp.Token { return nil }

type stubNER struct{}

func (stubNER) Recognize(string) []nlp.Entity { return nil }

type stubLangID struct{}

func (stubLangID) Identify(string) (string, float64) { return "sv", 0.9 }

func newTestOrchestrator(t *testing.T) (*Orchestrator, *store.Store) {
	t.Helper()
	s, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	cache := refcache.New()
	langID, err := s.UpsertLanguage("Swedish", "sv", 9027)
	require.NoError(t, err)
	cache.PutLanguage("sv", langID)

	analyser := pipeline.NewSentenceAnalyser(s, cache, stubTagger{}, stubLangID{}, pipeline.AcceptanceConfig{
		AcceptedLanguages:  map[string]struct{}{"sv": {}},
		ScoreThreshold:     0.4,
		SuitabilityMinimum: 5,
	})
	conductor := pipeline.NewConductor(stubSegmenter{}, stubTagger{}, stubNER{}, stubLangID{}, analyser, zap.NewNop())
	processor := pipeline.NewDocumentProcessor(s, conductor, 100000, zap.NewNop())
	walker := dataset.New(processor, zap.NewNop())

	return New(walker, zap.NewNop(), Limits{}), s
}

func writeDoc(t *testing.T, dir, id string) {
	t.Helper()
	content := `{"dokumentstatus":{"dokument":{"dok_id":"` + id + `","text":"Sverige ligger i norra Europa och har en lång kust."}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".json"), []byte(content), 0o644))
}

func TestRunProcessesDatasetsInOrder(t *testing.T) {
	orch, s := newTestOrchestrator(t)
	dirA, dirB := t.TempDir(), t.TempDir()
	writeDoc(t, dirA, "A1")
	writeDoc(t, dirB, "B1")
	writeDoc(t, dirB, "B2")

	idA, err := s.UpsertDataset("A", dirA, 1, nil)
	require.NoError(t, err)
	idB, err := s.UpsertDataset("B", dirB, 2, nil)
	require.NoError(t, err)

	result := orch.Run(context.Background(), []refdata.Dataset{
		{ID: idA, Title: "A", Workdirectory: dirA},
		{ID: idB, Title: "B", Workdirectory: dirB},
	})

	require.Equal(t, 2, result.DatasetsProcessed)
	require.Equal(t, 3, result.DocumentsWritten)
	require.Equal(t, 0, result.DocumentsSkipped)

	// Document rows get ascending ids in the order they are first
	// processed, so dataset A's document precedes dataset B's.
	docA1, _, err := s.UpsertDocument(idA, "A1")
	require.NoError(t, err)
	docB1, _, err := s.UpsertDocument(idB, "B1")
	require.NoError(t, err)
	require.Less(t, docA1, docB1)
}

func TestRunHonoursMaxDatasets(t *testing.T) {
	orch, s := newTestOrchestrator(t)
	orch.limits = Limits{MaxDatasets: 1}
	dirA, dirB := t.TempDir(), t.TempDir()
	writeDoc(t, dirA, "A1")
	writeDoc(t, dirB, "B1")

	idA, err := s.UpsertDataset("A", dirA, 1, nil)
	require.NoError(t, err)
	idB, err := s.UpsertDataset("B", dirB, 2, nil)
	require.NoError(t, err)

	result := orch.Run(context.Background(), []refdata.Dataset{
		{ID: idA, Title: "A", Workdirectory: dirA},
		{ID: idB, Title: "B", Workdirectory: dirB},
	})

	require.Equal(t, 1, result.DatasetsProcessed)
	require.Equal(t, 1, result.DocumentsWritten)
}

func TestRunStopsOnCancelledContextBetweenDatasets(t *testing.T) {
	orch, s := newTestOrchestrator(t)
	dirA := t.TempDir()
	writeDoc(t, dirA, "A1")

	idA, err := s.UpsertDataset("A", dirA, 1, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := orch.Run(ctx, []refdata.Dataset{{ID: idA, Title: "A", Workdirectory: dirA}})
	require.Equal(t, 0, result.DatasetsProcessed)
}

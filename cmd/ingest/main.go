// Command ingest runs a full ingest pass: loads reference data, then
// walks every configured dataset, writing sentences, tokens, and
// entities into the store (§4.7).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/config"
	"github.com/dpriskorn/riksdagen-sentences/internal/dataset"
	"github.com/dpriskorn/riksdagen-sentences/internal/nlp/refdictner"
	"github.com/dpriskorn/riksdagen-sentences/internal/nlp/refsegmenter"
	"github.com/dpriskorn/riksdagen-sentences/internal/nlp/refstopwords"
	"github.com/dpriskorn/riksdagen-sentences/internal/nlp/reftagger"
	"github.com/dpriskorn/riksdagen-sentences/internal/orchestrator"
	"github.com/dpriskorn/riksdagen-sentences/internal/pipeline"
	"github.com/dpriskorn/riksdagen-sentences/internal/refcache"
	"github.com/dpriskorn/riksdagen-sentences/internal/refdata"
	"github.com/dpriskorn/riksdagen-sentences/internal/store"
)

var (
	maxDocuments int
	maxDatasets  int
)

var rootCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest parliamentary documents into the sentence store",
	RunE:  runIngest,
}

func init() {
	rootCmd.Flags().IntVar(&maxDocuments, "max-documents", 0, "maximum documents to process per dataset (0 = unlimited)")
	rootCmd.Flags().IntVar(&maxDatasets, "max-datasets", 0, "maximum datasets to process (0 = unlimited)")
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	s, err := store.Open(cfg.SQLiteDSN)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	cache := refcache.New()
	loader := refdata.New(s, cache)
	datasets, err := loader.Load(refdata.Paths{
		Languages:         cfg.LanguagesConfigPath,
		LexicalCategories: cfg.LexicalCategoriesConfigPath,
		EntityTypeLabels:  cfg.EntityTypeLabelsConfigPath,
		Datasets:          cfg.DatasetsConfigPath,
	})
	if err != nil {
		return fmt.Errorf("load reference data: %w", err)
	}

	segmenter := refsegmenter.New()
	tagger := reftagger.New()
	langID := refstopwords.New(cfg.AcceptedLanguages)
	// The gazetteer is empty by default; a deployment wires a populated one
	// (or swaps refdictner.Recognizer for a real NER collaborator entirely).
	ner, err := refdictner.New(map[string]string{})
	if err != nil {
		return fmt.Errorf("build ner: %w", err)
	}

	acceptedLanguages := make(map[string]struct{}, len(cfg.AcceptedLanguages))
	for _, iso := range cfg.AcceptedLanguages {
		acceptedLanguages[iso] = struct{}{}
	}

	sentenceAnalyser := pipeline.NewSentenceAnalyser(s, cache, tagger, langID, pipeline.AcceptanceConfig{
		AcceptedLanguages:  acceptedLanguages,
		ScoreThreshold:     cfg.ScoreThreshold,
		SuitabilityMinimum: cfg.SuitabilityMinimum,
	})
	conductor := pipeline.NewConductor(segmenter, tagger, ner, langID, sentenceAnalyser, logger)
	processor := pipeline.NewDocumentProcessor(s, conductor, cfg.MaxChunkChars, logger)
	walker := dataset.New(processor, logger)

	limits := orchestrator.Limits{MaxDocumentsPerDataset: maxDocuments, MaxDatasets: maxDatasets}
	if cfg.MaxDocumentsPerDataset > 0 && limits.MaxDocumentsPerDataset == 0 {
		limits.MaxDocumentsPerDataset = cfg.MaxDocumentsPerDataset
	}
	if cfg.MaxDatasets > 0 && limits.MaxDatasets == 0 {
		limits.MaxDatasets = cfg.MaxDatasets
	}

	orch := orchestrator.New(walker, logger, limits)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result := orch.Run(ctx, datasets)
	logger.Info("ingest run complete",
		zap.Int("datasets_processed", result.DatasetsProcessed),
		zap.Int("documents_written", result.DocumentsWritten),
		zap.Int("documents_skipped", result.DocumentsSkipped),
	)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	var zapLevel zap.AtomicLevel
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		cfg.Level = zapLevel
	}
	return cfg.Build()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

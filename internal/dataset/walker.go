// Package dataset walks a dataset's working directory for JSON
// document records, validating and handing each off to the document
// processor (§4.6).
package dataset

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/pipeline"
)

// dokumentstatus mirrors the one JSON path the walker requires:
// dokumentstatus.dokument.{dok_id,text,html}. Everything else in the
// source record is ignored.
type dokumentstatus struct {
	Dokumentstatus struct {
		Dokument struct {
			DokID string `json:"dok_id"`
			Text  string `json:"text"`
			HTML  string `json:"html"`
		} `json:"dokument"`
	} `json:"dokumentstatus"`
}

// Walker enumerates a dataset's working directory and hands each valid
// document to a DocumentProcessor, honouring an optional per-dataset
// document cap.
type Walker struct {
	processor *pipeline.DocumentProcessor
	log       *zap.Logger
}

// New constructs a Walker.
func New(processor *pipeline.DocumentProcessor, log *zap.Logger) *Walker {
	return &Walker{processor: processor, log: log}
}

// Stats summarises one dataset walk.
type Stats struct {
	Processed int
	Skipped   int
}

// Walk enumerates every ".json" file beneath workdirectory (recursively)
// and processes each one in turn, stopping early once maxDocuments
// processed documents have been reached (0 means unlimited) or ctx is
// cancelled (§5's between-documents cancellation point). Malformed
// files increment Skipped and are logged, never aborting the walk
// (§4.6).
func (w *Walker) Walk(ctx context.Context, datasetID int64, workdirectory string, maxDocuments int) (Stats, error) {
	var stats Stats

	err := filepath.WalkDir(workdirectory, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		if maxDocuments > 0 && stats.Processed >= maxDocuments {
			return filepath.SkipAll
		}
		if ctx.Err() != nil {
			return filepath.SkipAll
		}

		rec, ok := w.parse(path)
		if !ok {
			stats.Skipped++
			return nil
		}

		if err := w.processor.Process(datasetID, rec); err != nil {
			if errors.Is(err, pipeline.ErrSkipCondition) {
				stats.Skipped++
				w.log.Info("skipped document", zap.String("path", path), zap.Error(err))
				return nil
			}
			w.log.Error("document processing failed", zap.String("path", path), zap.Error(err))
			return nil
		}
		stats.Processed++
		return nil
	})

	return stats, err
}

// parse reads and validates one JSON file. It returns ok=false for
// anything that does not satisfy §4.6's required shape: valid JSON,
// present dokumentstatus.dokument, a non-empty dok_id, and at least one
// of text/html.
func (w *Walker) parse(path string) (pipeline.DocumentRecord, bool) {
	raw, err := os.ReadFile(path)
	if err != nil {
		w.log.Warn("could not read document file", zap.String("path", path), zap.Error(err))
		return pipeline.DocumentRecord{}, false
	}
	raw = stripBOM(raw)

	var doc dokumentstatus
	if err := json.Unmarshal(raw, &doc); err != nil {
		w.log.Warn("malformed document json", zap.String("path", path), zap.Error(err))
		return pipeline.DocumentRecord{}, false
	}

	dokument := doc.Dokumentstatus.Dokument
	if dokument.DokID == "" || (dokument.Text == "" && dokument.HTML == "") {
		return pipeline.DocumentRecord{}, false
	}

	return pipeline.DocumentRecord{
		ExternalID: dokument.DokID,
		Text:       dokument.Text,
		HTML:       dokument.HTML,
	}, true
}

func stripBOM(b []byte) []byte {
	if len(b) >= 3 && b[0] == 0xEF && b[1] == 0xBB && b[2] == 0xBF {
		return b[3:]
	}
	return b
}

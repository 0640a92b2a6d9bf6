// Package orchestrator drives a full ingest run: it walks every dataset
// the reference loader resolved, in order, handing each document to the
// pipeline (§4.7, §5). Opening the store and running the reference
// loader happen in cmd/ingest before Run is called.
package orchestrator

import (
	"context"

	"go.uber.org/zap"

	"github.com/dpriskorn/riksdagen-sentences/internal/dataset"
	"github.com/dpriskorn/riksdagen-sentences/internal/refdata"
)

// Limits carries the two caps §4.7 exposes as CLI flags. Zero means
// unlimited.
type Limits struct {
	MaxDocumentsPerDataset int
	MaxDatasets            int
}

// Orchestrator sequences dataset walks. Per §5's ordering guarantees,
// datasets run in config order and, within a dataset, documents run in
// directory-enumeration order — one at a time, never concurrently, so
// that order is reproducible across runs.
type Orchestrator struct {
	walker *dataset.Walker
	log    *zap.Logger
	limits Limits
}

// New constructs an Orchestrator.
func New(walker *dataset.Walker, log *zap.Logger, limits Limits) *Orchestrator {
	return &Orchestrator{walker: walker, log: log, limits: limits}
}

// Result summarises one ingest run.
type Result struct {
	DatasetsProcessed int
	DocumentsWritten  int
	DocumentsSkipped  int
}

// Run walks every dataset the reference loader resolved, stopping
// between documents if ctx is cancelled (§5's cancellation point) and
// honouring the configured dataset/document caps.
func (o *Orchestrator) Run(ctx context.Context, datasets []refdata.Dataset) Result {
	var result Result

	for i, ds := range datasets {
		if o.limits.MaxDatasets > 0 && i >= o.limits.MaxDatasets {
			o.log.Info("max datasets reached, stopping run", zap.Int("max_datasets", o.limits.MaxDatasets))
			break
		}
		if err := ctx.Err(); err != nil {
			o.log.Info("run cancelled before dataset", zap.String("dataset", ds.Title), zap.Error(err))
			break
		}

		o.log.Info("walking dataset", zap.String("dataset", ds.Title), zap.String("workdirectory", ds.Workdirectory))
		stats, err := o.walker.Walk(ctx, ds.ID, ds.Workdirectory, o.limits.MaxDocumentsPerDataset)
		if err != nil {
			o.log.Error("dataset walk aborted", zap.String("dataset", ds.Title), zap.Error(err))
		}

		result.DatasetsProcessed++
		result.DocumentsWritten += stats.Processed
		result.DocumentsSkipped += stats.Skipped
	}

	return result
}

package usecase

import (
	"context"

	"cloud.google.com/go/bigquery"
	"github.com/m-mizutani/bqs"
	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// exportRun inserts one record with every current snapshot of the ledger and its vulnerabilities
// into BigQuery. It does nothing when BigQuery is not configured.
func (x *UseCase) exportRun(ctx context.Context, runID types.RunID, repository string) error {
	bq := x.clients.BigQuery()
	if bq == nil {
		return nil
	}

	run, err := x.buildRun(ctx, runID, repository)
	if err != nil {
		return err
	}

	table, err := prepareRunTable(ctx, bq, run)
	if err != nil {
		return err
	}

	rawRecord := &model.RunRawRecord{
		Run:       *run,
		Timestamp: run.Timestamp.UnixMicro(),
	}

	if err := bq.Insert(ctx, table.Schema, rawRecord, interfaces.WithRetry(table.Extended)); err != nil {
		return goerr.Wrap(err, "failed to insert run data to BigQuery")
	}

	logging.From(ctx).Info("exported ledger to BigQuery", "snapshots", len(run.Snapshots))
	return nil
}

func (x *UseCase) buildRun(ctx context.Context, runID types.RunID, repository string) (*model.Run, error) {
	ledger := x.clients.Ledger()

	snapshots, err := ledger.ListCurrentSnapshots(ctx, model.SnapshotFilter{})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list current snapshots")
	}

	run := &model.Run{
		ID:         runID,
		Timestamp:  logging.CtxTime(ctx).UTC(),
		Repository: repository,
	}
	for _, s := range snapshots {
		vulns, err := ledger.ListVulnerabilities(ctx, s.ID)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to list vulnerabilities", goerr.V("snapshot_id", s.ID))
		}
		run.Snapshots = append(run.Snapshots, model.NewSnapshotRecord(s, vulns))
	}

	return run, nil
}

// runTable is the export table after it has been aligned with the schema of a run.
type runTable struct {
	Schema bigquery.Schema
	// Extended is set when columns were added; inserts right after may still see the old schema.
	Extended bool
}

// prepareRunTable creates the export table, partitioned by day of the run timestamp, or adds the
// columns a run introduces to an existing one.
func prepareRunTable(ctx context.Context, bq interfaces.BigQuery, run *model.Run) (*runTable, error) {
	want, err := bqs.Infer(run)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to infer run schema")
	}

	md, err := bq.GetMetadata(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get BigQuery table metadata")
	}

	switch {
	case md == nil:
		if err := bq.CreateTable(ctx, &bigquery.TableMetadata{
			Description: "Dependency ledger, one row per ingest run",
			Schema:      want,
			TimePartitioning: &bigquery.TimePartitioning{
				Type:  bigquery.DayPartitioningType,
				Field: "timestamp",
			},
		}); err != nil {
			return nil, goerr.Wrap(err, "failed to create BigQuery table")
		}
		logging.From(ctx).Info("created BigQuery table", "columns", len(want))
		return &runTable{Schema: want}, nil

	case bqs.Equal(md.Schema, want):
		return &runTable{Schema: want}, nil
	}

	merged, err := bqs.Merge(md.Schema, want)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to merge BigQuery schema")
	}
	if err := bq.UpdateTable(ctx, bigquery.TableMetadataToUpdate{Schema: merged}, md.ETag); err != nil {
		return nil, goerr.Wrap(err, "failed to add columns to BigQuery table", goerr.V("etag", md.ETag))
	}
	logging.From(ctx).Info("extended BigQuery table schema", "before", len(md.Schema), "after", len(merged))

	return &runTable{Schema: merged, Extended: true}, nil
}

package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/domain/versioning"
	"github.com/webhubworks/goodsoup/pkg/utils/errutil"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// Ingest reconciles the SBOM of each ecosystem into the ledger, reports dependencies without a
// manual risk level and exports the ledger when BigQuery is configured.
func (x *UseCase) Ingest(ctx context.Context, input *model.IngestInput) (*model.IngestResult, error) {
	if err := input.Validate(); err != nil {
		return nil, goerr.Wrap(err, "invalid ingest input")
	}
	if x.clients.Ledger() == nil {
		return nil, goerr.Wrap(types.ErrInvalidOption, "ledger repository is not configured")
	}

	runID, ctx := logging.CtxRunID(ctx)
	logger := logging.From(ctx).With("run_id", runID)
	ctx = logging.With(ctx, logger)

	result := &model.IngestResult{RunID: runID}

	for _, eco := range input.Ecosystems {
		ecoResult, err := x.ingestEcosystem(ctx, input.Repository, eco, runID)
		if err != nil {
			return nil, err
		}
		result.Ecosystems = append(result.Ecosystems, *ecoResult)

		logger.Info("ecosystem reconciled",
			"ecosystem", ecoResult.Ecosystem,
			"created", ecoResult.Created,
			"changed", ecoResult.Changed,
			"touched", ecoResult.Touched,
		)
	}

	missing, err := x.AuditRiskLevels(ctx, x.output)
	if err != nil {
		errutil.HandleError(ctx, "failed to audit risk levels", err)
	}
	result.MissingRiskLevels = missing

	if err := x.exportRun(ctx, runID, input.Repository); err != nil {
		return nil, err
	}

	logger.Info("ingestion completed", "missing_risk_levels", result.MissingRiskLevels)
	return result, nil
}

func (x *UseCase) ingestEcosystem(ctx context.Context, repository string, input model.EcosystemInput, runID types.RunID) (*model.EcosystemResult, error) {
	eco := input.Ecosystem
	logger := logging.From(ctx).With("ecosystem", eco)
	ctx = logging.With(ctx, logger)

	scheme, err := versioning.For(eco)
	if err != nil {
		return nil, err
	}

	sbom, err := LoadSBOMFromFile(ctx, input.SBOMPath)
	if err != nil {
		return nil, err
	}
	manifest, err := LoadManifestFromFile(ctx, eco, input.ManifestPath)
	if err != nil {
		return nil, err
	}

	idx := x.fetchAudit(ctx, eco)

	result := &model.EcosystemResult{Ecosystem: eco}
	for _, dc := range filterDirect(sbom.Components, manifest) {
		dep := correlate(ctx, repository, eco, scheme, dc, idx)

		outcome, err := x.reconcile(ctx, dep, runID)
		if err != nil {
			return nil, err
		}
		result.Add(outcome)
	}

	return result, nil
}

// fetchAudit collects the outdated and advisory reports of an ecosystem. Unavailable audit data
// is logged and treated as empty.
func (x *UseCase) fetchAudit(ctx context.Context, eco types.Ecosystem) *auditIndex {
	src := x.clients.AuditSource()
	if src == nil {
		logging.From(ctx).Warn("no audit source configured, skipping outdated and advisory data")
		return newAuditIndex(nil, nil)
	}

	outdated, err := src.FetchOutdated(ctx, eco)
	if err != nil {
		logging.From(ctx).Warn("failed to fetch outdated report, treating as empty", "error", err)
		outdated = nil
	}

	report, err := src.FetchAdvisories(ctx, eco)
	if err != nil {
		logging.From(ctx).Warn("failed to fetch advisory report, treating as empty", "error", err)
		report = nil
	}

	return newAuditIndex(outdated, report)
}

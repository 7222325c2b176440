package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// AuditRiskLevels reports every current snapshot without a manual risk level to w and returns how
// many were found. It never modifies the ledger.
func (x *UseCase) AuditRiskLevels(ctx context.Context, w io.Writer) (int, error) {
	snapshots, err := x.clients.Ledger().ListCurrentSnapshots(ctx, model.SnapshotFilter{MissingRiskLevel: true})
	if err != nil {
		return 0, goerr.Wrap(err, "failed to list snapshots without risk level")
	}

	logger := logging.From(ctx)
	for _, s := range snapshots {
		logger.Warn("dependency has no manual risk level",
			"ecosystem", s.Ecosystem,
			"bom_ref", s.BomRef,
			"id", s.ID,
		)
		if _, err := fmt.Fprintf(w, "- Warning: Item with ecosystem '%s' and bom_ref '%s' has no manual_risk_level.\n", s.Ecosystem, s.BomRef); err != nil {
			return 0, goerr.Wrap(err, "failed to write risk level report")
		}
	}

	if _, err := fmt.Fprintf(w, "Found %d items with no manual_risk_level.\n", len(snapshots)); err != nil {
		return 0, goerr.Wrap(err, "failed to write risk level report")
	}

	return len(snapshots), nil
}

package usecase_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/infra"
	"github.com/webhubworks/goodsoup/pkg/repository/memory"
	"github.com/webhubworks/goodsoup/pkg/usecase"
)

func TestAuditRiskLevels(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("report current snapshots without risk level", func(t *testing.T) {
		ledger := memory.New()
		risk := types.RiskLevel("high")

		x := newState("1.0.0")
		x.BomRef = "X"
		y := newState("1.0.0")
		y.BomRef = "Y"

		for _, s := range []*model.Snapshot{
			{DependencyState: x, CreatedAt: now, LastSeenAt: now},
			{DependencyState: y, CreatedAt: now, LastSeenAt: now, Manual: model.ManualFields{RiskLevel: &risk}},
		} {
			_, err := ledger.CreateSnapshot(ctx, s)
			gt.NoError(t, err)
		}

		uc := usecase.New(infra.New(infra.WithLedger(ledger)))
		var buf bytes.Buffer
		count, err := uc.AuditRiskLevels(ctx, &buf)
		gt.NoError(t, err)
		gt.V(t, count).Equal(1)
		gt.V(t, buf.String()).Equal(
			"- Warning: Item with ecosystem 'composer' and bom_ref 'X' has no manual_risk_level.\n" +
				"Found 1 items with no manual_risk_level.\n",
		)

		// auditing does not modify the ledger
		current := gt.R1(ledger.ListCurrentSnapshots(ctx, model.SnapshotFilter{})).NoError(t)
		gt.V(t, len(current)).Equal(2)
	})

	t.Run("two identities with history", func(t *testing.T) {
		ledger := memory.New()
		high := types.RiskLevel("high")
		low := types.RiskLevel("low")

		state := func(bomRef types.BomRef, version string) model.DependencyState {
			s := newState(version)
			s.BomRef = bomRef
			return s
		}

		// X: older rated, latest not rated. Y: older not rated, latest rated.
		for _, s := range []*model.Snapshot{
			{DependencyState: state("X", "1.0.0"), Manual: model.ManualFields{RiskLevel: &high}},
			{DependencyState: state("Y", "1.0.0")},
			{DependencyState: state("X", "1.1.0")},
			{DependencyState: state("Y", "1.1.0"), Manual: model.ManualFields{RiskLevel: &low}},
		} {
			_, err := ledger.CreateSnapshot(ctx, s)
			gt.NoError(t, err)
		}

		uc := usecase.New(infra.New(infra.WithLedger(ledger)))
		var buf bytes.Buffer
		count, err := uc.AuditRiskLevels(ctx, &buf)
		gt.NoError(t, err)
		gt.V(t, count).Equal(1)
		gt.V(t, buf.String()).Equal(
			"- Warning: Item with ecosystem 'composer' and bom_ref 'X' has no manual_risk_level.\n" +
				"Found 1 items with no manual_risk_level.\n",
		)
	})

	t.Run("only the current snapshot is considered", func(t *testing.T) {
		ledger := memory.New()
		risk := types.RiskLevel("medium")

		old := newState("1.0.0")
		_, err := ledger.CreateSnapshot(ctx, &model.Snapshot{DependencyState: old})
		gt.NoError(t, err)
		_, err = ledger.CreateSnapshot(ctx, &model.Snapshot{
			DependencyState: newState("1.0.1"),
			Manual:          model.ManualFields{RiskLevel: &risk},
		})
		gt.NoError(t, err)

		uc := usecase.New(infra.New(infra.WithLedger(ledger)))
		var buf bytes.Buffer
		count, err := uc.AuditRiskLevels(ctx, &buf)
		gt.NoError(t, err)
		gt.V(t, count).Equal(0)
		gt.V(t, buf.String()).Equal("Found 0 items with no manual_risk_level.\n")
	})
}

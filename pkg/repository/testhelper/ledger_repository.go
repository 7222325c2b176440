package testhelper

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/repository"
)

// TestAll runs all test cases for LedgerRepository
// This is the main entry point for testing any LedgerRepository implementation
func TestAll(t *testing.T, repo interfaces.LedgerRepository) {
	t.Run("SnapshotHistory", func(t *testing.T) {
		TestSnapshotHistory(t, repo)
	})
	t.Run("SnapshotFieldsRoundTrip", func(t *testing.T) {
		TestSnapshotFieldsRoundTrip(t, repo)
	})
	t.Run("SnapshotUpdates", func(t *testing.T) {
		TestSnapshotUpdates(t, repo)
	})
	t.Run("CurrentSnapshots", func(t *testing.T) {
		TestCurrentSnapshots(t, repo)
	})
	t.Run("VulnerabilityReplace", func(t *testing.T) {
		TestVulnerabilityReplace(t, repo)
	})
	t.Run("DeleteSnapshot", func(t *testing.T) {
		TestDeleteSnapshot(t, repo)
	})
	t.Run("Transaction", func(t *testing.T) {
		TestTransaction(t, repo)
	})
}

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newBomRef(name string) types.BomRef {
	return types.BomRef(fmt.Sprintf("pkg:composer/%s-%s@1.0.0", name, uuid.New().String()[:8]))
}

func newSnapshot(eco types.Ecosystem, bomRef types.BomRef, version string) *model.Snapshot {
	return &model.Snapshot{
		DependencyState: model.DependencyState{
			Repository:    "webhubworks/app",
			Ecosystem:     eco,
			Asset:         "library",
			Name:          string(bomRef),
			Version:       version,
			LatestVersion: version,
			BomRef:        bomRef,
			License:       "MIT",
		},
		IsActivelyMaintained: true,
		CreatedAt:            baseTime,
		LastSeenAt:           baseTime,
		CreatedRunID:         "run-1",
		LastSeenRunID:        "run-1",
	}
}

func ptr[T any](v T) *T {
	return &v
}

// TestSnapshotHistory tests that the latest snapshot of an identity is the one with the highest ID
func TestSnapshotHistory(t *testing.T, repo interfaces.LedgerRepository) {
	ctx := context.Background()
	bomRef := newBomRef("history")

	_, err := repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)
	gt.Error(t, err)
	gt.True(t, errors.Is(err, repository.ErrNotFound))

	id1 := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.0.0"))).NoError(t)
	id2 := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.1.0"))).NoError(t)
	gt.True(t, id2 > id1)

	// Same bom_ref in another ecosystem is a different identity
	id3 := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemNode, bomRef, "9.9.9"))).NoError(t)
	gt.True(t, id3 > id2)

	latest := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)).NoError(t)
	gt.V(t, latest.ID).Equal(id2)
	gt.V(t, latest.Version).Equal("1.1.0")

	history := gt.R1(repo.ListSnapshotHistory(ctx, types.EcosystemComposer, bomRef)).NoError(t)
	gt.V(t, len(history)).Equal(2)
	gt.V(t, history[0].ID).Equal(id1)
	gt.V(t, history[1].ID).Equal(id2)

	nodeLatest := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemNode, bomRef)).NoError(t)
	gt.V(t, nodeLatest.ID).Equal(id3)
}

// TestSnapshotFieldsRoundTrip tests that every stored field is returned as written
func TestSnapshotFieldsRoundTrip(t *testing.T, repo interfaces.LedgerRepository) {
	ctx := context.Background()
	bomRef := newBomRef("roundtrip")

	s := newSnapshot(types.EcosystemComposer, bomRef, "2.0.0")
	s.Asset = "framework"
	s.LatestVersion = "2.1.0"
	s.IsNewerVersionAvailable = true
	s.IsDev = true
	s.IsAbandoned = true
	s.ReplacementReference = ptr("vendor/replacement")
	s.Description = "A package"
	s.Author = "Jane Doe"
	s.License = "MIT, Apache-2.0"
	s.IsActivelyMaintained = false
	s.Manual.EndOfSupport = ptr("2026-12-31")
	s.Manual.RiskLevel = ptr(types.RiskLevel("high"))

	id := gt.R1(repo.CreateSnapshot(ctx, s)).NoError(t)
	got := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)).NoError(t)

	gt.V(t, got.ID).Equal(id)
	gt.True(t, got.DependencyState.Equal(s.DependencyState))
	gt.V(t, *got.ReplacementReference).Equal("vendor/replacement")
	gt.False(t, got.IsActivelyMaintained)
	gt.V(t, *got.Manual.EndOfSupport).Equal("2026-12-31")
	gt.V(t, *got.Manual.RiskLevel).Equal(types.RiskLevel("high"))
	gt.True(t, got.CreatedAt.Equal(baseTime))
	gt.True(t, got.LastSeenAt.Equal(baseTime))
	gt.V(t, got.CreatedRunID).Equal(types.RunID("run-1"))
	gt.V(t, got.LastSeenRunID).Equal(types.RunID("run-1"))

	t.Run("nil pointers stay nil", func(t *testing.T) {
		bomRef := newBomRef("nil-fields")
		gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.0.0"))).NoError(t)

		got := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)).NoError(t)
		gt.True(t, got.ReplacementReference == nil)
		gt.True(t, got.Manual.EndOfSupport == nil)
		gt.True(t, got.Manual.RiskLevel == nil)
	})
}

// TestSnapshotUpdates tests touch and the derived field update
func TestSnapshotUpdates(t *testing.T, repo interfaces.LedgerRepository) {
	ctx := context.Background()
	bomRef := newBomRef("updates")

	id := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.0.0"))).NoError(t)

	seenAt := baseTime.Add(24 * time.Hour)
	gt.NoError(t, repo.TouchSnapshot(ctx, id, seenAt, "run-2"))
	gt.NoError(t, repo.UpdateActivelyMaintained(ctx, id, false))

	got := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)).NoError(t)
	gt.V(t, got.ID).Equal(id)
	gt.True(t, got.LastSeenAt.Equal(seenAt))
	gt.V(t, got.LastSeenRunID).Equal(types.RunID("run-2"))
	gt.True(t, got.CreatedAt.Equal(baseTime))
	gt.V(t, got.CreatedRunID).Equal(types.RunID("run-1"))
	gt.False(t, got.IsActivelyMaintained)

	t.Run("unknown snapshot is not found", func(t *testing.T) {
		missing := types.SnapshotID(1 << 40)
		gt.True(t, errors.Is(repo.TouchSnapshot(ctx, missing, seenAt, "run-2"), repository.ErrNotFound))
		gt.True(t, errors.Is(repo.UpdateActivelyMaintained(ctx, missing, true), repository.ErrNotFound))
	})
}

// TestCurrentSnapshots tests that only the highest ID per identity is listed and the risk level filter
func TestCurrentSnapshots(t *testing.T, repo interfaces.LedgerRepository) {
	ctx := context.Background()

	// X: only row has no risk level
	refX := newBomRef("current-x")
	idX := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, refX, "1.0.0"))).NoError(t)

	// Y: older row has no risk level, current row has one
	refY := newBomRef("current-y")
	gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemNode, refY, "1.0.0"))).NoError(t)
	rated := newSnapshot(types.EcosystemNode, refY, "1.1.0")
	rated.Manual.RiskLevel = ptr(types.RiskLevel("low"))
	idY := gt.R1(repo.CreateSnapshot(ctx, rated)).NoError(t)

	pick := func(snapshots []*model.Snapshot) map[types.BomRef]*model.Snapshot {
		found := make(map[types.BomRef]*model.Snapshot)
		for _, s := range snapshots {
			if s.BomRef == refX || s.BomRef == refY {
				gt.True(t, found[s.BomRef] == nil)
				found[s.BomRef] = s
			}
		}
		return found
	}

	all := pick(gt.R1(repo.ListCurrentSnapshots(ctx, model.SnapshotFilter{})).NoError(t))
	gt.V(t, len(all)).Equal(2)
	gt.V(t, all[refX].ID).Equal(idX)
	gt.V(t, all[refY].ID).Equal(idY)

	missing := pick(gt.R1(repo.ListCurrentSnapshots(ctx, model.SnapshotFilter{MissingRiskLevel: true})).NoError(t))
	gt.V(t, len(missing)).Equal(1)
	gt.V(t, missing[refX].ID).Equal(idX)
}

// TestVulnerabilityReplace tests batch create, list and delete of a snapshot's vulnerabilities
func TestVulnerabilityReplace(t *testing.T, repo interfaces.LedgerRepository) {
	ctx := context.Background()
	bomRef := newBomRef("vulns")
	id := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.0.0"))).NoError(t)

	reportedAt := baseTime.Add(-48 * time.Hour)
	vulns := []*model.Vulnerability{
		{
			Ecosystem:        types.EcosystemComposer,
			PackageName:      "vendor/pkg",
			Title:            "Remote code execution",
			URL:              "https://example.com/advisory/1",
			Severity:         "high",
			AffectedVersions: ">=1.0.0,<1.2.0|>=2.0.0,<2.0.1",
			CVE:              ptr("CVE-2025-0001"),
			AdvisoryID:       ptr("PKSA-abcd"),
			ReportedAt:       &reportedAt,
			CreatedAt:        baseTime,
		},
		{
			Ecosystem:        types.EcosystemComposer,
			PackageName:      "vendor/pkg",
			Title:            "Cross-site scripting",
			Severity:         "medium",
			AffectedVersions: "<1.1.0",
			CWE:              []string{"CWE-79", "CWE-80"},
			CreatedAt:        baseTime,
		},
	}
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, id, vulns))

	got := gt.R1(repo.ListVulnerabilities(ctx, id)).NoError(t)
	gt.V(t, len(got)).Equal(2)

	gt.V(t, got[0].SnapshotID).Equal(id)
	gt.V(t, got[0].Title).Equal("Remote code execution")
	gt.V(t, got[0].URL).Equal("https://example.com/advisory/1")
	gt.V(t, got[0].AffectedVersions).Equal(">=1.0.0,<1.2.0|>=2.0.0,<2.0.1")
	gt.V(t, *got[0].CVE).Equal("CVE-2025-0001")
	gt.V(t, *got[0].AdvisoryID).Equal("PKSA-abcd")
	gt.True(t, got[0].ReportedAt.Equal(reportedAt))
	gt.V(t, len(got[0].CWE)).Equal(0)

	gt.V(t, got[1].Title).Equal("Cross-site scripting")
	gt.True(t, got[1].CVE == nil)
	gt.True(t, got[1].AdvisoryID == nil)
	gt.True(t, got[1].ReportedAt == nil)
	gt.V(t, got[1].CWE).Equal([]string{"CWE-79", "CWE-80"})

	gt.NoError(t, repo.DeleteVulnerabilities(ctx, id))
	gt.V(t, len(gt.R1(repo.ListVulnerabilities(ctx, id)).NoError(t))).Equal(0)

	t.Run("unknown snapshot is not found", func(t *testing.T) {
		missing := types.SnapshotID(1 << 40)
		err := repo.BatchCreateVulnerabilities(ctx, missing, vulns)
		gt.True(t, errors.Is(err, repository.ErrNotFound))
	})
}

// TestDeleteSnapshot tests that deleting a snapshot removes its vulnerabilities and exposes the prior row
func TestDeleteSnapshot(t *testing.T, repo interfaces.LedgerRepository) {
	ctx := context.Background()
	bomRef := newBomRef("delete")

	id1 := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.0.0"))).NoError(t)
	id2 := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.1.0"))).NoError(t)
	gt.NoError(t, repo.BatchCreateVulnerabilities(ctx, id2, []*model.Vulnerability{
		{Ecosystem: types.EcosystemComposer, Title: "to be removed", CreatedAt: baseTime},
	}))

	gt.NoError(t, repo.DeleteSnapshot(ctx, id2))

	latest := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)).NoError(t)
	gt.V(t, latest.ID).Equal(id1)

	_, err := repo.ListVulnerabilities(ctx, id2)
	gt.True(t, errors.Is(err, repository.ErrNotFound))
	gt.True(t, errors.Is(repo.DeleteSnapshot(ctx, id2), repository.ErrNotFound))
}

// TestTransaction tests that a failed transaction leaves no writes behind
func TestTransaction(t *testing.T, repo interfaces.LedgerRepository) {
	ctx := context.Background()

	t.Run("commit", func(t *testing.T) {
		bomRef := newBomRef("tx-commit")
		gt.NoError(t, repo.RunInTx(ctx, func(ctx context.Context, session interfaces.LedgerSession) error {
			id, err := session.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.0.0"))
			if err != nil {
				return err
			}
			return session.BatchCreateVulnerabilities(ctx, id, []*model.Vulnerability{
				{Ecosystem: types.EcosystemComposer, Title: "committed", CreatedAt: baseTime},
			})
		}))

		latest := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)).NoError(t)
		vulns := gt.R1(repo.ListVulnerabilities(ctx, latest.ID)).NoError(t)
		gt.V(t, len(vulns)).Equal(1)
	})

	t.Run("rollback on error", func(t *testing.T) {
		bomRef := newBomRef("tx-rollback")
		prior := gt.R1(repo.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "1.0.0"))).NoError(t)

		errAbort := errors.New("abort")
		err := repo.RunInTx(ctx, func(ctx context.Context, session interfaces.LedgerSession) error {
			if err := session.TouchSnapshot(ctx, prior, baseTime.Add(time.Hour), "run-x"); err != nil {
				return err
			}
			if _, err := session.CreateSnapshot(ctx, newSnapshot(types.EcosystemComposer, bomRef, "2.0.0")); err != nil {
				return err
			}
			return errAbort
		})
		gt.True(t, errors.Is(err, errAbort))

		latest := gt.R1(repo.GetLatestSnapshot(ctx, types.EcosystemComposer, bomRef)).NoError(t)
		gt.V(t, latest.ID).Equal(prior)
		gt.V(t, latest.LastSeenRunID).Equal(types.RunID("run-1"))

		history := gt.R1(repo.ListSnapshotHistory(ctx, types.EcosystemComposer, bomRef)).NoError(t)
		gt.V(t, len(history)).Equal(1)
	})
}

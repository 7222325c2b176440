package interfaces

import (
	"context"
	"time"

	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// LedgerSession is the set of ledger operations available inside and outside a transaction.
type LedgerSession interface {
	// Snapshot operations
	GetLatestSnapshot(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) (*model.Snapshot, error)
	ListSnapshotHistory(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) ([]*model.Snapshot, error)
	ListCurrentSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, error)
	CreateSnapshot(ctx context.Context, snapshot *model.Snapshot) (types.SnapshotID, error)
	TouchSnapshot(ctx context.Context, id types.SnapshotID, seenAt time.Time, runID types.RunID) error
	UpdateActivelyMaintained(ctx context.Context, id types.SnapshotID, maintained bool) error
	DeleteSnapshot(ctx context.Context, id types.SnapshotID) error

	// Vulnerability operations
	ListVulnerabilities(ctx context.Context, id types.SnapshotID) ([]*model.Vulnerability, error)
	DeleteVulnerabilities(ctx context.Context, id types.SnapshotID) error
	BatchCreateVulnerabilities(ctx context.Context, id types.SnapshotID, vulns []*model.Vulnerability) error
}

// LedgerRepository stores dependency snapshots and their vulnerabilities.
type LedgerRepository interface {
	LedgerSession

	// Migrate creates the ledger schema if it does not exist yet.
	Migrate(ctx context.Context) error
	// RunInTx runs fn in one atomic unit. If fn returns an error, none of its writes persist.
	RunInTx(ctx context.Context, fn func(ctx context.Context, session LedgerSession) error) error
	Close() error
}

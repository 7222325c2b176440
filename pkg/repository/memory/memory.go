package memory

import (
	"context"
	"sync"
	"time"

	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// Ledger is an in-memory LedgerRepository. Transactions take a full copy of the state and restore
// it when the transaction function fails.
type Ledger struct {
	mu    sync.Mutex
	state *state
}

var _ interfaces.LedgerRepository = &Ledger{}

// New creates a new in-memory ledger repository
func New() *Ledger {
	return &Ledger{
		state: newState(),
	}
}

func (x *Ledger) Migrate(ctx context.Context) error { return nil }

func (x *Ledger) Close() error { return nil }

func (x *Ledger) RunInTx(ctx context.Context, fn func(ctx context.Context, session interfaces.LedgerSession) error) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	backup := x.state.clone()
	if err := fn(ctx, x.state); err != nil {
		x.state = backup
		return err
	}
	return nil
}

func (x *Ledger) GetLatestSnapshot(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) (*model.Snapshot, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.GetLatestSnapshot(ctx, eco, bomRef)
}

func (x *Ledger) ListSnapshotHistory(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) ([]*model.Snapshot, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.ListSnapshotHistory(ctx, eco, bomRef)
}

func (x *Ledger) ListCurrentSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.ListCurrentSnapshots(ctx, filter)
}

func (x *Ledger) CreateSnapshot(ctx context.Context, snapshot *model.Snapshot) (types.SnapshotID, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.CreateSnapshot(ctx, snapshot)
}

func (x *Ledger) TouchSnapshot(ctx context.Context, id types.SnapshotID, seenAt time.Time, runID types.RunID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.TouchSnapshot(ctx, id, seenAt, runID)
}

func (x *Ledger) UpdateActivelyMaintained(ctx context.Context, id types.SnapshotID, maintained bool) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.UpdateActivelyMaintained(ctx, id, maintained)
}

func (x *Ledger) DeleteSnapshot(ctx context.Context, id types.SnapshotID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.DeleteSnapshot(ctx, id)
}

func (x *Ledger) ListVulnerabilities(ctx context.Context, id types.SnapshotID) ([]*model.Vulnerability, error) {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.ListVulnerabilities(ctx, id)
}

func (x *Ledger) DeleteVulnerabilities(ctx context.Context, id types.SnapshotID) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.DeleteVulnerabilities(ctx, id)
}

func (x *Ledger) BatchCreateVulnerabilities(ctx context.Context, id types.SnapshotID, vulns []*model.Vulnerability) error {
	x.mu.Lock()
	defer x.mu.Unlock()
	return x.state.BatchCreateVulnerabilities(ctx, id, vulns)
}

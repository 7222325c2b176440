package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/repository"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// upsertSnapshot applies the versioned upsert to one candidate state and returns the resulting
// current snapshot.
//
//   - no prior snapshot: a new snapshot is created with empty manual fields
//   - prior snapshot with equal state: the prior snapshot is touched
//   - prior snapshot with any differing field: a new snapshot is created and the prior manual
//     fields are carried over; the prior snapshot is kept as history
func upsertSnapshot(ctx context.Context, session interfaces.LedgerSession, state model.DependencyState, runID types.RunID, now time.Time) (*model.Snapshot, model.Outcome, error) {
	prior, err := session.GetLatestSnapshot(ctx, state.Ecosystem, state.BomRef)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, "", goerr.Wrap(err, "failed to get latest snapshot")
	}

	if prior != nil && prior.DependencyState.Equal(state) {
		if err := session.TouchSnapshot(ctx, prior.ID, now, runID); err != nil {
			return nil, "", goerr.Wrap(err, "failed to touch snapshot", goerr.V("id", prior.ID))
		}
		prior.LastSeenAt = now
		prior.LastSeenRunID = runID
		return prior, model.OutcomeTouched, nil
	}

	snapshot := &model.Snapshot{
		DependencyState:      state,
		IsActivelyMaintained: true,
		CreatedAt:            now,
		LastSeenAt:           now,
		CreatedRunID:         runID,
		LastSeenRunID:        runID,
	}
	outcome := model.OutcomeCreated
	if prior != nil {
		snapshot.Manual = prior.Copy().Manual
		outcome = model.OutcomeChanged

		logging.From(ctx).Debug("dependency changed",
			"ecosystem", state.Ecosystem,
			"bom_ref", state.BomRef,
			"fields", prior.DependencyState.Diff(state),
		)
	}

	id, err := session.CreateSnapshot(ctx, snapshot)
	if err != nil {
		return nil, "", goerr.Wrap(err, "failed to create snapshot")
	}
	snapshot.ID = id

	return snapshot, outcome, nil
}

// reconcile runs the upsert and the vulnerability replace of one dependency in one transaction.
func (x *UseCase) reconcile(ctx context.Context, dep model.Dependency, runID types.RunID) (model.Outcome, error) {
	var outcome model.Outcome
	now := logging.CtxTime(ctx)

	err := x.clients.Ledger().RunInTx(ctx, func(ctx context.Context, session interfaces.LedgerSession) error {
		snapshot, o, err := upsertSnapshot(ctx, session, dep.State, runID, now)
		if err != nil {
			return err
		}
		if _, err := x.replaceVulnerabilities(ctx, session, snapshot, dep.Advisories, now); err != nil {
			return err
		}
		outcome = o
		return nil
	})
	if err != nil {
		return "", goerr.Wrap(err, "failed to reconcile dependency",
			goerr.V("ecosystem", dep.State.Ecosystem),
			goerr.V("bom_ref", dep.State.BomRef),
		)
	}

	return outcome, nil
}

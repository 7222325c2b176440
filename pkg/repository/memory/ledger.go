package memory

import (
	"context"
	"sort"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/repository"
)

type state struct {
	snapshotSeq int64
	vulnSeq     int64
	// snapshots is ordered by ID
	snapshots []*model.Snapshot
	vulns     map[types.SnapshotID][]*model.Vulnerability
}

func newState() *state {
	return &state{
		vulns: make(map[types.SnapshotID][]*model.Vulnerability),
	}
}

func (s *state) clone() *state {
	cpy := &state{
		snapshotSeq: s.snapshotSeq,
		vulnSeq:     s.vulnSeq,
		snapshots:   make([]*model.Snapshot, len(s.snapshots)),
		vulns:       make(map[types.SnapshotID][]*model.Vulnerability, len(s.vulns)),
	}
	for i, snapshot := range s.snapshots {
		cpy.snapshots[i] = snapshot.Copy()
	}
	for id, vulns := range s.vulns {
		cpy.vulns[id] = copyVulns(vulns)
	}
	return cpy
}

func copyVulns(vulns []*model.Vulnerability) []*model.Vulnerability {
	cpy := make([]*model.Vulnerability, len(vulns))
	for i, v := range vulns {
		cpy[i] = v.Copy()
	}
	return cpy
}

func (s *state) find(id types.SnapshotID) (*model.Snapshot, error) {
	idx := sort.Search(len(s.snapshots), func(i int) bool {
		return s.snapshots[i].ID >= id
	})
	if idx < len(s.snapshots) && s.snapshots[idx].ID == id {
		return s.snapshots[idx], nil
	}
	return nil, goerr.Wrap(repository.ErrNotFound, "snapshot not found", goerr.V("id", id))
}

// Snapshot operations

func (s *state) GetLatestSnapshot(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) (*model.Snapshot, error) {
	for i := len(s.snapshots) - 1; i >= 0; i-- {
		if s.snapshots[i].Ecosystem == eco && s.snapshots[i].BomRef == bomRef {
			return s.snapshots[i].Copy(), nil
		}
	}

	return nil, goerr.Wrap(repository.ErrNotFound, "snapshot not found",
		goerr.V("ecosystem", eco),
		goerr.V("bom_ref", bomRef),
	)
}

func (s *state) ListSnapshotHistory(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) ([]*model.Snapshot, error) {
	var history []*model.Snapshot
	for _, snapshot := range s.snapshots {
		if snapshot.Ecosystem == eco && snapshot.BomRef == bomRef {
			history = append(history, snapshot.Copy())
		}
	}
	return history, nil
}

func (s *state) ListCurrentSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, error) {
	type identity struct {
		eco    types.Ecosystem
		bomRef types.BomRef
	}

	current := make(map[identity]*model.Snapshot)
	for _, snapshot := range s.snapshots {
		current[identity{snapshot.Ecosystem, snapshot.BomRef}] = snapshot
	}

	var result []*model.Snapshot
	for _, snapshot := range s.snapshots {
		if current[identity{snapshot.Ecosystem, snapshot.BomRef}] != snapshot {
			continue
		}
		if filter.MissingRiskLevel && snapshot.Manual.RiskLevel != nil {
			continue
		}
		result = append(result, snapshot.Copy())
	}

	return result, nil
}

func (s *state) CreateSnapshot(ctx context.Context, snapshot *model.Snapshot) (types.SnapshotID, error) {
	if snapshot == nil {
		return 0, goerr.Wrap(repository.ErrInvalidInput, "snapshot is nil")
	}

	s.snapshotSeq++
	newSnapshot := snapshot.Copy()
	newSnapshot.ID = types.SnapshotID(s.snapshotSeq)
	s.snapshots = append(s.snapshots, newSnapshot)

	return newSnapshot.ID, nil
}

func (s *state) TouchSnapshot(ctx context.Context, id types.SnapshotID, seenAt time.Time, runID types.RunID) error {
	snapshot, err := s.find(id)
	if err != nil {
		return err
	}

	snapshot.LastSeenAt = seenAt
	snapshot.LastSeenRunID = runID
	return nil
}

func (s *state) UpdateActivelyMaintained(ctx context.Context, id types.SnapshotID, maintained bool) error {
	snapshot, err := s.find(id)
	if err != nil {
		return err
	}

	snapshot.IsActivelyMaintained = maintained
	return nil
}

func (s *state) DeleteSnapshot(ctx context.Context, id types.SnapshotID) error {
	if _, err := s.find(id); err != nil {
		return err
	}

	for i, snapshot := range s.snapshots {
		if snapshot.ID == id {
			s.snapshots = append(s.snapshots[:i], s.snapshots[i+1:]...)
			break
		}
	}
	delete(s.vulns, id)

	return nil
}

// Vulnerability operations

func (s *state) ListVulnerabilities(ctx context.Context, id types.SnapshotID) ([]*model.Vulnerability, error) {
	if _, err := s.find(id); err != nil {
		return nil, err
	}
	return copyVulns(s.vulns[id]), nil
}

func (s *state) DeleteVulnerabilities(ctx context.Context, id types.SnapshotID) error {
	if _, err := s.find(id); err != nil {
		return err
	}
	delete(s.vulns, id)
	return nil
}

func (s *state) BatchCreateVulnerabilities(ctx context.Context, id types.SnapshotID, vulns []*model.Vulnerability) error {
	if _, err := s.find(id); err != nil {
		return err
	}

	for _, v := range vulns {
		if v == nil {
			return goerr.Wrap(repository.ErrInvalidInput, "vulnerability is nil", goerr.V("snapshot_id", id))
		}

		s.vulnSeq++
		newVuln := v.Copy()
		newVuln.ID = s.vulnSeq
		newVuln.SnapshotID = id
		s.vulns[id] = append(s.vulns[id], newVuln)
	}

	return nil
}

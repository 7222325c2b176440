package sql

import (
	"context"
	gosql "database/sql"
	"errors"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/repository"
	"github.com/webhubworks/goodsoup/pkg/utils/safe"
)

type session struct {
	q       querier
	dialect Dialect
}

const snapshotColumns = `id, repository, ecosystem, asset, name, version, latest_version,
	is_newer_version_available, bom_ref, is_dev, is_abandoned, replacement_reference, description,
	author, license, is_actively_maintained, manual_end_of_support, manual_risk_level, created_at,
	last_seen_at, created_run_id, last_seen_run_id`

const vulnerabilityColumns = `id, snapshot_id, ecosystem, package_name, title, url, severity,
	affected_versions, cve, cwe, advisory_id, reported_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (*model.Snapshot, error) {
	var (
		s            model.Snapshot
		replacement  gosql.NullString
		endOfSupport gosql.NullString
		riskLevel    gosql.NullString
		createdAt    int64
		lastSeenAt   int64
	)

	if err := row.Scan(
		&s.ID, &s.Repository, &s.Ecosystem, &s.Asset, &s.Name, &s.Version, &s.LatestVersion,
		&s.IsNewerVersionAvailable, &s.BomRef, &s.IsDev, &s.IsAbandoned, &replacement, &s.Description,
		&s.Author, &s.License, &s.IsActivelyMaintained, &endOfSupport, &riskLevel, &createdAt,
		&lastSeenAt, &s.CreatedRunID, &s.LastSeenRunID,
	); err != nil {
		return nil, err
	}

	s.ReplacementReference = fromNullString(replacement)
	s.Manual.EndOfSupport = fromNullString(endOfSupport)
	if riskLevel.Valid {
		level := types.RiskLevel(riskLevel.String)
		s.Manual.RiskLevel = &level
	}
	s.CreatedAt = time.UnixMicro(createdAt).UTC()
	s.LastSeenAt = time.UnixMicro(lastSeenAt).UTC()

	return &s, nil
}

func (x *session) querySnapshots(ctx context.Context, query string, args ...any) ([]*model.Snapshot, error) {
	rows, err := x.q.QueryContext(ctx, rebind(x.dialect, query), args...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query snapshots")
	}
	defer safe.Close(rows)

	var snapshots []*model.Snapshot
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to scan snapshot")
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate snapshots")
	}

	return snapshots, nil
}

// Snapshot operations

func (x *session) GetLatestSnapshot(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) (*model.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots
		WHERE ecosystem = ? AND bom_ref = ? ORDER BY id DESC LIMIT 1`

	s, err := scanSnapshot(x.q.QueryRowContext(ctx, rebind(x.dialect, query), eco.String(), bomRef.String()))
	if errors.Is(err, gosql.ErrNoRows) {
		return nil, goerr.Wrap(repository.ErrNotFound, "snapshot not found",
			goerr.V("ecosystem", eco),
			goerr.V("bom_ref", bomRef),
		)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get latest snapshot",
			goerr.V("ecosystem", eco),
			goerr.V("bom_ref", bomRef),
		)
	}

	return s, nil
}

func (x *session) ListSnapshotHistory(ctx context.Context, eco types.Ecosystem, bomRef types.BomRef) ([]*model.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots
		WHERE ecosystem = ? AND bom_ref = ? ORDER BY id ASC`
	return x.querySnapshots(ctx, query, eco.String(), bomRef.String())
}

func (x *session) ListCurrentSnapshots(ctx context.Context, filter model.SnapshotFilter) ([]*model.Snapshot, error) {
	query := `SELECT ` + snapshotColumns + ` FROM snapshots AS s1
		WHERE s1.id = (
			SELECT MAX(s2.id) FROM snapshots AS s2
			WHERE s2.ecosystem = s1.ecosystem AND s2.bom_ref = s1.bom_ref
		)`
	if filter.MissingRiskLevel {
		query += ` AND s1.manual_risk_level IS NULL`
	}
	query += ` ORDER BY s1.id ASC`

	return x.querySnapshots(ctx, query)
}

func (x *session) CreateSnapshot(ctx context.Context, s *model.Snapshot) (types.SnapshotID, error) {
	if s == nil {
		return 0, goerr.Wrap(repository.ErrInvalidInput, "snapshot is nil")
	}

	var riskLevel *string
	if s.Manual.RiskLevel != nil {
		level := string(*s.Manual.RiskLevel)
		riskLevel = &level
	}

	query := `INSERT INTO snapshots (repository, ecosystem, asset, name, version, latest_version,
		is_newer_version_available, bom_ref, is_dev, is_abandoned, replacement_reference, description,
		author, license, is_actively_maintained, manual_end_of_support, manual_risk_level, created_at,
		last_seen_at, created_run_id, last_seen_run_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`

	var id int64
	if err := x.q.QueryRowContext(ctx, rebind(x.dialect, query),
		s.Repository, s.Ecosystem.String(), s.Asset, s.Name, s.Version, s.LatestVersion,
		s.IsNewerVersionAvailable, s.BomRef.String(), s.IsDev, s.IsAbandoned,
		toNullString(s.ReplacementReference), s.Description, s.Author, s.License,
		s.IsActivelyMaintained, toNullString(s.Manual.EndOfSupport), toNullString(riskLevel),
		s.CreatedAt.UnixMicro(), s.LastSeenAt.UnixMicro(), s.CreatedRunID.String(),
		s.LastSeenRunID.String(),
	).Scan(&id); err != nil {
		return 0, goerr.Wrap(err, "failed to insert snapshot",
			goerr.V("ecosystem", s.Ecosystem),
			goerr.V("bom_ref", s.BomRef),
		)
	}

	return types.SnapshotID(id), nil
}

func (x *session) exec(ctx context.Context, msg string, id types.SnapshotID, query string, args ...any) error {
	res, err := x.q.ExecContext(ctx, rebind(x.dialect, query), args...)
	if err != nil {
		return goerr.Wrap(err, msg, goerr.V("id", id))
	}

	n, err := res.RowsAffected()
	if err != nil {
		return goerr.Wrap(err, msg, goerr.V("id", id))
	}
	if n == 0 {
		return goerr.Wrap(repository.ErrNotFound, "snapshot not found", goerr.V("id", id))
	}

	return nil
}

func (x *session) TouchSnapshot(ctx context.Context, id types.SnapshotID, seenAt time.Time, runID types.RunID) error {
	return x.exec(ctx, "failed to touch snapshot", id,
		`UPDATE snapshots SET last_seen_at = ?, last_seen_run_id = ? WHERE id = ?`,
		seenAt.UnixMicro(), runID.String(), int64(id),
	)
}

func (x *session) UpdateActivelyMaintained(ctx context.Context, id types.SnapshotID, maintained bool) error {
	return x.exec(ctx, "failed to update is_actively_maintained", id,
		`UPDATE snapshots SET is_actively_maintained = ? WHERE id = ?`,
		maintained, int64(id),
	)
}

func (x *session) DeleteSnapshot(ctx context.Context, id types.SnapshotID) error {
	return x.exec(ctx, "failed to delete snapshot", id,
		`DELETE FROM snapshots WHERE id = ?`,
		int64(id),
	)
}

func (x *session) snapshotExists(ctx context.Context, id types.SnapshotID) error {
	var found int64
	err := x.q.QueryRowContext(ctx, rebind(x.dialect, `SELECT id FROM snapshots WHERE id = ?`), int64(id)).Scan(&found)
	if errors.Is(err, gosql.ErrNoRows) {
		return goerr.Wrap(repository.ErrNotFound, "snapshot not found", goerr.V("id", id))
	}
	if err != nil {
		return goerr.Wrap(err, "failed to look up snapshot", goerr.V("id", id))
	}
	return nil
}

// Vulnerability operations

func (x *session) ListVulnerabilities(ctx context.Context, id types.SnapshotID) ([]*model.Vulnerability, error) {
	if err := x.snapshotExists(ctx, id); err != nil {
		return nil, err
	}

	query := `SELECT ` + vulnerabilityColumns + ` FROM vulnerabilities WHERE snapshot_id = ? ORDER BY id ASC`
	rows, err := x.q.QueryContext(ctx, rebind(x.dialect, query), int64(id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to query vulnerabilities", goerr.V("snapshot_id", id))
	}
	defer safe.Close(rows)

	var vulns []*model.Vulnerability
	for rows.Next() {
		var (
			v          model.Vulnerability
			cve        gosql.NullString
			cwe        gosql.NullString
			advisoryID gosql.NullString
			reportedAt gosql.NullInt64
			createdAt  int64
		)
		if err := rows.Scan(&v.ID, &v.SnapshotID, &v.Ecosystem, &v.PackageName, &v.Title, &v.URL,
			&v.Severity, &v.AffectedVersions, &cve, &cwe, &advisoryID, &reportedAt, &createdAt,
		); err != nil {
			return nil, goerr.Wrap(err, "failed to scan vulnerability", goerr.V("snapshot_id", id))
		}

		v.CVE = fromNullString(cve)
		v.AdvisoryID = fromNullString(advisoryID)
		if cwe.Valid && cwe.String != "" {
			v.CWE = strings.Split(cwe.String, ",")
		}
		if reportedAt.Valid {
			t := time.UnixMicro(reportedAt.Int64).UTC()
			v.ReportedAt = &t
		}
		v.CreatedAt = time.UnixMicro(createdAt).UTC()

		vulns = append(vulns, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, goerr.Wrap(err, "failed to iterate vulnerabilities", goerr.V("snapshot_id", id))
	}

	return vulns, nil
}

func (x *session) DeleteVulnerabilities(ctx context.Context, id types.SnapshotID) error {
	if err := x.snapshotExists(ctx, id); err != nil {
		return err
	}

	if _, err := x.q.ExecContext(ctx, rebind(x.dialect, `DELETE FROM vulnerabilities WHERE snapshot_id = ?`), int64(id)); err != nil {
		return goerr.Wrap(err, "failed to delete vulnerabilities", goerr.V("snapshot_id", id))
	}
	return nil
}

func (x *session) BatchCreateVulnerabilities(ctx context.Context, id types.SnapshotID, vulns []*model.Vulnerability) error {
	if err := x.snapshotExists(ctx, id); err != nil {
		return err
	}

	query := rebind(x.dialect, `INSERT INTO vulnerabilities (snapshot_id, ecosystem, package_name, title,
		url, severity, affected_versions, cve, cwe, advisory_id, reported_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	for _, v := range vulns {
		if v == nil {
			return goerr.Wrap(repository.ErrInvalidInput, "vulnerability is nil", goerr.V("snapshot_id", id))
		}

		var cwe *string
		if len(v.CWE) > 0 {
			joined := strings.Join(v.CWE, ",")
			cwe = &joined
		}
		var reportedAt gosql.NullInt64
		if v.ReportedAt != nil {
			reportedAt = gosql.NullInt64{Int64: v.ReportedAt.UnixMicro(), Valid: true}
		}

		if _, err := x.q.ExecContext(ctx, query,
			int64(id), v.Ecosystem.String(), v.PackageName, v.Title, v.URL, v.Severity,
			v.AffectedVersions, toNullString(v.CVE), toNullString(cwe), toNullString(v.AdvisoryID),
			reportedAt, v.CreatedAt.UnixMicro(),
		); err != nil {
			return goerr.Wrap(err, "failed to insert vulnerability",
				goerr.V("snapshot_id", id),
				goerr.V("title", v.Title),
			)
		}
	}

	return nil
}

func toNullString(p *string) gosql.NullString {
	if p == nil {
		return gosql.NullString{}
	}
	return gosql.NullString{String: *p, Valid: true}
}

func fromNullString(v gosql.NullString) *string {
	if !v.Valid {
		return nil
	}
	s := v.String
	return &s
}

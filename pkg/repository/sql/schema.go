package sql

import "fmt"

const snapshotsTable = `CREATE TABLE IF NOT EXISTS snapshots (
	id %s,
	repository TEXT NOT NULL,
	ecosystem TEXT NOT NULL,
	asset TEXT NOT NULL DEFAULT 'library',
	name TEXT NOT NULL,
	version TEXT NOT NULL,
	latest_version TEXT NOT NULL DEFAULT '',
	is_newer_version_available BOOLEAN NOT NULL DEFAULT FALSE,
	bom_ref TEXT NOT NULL,
	is_dev BOOLEAN NOT NULL DEFAULT FALSE,
	is_abandoned BOOLEAN NOT NULL DEFAULT FALSE,
	replacement_reference TEXT,
	description TEXT NOT NULL DEFAULT '',
	author TEXT NOT NULL DEFAULT '',
	license TEXT NOT NULL DEFAULT '',
	is_actively_maintained BOOLEAN NOT NULL DEFAULT TRUE,
	manual_end_of_support TEXT,
	manual_risk_level TEXT,
	created_at BIGINT NOT NULL,
	last_seen_at BIGINT NOT NULL,
	created_run_id TEXT NOT NULL DEFAULT '',
	last_seen_run_id TEXT NOT NULL DEFAULT ''
)`

const vulnerabilitiesTable = `CREATE TABLE IF NOT EXISTS vulnerabilities (
	id %s,
	snapshot_id BIGINT NOT NULL REFERENCES snapshots(id) ON DELETE CASCADE,
	ecosystem TEXT NOT NULL,
	package_name TEXT NOT NULL DEFAULT '',
	title TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	severity TEXT NOT NULL DEFAULT '',
	affected_versions TEXT NOT NULL DEFAULT '',
	cve TEXT,
	cwe TEXT,
	advisory_id TEXT,
	reported_at BIGINT,
	created_at BIGINT NOT NULL
)`

func schema(dialect Dialect) []string {
	idColumn := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if dialect == DialectPostgres {
		idColumn = "BIGSERIAL PRIMARY KEY"
	}

	return []string{
		fmt.Sprintf(snapshotsTable, idColumn),
		fmt.Sprintf(vulnerabilitiesTable, idColumn),
		`CREATE INDEX IF NOT EXISTS snapshots_identity_idx ON snapshots (ecosystem, bom_ref, id)`,
		`CREATE INDEX IF NOT EXISTS vulnerabilities_snapshot_idx ON vulnerabilities (snapshot_id)`,
	}
}

package model

import (
	"time"

	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// Run is the analytics record of one ingestion run: every current snapshot of the ledger with its
// linked vulnerabilities.
type Run struct {
	ID         types.RunID      `bigquery:"id" json:"id"`
	Timestamp  time.Time        `bigquery:"timestamp" json:"timestamp"`
	Repository string           `bigquery:"repository" json:"repository"`
	Snapshots  []SnapshotRecord `bigquery:"snapshots" json:"snapshots"`
}

type RunRawRecord struct {
	Run
	Timestamp int64 `bigquery:"timestamp" json:"timestamp"`
}

type SnapshotRecord struct {
	ID                      int64                 `bigquery:"id" json:"id"`
	Repository              string                `bigquery:"repository" json:"repository"`
	Ecosystem               string                `bigquery:"ecosystem" json:"ecosystem"`
	Asset                   string                `bigquery:"asset" json:"asset"`
	Name                    string                `bigquery:"name" json:"name"`
	Version                 string                `bigquery:"version" json:"version"`
	LatestVersion           string                `bigquery:"latest_version" json:"latest_version"`
	IsNewerVersionAvailable bool                  `bigquery:"is_newer_version_available" json:"is_newer_version_available"`
	BomRef                  string                `bigquery:"bom_ref" json:"bom_ref"`
	IsDev                   bool                  `bigquery:"is_dev" json:"is_dev"`
	IsAbandoned             bool                  `bigquery:"is_abandoned" json:"is_abandoned"`
	ReplacementReference    string                `bigquery:"replacement_reference" json:"replacement_reference"`
	Description             string                `bigquery:"description" json:"description"`
	Author                  string                `bigquery:"author" json:"author"`
	License                 string                `bigquery:"license" json:"license"`
	IsActivelyMaintained    bool                  `bigquery:"is_actively_maintained" json:"is_actively_maintained"`
	ManualEndOfSupport      string                `bigquery:"manual_end_of_support" json:"manual_end_of_support"`
	ManualRiskLevel         string                `bigquery:"manual_risk_level" json:"manual_risk_level"`
	Vulnerabilities         []VulnerabilityRecord `bigquery:"vulnerabilities" json:"vulnerabilities"`
}

type VulnerabilityRecord struct {
	PackageName      string   `bigquery:"package_name" json:"package_name"`
	Title            string   `bigquery:"title" json:"title"`
	URL              string   `bigquery:"url" json:"url"`
	Severity         string   `bigquery:"severity" json:"severity"`
	AffectedVersions string   `bigquery:"affected_versions" json:"affected_versions"`
	CVE              string   `bigquery:"cve" json:"cve"`
	CWE              []string `bigquery:"cwe" json:"cwe"`
	AdvisoryID       string   `bigquery:"advisory_id" json:"advisory_id"`
	ReportedAt       int64    `bigquery:"reported_at" json:"reported_at"`
}

// NewSnapshotRecord flattens a snapshot and its vulnerabilities into an export record.
func NewSnapshotRecord(s *Snapshot, vulns []*Vulnerability) SnapshotRecord {
	rec := SnapshotRecord{
		ID:                      int64(s.ID),
		Repository:              s.Repository,
		Ecosystem:               s.Ecosystem.String(),
		Asset:                   s.Asset,
		Name:                    s.Name,
		Version:                 s.Version,
		LatestVersion:           s.LatestVersion,
		IsNewerVersionAvailable: s.IsNewerVersionAvailable,
		BomRef:                  s.BomRef.String(),
		IsDev:                   s.IsDev,
		IsAbandoned:             s.IsAbandoned,
		ReplacementReference:    deref(s.ReplacementReference),
		Description:             s.Description,
		Author:                  s.Author,
		License:                 s.License,
		IsActivelyMaintained:    s.IsActivelyMaintained,
		ManualEndOfSupport:      deref(s.Manual.EndOfSupport),
		ManualRiskLevel:         string(deref(s.Manual.RiskLevel)),
	}

	for _, v := range vulns {
		vr := VulnerabilityRecord{
			PackageName:      v.PackageName,
			Title:            v.Title,
			URL:              v.URL,
			Severity:         v.Severity,
			AffectedVersions: v.AffectedVersions,
			CVE:              deref(v.CVE),
			CWE:              v.CWE,
			AdvisoryID:       deref(v.AdvisoryID),
		}
		if v.ReportedAt != nil {
			vr.ReportedAt = v.ReportedAt.UnixMicro()
		}
		rec.Vulnerabilities = append(rec.Vulnerabilities, vr)
	}

	return rec
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

package model

import (
	"time"

	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// Vulnerability is an advisory linked to exactly one snapshot.
type Vulnerability struct {
	ID               int64
	SnapshotID       types.SnapshotID
	Ecosystem        types.Ecosystem
	PackageName      string
	Title            string
	URL              string
	Severity         string
	AffectedVersions string
	CVE              *string
	CWE              []string
	AdvisoryID       *string
	ReportedAt       *time.Time
	CreatedAt        time.Time
}

func (x *Vulnerability) Copy() *Vulnerability {
	if x == nil {
		return nil
	}
	cpy := *x
	cpy.CVE = copyPtr(x.CVE)
	cpy.AdvisoryID = copyPtr(x.AdvisoryID)
	cpy.ReportedAt = copyPtr(x.ReportedAt)
	if x.CWE != nil {
		cpy.CWE = make([]string, len(x.CWE))
		copy(cpy.CWE, x.CWE)
	}
	return &cpy
}

// Dependency is a correlated candidate produced for one filtered component: the comparable state
// to reconcile and the advisories currently affecting it.
type Dependency struct {
	State      DependencyState
	Advisories []RawAdvisory
}

package usecase

import (
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/domain/versioning"
)

const (
	DefaultMaintenanceWindowDays = 30
	DefaultMinAffectedVersion    = "0.0.1"
)

// MaintenancePolicy holds the thresholds of the actively-maintained derivation.
type MaintenancePolicy struct {
	// WindowDays is how long a dependency whose latest version is affected by its newest advisory
	// is still considered maintained after the advisory was reported.
	WindowDays int
	// MinAffectedVersion is the lowest version a range clause must be able to match to be evaluated.
	MinAffectedVersion string
}

func DefaultMaintenancePolicy() MaintenancePolicy {
	return MaintenancePolicy{
		WindowDays:         DefaultMaintenanceWindowDays,
		MinAffectedVersion: DefaultMinAffectedVersion,
	}
}

// Validate checks that the window is not negative and that MinAffectedVersion is a version every
// ecosystem can parse.
func (x MaintenancePolicy) Validate() error {
	if x.WindowDays < 0 {
		return goerr.Wrap(types.ErrInvalidOption, "maintenance window must not be negative", goerr.V("days", x.WindowDays))
	}

	for _, eco := range types.Ecosystems {
		scheme, err := versioning.For(eco)
		if err != nil {
			return err
		}
		if err := scheme.Validate(x.MinAffectedVersion); err != nil {
			return goerr.Wrap(types.ErrInvalidOption, "invalid minimum affected version",
				goerr.V("version", x.MinAffectedVersion),
				goerr.V("ecosystem", eco),
				goerr.V("cause", err.Error()),
			)
		}
	}
	return nil
}

// newestVulnerability returns the record with the latest reported_at. Records without reported_at
// sort earliest and the first record wins ties.
func newestVulnerability(vulns []*model.Vulnerability) *model.Vulnerability {
	if len(vulns) == 0 {
		return nil
	}

	newest := vulns[0]
	for _, v := range vulns[1:] {
		if v.ReportedAt == nil {
			continue
		}
		if newest.ReportedAt == nil || v.ReportedAt.After(*newest.ReportedAt) {
			newest = v
		}
	}
	return newest
}

// IsActivelyMaintained derives is_actively_maintained from the vulnerabilities of a snapshot.
// Without vulnerabilities it is true. Otherwise it is false only when the latest version is inside
// the affected range of the newest advisory and that advisory is older than the window.
func (x MaintenancePolicy) IsActivelyMaintained(eco types.Ecosystem, latestVersion string, vulns []*model.Vulnerability, now time.Time) (bool, error) {
	newest := newestVulnerability(vulns)
	if newest == nil {
		return true, nil
	}

	scheme, err := versioning.For(eco)
	if err != nil {
		return false, err
	}

	filter := versioning.RangeFilter{MinLowerBound: x.MinAffectedVersion}
	if !filter.Affected(scheme, newest.AffectedVersions, latestVersion) {
		return true, nil
	}

	if newest.ReportedAt == nil {
		return false, nil
	}

	ageDays := int(now.Sub(*newest.ReportedAt) / (24 * time.Hour))
	return ageDays < x.WindowDays, nil
}

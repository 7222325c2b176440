package usecase_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/usecase"
)

func daysAgo(now time.Time, days int) *time.Time {
	t := now.Add(-time.Duration(days) * 24 * time.Hour)
	return &t
}

func TestNewestVulnerability(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("empty", func(t *testing.T) {
		gt.True(t, usecase.NewestVulnerabilityForTest(nil) == nil)
	})

	t.Run("latest reported_at wins", func(t *testing.T) {
		vulns := []*model.Vulnerability{
			{Title: "old", ReportedAt: daysAgo(now, 100)},
			{Title: "undated"},
			{Title: "new", ReportedAt: daysAgo(now, 3)},
		}
		gt.V(t, usecase.NewestVulnerabilityForTest(vulns).Title).Equal("new")
	})

	t.Run("first record wins ties", func(t *testing.T) {
		vulns := []*model.Vulnerability{
			{Title: "first", ReportedAt: daysAgo(now, 3)},
			{Title: "second", ReportedAt: daysAgo(now, 3)},
		}
		gt.V(t, usecase.NewestVulnerabilityForTest(vulns).Title).Equal("first")
	})

	t.Run("all undated returns the first", func(t *testing.T) {
		vulns := []*model.Vulnerability{{Title: "a"}, {Title: "b"}}
		gt.V(t, usecase.NewestVulnerabilityForTest(vulns).Title).Equal("a")
	})
}

func TestIsActivelyMaintained(t *testing.T) {
	now := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	policy := usecase.DefaultMaintenancePolicy()

	testCases := []struct {
		name     string
		eco      types.Ecosystem
		latest   string
		vulns    []*model.Vulnerability
		expected bool
	}{
		{
			name:     "no vulnerabilities",
			eco:      types.EcosystemComposer,
			latest:   "1.0.0",
			expected: true,
		},
		{
			name:   "latest version outside the range",
			eco:    types.EcosystemComposer,
			latest: "2.0.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: ">=1.0.0,<2.0.0", ReportedAt: daysAgo(now, 40)},
			},
			expected: true,
		},
		{
			name:   "latest version affected beyond the window",
			eco:    types.EcosystemComposer,
			latest: "1.9.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: ">=1.0.0,<2.0.0", ReportedAt: daysAgo(now, 40)},
			},
			expected: false,
		},
		{
			name:   "latest version affected within the window",
			eco:    types.EcosystemComposer,
			latest: "1.9.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: ">=1.0.0,<2.0.0", ReportedAt: daysAgo(now, 5)},
			},
			expected: true,
		},
		{
			name:   "alternatives, latest between clauses",
			eco:    types.EcosystemComposer,
			latest: "2.0.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "<2.0.0|>=3.0.0 <3.5.0", ReportedAt: daysAgo(now, 40)},
			},
			expected: true,
		},
		{
			name:   "alternatives, latest in first clause and stale",
			eco:    types.EcosystemComposer,
			latest: "1.9.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "<2.0.0|>=3.0.0 <3.5.0", ReportedAt: daysAgo(now, 40)},
			},
			expected: false,
		},
		{
			name:   "alternatives, latest in second clause and fresh",
			eco:    types.EcosystemComposer,
			latest: "3.1.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "<2.0.0|>=3.0.0 <3.5.0", ReportedAt: daysAgo(now, 5)},
			},
			expected: true,
		},
		{
			name:   "4-segment latest version affected beyond the window",
			eco:    types.EcosystemComposer,
			latest: "1.2.3.4",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "<2.0.0", ReportedAt: daysAgo(now, 40)},
			},
			expected: false,
		},
		{
			name:   "4-segment latest version outside the range",
			eco:    types.EcosystemComposer,
			latest: "2.0.0.1",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "<2.0.0", ReportedAt: daysAgo(now, 40)},
			},
			expected: true,
		},
		{
			name:   "window boundary is exclusive",
			eco:    types.EcosystemComposer,
			latest: "1.9.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "<2.0.0", ReportedAt: daysAgo(now, 30)},
			},
			expected: false,
		},
		{
			name:   "affected without reported_at",
			eco:    types.EcosystemComposer,
			latest: "1.9.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: ">=1.0.0,<2.0.0"},
			},
			expected: false,
		},
		{
			name:   "only the newest advisory is evaluated",
			eco:    types.EcosystemComposer,
			latest: "1.9.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: ">=1.0.0,<2.0.0", ReportedAt: daysAgo(now, 400)},
				{AffectedVersions: "<1.5.0", ReportedAt: daysAgo(now, 10)},
			},
			expected: true,
		},
		{
			name:   "wildcard range is ignored",
			eco:    types.EcosystemComposer,
			latest: "1.9.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: ">=0", ReportedAt: daysAgo(now, 400)},
			},
			expected: true,
		},
		{
			name:   "npm range affected beyond the window",
			eco:    types.EcosystemNode,
			latest: "0.27.2",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "0.8.1 - 0.27.2", ReportedAt: daysAgo(now, 90)},
			},
			expected: false,
		},
		{
			name:   "npm alternatives",
			eco:    types.EcosystemNode,
			latest: "3.1.0",
			vulns: []*model.Vulnerability{
				{AffectedVersions: "<2.0.0 || >=3.0.0 <3.2.0", ReportedAt: daysAgo(now, 90)},
			},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := policy.IsActivelyMaintained(tc.eco, tc.latest, tc.vulns, now)
			gt.NoError(t, err)
			gt.V(t, got).Equal(tc.expected)
		})
	}

	t.Run("custom window", func(t *testing.T) {
		custom := usecase.MaintenancePolicy{WindowDays: 90, MinAffectedVersion: "0.0.1"}
		vulns := []*model.Vulnerability{
			{AffectedVersions: "<2.0.0", ReportedAt: daysAgo(now, 40)},
		}
		got, err := custom.IsActivelyMaintained(types.EcosystemComposer, "1.9.0", vulns, now)
		gt.NoError(t, err)
		gt.True(t, got)
	})

	t.Run("unknown ecosystem", func(t *testing.T) {
		vulns := []*model.Vulnerability{{AffectedVersions: "<2.0.0"}}
		_, err := policy.IsActivelyMaintained("cargo", "1.0.0", vulns, now)
		gt.Error(t, err)
	})
}

func TestMaintenancePolicyValidate(t *testing.T) {
	gt.NoError(t, usecase.DefaultMaintenancePolicy().Validate())
	gt.NoError(t, usecase.MaintenancePolicy{WindowDays: 0, MinAffectedVersion: "1.0.0"}.Validate())

	t.Run("negative window", func(t *testing.T) {
		err := usecase.MaintenancePolicy{WindowDays: -1, MinAffectedVersion: "0.0.1"}.Validate()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})

	t.Run("unparsable minimum affected version", func(t *testing.T) {
		err := usecase.MaintenancePolicy{WindowDays: 30, MinAffectedVersion: "garbage"}.Validate()
		gt.Error(t, err)
		gt.True(t, errors.Is(err, types.ErrInvalidOption))
	})
}

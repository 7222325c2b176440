package usecase_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/usecase"
)

func TestLicenseString(t *testing.T) {
	testCases := []struct {
		name     string
		licenses []model.LicenseChoice
		expected string
	}{
		{name: "no license", licenses: nil, expected: ""},
		{
			name:     "single id",
			licenses: []model.LicenseChoice{{License: &model.License{ID: "MIT"}}},
			expected: "MIT",
		},
		{
			name: "multiple ids",
			licenses: []model.LicenseChoice{
				{License: &model.License{ID: "MIT"}},
				{License: &model.License{ID: "Apache-2.0"}},
			},
			expected: "MIT, Apache-2.0",
		},
		{
			name: "name only and expression are skipped",
			licenses: []model.LicenseChoice{
				{License: &model.License{Name: "Proprietary"}},
				{Expression: "MIT OR GPL-3.0"},
				{License: &model.License{ID: "BSD-3-Clause"}},
			},
			expected: "BSD-3-Clause",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := usecase.LicenseStringForTest(model.Component{Licenses: tc.licenses})
			gt.V(t, got).Equal(tc.expected)
		})
	}
}

func TestNormalizeComponent(t *testing.T) {
	t.Run("fill fields from purl", func(t *testing.T) {
		c := usecase.NormalizeComponentForTest(model.Component{
			PURL: "pkg:composer/laravel/framework@11.0.3",
		})
		gt.V(t, c.BomRef).Equal(types.BomRef("pkg:composer/laravel/framework@11.0.3"))
		gt.V(t, c.Group).Equal("laravel")
		gt.V(t, c.Name).Equal("framework")
		gt.V(t, c.Version).Equal("11.0.3")
	})

	t.Run("keep explicit fields", func(t *testing.T) {
		c := usecase.NormalizeComponentForTest(model.Component{
			Name:    "vue",
			Version: "3.3.4",
			BomRef:  "vue@3.3.4",
			PURL:    "pkg:npm/vue@3.3.4",
		})
		gt.V(t, c.BomRef).Equal(types.BomRef("vue@3.3.4"))
		gt.V(t, c.Name).Equal("vue")
	})

	t.Run("broken purl only sets bom-ref", func(t *testing.T) {
		c := usecase.NormalizeComponentForTest(model.Component{PURL: "not a purl"})
		gt.V(t, c.BomRef).Equal(types.BomRef("not a purl"))
		gt.V(t, c.Name).Equal("")
	})
}

func TestFilterDirect(t *testing.T) {
	components := []model.Component{
		{Group: "laravel", Name: "framework", Version: "11.0.3", BomRef: "pkg:composer/laravel/framework@11.0.3"},
		{Group: "symfony", Name: "console", Version: "7.0.0", BomRef: "pkg:composer/symfony/console@7.0.0"},
		{Group: "phpunit", Name: "phpunit", Version: "10.5.0", BomRef: "pkg:composer/phpunit/phpunit@10.5.0"},
	}
	manifest := &model.Manifest{
		Dependencies:    []string{"laravel/framework", "php"},
		DevDependencies: []string{"phpunit/phpunit"},
	}

	filtered := usecase.FilterDirectForTest(components, manifest)
	gt.V(t, len(filtered)).Equal(2)

	gt.V(t, filtered[0].Component.Identity()).Equal("laravel/framework")
	gt.False(t, filtered[0].IsDev)
	gt.V(t, filtered[1].Component.Identity()).Equal("phpunit/phpunit")
	gt.True(t, filtered[1].IsDev)

	t.Run("empty manifest keeps nothing", func(t *testing.T) {
		gt.V(t, len(usecase.FilterDirectForTest(components, &model.Manifest{}))).Equal(0)
	})
}

func TestCorrelate(t *testing.T) {
	ctx := context.Background()
	guzzle := model.Component{
		Type:        "library",
		Group:       "guzzlehttp",
		Name:        "guzzle",
		Version:     "7.4.0",
		BomRef:      "pkg:composer/guzzlehttp/guzzle@7.4.0",
		Description: "Guzzle is a PHP HTTP client library",
		Author:      "Michael Dowling",
		Licenses:    []model.LicenseChoice{{License: &model.License{ID: "MIT"}}},
	}

	t.Run("without audit data", func(t *testing.T) {
		dep := usecase.CorrelateForTest(ctx, "webhubworks/app", types.EcosystemComposer, guzzle, false, nil, nil)

		gt.V(t, dep.State.Repository).Equal("webhubworks/app")
		gt.V(t, dep.State.Asset).Equal("library")
		gt.V(t, dep.State.Name).Equal("guzzle")
		gt.V(t, dep.State.LatestVersion).Equal("7.4.0")
		gt.False(t, dep.State.IsNewerVersionAvailable)
		gt.False(t, dep.State.IsAbandoned)
		gt.True(t, dep.State.ReplacementReference == nil)
		gt.V(t, dep.State.License).Equal("MIT")
		gt.V(t, len(dep.Advisories)).Equal(0)
	})

	t.Run("with outdated and advisory data", func(t *testing.T) {
		outdated := []model.OutdatedEntry{
			{Name: "guzzlehttp/guzzle", CurrentVersion: "7.4.0", LatestVersion: "7.8.1"},
		}
		report := model.NewAdvisoryReport()
		report.Advisories["guzzlehttp/guzzle"] = []model.RawAdvisory{
			{"title": "Change in port should be considered a change in origin"},
		}
		replacement := "symfony/http-client"
		report.Abandoned["guzzlehttp/guzzle"] = &replacement

		dep := usecase.CorrelateForTest(ctx, "webhubworks/app", types.EcosystemComposer, guzzle, true, outdated, report)

		gt.V(t, dep.State.LatestVersion).Equal("7.8.1")
		gt.True(t, dep.State.IsNewerVersionAvailable)
		gt.True(t, dep.State.IsDev)
		gt.True(t, dep.State.IsAbandoned)
		gt.V(t, *dep.State.ReplacementReference).Equal("symfony/http-client")
		gt.V(t, len(dep.Advisories)).Equal(1)
	})

	t.Run("abandoned without replacement is not flagged", func(t *testing.T) {
		report := model.NewAdvisoryReport()
		report.Abandoned["guzzlehttp/guzzle"] = nil

		dep := usecase.CorrelateForTest(ctx, "webhubworks/app", types.EcosystemComposer, guzzle, false, nil, report)
		gt.False(t, dep.State.IsAbandoned)
		gt.True(t, dep.State.ReplacementReference == nil)
	})

	t.Run("incomparable version is not newer", func(t *testing.T) {
		c := guzzle
		c.Version = "dev-main"
		outdated := []model.OutdatedEntry{{Name: "guzzlehttp/guzzle", LatestVersion: "7.8.1"}}

		dep := usecase.CorrelateForTest(ctx, "webhubworks/app", types.EcosystemComposer, c, false, outdated, nil)
		gt.V(t, dep.State.LatestVersion).Equal("7.8.1")
		gt.False(t, dep.State.IsNewerVersionAvailable)
	})
}

package usecase

import (
	"context"

	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/domain/versioning"
)

// Export unexported functions for testing
var (
	PrepareRunTableForTest             = prepareRunTable
	LicenseStringForTest               = licenseString
	NormalizeComponentForTest          = normalizeComponent
	ToVulnerabilitiesForTest           = toVulnerabilities
	LookupForTest                      = lookup
	UpsertSnapshotForTest              = upsertSnapshot
	NewestVulnerabilityForTest         = newestVulnerability
)

type DirectComponentForTest = directComponent

func FilterDirectForTest(components []model.Component, manifest *model.Manifest) []DirectComponentForTest {
	return filterDirect(components, manifest)
}

func CorrelateForTest(ctx context.Context, repository string, eco types.Ecosystem, c model.Component, isDev bool, outdated []model.OutdatedEntry, report *model.AdvisoryReport) model.Dependency {
	scheme, err := versioning.For(eco)
	if err != nil {
		panic(err)
	}
	return correlate(ctx, repository, eco, scheme, directComponent{Component: c, IsDev: isDev}, newAuditIndex(outdated, report))
}

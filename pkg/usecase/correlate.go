package usecase

import (
	"context"

	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/domain/versioning"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// auditIndex is the audit data of one ecosystem keyed by dependency identity.
type auditIndex struct {
	outdated map[string]model.OutdatedEntry
	report   *model.AdvisoryReport
}

func newAuditIndex(outdated []model.OutdatedEntry, report *model.AdvisoryReport) *auditIndex {
	idx := &auditIndex{
		outdated: make(map[string]model.OutdatedEntry, len(outdated)),
		report:   report,
	}
	if idx.report == nil {
		idx.report = model.NewAdvisoryReport()
	}
	for _, entry := range outdated {
		idx.outdated[entry.Name] = entry
	}
	return idx
}

// correlate joins a direct component with the audit data of its ecosystem and builds the candidate
// state to reconcile.
func correlate(ctx context.Context, repository string, eco types.Ecosystem, scheme versioning.Scheme, dc directComponent, idx *auditIndex) model.Dependency {
	c := dc.Component
	identity := c.Identity()

	latest := c.Version
	if entry, ok := idx.outdated[identity]; ok && entry.LatestVersion != "" {
		latest = entry.LatestVersion
	}

	newer, err := scheme.Less(c.Version, latest)
	if err != nil {
		logging.From(ctx).Debug("version is not comparable, assuming no newer version",
			"ecosystem", eco,
			"name", identity,
			"version", c.Version,
			"latest", latest,
			"error", err,
		)
		newer = false
	}

	replacement := idx.report.Abandoned[identity]

	return model.Dependency{
		State: model.DependencyState{
			Repository:              repository,
			Ecosystem:               eco,
			Asset:                   c.Type,
			Name:                    c.Name,
			Version:                 c.Version,
			LatestVersion:           latest,
			IsNewerVersionAvailable: newer,
			BomRef:                  c.BomRef,
			IsDev:                   dc.IsDev,
			IsAbandoned:             replacement != nil,
			ReplacementReference:    replacement,
			Description:             c.Description,
			Author:                  c.Author,
			License:                 licenseString(c),
		},
		Advisories: idx.report.Advisories[identity],
	}
}

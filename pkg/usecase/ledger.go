package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// fieldMapping locates each vulnerability field in an ecosystem's raw advisory. Paths are
// dot-separated keys; numeric segments index into lists. An empty path means the ecosystem does
// not provide the field.
type fieldMapping struct {
	PackageName      string
	Title            string
	URL              string
	Severity         string
	AffectedVersions string
	AdvisoryID       string
	CVE              string
	CWE              string
	ReportedAt       string
}

var vulnerabilityFields = map[types.Ecosystem]fieldMapping{
	types.EcosystemComposer: {
		PackageName:      "packageName",
		Title:            "title",
		URL:              "link",
		Severity:         "severity",
		AffectedVersions: "affectedVersions",
		AdvisoryID:       "advisoryId",
		CVE:              "cve",
		ReportedAt:       "reportedAt",
	},
	types.EcosystemNode: {
		PackageName:      "name",
		Title:            "via.0.title",
		URL:              "via.0.url",
		Severity:         "severity",
		AffectedVersions: "range",
		AdvisoryID:       "via.0.source",
		CWE:              "via.0.cwe",
	},
}

// lookup walks path through nested objects and lists of a raw advisory.
func lookup(v any, path string) any {
	if path == "" {
		return nil
	}

	for _, key := range strings.Split(path, ".") {
		switch node := v.(type) {
		case map[string]any:
			v = node[key]
		case model.RawAdvisory:
			v = node[key]
		case []any:
			i, err := strconv.Atoi(key)
			if err != nil || i < 0 || i >= len(node) {
				return nil
			}
			v = node[i]
		default:
			return nil
		}
	}

	return v
}

func scalarString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	}
	return "", false
}

func lookupString(adv model.RawAdvisory, path string) string {
	s, _ := scalarString(lookup(adv, path))
	return s
}

func lookupOptional(adv model.RawAdvisory, path string) *string {
	s, ok := scalarString(lookup(adv, path))
	if !ok || s == "" {
		return nil
	}
	return &s
}

func lookupList(adv model.RawAdvisory, path string) []string {
	switch v := lookup(adv, path).(type) {
	case []any:
		var out []string
		for _, item := range v {
			if s, ok := scalarString(item); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	default:
		if s, ok := scalarString(v); ok && s != "" {
			return []string{s}
		}
	}
	return nil
}

var reportedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func lookupTime(adv model.RawAdvisory, path string) *time.Time {
	s, ok := scalarString(lookup(adv, path))
	if !ok || s == "" {
		return nil
	}
	for _, layout := range reportedAtLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// toVulnerabilities maps raw advisories of an ecosystem into vulnerability records.
func toVulnerabilities(eco types.Ecosystem, advisories []model.RawAdvisory, now time.Time) ([]*model.Vulnerability, error) {
	mapping, ok := vulnerabilityFields[eco]
	if !ok {
		return nil, goerr.Wrap(types.ErrInvalidOption, "no vulnerability field mapping", goerr.V("ecosystem", eco))
	}

	vulns := make([]*model.Vulnerability, 0, len(advisories))
	for _, adv := range advisories {
		vulns = append(vulns, &model.Vulnerability{
			Ecosystem:        eco,
			PackageName:      lookupString(adv, mapping.PackageName),
			Title:            lookupString(adv, mapping.Title),
			URL:              lookupString(adv, mapping.URL),
			Severity:         lookupString(adv, mapping.Severity),
			AffectedVersions: lookupString(adv, mapping.AffectedVersions),
			AdvisoryID:       lookupOptional(adv, mapping.AdvisoryID),
			CVE:              lookupOptional(adv, mapping.CVE),
			CWE:              lookupList(adv, mapping.CWE),
			ReportedAt:       lookupTime(adv, mapping.ReportedAt),
			CreatedAt:        now,
		})
	}

	return vulns, nil
}

// replaceVulnerabilities deletes every vulnerability of the snapshot, inserts the current ones and
// recomputes is_actively_maintained.
func (x *UseCase) replaceVulnerabilities(ctx context.Context, session interfaces.LedgerSession, snapshot *model.Snapshot, advisories []model.RawAdvisory, now time.Time) (bool, error) {
	vulns, err := toVulnerabilities(snapshot.Ecosystem, advisories, now)
	if err != nil {
		return false, err
	}

	if err := session.DeleteVulnerabilities(ctx, snapshot.ID); err != nil {
		return false, goerr.Wrap(err, "failed to delete vulnerabilities", goerr.V("snapshot_id", snapshot.ID))
	}
	if len(vulns) > 0 {
		if err := session.BatchCreateVulnerabilities(ctx, snapshot.ID, vulns); err != nil {
			return false, goerr.Wrap(err, "failed to create vulnerabilities", goerr.V("snapshot_id", snapshot.ID))
		}
	}

	maintained, err := x.policy.IsActivelyMaintained(snapshot.Ecosystem, snapshot.LatestVersion, vulns, now)
	if err != nil {
		return false, err
	}
	if err := session.UpdateActivelyMaintained(ctx, snapshot.ID, maintained); err != nil {
		return false, goerr.Wrap(err, "failed to update is_actively_maintained", goerr.V("snapshot_id", snapshot.ID))
	}

	return maintained, nil
}

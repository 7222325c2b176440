package pkgmgr

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

func decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}

func isEmpty(data []byte) bool {
	return len(bytes.TrimSpace(data)) == 0
}

// ParseOutdated parses the JSON output of "composer outdated" or "npm outdated".
func ParseOutdated(eco types.Ecosystem, data []byte) ([]model.OutdatedEntry, error) {
	if isEmpty(data) {
		return nil, nil
	}

	switch eco {
	case types.EcosystemComposer:
		return parseComposerOutdated(data)
	case types.EcosystemNode:
		return parseNpmOutdated(data)
	}
	return nil, goerr.Wrap(types.ErrInvalidOption, "unsupported ecosystem", goerr.V("ecosystem", eco))
}

// ParseAdvisories parses the JSON output of "composer audit" or "npm audit".
func ParseAdvisories(eco types.Ecosystem, data []byte) (*model.AdvisoryReport, error) {
	if isEmpty(data) {
		return model.NewAdvisoryReport(), nil
	}

	switch eco {
	case types.EcosystemComposer:
		return parseComposerAudit(data)
	case types.EcosystemNode:
		return parseNpmAudit(data)
	}
	return nil, goerr.Wrap(types.ErrInvalidOption, "unsupported ecosystem", goerr.V("ecosystem", eco))
}

type composerOutdatedReport struct {
	Installed []struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Latest  string `json:"latest"`
	} `json:"installed"`
}

func parseComposerOutdated(data []byte) ([]model.OutdatedEntry, error) {
	var report composerOutdatedReport
	if err := decode(data, &report); err != nil {
		return nil, goerr.Wrap(err, "failed to parse composer outdated report")
	}

	entries := make([]model.OutdatedEntry, 0, len(report.Installed))
	for _, pkg := range report.Installed {
		entries = append(entries, model.OutdatedEntry{
			Name:           pkg.Name,
			CurrentVersion: pkg.Version,
			LatestVersion:  pkg.Latest,
		})
	}

	return entries, nil
}

type npmOutdatedEntry struct {
	Current string `json:"current"`
	Wanted  string `json:"wanted"`
	Latest  string `json:"latest"`
}

func parseNpmOutdated(data []byte) ([]model.OutdatedEntry, error) {
	var report map[string]npmOutdatedEntry
	if err := decode(data, &report); err != nil {
		return nil, goerr.Wrap(err, "failed to parse npm outdated report")
	}

	entries := make([]model.OutdatedEntry, 0, len(report))
	for _, name := range sortedKeys(report) {
		pkg := report[name]
		entries = append(entries, model.OutdatedEntry{
			Name:           name,
			CurrentVersion: pkg.Current,
			LatestVersion:  pkg.Latest,
		})
	}

	return entries, nil
}

type composerAuditReport struct {
	// Advisories is an object keyed by package, or an empty array when nothing was found.
	Advisories json.RawMessage `json:"advisories"`
	Abandoned  json.RawMessage `json:"abandoned"`
}

func parseComposerAudit(data []byte) (*model.AdvisoryReport, error) {
	var raw composerAuditReport
	if err := decode(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse composer audit report")
	}

	report := model.NewAdvisoryReport()

	var byPackage map[string]json.RawMessage
	if err := decodeObjectOrEmptyArray(raw.Advisories, &byPackage); err != nil {
		return nil, goerr.Wrap(err, "failed to parse composer advisories")
	}
	for name, body := range byPackage {
		advisories, err := decodeAdvisoryList(body)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to parse composer advisories", goerr.V("package", name))
		}
		report.Advisories[name] = advisories
	}

	var abandoned map[string]*string
	if err := decodeObjectOrEmptyArray(raw.Abandoned, &abandoned); err != nil {
		return nil, goerr.Wrap(err, "failed to parse composer abandoned packages")
	}
	for name, replacement := range abandoned {
		report.Abandoned[name] = replacement
	}

	return report, nil
}

// decodeAdvisoryList accepts a list of advisories or an object keyed by index.
func decodeAdvisoryList(body json.RawMessage) ([]model.RawAdvisory, error) {
	var list []model.RawAdvisory
	if err := decode(body, &list); err == nil {
		return list, nil
	}

	var indexed map[string]model.RawAdvisory
	if err := decode(body, &indexed); err != nil {
		return nil, err
	}
	for _, key := range sortedKeys(indexed) {
		list = append(list, indexed[key])
	}
	return list, nil
}

func decodeObjectOrEmptyArray(body json.RawMessage, v any) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || trimmed[0] == '[' {
		return nil
	}
	return decode(trimmed, v)
}

type npmAuditReport struct {
	Vulnerabilities map[string]model.RawAdvisory `json:"vulnerabilities"`
}

func parseNpmAudit(data []byte) (*model.AdvisoryReport, error) {
	var raw npmAuditReport
	if err := decode(data, &raw); err != nil {
		return nil, goerr.Wrap(err, "failed to parse npm audit report")
	}

	report := model.NewAdvisoryReport()
	for name, vuln := range raw.Vulnerabilities {
		report.Advisories[name] = []model.RawAdvisory{vuln}
	}
	return report, nil
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

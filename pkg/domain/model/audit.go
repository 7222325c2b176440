package model

// OutdatedEntry is one line of an ecosystem's "outdated" report.
type OutdatedEntry struct {
	Name           string
	CurrentVersion string
	LatestVersion  string
}

// RawAdvisory is an advisory as emitted by the ecosystem's audit tool. Field names differ per
// ecosystem and are resolved by the ledger's field mapping table.
type RawAdvisory map[string]any

// AdvisoryReport is the parsed result of an ecosystem's audit tool.
type AdvisoryReport struct {
	// Advisories maps a dependency identity to the advisories affecting it.
	Advisories map[string][]RawAdvisory
	// Abandoned maps a dependency identity to its replacement package. A nil value means no
	// replacement is known.
	Abandoned map[string]*string
}

func NewAdvisoryReport() *AdvisoryReport {
	return &AdvisoryReport{
		Advisories: make(map[string][]RawAdvisory),
		Abandoned:  make(map[string]*string),
	}
}

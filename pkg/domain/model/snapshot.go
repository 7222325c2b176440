package model

import (
	"time"

	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// DependencyState is the set of comparable fields of a snapshot. Two states are equal only when
// every field is exactly equal; any difference produces a new snapshot.
type DependencyState struct {
	Repository              string
	Ecosystem               types.Ecosystem
	Asset                   string
	Name                    string
	Version                 string
	LatestVersion           string
	IsNewerVersionAvailable bool
	BomRef                  types.BomRef
	IsDev                   bool
	IsAbandoned             bool
	ReplacementReference    *string
	Description             string
	Author                  string
	License                 string
}

// ManualFields are entered by operators and never computed from source data.
type ManualFields struct {
	EndOfSupport *string
	RiskLevel    *types.RiskLevel
}

// Snapshot is one historical observation of a dependency. The current snapshot of an
// (ecosystem, bom_ref) identity is the one with the highest ID.
type Snapshot struct {
	ID types.SnapshotID
	DependencyState
	IsActivelyMaintained bool
	Manual               ManualFields

	CreatedAt     time.Time
	LastSeenAt    time.Time
	CreatedRunID  types.RunID
	LastSeenRunID types.RunID
}

// Equal reports whether all comparable fields are exactly equal.
func (x DependencyState) Equal(y DependencyState) bool {
	return len(x.Diff(y)) == 0
}

// Diff returns the names of the comparable fields that differ between x and y.
func (x DependencyState) Diff(y DependencyState) []string {
	var diff []string
	add := func(name string, equal bool) {
		if !equal {
			diff = append(diff, name)
		}
	}

	add("repository", x.Repository == y.Repository)
	add("ecosystem", x.Ecosystem == y.Ecosystem)
	add("asset", x.Asset == y.Asset)
	add("name", x.Name == y.Name)
	add("version", x.Version == y.Version)
	add("latest_version", x.LatestVersion == y.LatestVersion)
	add("is_newer_version_available", x.IsNewerVersionAvailable == y.IsNewerVersionAvailable)
	add("bom_ref", x.BomRef == y.BomRef)
	add("is_dev", x.IsDev == y.IsDev)
	add("is_abandoned", x.IsAbandoned == y.IsAbandoned)
	add("replacement_reference", equalPtr(x.ReplacementReference, y.ReplacementReference))
	add("description", x.Description == y.Description)
	add("author", x.Author == y.Author)
	add("license", x.License == y.License)

	return diff
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// Copy returns a deep copy of the snapshot.
func (x *Snapshot) Copy() *Snapshot {
	if x == nil {
		return nil
	}
	cpy := *x
	cpy.ReplacementReference = copyPtr(x.ReplacementReference)
	cpy.Manual.EndOfSupport = copyPtr(x.Manual.EndOfSupport)
	cpy.Manual.RiskLevel = copyPtr(x.Manual.RiskLevel)
	return &cpy
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Package versioning compares versions and evaluates affected-version ranges with the rules of
// each package ecosystem.
package versioning

import (
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// Scheme is the version semantics of one ecosystem.
type Scheme interface {
	// Less reports whether a is an older version than b.
	Less(a, b string) (bool, error)
	// Check reports whether version satisfies a single range clause (no "|" alternatives).
	Check(clause, version string) (bool, error)
	// Validate reports an error if version cannot be parsed by the scheme.
	Validate(version string) error
}

var schemes = map[types.Ecosystem]Scheme{
	types.EcosystemComposer: &composerScheme{},
	types.EcosystemNode:     &npmScheme{},
}

// For returns the scheme of the ecosystem.
func For(eco types.Ecosystem) (Scheme, error) {
	s, ok := schemes[eco]
	if !ok {
		return nil, goerr.Wrap(types.ErrInvalidOption, "no version scheme for ecosystem", goerr.V("ecosystem", eco))
	}
	return s, nil
}

// SplitClauses splits a range expression on "|" into trimmed, non-empty clauses. Both composer
// ("|") and npm ("||") alternatives are accepted.
func SplitClauses(expr string) []string {
	var clauses []string
	for _, c := range strings.Split(expr, "|") {
		if c = strings.TrimSpace(c); c != "" {
			clauses = append(clauses, c)
		}
	}
	return clauses
}

const (
	floorVersion   = "0.0.0"
	ceilingVersion = "999999.999999.999999"
)

// RangeFilter drops range clauses that would match regardless of the version under test.
type RangeFilter struct {
	// MinLowerBound is the lowest version a clause must be able to match, e.g. "0.0.1".
	MinLowerBound string
}

// Bounded reports whether a clause should be evaluated. A clause is ignored when it cannot be
// parsed, when it matches both the floor and the ceiling version (wildcard), or when it matches
// nothing at or above MinLowerBound.
func (x RangeFilter) Bounded(s Scheme, clause string) bool {
	floor, err := s.Check(clause, floorVersion)
	if err != nil {
		return false
	}
	ceiling, err := s.Check(clause, ceilingVersion)
	if err != nil {
		return false
	}
	if floor && ceiling {
		return false
	}

	if floor {
		// matches from the bottom: it must still reach MinLowerBound
		reached, err := s.Check(clause, x.MinLowerBound)
		if err != nil || !reached {
			return false
		}
	}

	return true
}

// Affected reports whether version satisfies any bounded clause of expr.
func (x RangeFilter) Affected(s Scheme, expr, version string) bool {
	for _, clause := range SplitClauses(expr) {
		if !x.Bounded(s, clause) {
			continue
		}
		ok, err := s.Check(clause, version)
		if err == nil && ok {
			return true
		}
	}
	return false
}

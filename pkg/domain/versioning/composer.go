package versioning

import (
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
	goversion "github.com/hashicorp/go-version"
	"github.com/m-mizutani/goerr/v2"
)

type composerScheme struct{}

// Less falls back to hashicorp/go-version for versions semver rejects, such as 4-segment
// Packagist versions ("1.2.3.4").
func (x *composerScheme) Less(a, b string) (bool, error) {
	va, errA := semver.NewVersion(normalizeComposer(a))
	vb, errB := semver.NewVersion(normalizeComposer(b))
	if errA == nil && errB == nil {
		return va.LessThan(vb), nil
	}

	ga, err := goversion.NewVersion(normalizeComposer(a))
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version", goerr.V("version", a))
	}
	gb, err := goversion.NewVersion(normalizeComposer(b))
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version", goerr.V("version", b))
	}
	return ga.LessThan(gb), nil
}

// Check evaluates the clause with semver constraints. When semver rejects the clause or the
// version, it is evaluated again with hashicorp/go-version, which accepts 4-segment versions.
func (x *composerScheme) Check(clause, version string) (bool, error) {
	c, errC := semver.NewConstraint(clause)
	v, errV := semver.NewVersion(normalizeComposer(version))
	if errC == nil && errV == nil {
		return c.Check(v), nil
	}

	gc, err := goversion.NewConstraint(toGoVersionConstraint(clause))
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version constraint", goerr.V("clause", clause))
	}
	gv, err := goversion.NewVersion(normalizeComposer(version))
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version", goerr.V("version", version))
	}
	return gc.Check(gv), nil
}

func (x *composerScheme) Validate(version string) error {
	if _, err := semver.NewVersion(normalizeComposer(version)); err == nil {
		return nil
	}
	if _, err := goversion.NewVersion(normalizeComposer(version)); err != nil {
		return goerr.Wrap(err, "failed to parse version", goerr.V("version", version))
	}
	return nil
}

// toGoVersionConstraint rewrites a composer AND clause (">=1.0 <2.0", ">= 1.0, < 2.0") into the
// comma-separated form of go-version. A bare operator is joined with the version after it.
func toGoVersionConstraint(clause string) string {
	fields := strings.FieldsFunc(clause, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	var terms []string
	pending := ""
	for _, f := range fields {
		if strings.Trim(f, "<>=!~") == "" {
			pending += f
			continue
		}
		terms = append(terms, pending+f)
		pending = ""
	}
	if pending != "" {
		terms = append(terms, pending)
	}
	return strings.Join(terms, ",")
}

// normalizeComposer strips the "v" prefix and the "-dev"/"x-dev" branch aliases that composer
// reports for VCS installs.
func normalizeComposer(v string) string {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(v, "v")
	v = strings.TrimSuffix(v, ".x-dev")
	return v
}

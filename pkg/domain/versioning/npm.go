package versioning

import (
	npm "github.com/aquasecurity/go-npm-version/pkg"
	"github.com/m-mizutani/goerr/v2"
)

type npmScheme struct{}

func (x *npmScheme) Less(a, b string) (bool, error) {
	va, err := npm.NewVersion(a)
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version", goerr.V("version", a))
	}
	vb, err := npm.NewVersion(b)
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version", goerr.V("version", b))
	}
	return va.LessThan(vb), nil
}

func (x *npmScheme) Check(clause, version string) (bool, error) {
	c, err := npm.NewConstraints(clause)
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version constraint", goerr.V("clause", clause))
	}
	v, err := npm.NewVersion(version)
	if err != nil {
		return false, goerr.Wrap(err, "failed to parse version", goerr.V("version", version))
	}
	return c.Check(v), nil
}

func (x *npmScheme) Validate(version string) error {
	if _, err := npm.NewVersion(version); err != nil {
		return goerr.Wrap(err, "failed to parse version", goerr.V("version", version))
	}
	return nil
}

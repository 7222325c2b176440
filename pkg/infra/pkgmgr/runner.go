package pkgmgr

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// Runner executes a package manager command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

// NewExecRunner returns a Runner that invokes commands with os/exec.
func NewExecRunner() Runner {
	return &execRunner{}
}

// Run executes the command in dir. Audit commands exit non-zero when they find something, so a
// non-zero exit with output on stdout is not an error.
func (x *execRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && stdout.Len() > 0 {
			return stdout.Bytes(), nil
		}

		return nil, goerr.Wrap(err, "failed to run command",
			goerr.V("command", name),
			goerr.V("args", strings.Join(args, " ")),
			goerr.V("stderr", strings.TrimSpace(stderr.String())),
		)
	}

	return stdout.Bytes(), nil
}

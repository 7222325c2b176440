package pkgmgr

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// CommandSource fetches audit facts by running composer and npm in the project directory.
type CommandSource struct {
	runner   Runner
	dir      string
	composer string
	npm      string
}

var _ interfaces.AuditSource = (*CommandSource)(nil)

type CommandOption func(*CommandSource)

func WithRunner(runner Runner) CommandOption {
	return func(x *CommandSource) {
		x.runner = runner
	}
}

func WithComposerPath(path string) CommandOption {
	return func(x *CommandSource) {
		x.composer = path
	}
}

func WithNpmPath(path string) CommandOption {
	return func(x *CommandSource) {
		x.npm = path
	}
}

func NewCommandSource(dir string, options ...CommandOption) *CommandSource {
	src := &CommandSource{
		runner:   NewExecRunner(),
		dir:      dir,
		composer: "composer",
		npm:      "npm",
	}
	for _, opt := range options {
		opt(src)
	}
	return src
}

func (x *CommandSource) command(eco types.Ecosystem, kind string) (string, []string, error) {
	switch eco {
	case types.EcosystemComposer:
		if kind == "outdated" {
			return x.composer, []string{"outdated", "--direct", "--format=json", "--no-interaction"}, nil
		}
		return x.composer, []string{"audit", "--format=json", "--locked", "--no-interaction"}, nil

	case types.EcosystemNode:
		if kind == "outdated" {
			return x.npm, []string{"outdated", "--json"}, nil
		}
		return x.npm, []string{"audit", "--json"}, nil
	}

	return "", nil, goerr.Wrap(types.ErrInvalidOption, "unsupported ecosystem", goerr.V("ecosystem", eco))
}

func (x *CommandSource) run(ctx context.Context, eco types.Ecosystem, kind string) ([]byte, error) {
	name, args, err := x.command(eco, kind)
	if err != nil {
		return nil, err
	}

	logging.From(ctx).Debug("running package manager", "command", name, "args", args, "dir", x.dir)
	return x.runner.Run(ctx, x.dir, name, args...)
}

func (x *CommandSource) FetchOutdated(ctx context.Context, eco types.Ecosystem) ([]model.OutdatedEntry, error) {
	out, err := x.run(ctx, eco, "outdated")
	if err != nil {
		return nil, err
	}
	return ParseOutdated(eco, out)
}

func (x *CommandSource) FetchAdvisories(ctx context.Context, eco types.Ecosystem) (*model.AdvisoryReport, error) {
	out, err := x.run(ctx, eco, "audit")
	if err != nil {
		return nil, err
	}
	return ParseAdvisories(eco, out)
}

package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/webhubworks/goodsoup/pkg/cli/config"
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

func repositoryFlag(dst *string) cli.Flag {
	return &cli.StringFlag{
		Name:        "repository",
		Aliases:     []string{"r"},
		Usage:       "Repository name, e.g. vendor/app (default: composer.json name, then git remote origin)",
		Sources:     cli.EnvVars("GOODSOUP_REPOSITORY"),
		Destination: dst,
	}
}

// openLedger resolves the repository name of the project and opens its ledger database.
func openLedger(ctx context.Context, tooling *config.Tooling, database *config.Database, explicit string) (string, interfaces.LedgerRepository, error) {
	repository, err := DetectRepository(ctx, tooling.ProjectDir(), explicit)
	if err != nil {
		return "", nil, goerr.Wrap(err, "failed to detect repository name")
	}

	ledger, err := database.NewLedger(ctx, tooling.SBOMDir(), repository)
	if err != nil {
		return "", nil, err
	}

	logging.From(ctx).Debug("ledger opened",
		"repository", repository,
		"database", database.DSN(tooling.SBOMDir(), repository),
	)
	return repository, ledger, nil
}

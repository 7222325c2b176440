package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"
	"github.com/webhubworks/goodsoup/pkg/cli/config"
	"github.com/webhubworks/goodsoup/pkg/infra"
	"github.com/webhubworks/goodsoup/pkg/usecase"
	"github.com/webhubworks/goodsoup/pkg/utils/safe"
)

func (x *CLI) riskCommand() *cli.Command {
	var (
		database   config.Database
		tooling    config.Tooling
		repository string
	)

	return &cli.Command{
		Name:  "risk",
		Usage: "Report current dependencies without a manual risk level",
		Flags: slice.Flatten([]cli.Flag{
			repositoryFlag(&repository),
		}, tooling.Flags(), database.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			_, ledger, err := openLedger(ctx, &tooling, &database, repository)
			if err != nil {
				return err
			}
			defer safe.Close(ledger)

			uc := usecase.New(infra.New(infra.WithLedger(ledger)))
			if _, err := uc.AuditRiskLevels(ctx, x.output); err != nil {
				return goerr.Wrap(err, "failed to audit risk levels")
			}
			return nil
		},
	}
}

package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"
	"github.com/webhubworks/goodsoup/pkg/cli/config"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/infra"
	"github.com/webhubworks/goodsoup/pkg/usecase"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
	"github.com/webhubworks/goodsoup/pkg/utils/safe"
)

func (x *CLI) ingestCommand() *cli.Command {
	var (
		database   config.Database
		bigQuery   config.BigQuery
		policy     config.Policy
		tooling    config.Tooling
		repository string
	)

	return &cli.Command{
		Name:    "ingest",
		Aliases: []string{"i"},
		Usage:   "Reconcile SBOMs of the project into the dependency ledger",
		Flags: slice.Flatten([]cli.Flag{
			repositoryFlag(&repository),
		}, tooling.Flags(), database.Flags(), policy.Flags(), bigQuery.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.From(ctx).Info("Starting ingest",
				slog.String("repository", repository),
				slog.Any("tooling", &tooling),
				slog.Any("database", &database),
				slog.Any("policy", &policy),
				slog.Any("bigquery", &bigQuery),
			)

			maintenance, err := policy.MaintenancePolicy()
			if err != nil {
				return err
			}

			name, ledger, err := openLedger(ctx, &tooling, &database, repository)
			if err != nil {
				return err
			}
			defer safe.Close(ledger)

			bqClient, err := bigQuery.NewClient(ctx)
			if err != nil {
				return err
			}

			clientOpts := []infra.Option{
				infra.WithLedger(ledger),
				infra.WithAuditSource(tooling.NewAuditSource()),
			}
			if bqClient != nil {
				clientOpts = append(clientOpts, infra.WithBigQuery(bqClient))
			}

			uc := usecase.New(infra.New(clientOpts...),
				usecase.WithMaintenancePolicy(maintenance),
				usecase.WithOutput(x.output),
			)

			result, err := uc.Ingest(ctx, &model.IngestInput{
				Repository: name,
				Ecosystems: tooling.Inputs(),
			})
			if err != nil {
				return goerr.Wrap(err, "failed to ingest SBOMs")
			}

			logging.From(ctx).Info("Ingest completed successfully",
				slog.String("run_id", result.RunID.String()),
				slog.Int("missing_risk_levels", result.MissingRiskLevels),
			)
			return nil
		},
	}
}

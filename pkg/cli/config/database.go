package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
	sqlRepo "github.com/webhubworks/goodsoup/pkg/repository/sql"
)

type Database struct {
	dsn types.DatabaseDSN
}

func (x *Database) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "database",
			Usage:       "Ledger database: SQLite file path or postgres:// DSN (default: <sbom-dir>/sbom-<app>.sqlite)",
			Category:    "Database",
			Aliases:     []string{"db"},
			Destination: (*string)(&x.dsn),
			Sources:     cli.EnvVars("GOODSOUP_DATABASE"),
		},
	}
}

// DefaultDatabasePath returns the per-application SQLite file in sbomDir. The application name is
// the part of the repository name after the last "/".
func DefaultDatabasePath(sbomDir, repository string) string {
	app := repository
	if i := strings.LastIndex(app, "/"); i >= 0 {
		app = app[i+1:]
	}
	return filepath.Join(sbomDir, "sbom-"+app+".sqlite")
}

// DSN returns the configured DSN, falling back to the default SQLite file of the repository.
func (x *Database) DSN(sbomDir, repository string) types.DatabaseDSN {
	if x.dsn != "" {
		return x.dsn
	}
	return types.DatabaseDSN(DefaultDatabasePath(sbomDir, repository))
}

// NewLedger opens the ledger database and creates its schema.
func (x *Database) NewLedger(ctx context.Context, sbomDir, repository string) (*sqlRepo.Ledger, error) {
	ledger, err := sqlRepo.Open(ctx, x.DSN(sbomDir, repository))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open ledger database")
	}

	if err := ledger.Migrate(ctx); err != nil {
		_ = ledger.Close()
		return nil, goerr.Wrap(err, "failed to migrate ledger database")
	}

	return ledger, nil
}

func (x *Database) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Any("DSN", x.dsn),
	)
}

package cli

import (
	"context"
	"io"
	"os"

	"github.com/m-mizutani/gots/slice"
	"github.com/urfave/cli/v3"
	"github.com/webhubworks/goodsoup/pkg/cli/config"
	"github.com/webhubworks/goodsoup/pkg/utils/errutil"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

// ConfigureLogging is exported for testing purposes
var ConfigureLogging = logging.Configure

type CLI struct {
	output io.Writer
}

type Option func(*CLI)

// WithOutput sets where reports are printed. Logs are configured separately.
func WithOutput(w io.Writer) Option {
	return func(x *CLI) {
		x.output = w
	}
}

func New(options ...Option) *CLI {
	c := &CLI{
		output: os.Stdout,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (x *CLI) Run(argv []string) error {
	var (
		logLevel  string
		logFormat string
		logOutput string

		sentry config.Sentry
	)

	app := &cli.Command{
		Name:  "goodsoup",
		Usage: "Versioned dependency ledger for composer and npm SBOMs",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level [debug|info|warn|error]",
				Aliases:     []string{"l"},
				Sources:     cli.EnvVars("GOODSOUP_LOG_LEVEL"),
				Destination: &logLevel,
				Value:       "info",
			},
			&cli.StringFlag{
				Name:        "log-format",
				Usage:       "Log format [text|json]",
				Aliases:     []string{"f"},
				Sources:     cli.EnvVars("GOODSOUP_LOG_FORMAT"),
				Destination: &logFormat,
				Value:       "text",
			},
			&cli.StringFlag{
				Name:        "log-output",
				Usage:       "Log output [-|stdout|stderr|<file>]",
				Aliases:     []string{"o"},
				Sources:     cli.EnvVars("GOODSOUP_LOG_OUTPUT"),
				Destination: &logOutput,
				Value:       "stderr",
			},
		}, sentry.Flags()),
		Commands: []*cli.Command{
			x.ingestCommand(),
			x.riskCommand(),
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			if err := ConfigureLogging(logFormat, logLevel, logOutput); err != nil {
				return ctx, err
			}
			if err := sentry.Configure(ctx); err != nil {
				return ctx, err
			}
			return ctx, nil
		},
	}

	ctx := context.Background()
	if err := app.Run(ctx, argv); err != nil {
		errutil.HandleError(ctx, "fatal error", err)
		sentry.Flush()
		return err
	}

	return nil
}

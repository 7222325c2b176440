package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"
	"github.com/webhubworks/goodsoup/pkg/usecase"
)

// Policy holds the thresholds of the actively-maintained derivation.
type Policy struct {
	windowDays         int64
	minAffectedVersion string
}

func (x *Policy) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "maintenance-window-days",
			Usage:       "Days a dependency stays maintained after an advisory affecting its latest version",
			Category:    "Policy",
			Value:       usecase.DefaultMaintenanceWindowDays,
			Destination: &x.windowDays,
			Sources:     cli.EnvVars("GOODSOUP_MAINTENANCE_WINDOW_DAYS"),
		},
		&cli.StringFlag{
			Name:        "min-affected-version",
			Usage:       "Range clauses that match nothing at or above this version are ignored",
			Category:    "Policy",
			Value:       usecase.DefaultMinAffectedVersion,
			Destination: &x.minAffectedVersion,
			Sources:     cli.EnvVars("GOODSOUP_MIN_AFFECTED_VERSION"),
		},
	}
}

func (x *Policy) MaintenancePolicy() (usecase.MaintenancePolicy, error) {
	policy := usecase.MaintenancePolicy{
		WindowDays:         int(x.windowDays),
		MinAffectedVersion: x.minAffectedVersion,
	}
	if err := policy.Validate(); err != nil {
		return usecase.MaintenancePolicy{}, err
	}
	return policy, nil
}

func (x *Policy) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int64("WindowDays", x.windowDays),
		slog.String("MinAffectedVersion", x.minAffectedVersion),
	)
}

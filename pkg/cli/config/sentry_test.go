package config_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/cli/config"
)

func TestSentryFlags(t *testing.T) {
	sentryConfig := &config.Sentry{}
	flags := sentryConfig.Flags()

	gt.V(t, len(flags)).Equal(3)

	// Verify flag names
	flagNames := make(map[string]bool)
	for _, flag := range flags {
		flagNames[flag.Names()[0]] = true
	}

	gt.True(t, flagNames["sentry-dsn"])
	gt.True(t, flagNames["sentry-env"])
	gt.True(t, flagNames["sentry-release"])
}

func TestSentryNotConfigured(t *testing.T) {
	sentryConfig := &config.Sentry{}
	gt.False(t, sentryConfig.Enabled())
	gt.NoError(t, sentryConfig.Configure(context.Background()))
	sentryConfig.Flush()
}

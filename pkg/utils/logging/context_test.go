package logging_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/utils/logging"
)

func TestLoggerInContext(t *testing.T) {
	var buf bytes.Buffer
	logger := gt.R1(logging.New("json", "info", &buf)).NoError(t)

	ctx := logging.With(context.Background(), logger.With("ecosystem", "node"))
	logging.From(ctx).Info("reconciled")

	gt.S(t, buf.String()).Contains(`"ecosystem":"node"`)
	gt.S(t, buf.String()).Contains("reconciled")
}

func TestFromDefault(t *testing.T) {
	logger := logging.From(context.Background())
	gt.V(t, logger.Handler()).Equal(logging.Default().Handler())
}

func TestCtxRunID(t *testing.T) {
	t.Run("a new run ID is issued once", func(t *testing.T) {
		runID, ctx := logging.CtxRunID(context.Background())
		gt.V(t, runID.String()).NotEqual("")

		again, next := logging.CtxRunID(ctx)
		gt.V(t, again).Equal(runID)
		gt.V(t, next).Equal(ctx)
	})

	t.Run("separate runs get separate IDs", func(t *testing.T) {
		first, _ := logging.CtxRunID(context.Background())
		second, _ := logging.CtxRunID(context.Background())
		gt.V(t, first).NotEqual(second)
	})
}

func TestRunIDFrom(t *testing.T) {
	_, ok := logging.RunIDFrom(context.Background())
	gt.False(t, ok)

	runID, ctx := logging.CtxRunID(context.Background())
	got, ok := logging.RunIDFrom(ctx)
	gt.True(t, ok)
	gt.V(t, got).Equal(runID)
}

func TestCtxTime(t *testing.T) {
	t.Run("wall clock by default", func(t *testing.T) {
		before := time.Now()
		got := logging.CtxTime(context.Background())
		gt.False(t, got.Before(before))
	})

	t.Run("injected clock", func(t *testing.T) {
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		ctx := logging.CtxWithTime(context.Background(), func() time.Time { return now })

		gt.V(t, logging.CtxTime(ctx)).Equal(now)
		gt.V(t, logging.CtxTime(ctx).Sub(now.AddDate(0, 0, -30))).Equal(30 * 24 * time.Hour)
	})
}

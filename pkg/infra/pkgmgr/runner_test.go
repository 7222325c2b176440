package pkgmgr_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/infra/pkgmgr"
)

func TestExecRunner(t *testing.T) {
	ctx := context.Background()
	runner := pkgmgr.NewExecRunner()

	t.Run("returns stdout", func(t *testing.T) {
		out := gt.R1(runner.Run(ctx, t.TempDir(), "sh", "-c", "echo '{}'")).NoError(t)
		gt.V(t, string(out)).Equal("{}\n")
	})

	t.Run("non-zero exit with output is not an error", func(t *testing.T) {
		out := gt.R1(runner.Run(ctx, t.TempDir(), "sh", "-c", "echo '{\"advisories\":[]}'; exit 1")).NoError(t)
		gt.V(t, string(out)).Equal("{\"advisories\":[]}\n")
	})

	t.Run("non-zero exit without output is an error", func(t *testing.T) {
		_, err := runner.Run(ctx, t.TempDir(), "sh", "-c", "echo failure >&2; exit 2")
		gt.Error(t, err)
	})

	t.Run("missing command is an error", func(t *testing.T) {
		_, err := runner.Run(ctx, t.TempDir(), "goodsoup-command-that-does-not-exist")
		gt.Error(t, err)
	})
}

package testutil_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/webhubworks/goodsoup/pkg/utils/testutil"
)

func TestGetEnvOrSkip(t *testing.T) {
	t.Setenv("TEST_GOODSOUP_ENV", "test_value")
	gt.V(t, testutil.GetEnvOrSkip(t, "TEST_GOODSOUP_ENV")).Equal("test_value")
}

func TestGetEnvsOrSkip(t *testing.T) {
	t.Setenv("TEST_GOODSOUP_PROJECT", "project")
	t.Setenv("TEST_GOODSOUP_DATASET", "dataset")

	values := testutil.GetEnvsOrSkip(t, "TEST_GOODSOUP_PROJECT", "TEST_GOODSOUP_DATASET")
	gt.V(t, values).Equal([]string{"project", "dataset"})
}

func TestGetEnvsOrSkipSkips(t *testing.T) {
	t.Setenv("TEST_GOODSOUP_PROJECT", "project")
	t.Setenv("TEST_GOODSOUP_DATASET", "")

	var skipped bool
	t.Run("inner", func(t *testing.T) {
		defer func() { skipped = t.Skipped() }()
		testutil.GetEnvsOrSkip(t, "TEST_GOODSOUP_PROJECT", "TEST_GOODSOUP_DATASET")
	})
	gt.True(t, skipped)
}

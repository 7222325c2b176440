package memory_test

import (
	"testing"

	"github.com/webhubworks/goodsoup/pkg/repository/memory"
	"github.com/webhubworks/goodsoup/pkg/repository/testhelper"
)

func TestMemoryLedger(t *testing.T) {
	testhelper.TestAll(t, memory.New())
}

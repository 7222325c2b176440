package usecase_test

import (
	"testing"

	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/infra"
	"github.com/webhubworks/goodsoup/pkg/usecase"
)

func TestNew(t *testing.T) {
	t.Run("create new usecase with all clients", func(t *testing.T) {
		clients := infra.New()
		uc := usecase.New(clients)

		// Test that methods are accessible (compile-time check)
		var _ interfaces.UseCase = uc
		_ = uc.Ingest
		_ = uc.AuditRiskLevels
	})
}

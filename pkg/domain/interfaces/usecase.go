package interfaces

import (
	"context"
	"io"

	"github.com/webhubworks/goodsoup/pkg/domain/model"
)

type UseCase interface {
	Ingest(ctx context.Context, input *model.IngestInput) (*model.IngestResult, error)
	AuditRiskLevels(ctx context.Context, w io.Writer) (int, error)
}

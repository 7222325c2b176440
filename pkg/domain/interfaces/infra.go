package interfaces

//go:generate moq -out ../mock/infra.go -pkg mock . BigQuery AuditSource

import (
	"context"

	"cloud.google.com/go/bigquery"

	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

type BigQuery interface {
	Insert(ctx context.Context, schema bigquery.Schema, data any, opts ...InsertOption) error

	GetMetadata(ctx context.Context) (*bigquery.TableMetadata, error)
	UpdateTable(ctx context.Context, md bigquery.TableMetadataToUpdate, eTag string) error
	CreateTable(ctx context.Context, md *bigquery.TableMetadata) error
}

type InsertOptions struct {
	// Retry enables retrying an insert rejected because the table schema was just updated and the
	// write stream still sees the old one.
	Retry bool
}

type InsertOption func(*InsertOptions)

func WithRetry(retry bool) InsertOption {
	return func(o *InsertOptions) {
		o.Retry = retry
	}
}

// AuditSource provides the outdated and advisory facts of an ecosystem. Missing data is reported
// as an empty result, not as an error.
type AuditSource interface {
	FetchOutdated(ctx context.Context, eco types.Ecosystem) ([]model.OutdatedEntry, error)
	FetchAdvisories(ctx context.Context, eco types.Ecosystem) (*model.AdvisoryReport, error)
}

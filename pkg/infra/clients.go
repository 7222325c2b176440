package infra

import (
	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
)

type Clients struct {
	ledger      interfaces.LedgerRepository
	auditSource interfaces.AuditSource
	bqClient    interfaces.BigQuery
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) Ledger() interfaces.LedgerRepository {
	return x.ledger
}
func (x *Clients) AuditSource() interfaces.AuditSource {
	return x.auditSource
}
func (x *Clients) BigQuery() interfaces.BigQuery {
	return x.bqClient
}

func WithLedger(repo interfaces.LedgerRepository) Option {
	return func(x *Clients) {
		x.ledger = repo
	}
}

func WithAuditSource(src interfaces.AuditSource) Option {
	return func(x *Clients) {
		x.auditSource = src
	}
}

func WithBigQuery(client interfaces.BigQuery) Option {
	return func(x *Clients) {
		x.bqClient = client
	}
}

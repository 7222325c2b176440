package usecase

import (
	"io"
	"os"

	"github.com/webhubworks/goodsoup/pkg/domain/interfaces"
	"github.com/webhubworks/goodsoup/pkg/infra"
)

type UseCase struct {
	clients *infra.Clients
	policy  MaintenancePolicy
	output  io.Writer
}

var _ interfaces.UseCase = (*UseCase)(nil)

type Option func(*UseCase)

// WithMaintenancePolicy sets the thresholds of the actively-maintained derivation.
func WithMaintenancePolicy(policy MaintenancePolicy) Option {
	return func(x *UseCase) {
		x.policy = policy
	}
}

// WithOutput sets where the risk-level report of an ingestion run is printed.
func WithOutput(w io.Writer) Option {
	return func(x *UseCase) {
		x.output = w
	}
}

func New(clients *infra.Clients, options ...Option) *UseCase {
	uc := &UseCase{
		clients: clients,
		policy:  DefaultMaintenancePolicy(),
		output:  os.Stdout,
	}

	for _, opt := range options {
		opt(uc)
	}

	return uc
}

package types

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
)

type (
	Ecosystem   string
	BomRef      string
	SnapshotID  int64
	RunID       string
	RiskLevel   string
	DatabaseDSN string
)

const (
	EcosystemComposer Ecosystem = "composer"
	EcosystemNode     Ecosystem = "node"
)

// Ecosystems lists every supported ecosystem in processing order.
var Ecosystems = []Ecosystem{EcosystemComposer, EcosystemNode}

func (x Ecosystem) String() string { return string(x) }

func (x Ecosystem) Validate() error {
	switch x {
	case EcosystemComposer, EcosystemNode:
		return nil
	}
	return goerr.Wrap(ErrInvalidOption, "unsupported ecosystem", goerr.V("ecosystem", x))
}

func (x BomRef) String() string { return string(x) }

func NewRunID() RunID {
	return RunID(uuid.NewString())
}

func (x RunID) String() string { return string(x) }

func (x DatabaseDSN) String() string {
	return "***********"
}

func (x DatabaseDSN) LogValue() slog.Value {
	return slog.StringValue("***********")
}

// Raw returns the DSN value itself for handing it to the driver.
func (x DatabaseDSN) Raw() string {
	return string(x)
}

package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// SnapshotFilter narrows ListCurrentSnapshots.
type SnapshotFilter struct {
	MissingRiskLevel bool
}

// EcosystemInput locates the inputs of one ecosystem.
type EcosystemInput struct {
	Ecosystem    types.Ecosystem
	SBOMPath     string
	ManifestPath string
}

type IngestInput struct {
	Repository string
	Ecosystems []EcosystemInput
}

func (x *IngestInput) Validate() error {
	if x.Repository == "" {
		return goerr.Wrap(types.ErrValidationFailed, "repository name is empty")
	}
	for _, eco := range x.Ecosystems {
		if err := eco.Ecosystem.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Outcome is the transition taken by the upsert engine for one dependency.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeChanged Outcome = "changed"
	OutcomeTouched Outcome = "touched"
)

// EcosystemResult counts the upsert outcomes of one ecosystem.
type EcosystemResult struct {
	Ecosystem types.Ecosystem
	Created   int
	Changed   int
	Touched   int
}

func (x *EcosystemResult) Add(o Outcome) {
	switch o {
	case OutcomeCreated:
		x.Created++
	case OutcomeChanged:
		x.Changed++
	case OutcomeTouched:
		x.Touched++
	}
}

type IngestResult struct {
	RunID             types.RunID
	Ecosystems        []EcosystemResult
	MissingRiskLevels int
}

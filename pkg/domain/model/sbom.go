package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// SBOM is the subset of a CycloneDX JSON document that the ledger consumes.
type SBOM struct {
	BOMFormat   string      `json:"bomFormat,omitempty"`
	SpecVersion string      `json:"specVersion,omitempty"`
	Components  []Component `json:"components"`
}

type Component struct {
	Type        string          `json:"type,omitempty"`
	Group       string          `json:"group,omitempty"`
	Name        string          `json:"name,omitempty"`
	Version     string          `json:"version,omitempty"`
	BomRef      types.BomRef    `json:"bom-ref,omitempty"`
	PURL        string          `json:"purl,omitempty"`
	Description string          `json:"description,omitempty"`
	Author      string          `json:"author,omitempty"`
	Licenses    []LicenseChoice `json:"licenses,omitempty"`
}

type LicenseChoice struct {
	License    *License `json:"license,omitempty"`
	Expression string   `json:"expression,omitempty"`
}

type License struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

// Identity returns "group/name" if the component has a group, otherwise name.
func (x Component) Identity() string {
	if x.Group != "" {
		return x.Group + "/" + x.Name
	}
	return x.Name
}

// Validate rejects documents that declare a format other than CycloneDX. Components with missing
// fields are accepted; their values degrade to empty strings.
func (x *SBOM) Validate() error {
	if x.BOMFormat != "" && x.BOMFormat != "CycloneDX" {
		return goerr.Wrap(types.ErrValidationFailed, "unsupported SBOM format",
			goerr.V("bomFormat", x.BOMFormat),
		)
	}
	return nil
}

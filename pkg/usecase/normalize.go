package usecase

import (
	"strings"

	"github.com/package-url/packageurl-go"
	"github.com/webhubworks/goodsoup/pkg/domain/model"
	"github.com/webhubworks/goodsoup/pkg/domain/types"
)

// licenseString joins the SPDX ids of a component's licenses with ", ". Entries without an id
// (name-only licenses and expressions) are skipped.
func licenseString(c model.Component) string {
	var ids []string
	for _, choice := range c.Licenses {
		if choice.License != nil && choice.License.ID != "" {
			ids = append(ids, choice.License.ID)
		}
	}
	return strings.Join(ids, ", ")
}

// normalizeComponent fills group, name, version and bom-ref from the purl when the component does
// not carry them itself.
func normalizeComponent(c model.Component) model.Component {
	if c.PURL == "" {
		return c
	}

	if c.BomRef == "" {
		c.BomRef = types.BomRef(c.PURL)
	}
	if c.Name != "" && c.Version != "" {
		return c
	}

	purl, err := packageurl.FromString(c.PURL)
	if err != nil {
		return c
	}

	if c.Name == "" {
		c.Group = purl.Namespace
		c.Name = purl.Name
	}
	if c.Version == "" {
		c.Version = purl.Version
	}

	return c
}

package usecase

import (
	"github.com/webhubworks/goodsoup/pkg/domain/model"
)

type directComponent struct {
	Component model.Component
	IsDev     bool
}

// filterDirect keeps the components declared as direct runtime or dev dependencies of the manifest.
// Transitive-only components are dropped.
func filterDirect(components []model.Component, manifest *model.Manifest) []directComponent {
	all, dev := manifest.DirectSet()

	var filtered []directComponent
	for _, c := range components {
		c = normalizeComponent(c)
		identity := c.Identity()

		if _, ok := all[identity]; !ok {
			continue
		}
		_, isDev := dev[identity]

		filtered = append(filtered, directComponent{
			Component: c,
			IsDev:     isDev,
		})
	}

	return filtered
}

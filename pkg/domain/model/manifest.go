package model

// Manifest holds the direct dependency declarations of a project for one ecosystem.
type Manifest struct {
	// Name is the package name declared by the manifest itself, e.g. "vendor/app" in composer.json.
	Name            string
	Dependencies    []string
	DevDependencies []string
}

// DirectSet returns the identities declared as runtime or dev dependencies, and the dev subset.
func (x *Manifest) DirectSet() (all map[string]struct{}, dev map[string]struct{}) {
	all = make(map[string]struct{}, len(x.Dependencies)+len(x.DevDependencies))
	dev = make(map[string]struct{}, len(x.DevDependencies))

	for _, name := range x.Dependencies {
		all[name] = struct{}{}
	}
	for _, name := range x.DevDependencies {
		all[name] = struct{}{}
		dev[name] = struct{}{}
	}

	return all, dev
}

// pattern: Functional Core

package manifest

import (
	"sort"
)

// DescriptorFile is the per-project local package descriptor.
const DescriptorFile = "colcon.pkg"

// RepositoriesExt is appended to the project name to form the repository manifest filename.
const RepositoriesExt = ".repos"

// Descriptor is the content of a colcon.pkg file.
type Descriptor struct {
	Name         string   `yaml:"name"`
	Dependencies []string `yaml:"dependencies"`
}

// RepoSpec describes one entry of a repository manifest.
// Only Version is used for resolution; the rest is carried for diagnostics.
type RepoSpec struct {
	Type    string `yaml:"type"`
	URL     string `yaml:"url"`
	Version string `yaml:"version"`
}

// Repositories is the content of a <project>.repos file.
type Repositories struct {
	Entries map[string]RepoSpec `yaml:"repositories"`
}

// Lookup returns the spec for name.
func (r *Repositories) Lookup(name string) (RepoSpec, bool) {
	if r == nil {
		return RepoSpec{}, false
	}
	spec, ok := r.Entries[name]
	return spec, ok
}

// Names returns the entry names in lexical order.
func (r *Repositories) Names() []string {
	if r == nil {
		return nil
	}
	names := make([]string, 0, len(r.Entries))
	for name := range r.Entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// pattern: Functional Core

package resolver

import (
	"path/filepath"
	"strings"
)

// Project is a resolved workspace member.
type Project struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	MountBase string `json:"mount_base"`
	Suffix    string `json:"suffix,omitempty"`
}

// Edge records that From pulled To into the workspace.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Registry is the append-only result of a resolution run: one Project per
// name, in discovery order. The first project is the root.
type Registry struct {
	projects []Project
	index    map[string]int
	edges    []Edge
	edgeSeen map[Edge]bool
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		index:    make(map[string]int),
		edgeSeen: make(map[Edge]bool),
	}
}

// Add registers p. It reports false, leaving the registry unchanged, when the
// name is already present.
func (r *Registry) Add(p Project) bool {
	if _, ok := r.index[p.Name]; ok {
		return false
	}
	r.index[p.Name] = len(r.projects)
	r.projects = append(r.projects, p)
	return true
}

// Has reports whether name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Get returns the project registered under name.
func (r *Registry) Get(name string) (Project, bool) {
	i, ok := r.index[name]
	if !ok {
		return Project{}, false
	}
	return r.projects[i], true
}

// Root returns the first registered project.
func (r *Registry) Root() (Project, bool) {
	if len(r.projects) == 0 {
		return Project{}, false
	}
	return r.projects[0], true
}

// Len returns the number of registered projects.
func (r *Registry) Len() int {
	return len(r.projects)
}

// Projects returns a copy of the registered projects in discovery order.
func (r *Registry) Projects() []Project {
	out := make([]Project, len(r.projects))
	copy(out, r.projects)
	return out
}

// Names returns the registered names in discovery order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.projects))
	for i, p := range r.projects {
		names[i] = p.Name
	}
	return names
}

// Edges returns the dependency edges in discovery order.
func (r *Registry) Edges() []Edge {
	out := make([]Edge, len(r.edges))
	copy(out, r.edges)
	return out
}

// AddEdge records that from depends on to. Self-edges and repeats are ignored.
func (r *Registry) AddEdge(from, to string) {
	e := Edge{From: from, To: to}
	if from == to || r.edgeSeen[e] {
		return
	}
	r.edgeSeen[e] = true
	r.edges = append(r.edges, e)
}

// MountBase strips a trailing /<suffix> from path. The result stays stable
// across checkouts of different branches of the same repository.
func MountBase(path, suffix string) string {
	if suffix == "" {
		return path
	}
	tail := string(filepath.Separator) + filepath.FromSlash(suffix)
	if strings.HasSuffix(path, tail) && len(path) > len(tail) {
		return strings.TrimSuffix(path, tail)
	}
	return path
}

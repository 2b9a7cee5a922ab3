// pattern: Functional Core

package render

import (
	"encoding/json"
	"io"

	"devloy/internal/resolver"
)

// RegistryDocument is the JSON form of a resolution result.
type RegistryDocument struct {
	Root     string             `json:"root,omitempty"`
	Projects []resolver.Project `json:"projects"`
	Edges    []resolver.Edge    `json:"edges"`
}

// NameDocument is the JSON form of a root-only resolution.
type NameDocument struct {
	Name      string `json:"name"`
	Suffix    string `json:"suffix,omitempty"`
	Container string `json:"container"`
	Image     string `json:"image,omitempty"`
}

// NewRegistryDocument converts reg for encoding.
func NewRegistryDocument(reg *resolver.Registry) RegistryDocument {
	doc := RegistryDocument{
		Projects: []resolver.Project{},
		Edges:    []resolver.Edge{},
	}
	if reg == nil {
		return doc
	}
	if root, ok := reg.Root(); ok {
		doc.Root = root.Name
	}
	doc.Projects = reg.Projects()
	doc.Edges = reg.Edges()
	return doc
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

package container

import "strings"

// ContainerState represents the current state of a container.
type ContainerState string

const (
	StateAbsent  ContainerState = "absent"
	StateRunning ContainerState = "running"
	StateStopped ContainerState = "stopped"
)

// Mount is a bind mount reported by `inspect`.
type Mount struct {
	Type        string `yaml:"Type"`
	Source      string `yaml:"Source"`
	Destination string `yaml:"Destination"`
}

// IsScratch reports whether the mount holds build output that is discarded
// together with the environment.
func (m Mount) IsScratch() bool {
	return strings.HasSuffix(m.Destination, "build") || strings.HasSuffix(m.Destination, "install")
}

// Name returns the container name of a development environment:
// dev_<project>_<suffix>, with '/' replaced by '-'. Without a suffix the
// trailing part is dropped.
func Name(project, suffix string) string {
	name := "dev_" + project
	if suffix != "" {
		name += "_" + suffix
	}
	return strings.ReplaceAll(name, "/", "-")
}

// pattern: Imperative Shell
package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"devloy/internal/config"
	"devloy/internal/container"
	"devloy/internal/git"
	"devloy/internal/logging"
	"devloy/internal/render"
	"devloy/internal/resolver"
)

// Env carries what commands need from the outside world.
type Env struct {
	Config   config.Config
	Logs     logging.LoggerProvider
	Git      *git.Client
	Runtime  *container.Runtime
	StateDir string
	Stdout   io.Writer
	Stderr   io.Writer

	// Plain strips escape sequences from table output, e.g. when stdout is piped.
	Plain bool
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (e *Env) styles() *render.Styles {
	return render.NewStyles(e.Config.Theme)
}

// resolveFlags are the flags shared by commands that walk the workspace.
type resolveFlags struct {
	root            string
	allDeps         bool
	strictFirstRoot bool
}

func (e *Env) newResolver(f resolveFlags) *resolver.Resolver {
	return resolver.New(resolver.Options{
		Root:            f.root,
		SearchPaths:     e.Config.ResolvedSearchPaths(),
		AllDeps:         e.Config.AllDeps || f.allDeps,
		StrictFirstRoot: e.Config.StrictFirstRoot || f.strictFirstRoot,
	}, e.Git, e.Logs.For("resolver"))
}

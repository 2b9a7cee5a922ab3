// pattern: Imperative Shell

package resolver

import (
	"context"
	"fmt"

	"devloy/internal/locator"
	"devloy/internal/logging"
)

// VCS answers the identity questions the resolver asks of a checkout.
type VCS interface {
	RepoName(ctx context.Context, dir string) (string, error)
	CurrentBranch(ctx context.Context, dir string) (string, error)
}

// Options configures a Resolver.
type Options struct {
	// Root is the directory of the project being started. Defaults to ".".
	Root string

	// SearchPaths are scanned in order for dependency checkouts.
	SearchPaths []string

	// AllDeps also pulls in every repository manifest entry that is not an
	// explicit dependency.
	AllDeps bool

	// StrictFirstRoot only consults the first search path.
	StrictFirstRoot bool
}

// Resolver computes the dependency closure of a root project.
// A Resolver is not safe for concurrent use.
type Resolver struct {
	opts    Options
	vcs     VCS
	locator *locator.Locator
	log     *logging.ScopedLogger
	queue   *worklist
}

// New creates a Resolver. A nil logger discards diagnostics.
func New(opts Options, vcs VCS, logger *logging.ScopedLogger) *Resolver {
	if opts.Root == "" {
		opts.Root = "."
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Resolver{
		opts:    opts,
		vcs:     vcs,
		locator: locator.New(opts.SearchPaths, opts.StrictFirstRoot),
		log:     logger,
		queue:   newWorklist(),
	}
}

func (r *Resolver) seed() {
	if r.queue.len() == 0 {
		r.queue.push(Entry{Path: r.opts.Root})
	}
}

// Resolve walks the dependency graph breadth-first from the root and returns
// every project found, root first. An unresolvable root yields an empty
// registry and no error. A malformed root manifest is returned wrapped in
// ErrRootManifest; malformed manifests of dependencies are logged and skipped.
func (r *Resolver) Resolve(ctx context.Context) (*Registry, error) {
	r.seed()
	defer func() { r.queue = newWorklist() }()
	reg := NewRegistry()
	isRoot := true

	for {
		if err := ctx.Err(); err != nil {
			return reg, err
		}
		e, ok := r.queue.pop()
		if !ok {
			break
		}
		root := isRoot
		isRoot = false

		id, ok, err := r.resolveIdentity(ctx, e, root)
		if err != nil {
			if root {
				return reg, r.rootError(err)
			}
			r.log.Error("skipping project with unreadable descriptor",
				"diag", DiagManifestParse, "path", e.Path, "error", err)
			continue
		}
		if !ok {
			continue
		}
		if reg.Has(id.Name) {
			r.log.Debug("project already registered", "project", id.Name)
			continue
		}

		p := Project{
			Name:      id.Name,
			Path:      id.Path,
			MountBase: MountBase(id.Path, id.Suffix),
			Suffix:    id.Suffix,
		}
		reg.Add(p)
		r.log.Debug("registered project", "project", p.Name, "path", p.Path, "suffix", p.Suffix)

		if err := r.expand(p, id.deps, reg); err != nil {
			if root {
				return reg, r.rootError(err)
			}
			r.log.Error("skipping dependencies of project with unreadable manifest",
				"diag", DiagManifestParse, "project", p.Name, "error", err)
		}
	}
	return reg, nil
}

func (r *Resolver) rootError(err error) error {
	if isParseError(err) {
		return fmt.Errorf("%w: %w", ErrRootManifest, err)
	}
	return err
}

// ResolveRoot identifies only the root project. The updated entry goes back
// to the head of the worklist so a following Resolve reuses it without asking
// git again. A root without a name yields ErrNameUnresolved; a malformed root
// descriptor yields an error wrapping ErrRootManifest.
func (r *Resolver) ResolveRoot(ctx context.Context) (name, suffix string, err error) {
	r.seed()
	e, _ := r.queue.pop()

	id, ok, err := r.resolveIdentity(ctx, e, true)
	if err != nil {
		r.queue.pushFront(e)
		return "", "", r.rootError(err)
	}
	if !ok {
		r.queue.pushFront(e)
		return "", "", fmt.Errorf("%w in %s", ErrNameUnresolved, e.Path)
	}
	r.queue.pushFront(id.Entry)
	return id.Name, id.Suffix, nil
}

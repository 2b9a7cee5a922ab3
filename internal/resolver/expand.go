// pattern: Imperative Shell

package resolver

import (
	"devloy/internal/logging"
	"devloy/internal/manifest"
)

// expand turns the dependencies of a registered project into worklist entries.
// Explicit dependencies come first, in descriptor order. Remaining manifest
// entries follow in name order when there were no explicit dependencies or
// all-deps mode is on. The manifest itself is only read; a local consumed set
// tracks which entries the explicit pass already used.
func (r *Resolver) expand(p Project, explicit []string, reg *Registry) error {
	repos, err := manifest.ReadRepositories(p.Path, p.Name)
	if err != nil {
		return err
	}
	log := r.log.With("project", p.Name)
	if repos == nil {
		log.Debug("no repository manifest", "path", manifest.RepositoriesPath(p.Path, p.Name))
		return nil
	}

	consumed := make(map[string]bool, len(explicit))
	for _, dep := range explicit {
		consumed[dep] = true
		spec, _ := repos.Lookup(dep)
		r.enqueue(log, reg, p.Name, dep, spec.Version)
	}

	if len(explicit) > 0 && !r.opts.AllDeps {
		return nil
	}
	for _, dep := range repos.Names() {
		if consumed[dep] || dep == p.Name {
			continue
		}
		spec, _ := repos.Lookup(dep)
		r.enqueue(log, reg, p.Name, dep, spec.Version)
	}
	return nil
}

// enqueue locates dep and appends it to the worklist unless it is already
// registered or pending.
func (r *Resolver) enqueue(log *logging.ScopedLogger, reg *Registry, parent, dep, hint string) {
	if dep == "" {
		return
	}
	if reg.Has(dep) || r.queue.isPending(dep) {
		reg.AddEdge(parent, dep)
		log.Debug("dependency already known", "dependency", dep)
		return
	}
	match := r.locator.Locate(dep, hint)
	if !match.Found {
		log.Debug("dependency not found in search paths",
			"diag", DiagLocatorMiss, "dependency", dep, "version", hint)
		return
	}
	r.queue.push(Entry{Name: dep, Path: match.Path, Suffix: match.Suffix})
	reg.AddEdge(parent, dep)
	log.Debug("queued dependency", "dependency", dep, "path", match.Path, "suffix", match.Suffix)
}

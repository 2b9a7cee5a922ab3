// pattern: Imperative Shell

package resolver

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"devloy/internal/logging"
	"devloy/internal/manifest"
)

// identity is what the resolver learns about one entry before registering it.
type identity struct {
	Entry
	deps []string
}

// resolveIdentity fills in absolute path, name and (for the root) suffix of e,
// and reads the descriptor dependencies. ok is false when the project has to
// be skipped. err is only set for an unparseable descriptor.
func (r *Resolver) resolveIdentity(ctx context.Context, e Entry, isRoot bool) (id identity, ok bool, err error) {
	path, err := filepath.Abs(e.Path)
	if err != nil {
		return identity{}, false, fmt.Errorf("resolving path %s: %w", e.Path, err)
	}
	id.Entry = e
	id.Path = path

	log := r.log.With("path", path)

	desc, err := manifest.ReadDescriptor(path)
	if err != nil {
		return identity{}, false, err
	}
	if desc != nil && desc.Name != "" {
		switch {
		case id.Name == "":
			id.Name = desc.Name
		case id.Name != desc.Name:
			log.Warn("descriptor name differs from requested name, keeping requested",
				"diag", DiagNameConflict, "requested", id.Name, "descriptor", desc.Name)
		}
		id.deps = desc.Dependencies
	}

	if id.Name == "" {
		name, err := r.vcs.RepoName(ctx, path)
		if err != nil {
			log.Debug("could not read origin remote", "diag", DiagVCSFailure, "error", err)
		}
		id.Name = name
	}
	if id.Name == "" {
		log.Error("cannot determine project name", "diag", DiagNameUnresolved)
		return identity{}, false, nil
	}

	if isRoot && !e.identified && id.Suffix == "" {
		id.Suffix = r.rootSuffix(ctx, id.Name, path, log)
	}
	id.identified = true
	return id, true, nil
}

// rootSuffix compares the checked-out branch with the suffix implied by the
// directory layout. The directory wins on mismatch.
func (r *Resolver) rootSuffix(ctx context.Context, name, path string, log *logging.ScopedLogger) string {
	fromDir := dirSuffix(path, name)
	branch, err := r.vcs.CurrentBranch(ctx, path)
	if err != nil {
		log.Debug("could not read current branch", "diag", DiagVCSFailure, "error", err)
		return fromDir
	}
	if branch != fromDir {
		log.Warn("checked-out branch differs from directory suffix, using directory suffix",
			"diag", DiagSuffixMismatch, "branch", branch, "directory_suffix", fromDir)
	}
	return fromDir
}

// dirSuffix returns the part of path after the last segment equal to name.
func dirSuffix(path, name string) string {
	segments := strings.Split(filepath.ToSlash(filepath.Clean(path)), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] == name {
			return strings.Join(segments[i+1:], "/")
		}
	}
	return ""
}

// isParseError reports whether err came from a malformed manifest.
func isParseError(err error) bool {
	return errors.Is(err, manifest.ErrParse)
}

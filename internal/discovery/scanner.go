// pattern: Imperative Shell

package discovery

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"devloy/internal/logging"
	"devloy/internal/manifest"
)

// WorktreeLister returns `git worktree list --porcelain` output for a directory.
type WorktreeLister interface {
	WorktreeList(ctx context.Context, dir string) (string, error)
}

// Scanner lists the repositories available under the search paths.
type Scanner struct {
	git    WorktreeLister
	logger *logging.ScopedLogger
}

// NewScanner creates a new repository scanner. A nil git skips worktree listing.
func NewScanner(git WorktreeLister, logger *logging.ScopedLogger) *Scanner {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Scanner{git: git, logger: logger}
}

// ScanAll walks each search path one level deep for repositories and one
// more level for branch checkouts. Results keep search path order, then name
// order within a path.
func (s *Scanner) ScanAll(ctx context.Context, paths []string) []Repository {
	var repos []Repository
	seenDir := make(map[string]bool)
	seenName := make(map[string]bool)

	for _, scanPath := range paths {
		entries, err := os.ReadDir(scanPath)
		if err != nil {
			s.logger.Debug("skipping search path", "path", scanPath, "error", err)
			continue
		}

		for _, entry := range entries {
			if ctx.Err() != nil {
				return repos
			}
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			repoPath := filepath.Join(scanPath, entry.Name())

			// Resolve symlinks to get canonical path
			resolved, err := filepath.EvalSymlinks(repoPath)
			if err != nil {
				resolved = repoPath
			}
			if seenDir[resolved] {
				continue
			}
			seenDir[resolved] = true

			checkouts := s.checkouts(ctx, entry.Name(), repoPath)
			if len(checkouts) == 0 {
				continue
			}

			repos = append(repos, Repository{
				Name:      entry.Name(),
				Root:      scanPath,
				Checkouts: checkouts,
				Shadowed:  seenName[entry.Name()],
			})
			seenName[entry.Name()] = true
		}
	}

	return repos
}

// checkouts returns the plain checkout (if repoPath is one) followed by
// branch checkouts in its direct subdirectories, sorted by suffix.
func (s *Scanner) checkouts(ctx context.Context, name, repoPath string) []Checkout {
	var out []Checkout
	if isCheckout(repoPath) {
		out = append(out, s.describe(ctx, name, repoPath, ""))
	}

	entries, err := os.ReadDir(repoPath)
	if err != nil {
		return out
	}
	var branches []Checkout
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		dir := filepath.Join(repoPath, entry.Name())
		if isCheckout(dir) {
			branches = append(branches, s.describe(ctx, name, dir, entry.Name()))
		}
	}
	sort.Slice(branches, func(i, j int) bool { return branches[i].Suffix < branches[j].Suffix })
	return append(out, branches...)
}

func (s *Scanner) describe(ctx context.Context, name, dir, suffix string) Checkout {
	c := Checkout{
		Suffix:   suffix,
		Path:     dir,
		HasRepos: fileExists(manifest.RepositoriesPath(dir, name)),
	}
	desc, err := manifest.ReadDescriptor(dir)
	if err != nil {
		s.logger.Warn("unreadable descriptor", "path", dir, "error", err)
	} else if desc != nil {
		c.Descriptor = desc.Name
	}
	c.Worktrees = s.listWorktrees(ctx, dir)
	return c
}

// isCheckout reports whether dir looks like a working copy: it holds a .git
// entry (directory or worktree file) or a colcon.pkg descriptor.
func isCheckout(dir string) bool {
	return fileExists(filepath.Join(dir, ".git")) || fileExists(manifest.DescriptorPath(dir))
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// listWorktrees asks git for linked worktrees of dir.
// Returns nil if not a git repo or no additional worktrees exist.
func (s *Scanner) listWorktrees(ctx context.Context, dir string) []Worktree {
	if s.git == nil || !fileExists(filepath.Join(dir, ".git")) {
		return nil
	}
	output, err := s.git.WorktreeList(ctx, dir)
	if err != nil {
		s.logger.Debug("git worktree list failed", "path", dir, "error", err)
		return nil
	}
	return parseWorktreeList(output)
}

// parseWorktreeList parses the porcelain output of `git worktree list`.
// Format:
//
//	worktree /path/to/worktree
//	HEAD abc123
//	branch refs/heads/branch-name
//	<blank line>
//
// The first entry is the main worktree; we skip it and return only additional worktrees.
func parseWorktreeList(output string) []Worktree {
	var worktrees []Worktree
	var current *Worktree

	scanner := bufio.NewScanner(strings.NewReader(output))
	isFirst := true
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "worktree "):
			if current != nil && !isFirst {
				worktrees = append(worktrees, *current)
			}
			if current != nil {
				isFirst = false
			}
			path := strings.TrimPrefix(line, "worktree ")
			current = &Worktree{Path: path, Name: filepath.Base(path)}
		case strings.HasPrefix(line, "branch ") && current != nil:
			current.Branch = strings.TrimPrefix(line, "branch refs/heads/")
		case line == "" && current != nil:
			if !isFirst {
				worktrees = append(worktrees, *current)
			}
			isFirst = false
			current = nil
		}
	}

	// Handle last entry if no trailing newline
	if current != nil && !isFirst {
		worktrees = append(worktrees, *current)
	}

	return worktrees
}

// pattern: Functional Core

package locator

import (
	"os"
	"path/filepath"
)

// DefaultBranch is probed when a dependency carries no branch hint.
const DefaultBranch = "master"

// Match is the outcome of a lookup. Suffix is empty when the repository was
// found without a branch directory.
type Match struct {
	Path   string
	Suffix string
	Found  bool
}

// Locator searches an ordered list of root directories for repositories laid
// out as <root>/<name>[/<branch>].
type Locator struct {
	SearchPaths []string

	// Strict stops after the first search path even when it yields nothing.
	// The default scans every root in order.
	Strict bool

	isDir func(string) bool
}

// New creates a Locator over searchPaths.
func New(searchPaths []string, strict bool) *Locator {
	return &Locator{SearchPaths: searchPaths, Strict: strict, isDir: isDir}
}

// Locate returns the first matching checkout of name.
// Per root: <root>/<name>/<hint> when a hint is given, otherwise
// <root>/<name>/master, then <root>/<name>.
func (l *Locator) Locate(name, branchHint string) Match {
	check := l.isDir
	if check == nil {
		check = isDir
	}

	for _, root := range l.SearchPaths {
		repoPath := filepath.Join(root, name)

		if branchHint != "" {
			if p := filepath.Join(repoPath, branchHint); check(p) {
				return Match{Path: p, Suffix: branchHint, Found: true}
			}
		} else if p := filepath.Join(repoPath, DefaultBranch); check(p) {
			return Match{Path: p, Suffix: DefaultBranch, Found: true}
		}

		if check(repoPath) {
			return Match{Path: repoPath, Found: true}
		}

		if l.Strict {
			break
		}
	}
	return Match{}
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

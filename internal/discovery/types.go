// pattern: Functional Core

package discovery

// Worktree represents a linked git worktree of a checkout.
type Worktree struct {
	Name   string `json:"name"`   // Worktree directory name
	Path   string `json:"path"`   // Absolute path to the worktree directory
	Branch string `json:"branch"` // Git branch name
}

// Checkout is one working copy of a repository. An empty Suffix is the plain
// <root>/<name> layout; otherwise the checkout lives in <root>/<name>/<suffix>.
type Checkout struct {
	Suffix     string     `json:"suffix,omitempty"`
	Path       string     `json:"path"`
	Descriptor string     `json:"descriptor,omitempty"` // Name declared in colcon.pkg, if any
	HasRepos   bool       `json:"has_repos"`            // Whether <name>.repos is present
	Worktrees  []Worktree `json:"worktrees,omitempty"`  // Linked worktrees (empty if none)
}

// Repository is a <root>/<name> directory holding at least one checkout.
type Repository struct {
	Name      string     `json:"name"`
	Root      string     `json:"root"` // Search path it was found under
	Checkouts []Checkout `json:"checkouts"`

	// Shadowed is set when an earlier search path already provides Name.
	// The locator never selects a shadowed repository.
	Shadowed bool `json:"shadowed,omitempty"`
}

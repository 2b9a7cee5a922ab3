package resolver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"devloy/internal/logging"
	"devloy/internal/manifest"
)

// fakeVCS answers from maps keyed by absolute directory.
type fakeVCS struct {
	names       map[string]string
	branches    map[string]string
	nameCalls   int
	branchCalls int
}

func (f *fakeVCS) RepoName(_ context.Context, dir string) (string, error) {
	f.nameCalls++
	if name, ok := f.names[dir]; ok {
		return name, nil
	}
	return "", errors.New("fatal: not a git repository")
}

func (f *fakeVCS) CurrentBranch(_ context.Context, dir string) (string, error) {
	f.branchCalls++
	if branch, ok := f.branches[dir]; ok {
		return branch, nil
	}
	return "", errors.New("fatal: not a git repository")
}

func mkdir(t *testing.T, parts ...string) string {
	t.Helper()
	dir := filepath.Join(parts...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating %s: %v", dir, err)
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func writeDescriptor(t *testing.T, dir, name string, deps ...string) {
	t.Helper()
	var sb strings.Builder
	fmt.Fprintf(&sb, "name: %s\n", name)
	if len(deps) > 0 {
		sb.WriteString("dependencies:\n")
		for _, d := range deps {
			fmt.Fprintf(&sb, "  - %s\n", d)
		}
	}
	writeFile(t, manifest.DescriptorPath(dir), sb.String())
}

// writeRepos writes <dir>/<project>.repos. Values are branch hints, "" for none.
func writeRepos(t *testing.T, dir, project string, entries map[string]string) {
	t.Helper()
	names := make([]string, 0, len(entries))
	for n := range entries {
		names = append(names, n)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString("repositories:\n")
	for _, n := range names {
		fmt.Fprintf(&sb, "  %s:\n    type: git\n    url: https://example.com/org/%s.git\n", n, n)
		if v := entries[n]; v != "" {
			fmt.Fprintf(&sb, "    version: %s\n", v)
		}
	}
	writeFile(t, manifest.RepositoriesPath(dir, project), sb.String())
}

// workspace is a root checkout plus one search path.
type workspace struct {
	root   string
	search string
	vcs    *fakeVCS
	logs   *logging.TestLogManager
}

func newWorkspace(t *testing.T) *workspace {
	t.Helper()
	base := t.TempDir()
	w := &workspace{
		root:   mkdir(t, base, "ws", "core"),
		search: mkdir(t, base, "src"),
		vcs:    &fakeVCS{names: map[string]string{}, branches: map[string]string{}},
		logs:   logging.NewTestLogManager(512),
	}
	w.vcs.branches[w.root] = ""
	t.Cleanup(func() { w.logs.Close() })
	return w
}

// dep creates a checkout of name in the search path and returns its directory.
func (w *workspace) dep(t *testing.T, name string, parts ...string) string {
	t.Helper()
	return mkdir(t, append([]string{w.search, name}, parts...)...)
}

func (w *workspace) resolver(opts Options) *Resolver {
	if opts.Root == "" {
		opts.Root = w.root
	}
	if opts.SearchPaths == nil {
		opts.SearchPaths = []string{w.search}
	}
	return New(opts, w.vcs, w.logs.For("resolver"))
}

func (w *workspace) entriesWithDiag(diag string) []logging.LogEntry {
	return w.logs.Diagnostics(diag)
}

func mustResolve(t *testing.T, r *Resolver) *Registry {
	t.Helper()
	reg, err := r.Resolve(context.Background())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	return reg
}

func assertNames(t *testing.T, reg *Registry, want ...string) {
	t.Helper()
	got := reg.Names()
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

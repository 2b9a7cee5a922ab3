//go:build e2e
// +build e2e

package e2e

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"devloy/internal/cli"
	"devloy/internal/config"
	"devloy/internal/container"
	"devloy/internal/git"
	"devloy/internal/logging"
)

// SkipIfRuntimeMissing skips the test if the specified runtime is not available.
func SkipIfRuntimeMissing(t *testing.T, runtime string) {
	t.Helper()
	if _, err := exec.LookPath(runtime); err != nil {
		t.Skipf("Skipping test: %s not found in PATH", runtime)
	}
}

// SkipIfGitMissing skips the test if git is not available.
func SkipIfGitMissing(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("Skipping test: git not found in PATH")
	}
}

// WriteFile creates path and its parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
}

// InitRepo turns dir into a git repository on branch with one empty commit.
// A non-empty remote is registered as origin.
func InitRepo(t *testing.T, dir, branch, remote string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create %s: %v", dir, err)
	}
	runGit(t, dir, "init", "-q", "-b", branch)
	runGit(t, dir, "-c", "user.name=e2e", "-c", "user.email=e2e@example.com",
		"commit", "-q", "--allow-empty", "-m", "init")
	if remote != "" {
		runGit(t, dir, "remote", "add", "origin", remote)
	}
}

func runGit(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v failed: %v\n%s", args, err, out)
	}
}

// TestEnv is a CLI environment backed by the real git binary and runtime.
type TestEnv struct {
	*cli.Env
	Stdout *bytes.Buffer
	Stderr *bytes.Buffer
}

// NewTestEnv creates an environment resolving against searchPaths.
func NewTestEnv(t *testing.T, runtime string, searchPaths ...string) *TestEnv {
	t.Helper()
	logs := logging.NewTestLogManager(256)
	t.Cleanup(func() { logs.Close() })

	te := &TestEnv{Stdout: &bytes.Buffer{}, Stderr: &bytes.Buffer{}}
	te.Env = &cli.Env{
		Config:   config.Config{SearchPaths: searchPaths, Theme: config.DefaultTheme, Runtime: runtime},
		Logs:     logs,
		Git:      git.NewClient(config.DefaultGitTimeout),
		Runtime:  container.NewRuntime(runtime),
		StateDir: t.TempDir(),
		Stdout:   te.Stdout,
		Stderr:   te.Stderr,
		Plain:    true,
	}
	return te
}

// Run executes one devloy command line.
func (te *TestEnv) Run(args ...string) int {
	return cli.BuildApp("e2e", te.Env).Execute(context.Background(), args)
}

// CleanupContainer removes a container after test.
func CleanupContainer(t *testing.T, runtime, containerID string) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Force remove the container
	cmd := exec.CommandContext(ctx, runtime, "rm", "-f", containerID)
	if err := cmd.Run(); err != nil {
		t.Logf("Warning: failed to cleanup container %s: %v", containerID, err)
	}
}

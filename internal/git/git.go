// pattern: Imperative Shell

package git

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// DefaultTimeout bounds every git invocation when no timeout is configured.
const DefaultTimeout = 5 * time.Second

// Executor runs a command in dir and returns its stdout.
type Executor func(ctx context.Context, dir, name string, args ...string) (string, error)

// Client issues best-effort git queries. A failed or timed-out query is an
// absence of information, never a fatal condition for the caller.
type Client struct {
	exec    Executor
	timeout time.Duration
}

// NewClient creates a Client backed by the git binary on PATH.
func NewClient(timeout time.Duration) *Client {
	return NewClientWithExecutor(defaultExecutor, timeout)
}

// NewClientWithExecutor creates a Client with a custom executor for testing.
func NewClientWithExecutor(exec Executor, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{exec: exec, timeout: timeout}
}

func defaultExecutor(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return stdout.String(), nil
}

func (c *Client) output(ctx context.Context, dir string, args ...string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.exec(ctx, dir, "git", args...)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), ctx.Err())
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return strings.TrimSpace(out), nil
}

// RemoteURL returns the URL of the origin remote of the repository at dir.
func (c *Client) RemoteURL(ctx context.Context, dir string) (string, error) {
	url, err := c.output(ctx, dir, "remote", "get-url", "origin")
	if err != nil {
		return "", err
	}
	if url == "" {
		return "", fmt.Errorf("git remote get-url origin: empty output in %s", dir)
	}
	return url, nil
}

// CurrentBranch returns the checked-out branch at dir.
// A detached HEAD yields an empty string and no error.
func (c *Client) CurrentBranch(ctx context.Context, dir string) (string, error) {
	branch, err := c.output(ctx, dir, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if branch == "HEAD" {
		return "", nil
	}
	return branch, nil
}

// RepoName derives the repository name from the origin URL of dir.
func (c *Client) RepoName(ctx context.Context, dir string) (string, error) {
	url, err := c.RemoteURL(ctx, dir)
	if err != nil {
		return "", err
	}
	return NameFromURL(url), nil
}

// WorktreeList returns the porcelain output of `git worktree list` for dir.
func (c *Client) WorktreeList(ctx context.Context, dir string) (string, error) {
	return c.output(ctx, dir, "worktree", "list", "--porcelain")
}

// NameFromURL drops a trailing ".git" and keeps what follows the last '/'.
//
//	git@github.com:org/core.git  -> core
//	https://example.com/org/core -> core
func NameFromURL(url string) string {
	url = strings.TrimSuffix(strings.TrimSpace(url), ".git")
	if i := strings.LastIndex(url, "/"); i >= 0 {
		url = url[i+1:]
	}
	return url
}

// pattern: Imperative Shell

package container

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

// CommandExecutor is a function that executes a command and returns its output.
type CommandExecutor func(ctx context.Context, name string, args ...string) (string, error)

// Runtime wraps Docker or Podman CLI operations.
type Runtime struct {
	executable string
	exec       CommandExecutor
}

// NewRuntime creates a new Runtime with the specified executable (docker or podman).
func NewRuntime(executable string) *Runtime {
	return &Runtime{
		executable: executable,
		exec:       defaultExecutor,
	}
}

// NewRuntimeWithExecutor creates a new Runtime with a custom executor for testing.
func NewRuntimeWithExecutor(executable string, exec CommandExecutor) *Runtime {
	return &Runtime{
		executable: executable,
		exec:       exec,
	}
}

// Executable returns the runtime binary name.
func (r *Runtime) Executable() string {
	return r.executable
}

// defaultExecutor runs commands using os/exec.
func defaultExecutor(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
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

// nameFilter matches exactly one container name, not every name containing it.
func nameFilter(name string) string {
	return "name=^" + regexp.QuoteMeta(name) + "$"
}

// State reports whether the named container exists and whether it runs.
func (r *Runtime) State(ctx context.Context, name string) (ContainerState, error) {
	all, err := r.exec(ctx, r.executable, "ps", "-q", "--all", "--filter", nameFilter(name))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(all) == "" {
		return StateAbsent, nil
	}

	running, err := r.exec(ctx, r.executable, "ps", "-q", "--filter", nameFilter(name))
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(running) == "" {
		return StateStopped, nil
	}
	return StateRunning, nil
}

// StopContainer stops a container by name or ID.
func (r *Runtime) StopContainer(ctx context.Context, id string) error {
	_, err := r.exec(ctx, r.executable, "stop", id)
	return err
}

// RemoveContainer removes a container by name or ID.
func (r *Runtime) RemoveContainer(ctx context.Context, id string) error {
	_, err := r.exec(ctx, r.executable, "rm", id)
	return err
}

// Mounts returns the mounts of a container from `inspect`.
func (r *Runtime) Mounts(ctx context.Context, id string) ([]Mount, error) {
	output, err := r.exec(ctx, r.executable, "inspect", id)
	if err != nil {
		return nil, err
	}
	return parseInspectMounts(output)
}

// inspectJSON is the subset of `inspect` output we read. JSON is valid YAML,
// so both Docker and Podman output decode with the YAML parser.
type inspectJSON struct {
	Mounts []Mount `yaml:"Mounts"`
}

func parseInspectMounts(output string) ([]Mount, error) {
	output = strings.TrimSpace(output)
	if output == "" {
		return nil, nil
	}
	var info []inspectJSON
	if err := yaml.Unmarshal([]byte(output), &info); err != nil {
		return nil, fmt.Errorf("parsing inspect output: %w", err)
	}
	if len(info) == 0 {
		return nil, nil
	}
	return info[0].Mounts, nil
}

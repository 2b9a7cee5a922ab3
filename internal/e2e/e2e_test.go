//go:build e2e
// +build e2e

package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"devloy/internal/manifest"
	"devloy/internal/render"
)

const testImage = "busybox:latest"

func TestResolveWithGit(t *testing.T) {
	SkipIfGitMissing(t)

	base := t.TempDir()
	root := filepath.Join(base, "ws", "core", "feature-x")
	search := filepath.Join(base, "src")
	utils := filepath.Join(search, "utils")

	InitRepo(t, root, "feature-x", "")
	WriteFile(t, manifest.DescriptorPath(root), "name: core\ndependencies: [utils]\n")
	WriteFile(t, manifest.RepositoriesPath(root, "core"), "repositories:\n  utils:\n    type: git\n    url: https://example.com/org/utils.git\n")

	// utils has no descriptor: its name comes from the origin remote.
	InitRepo(t, utils, "main", "https://example.com/org/utils.git")

	te := NewTestEnv(t, "docker", search)
	if code := te.Run("resolve", "-C", root, "--json"); code != 0 {
		t.Fatalf("resolve exit code = %d, stderr = %s", code, te.Stderr.String())
	}

	var doc render.RegistryDocument
	if err := json.Unmarshal(te.Stdout.Bytes(), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(doc.Projects) != 2 {
		t.Fatalf("Projects = %+v, want core and utils", doc.Projects)
	}
	if doc.Projects[0].Suffix != "feature-x" {
		t.Errorf("root suffix = %q, want feature-x", doc.Projects[0].Suffix)
	}
	if doc.Projects[0].MountBase != filepath.Join(base, "ws", "core") {
		t.Errorf("root mount base = %q", doc.Projects[0].MountBase)
	}
	if doc.Projects[1].Name != "utils" {
		t.Errorf("dependency name = %q, want utils", doc.Projects[1].Name)
	}
}

func TestNameFromBranch(t *testing.T) {
	SkipIfGitMissing(t)

	root := filepath.Join(t.TempDir(), "core")
	InitRepo(t, root, "main", "git@example.com:org/core.git")

	te := NewTestEnv(t, "docker")
	if code := te.Run("name", "-C", root); code != 0 {
		t.Fatalf("name exit code = %d, stderr = %s", code, te.Stderr.String())
	}
	// A plain checkout has no directory suffix; that wins over the branch.
	if got := strings.TrimSpace(te.Stdout.String()); got != "dev_core" {
		t.Errorf("name = %q, want dev_core", got)
	}
}

// testStopRemovesEnvironment creates a container the way devloy names it,
// with build and install mounts, and checks that stop removes both.
func testStopRemovesEnvironment(t *testing.T, runtime string) {
	SkipIfRuntimeMissing(t, runtime)

	base := t.TempDir()
	project := fmt.Sprintf("e2e%d", time.Now().UnixNano())
	root := filepath.Join(base, project)
	WriteFile(t, manifest.DescriptorPath(root), "name: "+project+"\n")

	build := filepath.Join(base, "scratch", "build")
	install := filepath.Join(base, "scratch", "install")
	for _, dir := range []string{build, install} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}

	containerName := "dev_" + project
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	create := exec.CommandContext(ctx, runtime, "run", "-d", "--name", containerName,
		"-v", build+":/ws/build",
		"-v", install+":/ws/install",
		testImage, "sleep", "300")
	if out, err := create.CombinedOutput(); err != nil {
		t.Skipf("Skipping test: cannot start %s container: %v\n%s", runtime, err, out)
	}
	defer CleanupContainer(t, runtime, containerName)

	te := NewTestEnv(t, runtime)
	if code := te.Run("stop", "-C", root); code != 0 {
		t.Fatalf("stop exit code = %d, stderr = %s", code, te.Stderr.String())
	}
	if !strings.Contains(te.Stdout.String(), containerName+" removed") {
		t.Errorf("output = %q", te.Stdout.String())
	}

	out, err := exec.Command(runtime, "ps", "-aq", "--filter", "name=^"+containerName+"$").Output()
	if err != nil {
		t.Fatalf("%s ps: %v", runtime, err)
	}
	if strings.TrimSpace(string(out)) != "" {
		t.Errorf("container %s still exists", containerName)
	}
	for _, dir := range []string{build, install} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("scratch directory %s was not deleted", dir)
		}
	}

	te.Stdout.Reset()
	if code := te.Run("stop", "-C", root); code != 0 {
		t.Fatalf("second stop exit code = %d", code)
	}
	if !strings.Contains(te.Stdout.String(), "was not started") {
		t.Errorf("second stop output = %q", te.Stdout.String())
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "defaults.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return configPath
}

func TestLoadFullConfig(t *testing.T) {
	configPath := writeConfig(t, `
search-paths:
  - /src/ros
  - /src/vendor
all-deps: true
strict-first-root: true
git-timeout: 2s
log-level: debug
log-file: /tmp/devloy.log
theme: latte
runtime: podman
docker:
  image: ros:humble
`)

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}

	if len(cfg.SearchPaths) != 2 || cfg.SearchPaths[0] != "/src/ros" || cfg.SearchPaths[1] != "/src/vendor" {
		t.Errorf("SearchPaths: got %v", cfg.SearchPaths)
	}
	if !cfg.AllDeps {
		t.Error("AllDeps: got false, want true")
	}
	if !cfg.StrictFirstRoot {
		t.Error("StrictFirstRoot: got false, want true")
	}
	if d, _ := cfg.GitTimeoutDuration(); d != 2*time.Second {
		t.Errorf("GitTimeoutDuration: got %v, want 2s", d)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel: got %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.LogFile != "/tmp/devloy.log" {
		t.Errorf("LogFile: got %q", cfg.LogFile)
	}
	if cfg.Theme != "latte" {
		t.Errorf("Theme: got %q, want %q", cfg.Theme, "latte")
	}
	if cfg.Runtime != "podman" {
		t.Errorf("Runtime: got %q, want %q", cfg.Runtime, "podman")
	}
	if cfg.Docker.Image != "ros:humble" {
		t.Errorf("Docker.Image: got %q, want %q", cfg.Docker.Image, "ros:humble")
	}
}

func TestLoadFrom_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("Theme = %q, want %q", cfg.Theme, DefaultTheme)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if len(cfg.SearchPaths) != 0 {
		t.Errorf("SearchPaths = %v, want none", cfg.SearchPaths)
	}
}

func TestLoadFrom_EmptyValuesUseDefaults(t *testing.T) {
	cfg, err := LoadFrom(writeConfig(t, "theme: \"\"\nsearch-paths: [/src]\n"))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}
	if cfg.Theme != DefaultTheme {
		t.Errorf("Theme = %q, want %q", cfg.Theme, DefaultTheme)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
}

func TestLoadFrom_InvalidYAML(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "search-paths: [unterminated\n"))
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoadFrom_InvalidGitTimeout(t *testing.T) {
	_, err := LoadFrom(writeConfig(t, "git-timeout: soon\n"))
	if err == nil || !strings.Contains(err.Error(), "git-timeout") {
		t.Fatalf("expected git-timeout error, got %v", err)
	}

	_, err = LoadFrom(writeConfig(t, "git-timeout: -1s\n"))
	if err == nil {
		t.Fatal("expected error for negative git-timeout")
	}
}

func TestGitTimeoutDuration_Default(t *testing.T) {
	cfg := DefaultConfig()
	d, err := cfg.GitTimeoutDuration()
	if err != nil {
		t.Fatalf("GitTimeoutDuration() error = %v", err)
	}
	if d != DefaultGitTimeout {
		t.Errorf("GitTimeoutDuration() = %v, want %v", d, DefaultGitTimeout)
	}
}

func TestResolvedSearchPaths(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	cfg := Config{SearchPaths: []string{"~/src", "", "  ", "/abs", "~"}}

	got := cfg.ResolvedSearchPaths()
	want := []string{filepath.Join(home, "src"), "/abs", home}
	if len(got) != len(want) {
		t.Fatalf("ResolvedSearchPaths() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ResolvedSearchPaths()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExpandHome_LeavesOtherPathsAlone(t *testing.T) {
	for _, p := range []string{"/abs", "rel/dir", "~user/src"} {
		if got := ExpandHome(p); got != p {
			t.Errorf("ExpandHome(%q) = %q, want unchanged", p, got)
		}
	}
}

func TestDeduceImage(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		override string
		want     string
	}{
		{"override wins", Config{Docker: DockerConfig{Image: "ros:humble"}}, "custom:1", "custom:1"},
		{"config image", Config{Docker: DockerConfig{Image: "ros:humble"}}, "", "ros:humble"},
		{"default", Config{}, "", DefaultImage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.DeduceImage(tt.override); got != tt.want {
				t.Errorf("DeduceImage(%q) = %q, want %q", tt.override, got, tt.want)
			}
		})
	}
}

func TestPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	want := filepath.Join(dir, "devloy", "defaults.yaml")
	if got := Path(); got != want {
		t.Errorf("Path() = %q, want %q", got, want)
	}
}

func TestStateDir_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_STATE_HOME", dir)

	if got := StateDir(); got != filepath.Join(dir, "devloy") {
		t.Errorf("StateDir() = %q", got)
	}
}

func TestDetectedRuntime_ConfiguredValue(t *testing.T) {
	cfg := Config{Runtime: "podman"}
	got := cfg.DetectedRuntimeWith(func(string) (string, error) { return "", os.ErrNotExist })
	if got != "podman" {
		t.Errorf("DetectedRuntime: got %q, want %q", got, "podman")
	}
}

func TestDetectedRuntime_AutoDetect(t *testing.T) {
	cfg := Config{}
	got := cfg.DetectedRuntimeWith(func(name string) (string, error) {
		if name == "docker" {
			return "/usr/bin/docker", nil
		}
		return "", os.ErrNotExist
	})
	if got != "docker" {
		t.Errorf("DetectedRuntime: got %q, want %q", got, "docker")
	}
}

func TestDetectedRuntime_AutoDetectPodman(t *testing.T) {
	cfg := Config{}
	got := cfg.DetectedRuntimeWith(func(name string) (string, error) {
		if name == "podman" {
			return "/usr/bin/podman", nil
		}
		return "", os.ErrNotExist
	})
	if got != "podman" {
		t.Errorf("DetectedRuntime: got %q, want %q", got, "podman")
	}
}

func TestDetectedRuntime_AutoDetectFallback(t *testing.T) {
	cfg := Config{}
	got := cfg.DetectedRuntimeWith(func(name string) (string, error) {
		return "", os.ErrNotExist
	})
	if got != "docker" {
		t.Errorf("DetectedRuntime fallback: got %q, want %q", got, "docker")
	}
}

func TestValidateRuntime(t *testing.T) {
	found := func(name string) (string, error) { return "/usr/bin/" + name, nil }
	missing := func(name string) (string, error) { return "", os.ErrNotExist }

	tests := []struct {
		name    string
		runtime string
		look    LookPathFunc
		wantErr string
	}{
		{"empty skips validation", "", missing, ""},
		{"docker found", "docker", found, ""},
		{"podman found", "podman", found, ""},
		{"invalid runtime", "containerd", found, "runtime must be 'docker' or 'podman', got: containerd"},
		{"docker missing", "docker", missing, "runtime 'docker' not found in PATH"},
		{"podman missing", "podman", missing, "runtime 'podman' not found in PATH"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Runtime: tt.runtime}
			err := cfg.ValidateRuntimeWith(tt.look)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("ValidateRuntime: expected nil, got %v", err)
				}
				return
			}
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("ValidateRuntime: got %v, want %q", err, tt.wantErr)
			}
		})
	}
}

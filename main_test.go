package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"devloy/internal/config"
)

func TestLoadConfig_ExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	if err := os.WriteFile(path, []byte("search-paths: [/src]\nall-deps: true\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if !cfg.AllDeps || len(cfg.SearchPaths) != 1 || cfg.SearchPaths[0] != "/src" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadConfig_InvalidFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	if err := os.WriteFile(path, []byte("git-timeout: soon\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid git-timeout")
	}
	if cfg.Theme != config.DefaultTheme {
		t.Errorf("Theme = %q, want defaults", cfg.Theme)
	}
}

func TestLogManagerInitialization(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "logs", "devloy.log")
	var console bytes.Buffer

	cfg := config.DefaultConfig()
	cfg.LogFile = logPath
	lm, err := newLogManager(cfg, true, &console)
	if err != nil {
		t.Fatalf("newLogManager: %v", err)
	}
	defer lm.Close()

	lm.For("resolver").Debug("test message", "diag", "locator_miss")
	_ = lm.Sync()

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Error("log file was not created")
	}
	if !strings.Contains(console.String(), "test message") {
		t.Errorf("debug message missing from console: %q", console.String())
	}
}

func TestLogManager_InfoLevelHidesDebug(t *testing.T) {
	var console bytes.Buffer
	lm, err := newLogManager(config.DefaultConfig(), false, &console)
	if err != nil {
		t.Fatalf("newLogManager: %v", err)
	}
	defer lm.Close()

	lm.For("resolver").Debug("hidden")
	lm.For("resolver").Warn("shown")
	_ = lm.Sync()

	if strings.Contains(console.String(), "hidden") {
		t.Errorf("debug message should be filtered: %q", console.String())
	}
	if !strings.Contains(console.String(), "shown") {
		t.Errorf("warn message missing: %q", console.String())
	}
}

func onPath(names ...string) config.LookPathFunc {
	return func(name string) (string, error) {
		for _, n := range names {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", os.ErrNotExist
	}
}

func TestNewEnv_InvalidTimeout(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.GitTimeout = "-1s"
	if _, err := newEnv(cfg, nil, onPath("docker")); err == nil {
		t.Fatal("expected error for negative git-timeout")
	}
}

func TestNewEnv_RejectsUnknownRuntime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "defaults.yaml")
	if err := os.WriteFile(path, []byte("runtime: rkt\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	_, err = newEnv(cfg, nil, onPath("docker", "podman", "rkt"))
	if err == nil || !strings.Contains(err.Error(), "runtime must be 'docker' or 'podman'") {
		t.Fatalf("newEnv error = %v, want runtime rejected", err)
	}
}

func TestNewEnv_RejectsMissingRuntime(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Runtime = "podman"
	if _, err := newEnv(cfg, nil, onPath("docker")); err == nil {
		t.Fatal("expected error for a runtime missing from PATH")
	}
}

func TestNewEnv(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Runtime = "podman"
	env, err := newEnv(cfg, nil, onPath("podman"))
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	if env.Runtime.Executable() != "podman" {
		t.Errorf("runtime = %q, want podman", env.Runtime.Executable())
	}
	if env.StateDir == "" {
		t.Error("StateDir should be set")
	}
}

func TestNewEnv_AutoDetectsRuntime(t *testing.T) {
	env, err := newEnv(config.DefaultConfig(), nil, onPath("podman"))
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	if env.Runtime.Executable() != "podman" {
		t.Errorf("runtime = %q, want podman", env.Runtime.Executable())
	}
}

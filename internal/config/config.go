package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTheme      = "mocha"
	DefaultImage      = "ubuntu:latest"
	DefaultGitTimeout = 5 * time.Second
)

// Config mirrors ~/.config/devloy/defaults.yaml.
type Config struct {
	SearchPaths     []string     `yaml:"search-paths"`
	AllDeps         bool         `yaml:"all-deps"`
	StrictFirstRoot bool         `yaml:"strict-first-root"`
	GitTimeout      string       `yaml:"git-timeout"`
	LogLevel        string       `yaml:"log-level"`
	LogFile         string       `yaml:"log-file"`
	Theme           string       `yaml:"theme"`
	Runtime         string       `yaml:"runtime"`
	Docker          DockerConfig `yaml:"docker"`
}

type DockerConfig struct {
	Image string `yaml:"image"`
}

// LookPathFunc is the function signature for looking up executables.
type LookPathFunc func(name string) (string, error)

func DefaultConfig() Config {
	return Config{
		Theme:    DefaultTheme,
		LogLevel: "info",
	}
}

// Load reads the config from the default location.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config at configPath. A missing file yields defaults.
func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", configPath, err)
	}

	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if _, err := cfg.GitTimeoutDuration(); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing %s: %w", configPath, err)
	}

	return cfg, nil
}

// ResolvedSearchPaths returns the search paths with ~ expanded and blanks dropped.
func (c *Config) ResolvedSearchPaths() []string {
	paths := make([]string, 0, len(c.SearchPaths))
	for _, p := range c.SearchPaths {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		paths = append(paths, ExpandHome(p))
	}
	return paths
}

// GitTimeoutDuration parses git-timeout, falling back to DefaultGitTimeout.
func (c *Config) GitTimeoutDuration() (time.Duration, error) {
	if c.GitTimeout == "" {
		return DefaultGitTimeout, nil
	}
	d, err := time.ParseDuration(c.GitTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid git-timeout %q: %w", c.GitTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid git-timeout %q: must be positive", c.GitTimeout)
	}
	return d, nil
}

// DeduceImage picks the container image: override, then docker.image, then DefaultImage.
func (c *Config) DeduceImage(override string) string {
	if override != "" {
		return override
	}
	if c.Docker.Image != "" {
		return c.Docker.Image
	}
	return DefaultImage
}

// DetectedRuntimeWith returns the configured runtime or auto-detects it
// using the provided lookup function.
func (c *Config) DetectedRuntimeWith(lookPath LookPathFunc) string {
	if c.Runtime != "" {
		return c.Runtime
	}

	// Try docker first, then podman
	if _, err := lookPath("docker"); err == nil {
		return "docker"
	}
	if _, err := lookPath("podman"); err == nil {
		return "podman"
	}

	return "docker"
}

// ValidateRuntimeWith checks a configured runtime using lookPath.
// An empty runtime is auto-detected later and always valid.
func (c *Config) ValidateRuntimeWith(lookPath LookPathFunc) error {
	switch c.Runtime {
	case "":
		return nil
	case "docker", "podman":
	default:
		return fmt.Errorf("runtime must be 'docker' or 'podman', got: %s", c.Runtime)
	}
	if _, err := lookPath(c.Runtime); err != nil {
		return fmt.Errorf("runtime '%s' not found in PATH", c.Runtime)
	}
	return nil
}

// ExpandHome replaces a leading ~ with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

// Path returns the default config file location.
func Path() string {
	return filepath.Join(configDir(), "defaults.yaml")
}

// StateDir is where devloy keeps lock files.
func StateDir() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return filepath.Join(xdgState, "devloy")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".local", "state", "devloy")
	}
	return filepath.Join(home, ".local", "state", "devloy")
}

func configDir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "devloy")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", "devloy")
	}

	return filepath.Join(home, ".config", "devloy")
}

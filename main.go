// pattern: Imperative Shell
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	flag "github.com/spf13/pflag"

	"devloy/internal/cli"
	"devloy/internal/config"
	"devloy/internal/container"
	"devloy/internal/git"
	"devloy/internal/logging"
)

var version = "dev"

func main() {
	// Stop parsing flags after the first non-flag arg (the subcommand),
	// so that --help after a subcommand is handled by the subcommand.
	flag.CommandLine.SetInterspersed(false)

	configPath := flag.String("config", "", "config file (default: ~/.config/devloy/defaults.yaml)")
	debug := flag.Bool("debug", false, "log debug diagnostics to stderr")

	// Override flag.Usage before Parse so --help uses the CLI app's help
	flag.Usage = func() {
		cli.BuildApp(version, &cli.Env{Stderr: os.Stderr}).PrintHelp(os.Stderr)
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}

	logManager, err := newLogManager(cfg, *debug, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	env, err := newEnv(cfg, logManager, exec.LookPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		_ = logManager.Close()
		os.Exit(1)
	}

	code := cli.BuildApp(version, env).Execute(context.Background(), flag.Args())
	_ = logManager.Close()
	os.Exit(code)
}

// loadConfig loads the configuration from path, or from the default location.
// On error the defaults are returned alongside it.
func loadConfig(path string) (config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func newLogManager(cfg config.Config, debug bool, console io.Writer) (*logging.Manager, error) {
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	return logging.NewManager(logging.Config{
		Console:    console,
		FilePath:   config.ExpandHome(cfg.LogFile),
		MaxSizeMB:  10,
		MaxBackups: 3,
		MaxAgeDays: 7,
		Level:      level,
	})
}

func newEnv(cfg config.Config, logs logging.LoggerProvider, lookPath config.LookPathFunc) (*cli.Env, error) {
	timeout, err := cfg.GitTimeoutDuration()
	if err != nil {
		return nil, err
	}
	if err := cfg.ValidateRuntimeWith(lookPath); err != nil {
		return nil, err
	}
	return &cli.Env{
		Config:   cfg,
		Logs:     logs,
		Git:      git.NewClient(timeout),
		Runtime:  container.NewRuntime(cfg.DetectedRuntimeWith(lookPath)),
		StateDir: config.StateDir(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Plain:    !cli.IsTerminal(os.Stdout),
	}, nil
}

// pattern: Functional Core
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	flag "github.com/spf13/pflag"
)

// Command represents a single CLI command with its metadata and handler.
type Command struct {
	Name    string
	Summary string
	Usage   string
	Run     func(ctx context.Context, args []string) error
}

// App represents the top-level CLI application.
type App struct {
	commands map[string]*Command
	order    []string
	version  string
	stderr   io.Writer
}

// NewApp creates a new CLI application with the given version.
func NewApp(version string, stderr io.Writer) *App {
	return &App{
		commands: make(map[string]*Command),
		version:  version,
		stderr:   stderr,
	}
}

// AddCommand registers a command. Help lists commands in registration order.
func (a *App) AddCommand(cmd *Command) {
	if _, ok := a.commands[cmd.Name]; !ok {
		a.order = append(a.order, cmd.Name)
	}
	a.commands[cmd.Name] = cmd
}

// Execute dispatches args to the matching command and returns the process
// exit code.
func (a *App) Execute(ctx context.Context, args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		a.PrintHelp(a.stderr)
		if len(args) == 0 {
			return 1
		}
		return 0
	}

	cmd, ok := a.commands[args[0]]
	if !ok {
		fmt.Fprintf(a.stderr, "error: unknown command %q\n\n", args[0])
		a.PrintHelp(a.stderr)
		return 1
	}

	if err := cmd.Run(ctx, args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// PrintHelp prints the top-level help text.
func (a *App) PrintHelp(w io.Writer) {
	fmt.Fprintf(w, "Usage: devloy [options] <command>\n\n")
	fmt.Fprintf(w, "Commands:\n")

	names := a.order
	if len(names) != len(a.commands) {
		names = slices.Sorted(maps.Keys(a.commands))
	}
	for _, name := range names {
		cmd := a.commands[name]
		fmt.Fprintf(w, "  %-10s %s\n", cmd.Name, cmd.Summary)
	}

	fmt.Fprintf(w, "\nUse \"devloy <command> --help\" for command details.\n")
}

// newFlagSet returns a flag set that prints cmd's usage on --help.
func newFlagSet(cmd *Command, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(cmd.Name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "%s\n\n", cmd.Usage)
		fs.PrintDefaults()
	}
	return fs
}

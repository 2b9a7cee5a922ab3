// pattern: Imperative Shell
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	flag "github.com/spf13/pflag"

	"devloy/internal/container"
	"devloy/internal/discovery"
	"devloy/internal/instance"
	"devloy/internal/render"
	"devloy/internal/resolver"
	"devloy/internal/watch"
)

// BuildApp creates and configures the CLI application with all commands.
func BuildApp(version string, env *Env) *App {
	app := NewApp(version, env.Stderr)

	app.AddCommand(resolveCommand(env))
	app.AddCommand(nameCommand(env))
	app.AddCommand(graphCommand(env))
	app.AddCommand(scanCommand(env))
	app.AddCommand(stopCommand(env))
	app.AddCommand(&Command{
		Name:    "version",
		Summary: "Print version and exit",
		Usage:   "Usage: devloy version",
		Run: func(_ context.Context, _ []string) error {
			fmt.Fprintln(env.Stdout, version)
			return nil
		},
	})

	return app
}

func addRootFlag(fs *flag.FlagSet, f *resolveFlags) {
	fs.StringVarP(&f.root, "root", "C", ".", "directory of the project to start from")
}

func resolveCommand(env *Env) *Command {
	cmd := &Command{
		Name:    "resolve",
		Summary: "Resolve the project and its dependencies",
		Usage:   "Usage: devloy resolve [-C dir] [-D|--all-deps] [--strict-first-root] [--json|--paths] [--watch]",
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		var f resolveFlags
		fs := newFlagSet(cmd, env.Stderr)
		addRootFlag(fs, &f)
		fs.BoolVarP(&f.allDeps, "all-deps", "D", false, "also include manifest entries that are not explicit dependencies")
		fs.BoolVar(&f.strictFirstRoot, "strict-first-root", false, "only look for dependencies in the first search path")
		asJSON := fs.Bool("json", false, "print the registry as JSON")
		paths := fs.Bool("paths", false, "print one \"name path\" line per project")
		watchMode := fs.Bool("watch", false, "re-resolve whenever a manifest changes")
		if err := fs.Parse(args); err != nil {
			return err
		}

		show := func(reg *resolver.Registry) error {
			switch {
			case *asJSON:
				return render.WriteJSON(env.Stdout, render.NewRegistryDocument(reg))
			case *paths:
				_, err := fmt.Fprint(env.Stdout, render.Lines(reg))
				return err
			default:
				_, err := fmt.Fprint(env.Stdout, render.Table(reg, env.styles(), env.Plain))
				return err
			}
		}

		r := env.newResolver(f)
		if !*watchMode {
			reg, err := r.Resolve(ctx)
			if err != nil {
				return err
			}
			return show(reg)
		}

		ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
		defer stop()
		logger := env.Logs.For("watch")
		w, err := watch.New(r.Resolve, func(reg *resolver.Registry, err error) {
			if err != nil {
				fmt.Fprintf(env.Stderr, "error: %v\n", err)
				return
			}
			if err := show(reg); err != nil {
				logger.Error("cannot print registry", "error", err)
			}
		}, watch.Options{Root: f.root, SearchPaths: env.Config.ResolvedSearchPaths()}, logger)
		if err != nil {
			return err
		}
		if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}
	return cmd
}

func nameCommand(env *Env) *Command {
	cmd := &Command{
		Name:    "name",
		Summary: "Print the development environment (container) name",
		Usage:   "Usage: devloy name [-C dir] [--json] [--image IMAGE]",
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		var f resolveFlags
		fs := newFlagSet(cmd, env.Stderr)
		addRootFlag(fs, &f)
		asJSON := fs.Bool("json", false, "print name, suffix, container and image as JSON")
		image := fs.String("image", "", "container image (overrides docker.image)")
		if err := fs.Parse(args); err != nil {
			return err
		}

		name, suffix, err := env.newResolver(f).ResolveRoot(ctx)
		if err != nil {
			return err
		}
		containerName := container.Name(name, suffix)
		if !*asJSON {
			_, err := fmt.Fprintln(env.Stdout, containerName)
			return err
		}
		return render.WriteJSON(env.Stdout, render.NameDocument{
			Name:      name,
			Suffix:    suffix,
			Container: containerName,
			Image:     env.Config.DeduceImage(*image),
		})
	}
	return cmd
}

func graphCommand(env *Env) *Command {
	cmd := &Command{
		Name:    "graph",
		Summary: "Print the dependency graph as DOT or SVG",
		Usage:   "Usage: devloy graph [-C dir] [-D|--all-deps] [--svg] [-o FILE]",
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		var f resolveFlags
		fs := newFlagSet(cmd, env.Stderr)
		addRootFlag(fs, &f)
		fs.BoolVarP(&f.allDeps, "all-deps", "D", false, "also include manifest entries that are not explicit dependencies")
		svg := fs.Bool("svg", false, "render SVG through Graphviz instead of printing DOT")
		output := fs.StringP("output", "o", "", "write to FILE instead of stdout")
		if err := fs.Parse(args); err != nil {
			return err
		}

		reg, err := env.newResolver(f).Resolve(ctx)
		if err != nil {
			return err
		}
		data := []byte(render.ToDOT(reg))
		if *svg {
			if data, err = render.RenderSVG(ctx, string(data)); err != nil {
				return err
			}
		}
		if *output != "" {
			return os.WriteFile(*output, data, 0644)
		}
		_, err = env.Stdout.Write(data)
		return err
	}
	return cmd
}

func scanCommand(env *Env) *Command {
	cmd := &Command{
		Name:    "scan",
		Summary: "List repositories and checkouts under the search paths",
		Usage:   "Usage: devloy scan [--json]",
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		fs := newFlagSet(cmd, env.Stderr)
		asJSON := fs.Bool("json", false, "print repositories as JSON")
		if err := fs.Parse(args); err != nil {
			return err
		}

		paths := env.Config.ResolvedSearchPaths()
		if len(paths) == 0 {
			return fmt.Errorf("no search-paths configured")
		}
		repos := discovery.NewScanner(env.Git, env.Logs.For("discovery")).ScanAll(ctx, paths)
		if *asJSON {
			if repos == nil {
				repos = []discovery.Repository{}
			}
			return render.WriteJSON(env.Stdout, repos)
		}
		_, err := fmt.Fprint(env.Stdout, formatRepositories(repos))
		return err
	}
	return cmd
}

// formatRepositories prints one line per repository: name, search path and
// checkout suffixes ("." for the plain layout).
func formatRepositories(repos []discovery.Repository) string {
	var sb strings.Builder
	for _, r := range repos {
		suffixes := make([]string, 0, len(r.Checkouts))
		for _, c := range r.Checkouts {
			s := c.Suffix
			if s == "" {
				s = "."
			}
			suffixes = append(suffixes, s)
		}
		line := fmt.Sprintf("%-24s %s [%s]", r.Name, r.Root, strings.Join(suffixes, ", "))
		if r.Shadowed {
			line += " (shadowed)"
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	return sb.String()
}

func stopCommand(env *Env) *Command {
	cmd := &Command{
		Name:    "stop",
		Summary: "Stop and remove the development environment",
		Usage:   "Usage: devloy stop [-C dir]",
	}
	cmd.Run = func(ctx context.Context, args []string) error {
		var f resolveFlags
		fs := newFlagSet(cmd, env.Stderr)
		addRootFlag(fs, &f)
		if err := fs.Parse(args); err != nil {
			return err
		}

		name, suffix, err := env.newResolver(f).ResolveRoot(ctx)
		if err != nil {
			return err
		}
		containerName := container.Name(name, suffix)

		lock, err := instance.Acquire(env.StateDir, containerName)
		if err != nil {
			return err
		}
		defer lock.Release()

		res, err := container.NewStopper(env.Runtime, env.Logs.For("container")).Stop(ctx, containerName)
		if err != nil {
			return err
		}
		if !res.Existed {
			fmt.Fprintf(env.Stdout, "Development environment %s was not started.\n", containerName)
			return nil
		}
		fmt.Fprintf(env.Stdout, "Development environment %s removed.\n", containerName)
		return nil
	}
	return cmd
}

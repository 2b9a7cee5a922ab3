// pattern: Imperative Shell

package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"devloy/internal/logging"
	"devloy/internal/manifest"
	"devloy/internal/resolver"
)

// DefaultDebounce collapses bursts of editor writes into one re-resolution.
const DefaultDebounce = 300 * time.Millisecond

// ResolveFunc produces a fresh registry. (*resolver.Resolver).Resolve fits.
type ResolveFunc func(ctx context.Context) (*resolver.Registry, error)

// ResultFunc receives every resolution result, the initial one included.
type ResultFunc func(reg *resolver.Registry, err error)

// Options configures a Watcher.
type Options struct {
	// Root is the directory of the root project. It stays watched even while
	// no project resolves, so creating its descriptor triggers a resolution.
	Root string

	// SearchPaths are watched for repositories appearing or disappearing.
	SearchPaths []string
	Debounce    time.Duration
}

// Watcher re-resolves the workspace whenever a descriptor or repository
// manifest of a registered project changes, or a search path gains or loses
// an entry.
type Watcher struct {
	resolve  ResolveFunc
	onResult ResultFunc
	opts     Options
	logger   *logging.ScopedLogger
	watcher  *fsnotify.Watcher

	mu      sync.Mutex
	watched map[string]bool
	closed  bool
}

// New creates a Watcher. Call Run to start it.
func New(resolve ResolveFunc, onResult ResultFunc, opts Options, logger *logging.ScopedLogger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Root != "" {
		if abs, err := filepath.Abs(opts.Root); err == nil {
			opts.Root = abs
		}
	}
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Watcher{
		resolve:  resolve,
		onResult: onResult,
		opts:     opts,
		logger:   logger,
		watcher:  fw,
		watched:  make(map[string]bool),
	}, nil
}

// Run resolves once, then again after every relevant change, until ctx is
// cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	w.refresh(ctx)

	timer := time.NewTimer(w.opts.Debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.opts.Debounce)

		case <-timer.C:
			w.refresh(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

func (w *Watcher) refresh(ctx context.Context) {
	reg, err := w.resolve(ctx)
	if ctx.Err() != nil {
		return
	}
	if reg != nil {
		w.sync(dirsFor(reg, w.opts.Root, w.opts.SearchPaths))
	}
	if w.onResult != nil {
		w.onResult(reg, err)
	}
}

// sync makes the watched set equal to dirs.
func (w *Watcher) sync(dirs []string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	want := make(map[string]bool, len(dirs))
	for _, d := range dirs {
		want[d] = true
		if w.watched[d] {
			continue
		}
		if err := w.watcher.Add(d); err != nil {
			w.logger.Debug("cannot watch directory", "path", d, "error", err)
			continue
		}
		w.watched[d] = true
	}
	for d := range w.watched {
		if !want[d] {
			_ = w.watcher.Remove(d)
			delete(w.watched, d)
		}
	}
}

// Watched returns the directories currently under watch, sorted.
func (w *Watcher) Watched() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	dirs := make([]string, 0, len(w.watched))
	for d := range w.watched {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	return dirs
}

// relevant reports whether event can change the resolution result.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if isManifestFile(event.Name) {
		return true
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	parent := filepath.Clean(filepath.Dir(event.Name))
	for _, sp := range w.opts.SearchPaths {
		if filepath.Clean(sp) == parent {
			return true
		}
	}
	return false
}

func isManifestFile(path string) bool {
	base := filepath.Base(path)
	return base == manifest.DescriptorFile || strings.HasSuffix(base, manifest.RepositoriesExt)
}

// dirsFor lists root, the project directories of reg and the search paths.
func dirsFor(reg *resolver.Registry, root string, searchPaths []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(d string) {
		d = filepath.Clean(d)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	if root != "" {
		add(root)
	}
	for _, p := range reg.Projects() {
		add(p.Path)
	}
	for _, sp := range searchPaths {
		add(sp)
	}
	return dirs
}

// Close stops the watcher and releases resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

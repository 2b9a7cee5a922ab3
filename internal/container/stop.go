// pattern: Imperative Shell

package container

import (
	"context"
	"fmt"
	"os"

	"devloy/internal/logging"
)

// StopResult describes what Stop did.
type StopResult struct {
	Name    string
	Existed bool
	Removed []string // Scratch mount sources that were deleted
}

// Stopper tears down development environments.
type Stopper struct {
	runtime   *Runtime
	logger    *logging.ScopedLogger
	removeAll func(string) error
}

// NewStopper creates a Stopper using runtime.
func NewStopper(runtime *Runtime, logger *logging.ScopedLogger) *Stopper {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Stopper{runtime: runtime, logger: logger, removeAll: os.RemoveAll}
}

// Stop stops (if running) and removes the named container, then deletes the
// host directories behind its build and install mounts. A container that does
// not exist is not an error.
func (s *Stopper) Stop(ctx context.Context, name string) (StopResult, error) {
	res := StopResult{Name: name}
	log := s.logger.With("container", name)

	state, err := s.runtime.State(ctx, name)
	if err != nil {
		return res, fmt.Errorf("querying %s: %w", name, err)
	}
	if state == StateAbsent {
		log.Debug("development environment was not started")
		return res, nil
	}
	res.Existed = true

	// Mounts must be read before the container is gone.
	mounts, err := s.runtime.Mounts(ctx, name)
	if err != nil {
		log.Warn("cannot inspect container, keeping scratch directories", "error", err)
	}

	if state == StateRunning {
		log.Debug("stopping container")
		if err := s.runtime.StopContainer(ctx, name); err != nil {
			return res, fmt.Errorf("stopping %s: %w", name, err)
		}
	}
	if err := s.runtime.RemoveContainer(ctx, name); err != nil {
		return res, fmt.Errorf("removing %s: %w", name, err)
	}
	log.Info("development environment removed")

	for _, m := range mounts {
		if !m.IsScratch() || m.Source == "" {
			continue
		}
		if err := s.removeAll(m.Source); err != nil {
			log.Warn("cannot delete scratch directory", "path", m.Source, "error", err)
			continue
		}
		log.Debug("deleted scratch directory", "path", m.Source, "destination", m.Destination)
		res.Removed = append(res.Removed, m.Source)
	}
	return res, nil
}

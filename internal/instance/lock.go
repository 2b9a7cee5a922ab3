// pattern: Imperative Shell
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofrs/flock"
)

// ErrBusy is returned when another devloy process holds the environment lock.
var ErrBusy = errors.New("environment is locked by another devloy process")

// Lock is an exclusive per-environment file lock.
type Lock struct {
	fl      *flock.Flock
	pidPath string
}

func lockPath(stateDir, env string) string {
	return filepath.Join(stateDir, env+".lock")
}

func pidPath(stateDir, env string) string {
	return filepath.Join(stateDir, env+".pid")
}

// Acquire takes the lock for env (a container name) and records the current
// PID next to it. The returned error wraps ErrBusy when the lock is held.
func Acquire(stateDir, env string) (*Lock, error) {
	if err := os.MkdirAll(stateDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	fl := flock.New(lockPath(stateDir, env))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		if pid, ok := readPID(pidPath(stateDir, env)); ok {
			return nil, fmt.Errorf("%w (pid %d)", ErrBusy, pid)
		}
		return nil, ErrBusy
	}

	l := &Lock{fl: fl, pidPath: pidPath(stateDir, env)}
	if err := os.WriteFile(l.pidPath, []byte(strconv.Itoa(os.Getpid())), 0600); err != nil {
		l.Release()
		return nil, fmt.Errorf("failed to write pid file: %w", err)
	}
	return l, nil
}

// Release removes the pid file and releases the file lock.
func (l *Lock) Release() {
	if l == nil {
		return
	}
	_ = os.Remove(l.pidPath)
	if l.fl != nil {
		_ = l.fl.Unlock()
	}
}

func readPID(path string) (int, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, false
	}
	return pid, true
}

// Package instance keeps a single interactive session per store.
package instance

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/timebox/internal/constants"
	"github.com/julianstephens/timebox/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
)

// ErrRunning means a live timebox process holds the lock.
var ErrRunning = errors.New("another timebox session is already running")

type Lock struct {
	path string
}

// Acquire takes the lockfile at path for this process. A lockfile left by a
// process that has exited, or whose pid now belongs to another program, is
// taken over.
func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	for range 2 {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
		if err == nil {
			_, werr := fmt.Fprintf(f, "%d\n", getpidFunc())
			if err := errors.Join(werr, f.Close()); err != nil {
				os.Remove(path)
				return nil, fmt.Errorf("failed to write lockfile: %w", err)
			}
			return &Lock{path: path}, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("failed to create lockfile: %w", err)
		}

		pid, err := holder(path)
		if err != nil {
			return nil, err
		}
		if pid != 0 {
			return nil, fmt.Errorf("%w (pid %d, lockfile %s)", ErrRunning, pid, path)
		}
		logger.Warn("Removing stale lockfile", "path", path)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to remove stale lockfile: %w", err)
		}
	}
	return nil, fmt.Errorf("failed to acquire lockfile %s", path)
}

// holder returns the pid of the live timebox process named in the lockfile,
// or 0 when the lock is stale.
func holder(path string) (int, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read lockfile: %w", err)
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(content)))
	if err != nil || pid <= 0 {
		logger.Debug("Lockfile is malformed", "path", path, "content", string(content))
		return 0, nil
	}
	if pid == getpidFunc() {
		return 0, nil
	}

	process, err := findProcessFunc(pid)
	if err != nil || process == nil {
		return 0, nil
	}
	if !strings.HasPrefix(process.Executable(), constants.AppName) {
		logger.Debug("Lockfile pid belongs to another program", "pid", pid, "executable", process.Executable())
		return 0, nil
	}
	return pid, nil
}

// Release removes the lockfile if it still names this process.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	content, err := os.ReadFile(l.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	if strings.TrimSpace(string(content)) != strconv.Itoa(getpidFunc()) {
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	return nil
}

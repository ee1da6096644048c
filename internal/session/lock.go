package session

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/kaiwa-ai/kaiwa/internal/errors"

	"github.com/gofrs/flock"
)

// Lock guards against concurrent interactive sessions sharing one
// terminal and one approval stream. Acquisition is non-blocking: a
// second session fails fast instead of queueing.
type Lock struct {
	fileLock *flock.Flock
	path     string
}

func Acquire(path string) (*Lock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %v: %w", err, errors.ErrConflict)
	}

	fileLock := flock.New(path)
	locked, err := fileLock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire session lock %s: %v: %w", path, err, errors.ErrConflict)
	}
	if !locked {
		return nil, fmt.Errorf("another session is already running (lock held at %s): %w", path, errors.ErrConflict)
	}

	slog.Debug("session lock acquired", "path", path)
	return &Lock{fileLock: fileLock, path: path}, nil
}

func (l *Lock) Release() {
	if l == nil || l.fileLock == nil {
		return
	}
	if err := l.fileLock.Unlock(); err != nil {
		slog.Warn("release session lock failed", "path", l.path, "error", err)
	}
}

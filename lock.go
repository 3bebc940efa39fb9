package papertrade

import (
	"fmt"
	"os"
	"path/filepath"
)

// Lock is an advisory file lock serializing trading cycles on a data
// directory. It relies on O_EXCL creation, which is atomic on every
// filesystem the journals target.
type Lock struct {
	path string
}

// AcquireLock takes the advisory lock for dir, failing if another process
// holds it. The lock file records the owning pid for diagnostics.
func AcquireLock(dir string) (*Lock, error) {
	path := filepath.Join(dir, "trade.lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another trading cycle is running (remove %s if it crashed)", path)
		}
		return nil, fmt.Errorf("could not acquire lock %s: %w", path, err)
	}
	fmt.Fprintf(f, "%d\n", os.Getpid())
	if err := f.Close(); err != nil {
		os.Remove(path)
		return nil, err
	}
	return &Lock{path: path}, nil
}

// Release removes the lock file.
func (l *Lock) Release() error {
	return os.Remove(l.path)
}

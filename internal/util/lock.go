package util

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const lockName = ".nelodl.lock"

// OutputLock guards an output directory against a second nelodl process,
// which would otherwise share chapter workspace paths with this one.
type OutputLock struct {
	lock *flock.Flock
}

func LockOutput(dir string) (*OutputLock, error) {
	l := flock.New(filepath.Join(dir, lockName))

	ok, err := l.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("another nelodl process is writing to %s", dir)
	}

	return &OutputLock{lock: l}, nil
}

func (o *OutputLock) Path() string {
	return o.lock.Path()
}

// Release unlocks and removes the lock file.
func (o *OutputLock) Release() error {
	if err := o.lock.Unlock(); err != nil {
		return err
	}

	return removeIfExists(o.lock.Path())
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	return nil
}

package lock

import (
	"fmt"
	"os"
)

// Guard is an exclusive OS file lock serializing lock file read-modify-write
// cycles between concurrent fae processes in one project. The lock is held
// on a sidecar file because the lock file itself is replaced by rename.
type Guard struct {
	f *os.File
}

// GuardPath returns the sidecar path guarding lockPath.
func GuardPath(lockPath string) string {
	return lockPath + ".guard"
}

// Acquire blocks until the guard for lockPath is held.
func Acquire(lockPath string) (*Guard, error) {
	path := GuardPath(lockPath)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("opening lock guard %s: %w", path, err)
	}
	if err := lockFile(f); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("locking %s: %w", path, err)
	}
	return &Guard{f: f}, nil
}

// Release drops the guard. It is safe to call on a nil Guard.
func (g *Guard) Release() error {
	if g == nil || g.f == nil {
		return nil
	}
	uerr := unlockFile(g.f)
	cerr := g.f.Close()
	g.f = nil
	if uerr != nil {
		return fmt.Errorf("unlocking guard: %w", uerr)
	}
	return cerr
}

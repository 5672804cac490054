package scan

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// lockPath derives a stable lock file name for an absolute destination.
func lockPath(lockDir, destination string) string {
	sum := sha256.Sum256([]byte(destination))
	return filepath.Join(lockDir, "dest-"+hex.EncodeToString(sum[:8])+".lock")
}

// acquireLock takes an exclusive advisory lock on destination. A nil lock and
// nil error are returned when lockDir is empty.
func acquireLock(lockDir, destination string) (*flock.Flock, error) {
	if lockDir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	path := lockPath(lockDir, destination)
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", path, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: another ngrams run is writing to %s", ErrDestinationBusy, destination)
	}
	return lock, nil
}

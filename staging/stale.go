package staging

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gofrs/flock"
)

// SweepStale removes scratch directories under root whose owning process is
// gone, detected by being able to take the directory's lock. It returns the
// number of directories removed. A missing root is not an error.
func SweepStale(root string) (int, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}

	removed := 0
	for _, e := range entries {
		if !e.IsDir() || !strings.HasPrefix(e.Name(), dirPrefix) {
			continue
		}
		dir := filepath.Join(root, e.Name())

		lock := flock.New(filepath.Join(dir, lockName))
		locked, err := lock.TryLock()
		if err != nil || !locked {
			continue
		}
		lock.Unlock()

		if err := os.RemoveAll(dir); err != nil {
			log.Warnf("failed to remove stale staging directory %s: %v", dir, err)
			continue
		}
		log.Infof("removed stale staging directory %s", dir)
		removed++
	}
	return removed, nil
}

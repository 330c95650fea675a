package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange whenever the library document is created, written or
// renamed into place by anyone, including this process. It blocks until ctx
// is cancelled. The containing directory is watched because atomic writes
// replace the file.
func (l *LibraryStore) Watch(ctx context.Context, onChange func()) error {
	dir := filepath.Dir(l.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	target := filepath.Clean(l.path)
	for {
		select {
		case e, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(e.Name) != target {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				onChange()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warnf("library watch error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}

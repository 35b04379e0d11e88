// Package follow notifies about changes to a single file on disk.
package follow

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single append produces.
const DefaultDebounce = 250 * time.Millisecond

// Follower watches the directory holding a file and reports changes to that file.
// The directory is watched rather than the file so that the file may be
// created or replaced after the follower starts.
type Follower struct {
	fsWatcher *fsnotify.Watcher
	name      string
	debounce  time.Duration
}

// New creates a Follower for path. The containing directory must exist.
func New(path string, debounce time.Duration) (*Follower, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Follower{
		fsWatcher: fsWatcher,
		name:      filepath.Base(abs),
		debounce:  debounce,
	}, nil
}

// Run calls onChange once per burst of changes until ctx is done.
// onChange runs on the Run goroutine. Run closes the watcher before returning.
func (f *Follower) Run(ctx context.Context, onChange func()) error {
	defer f.fsWatcher.Close()

	timer := time.NewTimer(f.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-f.fsWatcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != f.name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			timer.Reset(f.debounce)

		case <-timer.C:
			onChange()

		case err, ok := <-f.fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("follow: watcher error: %v", err)
		}
	}
}

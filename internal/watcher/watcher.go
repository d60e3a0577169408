// Package watcher reports pictures dropped into a directory once they have
// stopped changing, so that hot-folder encryption never reads a file that is
// still being written.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher tracks write activity in a directory and hands out stable files.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	dir       string
	recursive bool
	debounce  time.Duration
	filter    func(path string) bool

	// last write seen per path; owned by the Run goroutine
	pending map[string]time.Time

	errors chan error
}

// New creates a watcher for dir. Files are reported once no write has been
// seen for debounce. filter decides which paths are of interest; nil accepts all.
func New(dir string, debounce time.Duration, recursive bool, filter func(path string) bool) (*Watcher, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if filter == nil {
		filter = func(string) bool { return true }
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		dir:       absDir,
		recursive: recursive,
		debounce:  debounce,
		filter:    filter,
		pending:   make(map[string]time.Time),
		errors:    make(chan error, 10),
	}

	if err := w.addTree(absDir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Dir returns the absolute path of the watched directory.
func (w *Watcher) Dir() string {
	return w.dir
}

// Errors returns the channel of watch errors. Errors are dropped when nobody reads.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Run blocks until ctx is done, calling handle from this goroutine for each
// file that has been quiet for the debounce interval. Files still pending
// at cancellation are not reported.
func (w *Watcher) Run(ctx context.Context, handle func(path string)) error {
	defer w.fsWatcher.Close()

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return errors.New("watcher closed")
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return errors.New("watcher closed")
			}
			select {
			case w.errors <- err:
			default:
			}

		case now := <-ticker.C:
			for _, path := range w.stable(now) {
				handle(path)
			}
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
		delete(w.pending, event.Name)
		return
	}

	// Only track writes and creates
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return
	}
	if info.IsDir() {
		if w.recursive && event.Op&fsnotify.Create != 0 {
			if err := w.addTree(event.Name); err != nil {
				select {
				case w.errors <- err:
				default:
				}
			}
		}
		return
	}

	if w.filter(event.Name) {
		w.pending[event.Name] = time.Now()
	}
}

// stable removes and returns, sorted, the pending files quiet since now-debounce.
func (w *Watcher) stable(now time.Time) []string {
	threshold := now.Add(-w.debounce)

	var ready []string
	for path, last := range w.pending {
		if !last.After(threshold) {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	sort.Strings(ready)
	return ready
}

// addTree watches root, and its subdirectories when recursive.
func (w *Watcher) addTree(root string) error {
	if !w.recursive {
		if err := w.fsWatcher.Add(root); err != nil {
			return fmt.Errorf("watch directory: %w", err)
		}
		return nil
	}

	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if err := w.fsWatcher.Add(path); err != nil {
			return fmt.Errorf("watch directory %s: %w", path, err)
		}
		return nil
	})
}

// Package watch reports changes below a directory tree in debounced batches.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	resberror "github.com/msto63/resb/foundation/core/error"
	"github.com/msto63/resb/pkg/core/logging"
)

// Watcher collects file events below a root directory
type Watcher struct {
	root     string
	debounce time.Duration
	filter   func(name string) bool
	watcher  *fsnotify.Watcher
	logger   *logging.Logger
}

// Config configures a Watcher
type Config struct {
	Dir      string
	Debounce time.Duration
	// Filter selects the files of interest by slash-separated relative name;
	// nil accepts every file
	Filter   func(name string) bool
	Logger   *logging.Logger
}

// New creates a watcher for every directory below cfg.Dir
func New(cfg Config) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 250 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.New("watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, resberror.Wrap(err, "failed to create watcher").WithCode(resberror.CodeServiceInitialization)
	}

	w := &Watcher{
		root:     cfg.Dir,
		debounce: cfg.Debounce,
		filter:   cfg.Filter,
		watcher:  fw,
		logger:   cfg.Logger,
	}
	if err := w.addTree(cfg.Dir); err != nil {
		fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, e fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !e.IsDir() {
			return nil
		}
		if err := w.watcher.Add(p); err != nil {
			return resberror.Wrap(err, "failed to watch "+p).WithCode(resberror.CodeServiceInitialization)
		}
		return nil
	})
}

// Run delivers the sorted relative names of changed files to fn, at most once
// per debounce interval, until ctx is done. Removed files are reported too.
func (w *Watcher) Run(ctx context.Context, fn func(names []string)) error {
	defer w.watcher.Close()

	w.logger.Info("Watching for bundle changes", "dir", w.root)

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Stopping file watcher (context cancelled)")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.logger.Warn("Failed to watch new directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if event.Op == fsnotify.Chmod {
				continue
			}

			rel, err := filepath.Rel(w.root, event.Name)
			if err != nil {
				continue
			}
			name := filepath.ToSlash(rel)
			if w.filter != nil && !w.filter(name) {
				continue
			}
			pending[name] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			names := make([]string, 0, len(pending))
			for n := range pending {
				names = append(names, n)
			}
			sort.Strings(names)
			pending = make(map[string]bool)

			w.logger.Debug("Bundle files changed", "count", len(names))
			fn(names)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("Watcher error", "error", err)
		}
	}
}

// Close stops watching without running
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

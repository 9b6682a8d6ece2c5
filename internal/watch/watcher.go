// Package watch reports changes to a set of files so builds can be rerun.
//
// Directories rather than files are registered with fsnotify. Editors often
// save by writing a temporary file and renaming it over the original, which
// would silently drop a per-file watch.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for more changes before
// emitting an event.
const DefaultDebounce = 200 * time.Millisecond

// Event is one debounced batch of changes.
type Event struct {
	// Paths are the changed watched files, sorted.
	Paths []string
}

// Watcher watches a set of files through their parent directories.
type Watcher struct {
	fsw      *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration

	mu    sync.Mutex
	files map[string]bool
	dirs  map[string]bool

	events chan Event
}

// New creates a watcher. A zero debounce means DefaultDebounce.
func New(debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Watcher{
		fsw:      fsw,
		logger:   logger,
		debounce: debounce,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		events:   make(chan Event),
	}, nil
}

// Events returns the channel of debounced change events.
// It is closed when Run returns.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// SetFiles replaces the watched set. Directories no longer needed are dropped.
func (w *Watcher) SetFiles(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	nextFiles := make(map[string]bool, len(files))
	nextDirs := make(map[string]bool)
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", f, err)
		}
		nextFiles[abs] = true
		nextDirs[filepath.Dir(abs)] = true
	}

	for dir := range nextDirs {
		if w.dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		w.logger.Debug("watching directory", "dir", dir)
	}
	for dir := range w.dirs {
		if nextDirs[dir] {
			continue
		}
		if err := w.fsw.Remove(dir); err != nil {
			w.logger.Warn("failed to stop watching directory", "dir", dir, "error", err)
		}
	}

	w.files = nextFiles
	w.dirs = nextDirs
	return nil
}

// Files returns the watched files, sorted.
func (w *Watcher) Files() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	slices.Sort(files)
	return files
}

// Run processes file system events until ctx is cancelled or Close is called.
func (w *Watcher) Run(ctx context.Context) error {
	defer close(w.events)

	pending := make(map[string]bool)
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file changed", "path", ev.Name, "op", ev.Op.String())
			pending[filepath.Clean(ev.Name)] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("file watcher error", "error", err)

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			slices.Sort(paths)
			clear(pending)

			select {
			case w.events <- Event{Paths: paths}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
		!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[filepath.Clean(ev.Name)]
}

package discovery

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of filesystem events (git clone, rm -rf)
// into one rescan
const DefaultDebounce = 500 * time.Millisecond

// Watcher monitors the discovery roots and asks for a rescan when projects
// may have appeared or disappeared
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	roots     []string // expanded roots
	debounce  time.Duration
	log       *slog.Logger

	mu      sync.Mutex
	watched map[string]struct{}

	Events chan RescanEvent
	Errors chan error

	done     chan struct{}
	stopped  chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates a watcher over the given (already expanded) roots.
func NewWatcher(roots []string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	// Event paths are compared against roots, so "/src/" must become "/src"
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		if r != "" {
			cleaned = append(cleaned, filepath.Clean(r))
		}
	}

	w := &Watcher{
		fsWatcher: fsw,
		roots:     cleaned,
		debounce:  debounce,
		log:       logger.With(slog.String("component", "watcher")),
		watched:   make(map[string]struct{}),
		Events:    make(chan RescanEvent, 1),
		Errors:    make(chan error, 10),
		done:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
	return w, nil
}

// Watch registers each root and its immediate subdirectories. Missing roots
// are skipped. Returns the number of directories being watched.
func (w *Watcher) Watch() int {
	for _, root := range w.roots {
		if err := w.add(root); err != nil {
			w.log.Debug("skip root", slog.String("root", root), slog.Any("err", err))
			continue
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() {
				continue
			}
			_ = w.add(filepath.Join(root, entry.Name()))
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.watched)
}

func (w *Watcher) add(dir string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.watched[dir]; ok {
		return nil
	}
	if err := w.fsWatcher.Add(dir); err != nil {
		return err
	}
	w.watched[dir] = struct{}{}
	return nil
}

// Start begins watching for changes
func (w *Watcher) Start() {
	go w.watchLoop()
}

// Stop stops the watcher. Safe to call more than once; use Wait to block
// until a started loop has exited.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		err = w.fsWatcher.Close()
	})
	return err
}

// Wait blocks until a started loop has exited.
func (w *Watcher) Wait() {
	<-w.stopped
}

// watchLoop handles fsnotify events
func (w *Watcher) watchLoop() {
	defer close(w.stopped)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending RescanEvent
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			ev, trigger := w.handleFSEvent(event)
			if !trigger {
				continue
			}
			pending = ev
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.Events <- pending:
			default:
				// A rescan is already queued
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				// Error channel full, drop
			}
		}
	}
}

// handleFSEvent decides whether an event may change the set of projects
func (w *Watcher) handleFSEvent(event fsnotify.Event) (RescanEvent, bool) {
	name := filepath.Clean(event.Name)
	root := w.rootFor(name)
	if root == "" {
		return RescanEvent{}, false
	}
	ev := RescanEvent{Root: root, Reason: name}

	if filepath.Base(name) == ".git" &&
		event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
		return ev, true
	}

	// Only direct children of a root can become projects
	if filepath.Dir(name) != root {
		return RescanEvent{}, false
	}

	switch {
	case event.Op&fsnotify.Create == fsnotify.Create:
		info, err := os.Stat(name)
		if err != nil || !info.IsDir() {
			return RescanEvent{}, false
		}
		// New directory under a root: watch it so a later .git shows up
		_ = w.add(name)
		return ev, true

	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.mu.Lock()
		_, known := w.watched[name]
		delete(w.watched, name)
		w.mu.Unlock()
		return ev, known
	}

	return RescanEvent{}, false
}

// rootFor returns the deepest root containing path, or "" if none.
// Roots may nest (~ and ~/work).
func (w *Watcher) rootFor(path string) string {
	best := ""
	for _, root := range w.roots {
		prefix := strings.TrimSuffix(root, string(filepath.Separator)) + string(filepath.Separator)
		if path == root || strings.HasPrefix(path, prefix) {
			if len(root) > len(best) {
				best = root
			}
		}
	}
	return best
}

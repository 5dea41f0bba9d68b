// Package watch re-runs a task when project files change.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/udes/udes-cli/internal/logging"
)

// Config contains configuration for the file watcher.
type Config struct {
	// Dir is the root directory to watch
	Dir string

	// Patterns are glob patterns matched against file names
	Patterns []string

	// Ignore are directory or file names that are never watched
	Ignore []string

	// Debounce is how long the tree must stay quiet before a batch is emitted
	Debounce time.Duration
}

// DefaultConfig returns the watcher configuration used by lint --watch.
func DefaultConfig(dir string) *Config {
	return &Config{
		Dir:      dir,
		Patterns: []string{"*.html", "*.js", "*.json"},
		Ignore:   []string{"node_modules", "bower_components", "build", ".git"},
		Debounce: 300 * time.Millisecond,
	}
}

// Watcher watches a directory tree and emits batches of changed paths.
type Watcher struct {
	config  *Config
	watcher *fsnotify.Watcher
	logger  logging.Logger
	batches chan []string

	mu      sync.Mutex
	pending map[string]struct{}
	timer   *time.Timer
}

// New creates a watcher over config.Dir and its subdirectories.
func New(config *Config, logger logging.Logger) (*Watcher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		config:  config,
		watcher: fsWatcher,
		logger:  logger,
		batches: make(chan []string, 1),
		pending: make(map[string]struct{}),
	}
	if err := w.addRecursive(config.Dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}
	return w, nil
}

// Batches returns the channel of debounced change sets, sorted by path.
func (w *Watcher) Batches() <-chan []string {
	return w.batches
}

// Run processes file system events until ctx is done, then closes the
// watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warnf("Watcher error: %v", err)
		}
	}
}

// Loop runs fn once per batch until ctx is done. Errors from fn are logged
// and watching continues.
func (w *Watcher) Loop(ctx context.Context, fn func(ctx context.Context, changed []string) error) error {
	errc := make(chan error, 1)
	go func() { errc <- w.Run(ctx) }()

	for {
		select {
		case <-ctx.Done():
			return <-errc
		case changed := <-w.batches:
			w.logger.Infof("%d file(s) changed", len(changed))
			if err := fn(ctx, changed); err != nil && !errors.Is(err, context.Canceled) {
				w.logger.Errorf("%v", err)
			}
		}
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	w.watcher.Close()
}

// addRecursive adds a directory and all subdirectories to the watcher.
func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && w.ignored(d.Name()) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if w.shouldIgnore(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warnf("Cannot watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.matchesPattern(event.Name) {
		return
	}

	w.debounce(event.Name)
}

// debounce collects paths until no event arrived for config.Debounce.
func (w *Watcher) debounce(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.pending[path] = struct{}{}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.config.Debounce, w.flush)
}

func (w *Watcher) flush() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changed := make([]string, 0, len(w.pending))
	for path := range w.pending {
		changed = append(changed, path)
	}
	w.pending = make(map[string]struct{})
	w.mu.Unlock()

	sort.Strings(changed)
	select {
	case w.batches <- changed:
	default:
		// A batch is already queued; merge into it.
		w.mu.Lock()
		for _, path := range changed {
			w.pending[path] = struct{}{}
		}
		w.timer = time.AfterFunc(w.config.Debounce, w.flush)
		w.mu.Unlock()
	}
}

// matchesPattern checks if a file matches any of the watch patterns.
func (w *Watcher) matchesPattern(path string) bool {
	if len(w.config.Patterns) == 0 {
		return true
	}
	base := filepath.Base(path)
	for _, pattern := range w.config.Patterns {
		if matched, _ := filepath.Match(pattern, base); matched {
			return true
		}
	}
	return false
}

func (w *Watcher) ignored(name string) bool {
	for _, pattern := range w.config.Ignore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// shouldIgnore checks each path component below the watched root.
func (w *Watcher) shouldIgnore(path string) bool {
	rel, err := filepath.Rel(w.config.Dir, path)
	if err != nil {
		rel = path
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if w.ignored(part) {
			return true
		}
	}
	return false
}

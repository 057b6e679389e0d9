package content

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/conneroisu/thema/internal/logging"
)

// DefinitionWatcher reloads the definition registry when files in the
// definitions directory change. Rapid bursts of file events (editor saves,
// directory syncs) collapse into a single reload via debouncing.
type DefinitionWatcher struct {
	dir      string
	registry *DefinitionRegistry
	logger   logging.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	closed  bool
}

// NewDefinitionWatcher creates a watcher over dir feeding registry.
func NewDefinitionWatcher(dir string, registry *DefinitionRegistry, logger logging.Logger) (*DefinitionWatcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	if logger == nil {
		logger = logging.NopLogger{}
	}

	return &DefinitionWatcher{
		dir:      dir,
		registry: registry,
		logger:   logger.WithComponent("definition-watcher"),
		debounce: 250 * time.Millisecond,
		watcher:  fsWatcher,
	}, nil
}

// Start watches for changes until ctx is cancelled or Stop is called. It
// performs an initial load before returning so callers start with a
// populated registry.
func (w *DefinitionWatcher) Start(ctx context.Context) error {
	if err := w.reload(ctx); err != nil {
		return err
	}

	go w.loop(ctx)
	return nil
}

// Stop stops the watcher and releases the underlying file handles.
func (w *DefinitionWatcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true
	return w.watcher.Close()
}

func (w *DefinitionWatcher) loop(ctx context.Context) {
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, err, "file watcher error")

		case <-pending:
			if err := w.reload(ctx); err != nil {
				// Keep the previous definition set on a bad reload.
				w.logger.Error(ctx, err, "definition reload failed", "dir", w.dir)
			}
		}
	}
}

func (w *DefinitionWatcher) reload(ctx context.Context) error {
	definitions, err := LoadDir(w.dir)
	if err != nil {
		return err
	}

	w.registry.Replace(definitions)
	w.logger.Info(ctx, "definitions loaded", "dir", w.dir, "count", len(definitions))
	return nil
}

func isDefinitionFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}

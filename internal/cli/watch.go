package cli

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/flowline/internal/compiler"
	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce is how long the watcher waits for a burst of file
// events to settle before reloading.
const DefaultWatchDebounce = 200 * time.Millisecond

// WorkflowWatcher re-registers definition files when they change on disk.
// A file that fails to parse is logged once per content version and the
// previously registered graph stays in place. Removed files keep their last
// registered version.
type WorkflowWatcher struct {
	r        WorkflowRegistrar
	dir      string
	debounce time.Duration
	logger   *slog.Logger
	fs       *fsnotify.Watcher

	mu   sync.Mutex
	last map[string][]byte
}

// NewWorkflowWatcher starts watching dir. The current contents of dir are
// taken as already registered.
func NewWorkflowWatcher(r WorkflowRegistrar, dir string, debounce time.Duration, logger *slog.Logger) (*WorkflowWatcher, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	w := &WorkflowWatcher{
		r:        r,
		dir:      dir,
		debounce: debounce,
		logger:   logger,
		fs:       fsw,
		last:     make(map[string][]byte),
	}

	files, err := DefinitionFiles(dir)
	if err != nil {
		fsw.Close()
		return nil, err
	}
	for _, file := range files {
		if data, err := os.ReadFile(file); err == nil {
			w.last[file] = data
		}
	}
	return w, nil
}

// Run dispatches file events until ctx is done, then closes the watcher.
func (w *WorkflowWatcher) Run(ctx context.Context) {
	defer w.fs.Close()

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !isDefinitionFile(event.Name) {
				continue
			}
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.logger.Info("workflow file removed, keeping last version", "file", event.Name)
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				pending[event.Name] = struct{}{}
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("workflow watcher error", "dir", w.dir, "err", err)

		case <-timer.C:
			for file := range pending {
				w.Reload(file)
				delete(pending, file)
			}
		}
	}
}

// Reload registers file if its content changed since the last attempt and
// reports whether a new version was registered.
func (w *WorkflowWatcher) Reload(file string) bool {
	data, err := os.ReadFile(file)
	if err != nil {
		w.logger.Warn("workflow read failed", "file", file, "err", err)
		return false
	}

	w.mu.Lock()
	prev, seen := w.last[file]
	w.last[file] = data
	w.mu.Unlock()
	if seen && bytes.Equal(prev, data) {
		return false
	}

	g, err := compiler.Parse(data)
	if err == nil {
		err = w.r.RegisterWorkflow(g)
	}
	if err != nil {
		w.logger.Error("workflow reload failed, keeping last version", "file", file, "err", err)
		return false
	}

	w.logger.Info("workflow reloaded", "workflow", g.Name, "file", file)
	return true
}

// WatchWorkflows watches dir and blocks until ctx is done.
func WatchWorkflows(ctx context.Context, r WorkflowRegistrar, dir string, debounce time.Duration, logger *slog.Logger) error {
	w, err := NewWorkflowWatcher(r, dir, debounce, logger)
	if err != nil {
		return err
	}
	w.Run(ctx)
	return nil
}

func isDefinitionFile(name string) bool {
	return slices.Contains(definitionExts, strings.ToLower(filepath.Ext(name)))
}

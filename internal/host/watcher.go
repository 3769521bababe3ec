package host

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/retroenv/retrogolib/log"
)

// Watcher reports on-disk changes of a single document file.
type Watcher struct {
	logger  *log.Logger
	watcher *fsnotify.Watcher
	path    string
	notify  func()
}

// NewWatcher creates a watcher calling notify whenever the file changes.
// It watches the containing directory instead of the file itself so that
// editors saving through a rename-replace cycle stay visible.
func NewWatcher(logger *log.Logger, path string, notify func()) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", path, err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching directory %s: %w", filepath.Dir(abs), err)
	}

	return &Watcher{
		logger:  logger,
		watcher: fsw,
		path:    abs,
		notify:  notify,
	}, nil
}

// Run forwards change events until the context is cancelled. Events for
// other files in the directory are filtered out, watcher errors are
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.matches(event) {
				continue
			}
			w.logger.Debug("Document changed on disk",
				log.String("op", event.Op.String()))
			w.notify()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("File watcher error", log.Err(err))
		}
	}
}

func (w *Watcher) matches(event fsnotify.Event) bool {
	if event.Name != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) ||
		event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename)
}

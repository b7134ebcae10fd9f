package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/macropower/leads/pkg/log"
)

// Watcher reloads a configuration file when it changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	onReload func(*Config, error)
	path     string
	opts     []LoaderOpt
}

// NewWatcher watches the file at path. onReload receives every successfully
// loaded [Config], or the error that prevented loading it.
func NewWatcher(path string, onReload func(*Config, error), opts ...LoaderOpt) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	// Editors often replace the file instead of writing to it, so watch the
	// directory and filter by name.
	err = watcher.Add(filepath.Dir(absPath))
	if err != nil {
		_ = watcher.Close() //nolint:errcheck // Already failing.

		return nil, fmt.Errorf("add path to watcher: %w", err)
	}

	return &Watcher{
		watcher:  watcher,
		onReload: onReload,
		path:     absPath,
		opts:     opts,
	}, nil
}

// Run handles file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) {
	logger := log.WithContext(ctx)

	defer func() {
		err := w.watcher.Close()
		if err != nil {
			logger.ErrorContext(ctx, "close watcher", slog.Any("err", err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case evt, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if evt.Name != w.path || !evt.Has(fsnotify.Write) && !evt.Has(fsnotify.Create) {
				continue
			}

			logger.DebugContext(ctx, "config changed", slog.String("event", evt.String()))
			w.onReload(w.load())

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.onReload(nil, fmt.Errorf("watch config: %w", err))
		}
	}
}

func (w *Watcher) load() (*Config, error) {
	l, err := NewLoaderFromFile(w.path, w.opts...)
	if err != nil {
		return nil, err
	}

	err = l.Validate()
	if err != nil {
		return nil, err
	}

	return l.Load()
}

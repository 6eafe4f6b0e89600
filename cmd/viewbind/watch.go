package main

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-viewbind/pkg/manifest"
)

const watchDebounce = 150 * time.Millisecond

// watchDir calls onChange after manifest files under dir change, coalescing
// bursts of events. It returns when ctx is done.
func watchDir(ctx context.Context, logger *slog.Logger, dir string, onChange func()) error {
	w, err := newManifestWatcher(logger, dir, watchDebounce)
	if err != nil {
		return err
	}
	return w.run(ctx, onChange)
}

type manifestWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
	debounce time.Duration
}

// newManifestWatcher watches dir and every directory below it. Events are
// only read once run is called.
func newManifestWatcher(logger *slog.Logger, dir string, debounce time.Duration) (*manifestWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}
	logger.Info("watching manifests", "dir", dir, "debounce", debounce)
	return &manifestWatcher{watcher: watcher, logger: logger, debounce: debounce}, nil
}

func (w *manifestWatcher) run(ctx context.Context, onChange func()) error {
	defer w.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := w.watcher.Add(event.Name); err != nil {
						w.logger.Warn("watch new directory", "path", event.Name, "error", err)
					}
				}
			}
			if !manifest.IsManifestFile(event.Name) {
				continue
			}
			w.logger.Debug("manifest changed", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case <-fire:
			fire = nil
			onChange()
		}
	}
}

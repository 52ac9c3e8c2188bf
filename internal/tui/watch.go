package tui

import (
	"errors"
	"fmt"
	"iter"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thiagokokada/gx-go/internal/debounce"
)

const watchDebounceDelay = 350 * time.Millisecond

// repoWatcher reports, coalesced, that files under the repository changed.
// It only notifies; the snapshot being browsed is never reloaded.
type repoWatcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	done     chan struct{}
}

func watchRepository(root string, delay time.Duration, notify func()) (*repoWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	for path := range watchPaths(root) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := watcher.Add(path); err != nil {
			err := errors.Join(err, watcher.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	w := &repoWatcher{
		watcher:  watcher,
		debounce: debounce.New(delay, notify),
		done:     make(chan struct{}),
	}
	go w.loop()
	return w, nil
}

func (w *repoWatcher) loop() {
	defer close(w.done)
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnoreWatchPath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			w.debounce.Trigger()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Debug("fsnotify error", slog.Any("error", err))
		}
	}
}

func (w *repoWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watcher == nil {
		return nil
	}
	w.debounce.Stop()
	err := w.watcher.Close()
	<-w.done
	w.watcher = nil
	return err
}

// watchPaths watches the .git directory when there is one, since refs and
// HEAD live there, and the root otherwise.
func watchPaths(root string) iter.Seq[string] {
	if root == "" {
		return func(func(string) bool) {}
	}
	paths := map[string]struct{}{}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		paths[gitDir] = struct{}{}
		if refs := filepath.Join(gitDir, "refs", "heads"); isDir(refs) {
			paths[refs] = struct{}{}
		}
		return maps.Keys(paths)
	}
	paths[root] = struct{}{}
	return maps.Keys(paths)
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func shouldIgnoreWatchPath(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".lock", ".ipc":
		return true
	}
	return false
}

package file

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// PromptWatcher reloads a PromptStore whenever a prompt file in its
// directory is created, written, renamed or removed.
type PromptWatcher struct {
	watcher *fsnotify.Watcher
	store   driven.PromptStore
	dir     string
	changed chan string
}

// NewPromptWatcher watches dir for prompt edits.
// The directory must exist.
func NewPromptWatcher(store driven.PromptStore, dir string) (*PromptWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &PromptWatcher{
		watcher: w,
		store:   store,
		dir:     dir,
		changed: make(chan string, 16),
	}, nil
}

// Changed delivers the base name of each prompt file that triggered a reload.
// Sends are dropped when nobody is reading.
func (w *PromptWatcher) Changed() <-chan string {
	return w.changed
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *PromptWatcher) Run(ctx context.Context) {
	defer close(w.changed)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isPromptFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}

			w.store.Reload()
			name := filepath.Base(event.Name)
			logger.Debug("prompt %s changed (%s), cache cleared", name, event.Op)

			select {
			case w.changed <- name:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("prompt watcher: %v", err)
		}
	}
}

// Close stops watching.
func (w *PromptWatcher) Close() error {
	return w.watcher.Close()
}

func isPromptFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}

// Package watch re-runs a callback when a query document changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/satishbabariya/querycompiler/internal/debug"
)

// DefaultDebounce collapses the burst of events editors emit on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher watches one file
type Watcher struct {
	file     string
	debounce time.Duration
	callback func() error
	watcher  *fsnotify.Watcher
}

// NewWatcher creates a watcher for file. The containing directory is
// watched so that editors replacing the file by rename are still seen.
func NewWatcher(file string, debounce time.Duration, callback func() error) (*Watcher, error) {
	absPath, err := filepath.Abs(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		file:     absPath,
		debounce: debounce,
		callback: callback,
		watcher:  watcher,
	}, nil
}

// Run calls the callback once and then after every change to the file,
// until ctx is done. Callback errors are reported through onError and do
// not stop the watch.
func (w *Watcher) Run(ctx context.Context, onError func(error)) error {
	defer w.watcher.Close()

	if err := w.callback(); err != nil {
		onError(err)
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if path, err := filepath.Abs(event.Name); err != nil || path != w.file {
				continue
			}
			debug.Debug("watched file changed", "file", w.file, "op", event.Op.String())
			timer.Reset(w.debounce)
			pending = timer.C

		case <-pending:
			pending = nil
			if err := w.callback(); err != nil {
				onError(err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			onError(fmt.Errorf("watch error: %w", err))
		}
	}
}

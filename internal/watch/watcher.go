// Copyright (c) 2025 tasdomas
// Grafana charm - dashboard state reconciliation agent
// This source code is licensed under the MIT license found in the LICENSE file.

// Package watch delivers "desired state changed" events by watching the
// snapshot file on disk. Events are debounced: editors and relation hooks
// often rewrite the file several times in quick succession.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tasdomas/juju-charm-grafana/internal/logging"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher observes a single file and signals when its content may have
// changed. The parent directory is watched so atomic rename-in-place
// updates are seen too.
type Watcher struct {
	path     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New creates a watcher for the given file.
func New(path string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return &Watcher{path: path, debounce: debounce, fsw: fsw}, nil
}

// Run forwards debounced change notifications to changed until ctx is
// cancelled. The channel receives at most one signal per debounce window;
// a slow consumer never blocks the event loop.
func (w *Watcher) Run(ctx context.Context, changed chan<- struct{}) error {
	defer func() { _ = w.fsw.Close() }()

	var timer *time.Timer
	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			select {
			case changed <- struct{}{}:
			default:
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("watch: %v", err)
		}
	}
}

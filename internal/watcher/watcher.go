// Package watcher watches the local model-configuration source and invalidates
// the model-config cache on change. It supports cross-platform fsnotify event
// handling; remote sources (object store, git) rely on the cache TTL instead.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// reloadDebounce coalesces editor save bursts (write + rename + chmod) into a
// single invalidation.
const reloadDebounce = 150 * time.Millisecond

// Watcher manages file watching for the model configuration directory.
type Watcher struct {
	path        string
	onChange    func()
	watcher     *fsnotify.Watcher
	debounceMu  sync.Mutex
	debounceTmr *time.Timer
}

// NewWatcher creates a new file watcher invoking onChange when the watched
// path is modified.
func NewWatcher(path string, onChange func()) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		path:     path,
		onChange: onChange,
		watcher:  fsWatcher,
	}, nil
}

// Start begins watching until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.path); err != nil {
		return err
	}
	log.Infof("watcher: watching %s for model configuration changes", w.path)

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
					w.scheduleReload(event.Name)
				}
			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				log.Warnf("watcher: error: %v", err)
			}
		}
	}()
	return nil
}

// Stop stops the file watcher.
func (w *Watcher) Stop() error {
	w.debounceMu.Lock()
	if w.debounceTmr != nil {
		w.debounceTmr.Stop()
		w.debounceTmr = nil
	}
	w.debounceMu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) scheduleReload(name string) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()
	if w.debounceTmr != nil {
		w.debounceTmr.Stop()
	}
	w.debounceTmr = time.AfterFunc(reloadDebounce, func() {
		log.Debugf("watcher: change detected in %s", name)
		w.onChange()
	})
}

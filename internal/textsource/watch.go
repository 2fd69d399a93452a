package textsource

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// ErrClosed is returned by Watcher.Next once the watcher is closed.
var ErrClosed = errors.New("watcher closed")

// Watcher reloads a file each time it is written.
type Watcher struct {
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher watches path. The parent directory is watched so that editors
// which replace the file on save are still followed.
func NewWatcher(path string) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("unable to resolve %s: %w", path, err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("error creating fsnotify watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("error adding dir to fsnotify watcher: %w", err)
	}
	log.Info("fsnotify watching dir", "dir", dir)
	return &Watcher{path: abs, watcher: w}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Next blocks until the file is written or created and returns its new
// contents.
func (w *Watcher) Next() (string, error) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return "", ErrClosed
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			log.Debug("fsnotify event", "file", event.Name, "event", event.Op)

			s, err := Load(w.path)
			if err != nil {
				log.Debug("reload failed", "file", w.path, "error", err)
				continue
			}
			return s, nil
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return "", ErrClosed
			}
			log.Debug("fsnotify error", "file", w.path, "error", err)
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

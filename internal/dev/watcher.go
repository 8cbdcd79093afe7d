package dev

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the template file watcher.
type WatcherConfig struct {
	// Dirs are the directories watched recursively.
	Dirs []string

	// Ext is the template file extension to react to.
	Ext string

	// Debounce is the quiet period before a change is reported. Editors
	// often emit several events per save.
	Debounce time.Duration
}

// Watcher reports template file changes through fsnotify, debounced so a
// burst of events from a single save triggers one callback.
type Watcher struct {
	config   WatcherConfig
	fs       *fsnotify.Watcher
	onChange func(path string)
}

// NewWatcher creates a watcher over the configured directories. Nested
// directories are added to the watch set, including ones created later.
func NewWatcher(config WatcherConfig) (*Watcher, error) {
	if config.Debounce == 0 {
		config.Debounce = 100 * time.Millisecond
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{config: config, fs: fw}
	for _, dir := range config.Dirs {
		if err := w.addRecursive(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// OnChange sets the callback invoked with the changed file path.
func (w *Watcher) OnChange(fn func(path string)) {
	w.onChange = fn
}

// Start consumes fsnotify events until ctx is cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending string
	)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if ev.Op.Has(fsnotify.Create) {
				// New directories need their own watch.
				w.addRecursive(ev.Name)
			}
			if !w.relevant(ev) {
				continue
			}
			pending = ev.Name
			if timer == nil {
				timer = time.NewTimer(w.config.Debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.config.Debounce)
			}

		case <-timerC:
			timerC = nil
			timer = nil
			if w.onChange != nil {
				w.onChange(pending)
			}

		case _, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
		}
	}
}

// Close releases the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) &&
		!ev.Op.Has(fsnotify.Remove) && !ev.Op.Has(fsnotify.Rename) {
		return false
	}
	return strings.HasSuffix(ev.Name, w.config.Ext)
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Raced with a delete or the path never was a directory.
			return nil
		}
		if d.IsDir() {
			return w.fs.Add(path)
		}
		return nil
	})
}

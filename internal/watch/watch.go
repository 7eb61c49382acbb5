// Package watch re-runs a merge whenever one of its input files changes.
// Used by the CLI's watch mode so a reviewer editing either side sees the
// conflict report refresh.
package watch

import (
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces the event bursts editors emit on save.
const debounceWindow = 100 * time.Millisecond

// Watcher invokes a callback, debounced, when any watched file changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	paths    map[string]bool // absolute paths being watched
	onChange func()

	mu     sync.Mutex
	stopCh chan struct{}
}

// New creates a Watcher over the given files. Directories containing the
// files are registered with fsnotify, since editors often replace files
// rather than writing in place.
func New(paths []string, onChange func()) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		paths:    make(map[string]bool, len(paths)),
		onChange: onChange,
		stopCh:   make(chan struct{}),
	}

	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, err
		}
		w.paths[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, err
		}
	}

	return w, nil
}

// Start begins processing events until Stop is called.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop shuts the watcher down and releases its resources.
func (w *Watcher) Stop() {
	close(w.stopCh)
	_ = w.watcher.Close()
}

func (w *Watcher) loop() {
	timer := time.NewTimer(0)
	<-timer.C // drain so the first change arms it cleanly

	pending := false

	for {
		select {
		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !w.watched(abs) {
				continue
			}
			pending = true
			timer.Reset(debounceWindow)

		case <-timer.C:
			if pending {
				pending = false
				w.onChange()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

func (w *Watcher) watched(abs string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.paths[abs]
}

package module

import (
	"maps"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const settleDelay = 100 * time.Millisecond

// Watcher reports module files that appear or change in the watched
// directories. It only reports paths; loading is left to the owner of the
// registry so that loads happen on the registry's goroutine.
type Watcher struct {
	watcher *fsnotify.Watcher
	ext     string
	Events  chan string
	Errors  chan error
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

func NewWatcher(ext string, dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher: w,
		ext:     ext,
		Events:  make(chan string, 16),
		Errors:  make(chan error, 1),
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
		close(w.Events)
		close(w.Errors)
	})
	return err
}

// run reports a path once no write or create for it has been seen for
// settleDelay, so a file that is still being copied is not reported early.
func (w *Watcher) run() {
	defer close(w.done)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(settleDelay)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if filepath.Ext(event.Name) != w.ext {
				continue
			}
			pending[event.Name] = time.Now()
			timer.Reset(settleDelay)
		case <-timer.C:
			next, ok := w.flush(pending)
			if !ok {
				return
			}
			if next > 0 {
				timer.Reset(next)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
			}
		case <-w.closeCh:
			return
		}
	}
}

// flush emits every settled path in name order and returns how long until
// the next pending path settles, or 0 when none is left. It returns false if
// the watcher was closed while emitting.
func (w *Watcher) flush(pending map[string]time.Time) (time.Duration, bool) {
	now := time.Now()
	var next time.Duration
	for _, path := range slices.Sorted(maps.Keys(pending)) {
		if wait := settleDelay - now.Sub(pending[path]); wait > 0 {
			if next == 0 || wait < next {
				next = wait
			}
			continue
		}
		delete(pending, path)
		select {
		case w.Events <- path:
		case <-w.closeCh:
			return 0, false
		}
	}
	return next, true
}

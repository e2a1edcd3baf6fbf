package assets

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/planetforge/engine/core"
)

/** @brief Default quiet period before a change is reported. */
const DefaultReloadDebounce = 100 * time.Millisecond

var ErrWatcherClosed = errors.New("parameter watcher already closed")

/**
 * @brief Watches one planet parameter file and reports when it changed.
 * The parent directory is watched so atomic replaces are seen too. Bursts of
 * events are coalesced into one report.
 */
type ParameterWatcher struct {
	path     string
	debounce time.Duration

	mutex    sync.Mutex
	fsnotify *fsnotify.Watcher
	isClosed bool
	done     chan struct{}
	stopped  chan struct{}
	events   chan string
	errors   chan error
}

func NewParameterWatcher(path string, debounce time.Duration) (*ParameterWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultReloadDebounce
	}

	pw := &ParameterWatcher{
		path:     abs,
		debounce: debounce,
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		events:   make(chan string, 1),
		errors:   make(chan error, 1),
	}
	if err := fsWatch.Add(filepath.Dir(abs)); err != nil {
		fsWatch.Close()
		return nil, err
	}

	go pw.start()
	return pw, nil
}

// Path returns the absolute path of the watched file.
func (pw *ParameterWatcher) Path() string {
	return pw.path
}

// Events delivers the file path each time it settled after a change.
func (pw *ParameterWatcher) Events() <-chan string {
	return pw.events
}

func (pw *ParameterWatcher) Errors() <-chan error {
	return pw.errors
}

func (pw *ParameterWatcher) Close() error {
	pw.mutex.Lock()
	if pw.isClosed {
		pw.mutex.Unlock()
		return ErrWatcherClosed
	}
	pw.isClosed = true
	pw.mutex.Unlock()

	close(pw.done)
	<-pw.stopped
	return nil
}

func (pw *ParameterWatcher) start() {
	defer close(pw.stopped)

	timer := time.NewTimer(pw.debounce)
	timer.Stop()

	for {
		select {
		case e, ok := <-pw.fsnotify.Events:
			if !ok {
				return
			}
			if filepath.Clean(e.Name) != pw.path {
				continue
			}
			// writes and atomic replaces
			if e.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			core.LogDebug("planet file event: %s", e)
			// Reset never delivers a stale expiry since go 1.23
			timer.Reset(pw.debounce)

		case <-timer.C:
			select {
			case pw.events <- pw.path:
			default:
				// a reload is already queued
			}

		case err, ok := <-pw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError(err.Error())
			select {
			case pw.errors <- err:
			default:
			}

		case <-pw.done:
			timer.Stop()
			pw.fsnotify.Close()
			close(pw.events)
			close(pw.errors)
			return
		}
	}
}

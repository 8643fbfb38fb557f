package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dquist/verso/internal/event"
)

// Watcher reloads a configuration file when it changes on disk. Editors
// and atomic writers replace files with rename+create, so the watcher
// tracks the parent directory and filters on the file name. Rapid event
// bursts are coalesced by a debounce interval.
type Watcher struct {
	path     string
	debounce time.Duration

	fsw     *fsnotify.Watcher
	reloads chan Config
	errs    chan error

	mu     sync.Mutex
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the event coalescing interval.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// NewWatcher watches the given config file. Each successful reload is
// delivered on Reloads; load and watch failures on Errors.
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:     abs,
		debounce: 250 * time.Millisecond,
		fsw:      fsw,
		reloads:  make(chan Config, 1),
		errs:     make(chan error, 8),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()
	return w, nil
}

// Reloads returns the channel of reloaded configurations.
func (w *Watcher) Reloads() <-chan Config {
	return w.reloads
}

// Errors returns the channel of watch and reload errors.
func (w *Watcher) Errors() <-chan error {
	return w.errs
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// PublishTo forwards each reload to apply and announces it on the bus as
// a ConfigChanged event. It blocks until the watcher closes, so callers
// run it in a goroutine.
func (w *Watcher) PublishTo(bus *event.Bus, apply func(Config)) {
	for cfg := range w.reloads {
		if apply != nil {
			apply(cfg)
		}
		if bus != nil {
			bus.Publish(context.Background(), event.ConfigChanged{Path: w.path})
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ErrWatcherClosed
	}
	w.closed = true
	close(w.done)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	close(w.reloads)
	close(w.errs)
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) && !ev.Op.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.reload()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.sendErr(err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.sendErr(err)
		return
	}
	select {
	case w.reloads <- cfg:
	default:
		// A pending reload is still unread; replace it.
		select {
		case <-w.reloads:
		default:
		}
		select {
		case w.reloads <- cfg:
		default:
		}
	}
}

func (w *Watcher) sendErr(err error) {
	select {
	case w.errs <- err:
	default:
	}
}

package catalog

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads a catalog file into a Store whenever the file changes
type Watcher struct {
	path     string
	store    *Store
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration

	// OnReload, if set, is called after every reload attempt with its result
	OnReload func(err error)

	startOnce sync.Once
	stopOnce  sync.Once
	stopCh    chan struct{}
	doneCh    chan struct{}
}

// NewWatcher creates a watcher for the catalog file at path
func NewWatcher(path string, store *Store, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve catalog path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		path:     abs,
		store:    store,
		logger:   logger.With(zap.String("catalog", abs)),
		watcher:  fw,
		debounce: defaultDebounce,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce changes how long the watcher waits for writes to settle
func (w *Watcher) SetDebounce(d time.Duration) {
	w.debounce = d
}

// Start watches the file's directory, so editors that replace the file by
// rename are still seen. It returns immediately; the loop runs until ctx is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	var err error
	w.startOnce.Do(func() {
		if err = w.watcher.Add(filepath.Dir(w.path)); err != nil {
			err = fmt.Errorf("failed to watch catalog directory: %w", err)
			_ = w.watcher.Close()
			close(w.doneCh)
			return
		}
		w.logger.Info("watching catalog for changes")
		go w.run(ctx)
	})
	return err
}

// Stop ends the watch loop and waits for it to exit. On a watcher that was
// never started it releases the file watcher, and a later Start does nothing.
func (w *Watcher) Stop() {
	w.startOnce.Do(func() {
		_ = w.watcher.Close()
		close(w.doneCh)
	})
	w.stopOnce.Do(func() { close(w.stopCh) })
	<-w.doneCh
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.logger.Debug("catalog file event", zap.String("op", event.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Stop()
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("catalog watcher error", zap.Error(err))
		case <-fire:
			fire = nil
			w.reload()
		}
	}
}

func (w *Watcher) reload() {
	c, err := Load(w.path)
	if err == nil {
		err = w.store.Replace(c)
	}
	if err != nil {
		w.logger.Error("catalog reload failed, keeping previous catalog", zap.Error(err))
	} else {
		w.logger.Info("catalog reloaded", zap.Int("points", len(c.Points)))
	}
	if w.OnReload != nil {
		w.OnReload(err)
	}
}

package mapping

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ReloadFunc receives every successfully loaded and validated mapping file.
type ReloadFunc func(*MappingFile)

// Watcher reloads a mapping file whenever it changes on disk.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	onReload ReloadFunc
	onError  func(error)
	logger   *zap.Logger
	debounce time.Duration

	mu        sync.Mutex
	running   bool
	stopCh    chan struct{}
	stoppedCh chan struct{}
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the delay between the last file event and the reload.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithWatchLogger sets the logger of the watcher.
func WithWatchLogger(logger *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = logger
	}
}

// WithErrorHandler sets the function receiving load and watch errors.
func WithErrorHandler(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// NewWatcher creates a watcher of the mapping file at path.
func NewWatcher(path string, onReload ReloadFunc, opts ...WatcherOption) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:      absPath,
		watcher:   fsWatcher,
		onReload:  onReload,
		logger:    zap.NewNop(),
		debounce:  100 * time.Millisecond,
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Start loads the file once, hands it to the reload function and watches the
// file until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return nil
	}

	mf, err := w.load()
	if err != nil {
		return err
	}

	w.onReload(mf)

	// editors replace files on save, watch the directory instead of the file
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}

	w.logger.Info("watching mapping file", zap.String("path", w.path))

	w.running = true
	go w.watch(ctx)

	return nil
}

// Stop stops watching and releases the underlying watcher.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.stoppedCh

	return nil
}

func (w *Watcher) watch(ctx context.Context) {
	defer close(w.stoppedCh)
	defer w.watcher.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("mapping file watcher stopped", zap.Error(ctx.Err()))
			return

		case <-w.stopCh:
			w.logger.Info("mapping file watcher stopped")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			if filepath.Clean(event.Name) != w.path || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.logger.Debug("mapping file changed", zap.Stringer("op", event.Op))

			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}

			w.logger.Error("mapping file watcher error", zap.Error(err))
			w.fail(err)
		}
	}
}

func (w *Watcher) reload() {
	mf, err := w.load()
	if err != nil {
		w.logger.Error("mapping file reload failed", zap.String("path", w.path), zap.Error(err))
		w.fail(err)

		return
	}

	w.logger.Info("mapping file reloaded", zap.String("path", w.path))
	w.onReload(mf)
}

func (w *Watcher) load() (*MappingFile, error) {
	mf, err := LoadFile(w.path)
	if err != nil {
		return nil, err
	}

	if err := Validate(mf).Error(); err != nil {
		return nil, err
	}

	return mf, nil
}

func (w *Watcher) fail(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}

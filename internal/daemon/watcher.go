package daemon

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// ConfigWatcher calls OnChange after the config file settles following a
// write, create or rename. The parent directory is watched so editors that
// replace the file atomically are still seen.
type ConfigWatcher struct {
	path        string
	debounceDur time.Duration
	onChange    func()
	log         *zap.Logger

	mu      sync.Mutex
	pending time.Time // zero when nothing is queued
	fired   int
}

// NewConfigWatcher creates a watcher for path.
func NewConfigWatcher(path string, onChange func(), log *zap.Logger) *ConfigWatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfigWatcher{
		path:        filepath.Clean(path),
		debounceDur: 300 * time.Millisecond,
		onChange:    onChange,
		log:         log,
	}
}

// Run watches until ctx is canceled.
func (cw *ConfigWatcher) Run(ctx context.Context) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating config watcher: %w", err)
	}
	defer func() { _ = w.Close() }()

	dir := filepath.Dir(cw.path)
	if err := w.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cw.log.Info("watching config", zap.String("path", cw.path))

	debounceTicker := time.NewTicker(50 * time.Millisecond)
	defer debounceTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			cw.handleEvent(event)

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			cw.log.Warn("config watcher error", zap.Error(err))

		case now := <-debounceTicker.C:
			cw.flush(now)
		}
	}
}

// Fired returns how many reloads have been triggered.
func (cw *ConfigWatcher) Fired() int {
	cw.mu.Lock()
	defer cw.mu.Unlock()
	return cw.fired
}

func (cw *ConfigWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != cw.path {
		return
	}
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return
	}
	cw.log.Debug("config event", zap.String("op", event.Op.String()))

	cw.mu.Lock()
	cw.pending = time.Now()
	cw.mu.Unlock()
}

func (cw *ConfigWatcher) flush(now time.Time) {
	cw.mu.Lock()
	if cw.pending.IsZero() || now.Sub(cw.pending) < cw.debounceDur {
		cw.mu.Unlock()
		return
	}
	cw.pending = time.Time{}
	cw.fired++
	cw.mu.Unlock()

	cw.onChange()
}

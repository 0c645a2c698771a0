package keys

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads the keybindings file whenever it changes on disk and hands
// each successfully parsed registry to onReload. Parse failures are logged
// and the previous registry stays in effect.
type Watcher struct {
	path     string
	fsw      *fsnotify.Watcher
	logger   *zap.Logger
	onReload func(*Registry)

	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// Watch starts watching path's directory. Editors often replace files by
// rename, so events are matched by base name rather than by the file itself.
func Watch(path string, logger *zap.Logger, onReload func(*Registry)) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	w := &Watcher{
		path:     filepath.Clean(path),
		fsw:      fsw,
		logger:   logger.Named("keys"),
		onReload: onReload,
		done:     make(chan struct{}),
	}
	w.wg.Add(1)
	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(ev.Name) != w.path {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			reg, err := LoadFile(w.path)
			if err != nil {
				w.logger.Warn("keybindings reload failed", zap.Error(err))
				continue
			}
			w.logger.Debug("keybindings reloaded", zap.String("path", w.path))
			if w.onReload != nil {
				w.onReload(reg)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("keybindings watcher error", zap.Error(err))
		}
	}
}

// Close stops the watcher and waits for its goroutine. Safe to call twice.
func (w *Watcher) Close() error {
	if w == nil {
		return nil
	}
	var err error
	w.closeOnce.Do(func() {
		close(w.done)
		err = w.fsw.Close()
		w.wg.Wait()
	})
	return err
}

package mixer

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	beatr_log "github.com/SamSeenX/BeatR/internal/log"
)

// Watcher reloads a settings file whenever it is written.
type Watcher struct {
	path   string
	w      *fsnotify.Watcher
	logger *beatr_log.Logger
}

// NewWatcher starts watching path. The directory is watched rather than
// the file so editors that replace the file on save are followed.
func NewWatcher(path string, logger *beatr_log.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("mixer: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("mixer: watch: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, fmt.Errorf("mixer: watch %s: %w", path, err)
	}
	return &Watcher{path: abs, w: w, logger: beatr_log.OrDiscard(logger)}, nil
}

// Run calls fn with each successfully parsed version of the file until ctx
// is done. Bad documents are logged and skipped.
func (w *Watcher) Run(ctx context.Context, fn func(*Settings)) error {
	defer w.w.Close()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			s, err := Load(w.path)
			if err != nil {
				w.logger.Warnf("[MIXER] reload %s: %v", w.path, err)
				continue
			}
			w.logger.Infof("[MIXER] reloaded %s", w.path)
			fn(s)
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.logger.Errorf("[MIXER] watch: %v", err)
		}
	}
}

// Watch is NewWatcher followed by Run.
func Watch(ctx context.Context, path string, logger *beatr_log.Logger, fn func(*Settings)) error {
	w, err := NewWatcher(path, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, fn)
}

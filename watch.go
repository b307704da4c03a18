package orchestra

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig contains configuration for a document Watcher.
type WatcherConfig struct {
	// Path is the document file to watch.
	Path string

	// Fields is the capability table used to load and compile the document.
	Fields Fields

	// Options are passed to every Orchestrate call.
	Options []Option

	// Debounce is the quiet period after a change before reloading
	// (default: 100ms).
	Debounce time.Duration

	// OnReload receives each successfully compiled store, including the
	// initial one. Required.
	OnReload func(*ClipStore)

	// OnError receives load and compile failures. The previous store stays
	// in use. Optional; failures are logged either way.
	OnError func(error)

	Logger *slog.Logger
}

// Watcher recompiles a document whenever its file changes and hands the new
// store to OnReload. Stores are never modified in place.
type Watcher struct {
	cfg     WatcherConfig
	path    string
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for cfg.Path. Call Watch to start it.
func NewWatcher(cfg WatcherConfig) (*Watcher, error) {
	if cfg.OnReload == nil {
		return nil, fmt.Errorf("watcher: OnReload is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	path, err := filepath.Abs(cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("watcher: resolve path: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	return &Watcher{cfg: cfg, path: path, watcher: fw}, nil
}

// Watch loads the document once, then reloads it after every debounced
// change until ctx is cancelled. The containing directory is watched so that
// editors which replace the file on save are handled.
func (w *Watcher) Watch(ctx context.Context) error {
	defer w.watcher.Close()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch path: %w", err)
	}
	w.reload()

	w.cfg.Logger.Info("document watcher started",
		"path", w.path,
		"debounce_ms", w.cfg.Debounce.Milliseconds(),
	)

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
			w.cfg.Logger.Info("document watcher stopped")
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.cfg.Logger.Debug("document event detected", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.cfg.Debounce)
			} else {
				timer.Reset(w.cfg.Debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.cfg.Logger.Warn("document watcher error", "error", err)
		}
	}
}

func (w *Watcher) reload() {
	doc, err := LoadDocumentFile(w.path, w.cfg.Fields)
	if err == nil {
		var store *ClipStore
		store, err = doc.Orchestrate(w.cfg.Fields, w.cfg.Options...)
		if err == nil {
			w.cfg.Logger.Info("document reloaded", "path", w.path, "length", store.TotalLength())
			w.cfg.OnReload(store)
			return
		}
	}
	w.cfg.Logger.Warn("document reload failed", "path", w.path, "error", err)
	if w.cfg.OnError != nil {
		w.cfg.OnError(err)
	}
}

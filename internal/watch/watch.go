// Package watch feeds file-system changes into an Indexer.
//
// Directories under the indexer's scan directory are watched recursively,
// honouring the selector's directory blocklist; directories created later are
// added as they appear. Events are applied one at a time without debouncing.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-s12345/routelens/internal/analyzer"
	"github.com/Aman-s12345/routelens/internal/scan"
)

// Op classifies an applied change.
type Op int

const (
	OpUpdate Op = iota
	OpDelete
)

func (o Op) String() string {
	if o == OpDelete {
		return "delete"
	}
	return "update"
}

// Change is a file-system event after it has been applied to the index.
type Change struct {
	Path string
	Op   Op
}

// Watcher applies file-system events to an Indexer.
type Watcher struct {
	indexer  *analyzer.Indexer
	logger   *slog.Logger
	onChange func(Change)
	ready    chan struct{}
}

// New creates a watcher for ix. Nothing is watched until Start.
func New(ix *analyzer.Indexer, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{indexer: ix, logger: logger, ready: make(chan struct{})}
}

// OnChange sets the callback run after each applied event. Must be called before Start.
func (w *Watcher) OnChange(fn func(Change)) {
	w.onChange = fn
}

// Ready is closed once the initial directories are registered.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Start watches until ctx is cancelled. Watcher errors are logged and the
// loop keeps running.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fw.Close()

	w.addTree(ctx, fw, w.indexer.Dir())
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, fw, ev)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: watcher error", "err", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, fw *fsnotify.Watcher, ev fsnotify.Event) {
	path := filepath.Clean(ev.Name)

	switch {
	case ev.Has(fsnotify.Remove), ev.Has(fsnotify.Rename):
		w.indexer.DeleteFile(path)
		w.notify(Change{Path: path, Op: OpDelete})

	case ev.Has(fsnotify.Create), ev.Has(fsnotify.Write):
		fi, err := os.Stat(path)
		if err != nil {
			w.logger.Debug("watch: stat failed", "path", path, "err", err)
			return
		}
		if fi.IsDir() {
			if !ev.Has(fsnotify.Create) || scan.SkipDir(fi.Name()) {
				return
			}
			rel, err := w.indexer.Selector().FileFor(path)
			if err != nil {
				return
			}
			w.addTree(ctx, fw, rel.Rel)
			if err := w.indexer.UpdateDir(ctx, path); err != nil {
				w.logger.Warn("watch: directory update failed", "path", path, "err", err)
				return
			}
		} else if err := w.indexer.UpdateFile(ctx, path); err != nil {
			w.logger.Warn("watch: file update failed", "path", path, "err", err)
			return
		}
		w.notify(Change{Path: path, Op: OpUpdate})
	}
}

// addTree registers dir (workspace-relative) and every walkable directory below it.
func (w *Watcher) addTree(ctx context.Context, fw *fsnotify.Watcher, dir string) {
	w.indexer.Selector().WalkDirs(ctx, dir, func(abs string) {
		if err := fw.Add(abs); err != nil {
			w.logger.Warn("watch: failed to watch directory", "dir", abs, "err", err)
			return
		}
		w.logger.Debug("watch: watching", "dir", abs)
	})
}

func (w *Watcher) notify(c Change) {
	w.logger.Debug("watch: applied", "path", c.Path, "op", c.Op.String())
	if w.onChange != nil {
		w.onChange(c)
	}
}

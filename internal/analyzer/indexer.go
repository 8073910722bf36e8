package analyzer

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Aman-s12345/routelens/internal/cache"
	"github.com/Aman-s12345/routelens/internal/metrics"
	"github.com/Aman-s12345/routelens/internal/route"
	"github.com/Aman-s12345/routelens/internal/scan"
)

// Indexer owns the route cache for one workspace directory and keeps it in
// step with full refreshes and single-file changes.
type Indexer struct {
	analyzer *Analyzer
	cache    *cache.Routes
	dir      string
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// generation increases on every refresh and framework switch; a refresh
	// only commits if it still holds the latest generation.
	generation atomic.Uint64

	mu        sync.Mutex
	framework Framework
	cancel    context.CancelFunc
}

// NewIndexer returns an Indexer over dir (workspace-relative) with an empty cache.
func NewIndexer(a *Analyzer, framework Framework, dir string) *Indexer {
	return &Indexer{
		analyzer:  a,
		cache:     cache.New(),
		dir:       dir,
		logger:    a.logger,
		metrics:   a.metrics,
		framework: framework,
	}
}

func (ix *Indexer) Framework() Framework {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	return ix.framework
}

// Cache exposes the underlying route cache.
func (ix *Indexer) Cache() *cache.Routes {
	return ix.cache
}

// Refresh re-extracts the whole directory and replaces the cache content.
// Starting a refresh cancels any refresh still in flight; a run that lost
// the race returns ErrSuperseded and leaves the cache alone.
func (ix *Indexer) Refresh(ctx context.Context) (*Analysis, error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The generation is taken under the lock so the run that cancels its
	// predecessor is always the one holding the newest generation.
	ix.mu.Lock()
	gen := ix.generation.Add(1)
	if ix.cancel != nil {
		ix.cancel()
	}
	ix.cancel = cancel
	framework := ix.framework
	ix.mu.Unlock()

	analysis, err := ix.analyzer.Analyze(runCtx, framework, ix.dir)
	if ix.generation.Load() != gen {
		ix.metrics.Refreshed("superseded")
		return nil, ErrSuperseded
	}
	if err != nil {
		ix.metrics.Refreshed("error")
		return analysis, err
	}

	ix.mu.Lock()
	defer ix.mu.Unlock()
	if ix.generation.Load() != gen {
		ix.metrics.Refreshed("superseded")
		return nil, ErrSuperseded
	}
	ix.cache.Replace(analysis.Files)
	ix.metrics.Refreshed("ok")
	return analysis, nil
}

// UpdateFile re-extracts one file after it changed on disk. Paths the
// framework does not read are ignored. Read and parse failures leave an
// empty entry for the file.
func (ix *Indexer) UpdateFile(ctx context.Context, path string) error {
	framework := ix.Framework()
	b, err := ix.analyzer.Binding(framework)
	if err != nil {
		return err
	}
	f, err := ix.analyzer.Selector().FileFor(path)
	if err != nil {
		return err
	}
	if !ix.inDir(f.Rel) || !ix.analyzer.Selector().Accept(f.Rel, b.Extensions, b.Globs) {
		return nil
	}

	routes, err := ix.analyzer.ExtractFile(ctx, framework, f)
	if err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	ix.cache.UpdateFile(f.Path, routes)
	ix.logger.Debug("indexer: file updated", "file", f.Rel, "routes", len(routes))
	return nil
}

// UpdateDir extracts every selected file under a directory that appeared
// after the last refresh.
func (ix *Indexer) UpdateDir(ctx context.Context, path string) error {
	framework := ix.Framework()
	b, err := ix.analyzer.Binding(framework)
	if err != nil {
		return err
	}
	sel := ix.analyzer.Selector()
	d, err := sel.FileFor(path)
	if err != nil {
		return err
	}
	if !ix.inDir(d.Rel) {
		return nil
	}
	for _, f := range sel.Select(ctx, d.Rel, b.Extensions, b.Globs) {
		routes, err := ix.analyzer.ExtractFile(ctx, framework, f)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		ix.cache.UpdateFile(f.Path, routes)
	}
	return nil
}

// DeleteFile drops a removed path's routes. A removed directory drops
// every file recorded under it.
func (ix *Indexer) DeleteFile(path string) {
	path = filepath.Clean(path)
	ix.cache.DeleteFile(path)
	ix.cache.DeleteDir(path)
}

// Selector returns the selector the indexer reads files through.
func (ix *Indexer) Selector() *scan.Selector {
	return ix.analyzer.Selector()
}

// Dir returns the workspace-relative directory the indexer covers.
func (ix *Indexer) Dir() string {
	return ix.dir
}

// SetFramework switches the framework. A change clears the cache and
// supersedes any refresh in flight; the next Refresh repopulates it.
func (ix *Indexer) SetFramework(framework Framework) error {
	if _, err := ix.analyzer.Binding(framework); err != nil {
		return err
	}
	ix.mu.Lock()
	defer ix.mu.Unlock()
	if framework == ix.framework {
		return nil
	}
	ix.framework = framework
	ix.generation.Add(1)
	if ix.cancel != nil {
		ix.cancel()
	}
	ix.cache.Clear()
	return nil
}

// Routes returns the current route set in display order.
func (ix *Indexer) Routes() []route.Route {
	all := ix.cache.All()
	route.Sort(all)
	return all
}

func (ix *Indexer) inDir(rel string) bool {
	dir, err := scan.CleanDir(ix.dir)
	if err != nil {
		return false
	}
	return dir == "." || rel == dir || strings.HasPrefix(rel, dir+"/")
}

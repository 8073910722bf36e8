// Package analyzer dispatches source files to the extractor registered for
// the configured framework and keeps the resulting route index current.
package analyzer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-s12345/routelens/internal/metrics"
	"github.com/Aman-s12345/routelens/internal/route"
	"github.com/Aman-s12345/routelens/internal/scan"
)

var (
	// ErrUnsupportedFramework is returned for framework names outside the registry.
	ErrUnsupportedFramework = errors.New("unsupported framework")
	// ErrSuperseded is returned by a refresh that a newer refresh replaced.
	ErrSuperseded = errors.New("refresh superseded")
)

const defaultMemoSize = 4096

// Options configures an Analyzer. Zero values select defaults.
type Options struct {
	// Concurrency bounds the number of files extracted at once.
	Concurrency int
	// MemoSize is the number of extraction results kept by content hash.
	MemoSize int
	Logger   *slog.Logger
	Metrics  *metrics.Metrics
}

type Analyzer struct {
	selector    *scan.Selector
	registry    map[Framework]Binding
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Metrics
	memo        *lru.Cache[string, []route.Route]
}

func New(selector *scan.Selector, opts Options) (*Analyzer, error) {
	if selector == nil {
		return nil, errors.New("analyzer: nil selector")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}
	size := opts.MemoSize
	if size <= 0 {
		size = defaultMemoSize
	}
	memo, err := lru.New[string, []route.Route](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create extraction memo: %w", err)
	}
	return &Analyzer{
		selector:    selector,
		registry:    registry(logger),
		concurrency: concurrency,
		logger:      logger,
		metrics:     opts.Metrics,
		memo:        memo,
	}, nil
}

// Selector returns the file selector the analyzer reads through.
func (a *Analyzer) Selector() *scan.Selector {
	return a.selector
}

// Binding returns the registry entry for framework.
func (a *Analyzer) Binding(framework Framework) (Binding, error) {
	b, ok := a.registry[framework]
	if !ok {
		return Binding{}, fmt.Errorf("%w: %q", ErrUnsupportedFramework, framework)
	}
	return b, nil
}

// Analyze extracts routes from every file under dir that framework reads.
//
// An unknown framework yields an empty Analysis and ErrUnsupportedFramework.
// Read and parse failures are logged and counted but never abort the run;
// the only other error is ctx's.
func (a *Analyzer) Analyze(ctx context.Context, framework Framework, dir string) (*Analysis, error) {
	analysis := &Analysis{Framework: framework, Files: make(map[string][]route.Route)}
	b, err := a.Binding(framework)
	if err != nil {
		return analysis, err
	}

	start := time.Now()
	files := a.selector.Select(ctx, dir, b.Extensions, b.Globs)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(a.concurrency)
	for _, f := range files {
		g.Go(func() error {
			routes, err := a.ExtractFile(ctx, framework, f)
			if ctx.Err() != nil {
				return nil
			}
			mu.Lock()
			defer mu.Unlock()
			analysis.Scanned++
			if err != nil {
				analysis.Failed++
			}
			analysis.Files[f.Path] = routes
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return analysis, err
	}

	total := 0
	for _, routes := range analysis.Files {
		total += len(routes)
	}
	a.metrics.RunFinished(string(framework), total, time.Since(start))
	a.logger.Debug("analyzer: run finished",
		"framework", framework.String(),
		"dir", dir,
		"files", analysis.Scanned,
		"failed", analysis.Failed,
		"routes", total,
		"elapsed", time.Since(start))
	return analysis, nil
}

// ExtractFile reads and extracts one file. On error the returned routes are
// empty, never nil.
func (a *Analyzer) ExtractFile(ctx context.Context, framework Framework, f scan.File) ([]route.Route, error) {
	b, err := a.Binding(framework)
	if err != nil {
		return []route.Route{}, err
	}
	if err := ctx.Err(); err != nil {
		return []route.Route{}, err
	}

	src, err := a.selector.ReadFile(f)
	if err != nil {
		a.metrics.ParseFailed(string(framework))
		a.logger.Warn("analyzer: failed to read file", "file", f.Rel, "err", err)
		return []route.Route{}, fmt.Errorf("failed to read %s: %w", f.Rel, err)
	}
	a.metrics.FileScanned(string(framework))

	key := memoKey(framework, f.Path, src)
	if routes, ok := a.memo.Get(key); ok {
		return slices.Clone(routes), nil
	}

	routes, err := b.Extractor.Extract(ctx, f.Path, src)
	if err != nil {
		if ctx.Err() == nil {
			a.metrics.ParseFailed(string(framework))
			a.logger.Warn("analyzer: failed to extract routes", "file", f.Rel, "err", err)
		}
		return []route.Route{}, err
	}
	if routes == nil {
		routes = []route.Route{}
	}
	a.memo.Add(key, routes)
	return slices.Clone(routes), nil
}

func memoKey(framework Framework, file string, src []byte) string {
	sum := sha256.Sum256(src)
	return string(framework) + "\x00" + file + "\x00" + hex.EncodeToString(sum[:])
}

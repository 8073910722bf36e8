// Package scan enumerates candidate source files under a workspace root.
//
// The walk runs over an fs.FS rooted at the workspace so the host can supply
// any list-directory / read-file implementation. Errors are contained per
// directory: an unreadable directory is logged and skipped, its siblings are
// still walked.
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// File is a candidate source file.
type File struct {
	// Absolute filesystem path.
	Path string
	// Workspace-relative path using forward slashes (e.g., "src/app.js").
	Rel string
	// Lowercased extension including the dot.
	Ext string
}

// Selector walks a workspace and filters files by extension and include globs.
type Selector struct {
	FS     fs.FS
	Root   string
	Logger *slog.Logger
}

// New returns a Selector over the OS filesystem rooted at root.
func New(root string, logger *slog.Logger) (*Selector, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve workspace root: %w", err)
	}
	fi, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("workspace root %s: %w", abs, err)
	}
	if !fi.IsDir() {
		return nil, fmt.Errorf("workspace root %s is not a directory", abs)
	}
	return &Selector{FS: os.DirFS(abs), Root: abs, Logger: logger}, nil
}

// Select walks dir (workspace-relative, "." for the root) and returns every
// file that passes the blocklists, matches at least one include glob when
// globs are given, and has one of exts. Order is unspecified.
func (s *Selector) Select(ctx context.Context, dir string, exts []string, globs []string) []File {
	dir, err := CleanDir(dir)
	if err != nil {
		s.logger().Warn("scan: invalid directory", "dir", dir, "err", err)
		return nil
	}
	allowed := extSet(exts)
	if len(allowed) == 0 {
		return nil
	}

	var (
		mu    sync.Mutex
		files []File
	)
	s.walk(ctx, dir, func(f File) {
		if _, ok := allowed[f.Ext]; !ok {
			return
		}
		if !matchAny(globs, f.Rel) {
			return
		}
		mu.Lock()
		files = append(files, f)
		mu.Unlock()
	})
	return files
}

// Accept applies the Select filters to a single workspace-relative path.
func (s *Selector) Accept(rel string, exts []string, globs []string) bool {
	rel = filepath.ToSlash(rel)
	if !fs.ValidPath(rel) || rel == "." {
		return false
	}
	parts := strings.Split(rel, "/")
	for _, dir := range parts[:len(parts)-1] {
		if SkipDir(dir) {
			return false
		}
	}
	if SkipFile(parts[len(parts)-1]) {
		return false
	}
	if _, ok := extSet(exts)[strings.ToLower(path.Ext(rel))]; !ok {
		return false
	}
	return matchAny(globs, rel)
}

// ReadFile reads f through the selector's filesystem.
func (s *Selector) ReadFile(f File) ([]byte, error) {
	return fs.ReadFile(s.FS, f.Rel)
}

// FileFor builds a File from an absolute path inside the workspace.
func (s *Selector) FileFor(abs string) (File, error) {
	rel, err := filepath.Rel(s.Root, abs)
	if err != nil {
		return File{}, err
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return File{}, fmt.Errorf("%s is outside workspace %s", abs, s.Root)
	}
	return s.file(rel), nil
}

// WalkDirs calls fn with the absolute path of every directory under dir that
// the walk would descend into, dir included.
func (s *Selector) WalkDirs(ctx context.Context, dir string, fn func(abs string)) {
	dir, err := CleanDir(dir)
	if err != nil {
		return
	}
	var mu sync.Mutex
	fn(s.abs(dir))
	s.walkDirs(ctx, dir, func(rel string) {
		mu.Lock()
		defer mu.Unlock()
		fn(s.abs(rel))
	})
}

func (s *Selector) walk(ctx context.Context, dir string, visit func(File)) {
	if ctx.Err() != nil {
		return
	}
	// fs.ReadDir returns the entries it managed to read along with the error.
	entries, err := fs.ReadDir(s.FS, dir)
	if err != nil {
		s.logger().Warn("scan: failed to read directory", "dir", dir, "err", err)
	}

	var g errgroup.Group
	for _, e := range entries {
		name := e.Name()
		rel := path.Join(dir, name)
		if e.IsDir() {
			if SkipDir(name) {
				continue
			}
			g.Go(func() error {
				s.walk(ctx, rel, visit)
				return nil
			})
			continue
		}
		if SkipFile(name) {
			continue
		}
		visit(s.file(rel))
	}
	_ = g.Wait()
}

func (s *Selector) walkDirs(ctx context.Context, dir string, visit func(rel string)) {
	if ctx.Err() != nil {
		return
	}
	entries, err := fs.ReadDir(s.FS, dir)
	if err != nil {
		s.logger().Warn("scan: failed to read directory", "dir", dir, "err", err)
	}
	var g errgroup.Group
	for _, e := range entries {
		if !e.IsDir() || SkipDir(e.Name()) {
			continue
		}
		rel := path.Join(dir, e.Name())
		visit(rel)
		g.Go(func() error {
			s.walkDirs(ctx, rel, visit)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *Selector) file(rel string) File {
	return File{
		Path: s.abs(rel),
		Rel:  rel,
		Ext:  strings.ToLower(path.Ext(rel)),
	}
}

func (s *Selector) abs(rel string) string {
	return filepath.Join(s.Root, filepath.FromSlash(rel))
}

func (s *Selector) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// CleanDir normalises a workspace-relative directory ("./src/" -> "src").
func CleanDir(dir string) (string, error) {
	dir = strings.TrimSpace(filepath.ToSlash(dir))
	if dir == "" {
		return ".", nil
	}
	dir = path.Clean(dir)
	if !fs.ValidPath(dir) {
		return dir, fmt.Errorf("directory %q must be relative to the workspace root", dir)
	}
	return dir, nil
}

func extSet(exts []string) map[string]struct{} {
	allowed := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		allowed[ext] = struct{}{}
	}
	return allowed
}

func matchAny(globs []string, rel string) bool {
	if len(globs) == 0 {
		return true
	}
	for _, g := range globs {
		if ok, err := doublestar.Match(g, rel); err == nil && ok {
			return true
		}
	}
	return false
}

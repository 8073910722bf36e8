// Package extract turns one source file into the HTTP routes it declares.
//
// Each supported web framework has an Extractor. Extractors parse the file
// with tree-sitter, walk the syntax tree once (twice for Express) while
// tracking file-local router, mount and prefix tables, and emit route.Route
// values. They never share state across files.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/Aman-s12345/routelens/internal/route"
)

var (
	// ErrSyntax is returned when a file does not parse cleanly.
	ErrSyntax = errors.New("syntax error")
	// ErrUnsupportedLanguage is returned for file extensions with no grammar.
	ErrUnsupportedLanguage = errors.New("unsupported language")
)

// Extractor extracts the routes declared in a single file.
// file is the absolute path recorded on every route; src is its content.
type Extractor interface {
	Extract(ctx context.Context, file string, src []byte) ([]route.Route, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, file string, src []byte) ([]route.Route, error)

// Extract calls f.
func (f ExtractorFunc) Extract(ctx context.Context, file string, src []byte) ([]route.Route, error) {
	return f(ctx, file, src)
}

func languageFor(file string) (*sitter.Language, error) {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return javascript.GetLanguage(), nil
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage(), nil
	case ".tsx":
		return tsx.GetLanguage(), nil
	case ".py":
		return python.GetLanguage(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, filepath.Ext(file))
	}
}

// parse builds a syntax tree for src. A tree containing error or missing
// nodes is rejected with ErrSyntax; the caller owns the returned tree.
func parse(ctx context.Context, file string, src []byte) (*sitter.Tree, error) {
	lang, err := languageFor(file)
	if err != nil {
		return nil, err
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		tree.Close()
		return nil, fmt.Errorf("%w: %s:%d", ErrSyntax, file, line)
	}
	return tree, nil
}

func firstErrorLine(n *sitter.Node) int {
	if n.IsError() || n.IsMissing() {
		return line(n)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		return firstErrorLine(child)
	}
	return line(n)
}

// walk visits n and its named descendants in source order. Returning false
// from fn skips the node's children.
func walk(n *sitter.Node, fn func(*sitter.Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		walk(n.NamedChild(i), fn)
	}
}

func namedChildren(n *sitter.Node) []*sitter.Node {
	if n == nil {
		return nil
	}
	out := make([]*sitter.Node, 0, n.NamedChildCount())
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		if child == nil || child.Type() == "comment" {
			continue
		}
		out = append(out, child)
	}
	return out
}

func line(n *sitter.Node) int {
	return int(n.StartPoint().Row) + 1
}

func sameNode(a, b *sitter.Node) bool {
	if a == nil || b == nil {
		return false
	}
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}

// fileContext is the per-file traversal state. It is created for one
// Extract call and discarded afterwards.
type fileContext struct {
	file string
	src  []byte

	// routers holds variables bound to a router/blueprint instance.
	routers map[string]bool
	// mounts maps a router variable to the path it is mounted under.
	mounts map[string]string
	// prefixes maps a router variable to its constructor/.prefix() prefix.
	prefixes map[string]string
	// includes lists Django include() targets seen in urlpatterns.
	includes []string

	routes []route.Route
}

func newFileContext(file string, src []byte) *fileContext {
	return &fileContext{
		file:     file,
		src:      src,
		routers:  make(map[string]bool),
		mounts:   make(map[string]string),
		prefixes: make(map[string]string),
	}
}

func (c *fileContext) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(c.src)
}

func (c *fileContext) emit(method, path, basePath string, at *sitter.Node) {
	c.routes = append(c.routes, route.Route{
		Method:   strings.ToUpper(method),
		Path:     path,
		BasePath: basePath,
		File:     c.file,
		FileLine: line(at),
	})
}

// joinPath joins URL path fragments with "/" and collapses repeated slashes.
// Empty fragments are ignored; a trailing slash on the last fragment is kept.
func joinPath(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}
	joined := strings.Join(kept, "/")
	for strings.Contains(joined, "//") {
		joined = strings.ReplaceAll(joined, "//", "/")
	}
	return joined
}

func withLeadingSlash(p string) string {
	if strings.HasPrefix(p, "/") {
		return p
	}
	return "/" + p
}

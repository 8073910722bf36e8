package extract

import (
	"context"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Aman-s12345/routelens/internal/route"
)

// Django extracts path()/re_path() entries of the module-level urlpatterns
// list. include() entries are recorded and logged but not followed.
type Django struct {
	Logger *slog.Logger
}

func (d Django) Extract(ctx context.Context, file string, src []byte) ([]route.Route, error) {
	tree, err := parse(ctx, file, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newFileContext(file, src)
	for _, stmt := range namedChildren(tree.RootNode()) {
		if stmt.Type() != "expression_statement" {
			continue
		}
		for _, expr := range namedChildren(stmt) {
			c.urlpatterns(expr)
		}
	}

	if len(c.includes) > 0 && d.Logger != nil {
		d.Logger.Debug("django: include() not followed", "file", file, "includes", c.includes)
	}
	return c.routes, nil
}

// urlpatterns handles `urlpatterns = [...]` and `urlpatterns += [...]`.
func (c *fileContext) urlpatterns(expr *sitter.Node) {
	switch expr.Type() {
	case "assignment", "augmented_assignment":
	default:
		return
	}
	if c.text(expr.ChildByFieldName("left")) != "urlpatterns" {
		return
	}
	list := expr.ChildByFieldName("right")
	if list == nil || list.Type() != "list" {
		return
	}
	for _, item := range namedChildren(list) {
		c.djangoPattern(item)
	}
}

func (c *fileContext) djangoPattern(item *sitter.Node) {
	call := c.decodeCall(item)
	if call == nil {
		return
	}
	var method string
	switch call.callee {
	case "path":
		method = route.DjangoPath
	case "re_path":
		method = route.DjangoRePath
	default:
		return
	}
	if len(call.positional) < 2 {
		return
	}
	path, ok := c.pyString(call.positional[0])
	if !ok {
		return
	}
	if target := c.decodeCall(call.positional[1]); target != nil && target.callee == "include" {
		if ref, ok := c.innermostString(target.node.ChildByFieldName("arguments")); ok {
			c.includes = append(c.includes, ref)
		}
		return
	}
	c.emit(method, path, "", item)
}

// innermostString returns the first string literal nested under n.
func (c *fileContext) innermostString(n *sitter.Node) (string, bool) {
	var (
		found string
		ok    bool
	)
	walk(n, func(child *sitter.Node) bool {
		if ok {
			return false
		}
		if child.Type() == "string" {
			found, ok = c.pyString(child)
			return false
		}
		return true
	})
	return strings.TrimSpace(found), ok
}

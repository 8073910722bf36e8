package extract

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Aman-s12345/routelens/internal/route"
)

// Express extracts app.METHOD and router.METHOD declarations.
//
// A first pass records variables bound to express.Router(); the second pass
// walks calls in source order, so a router's base path is whatever
// app.use(path, router) mounted it under at that point in the file.
type Express struct{}

func (Express) Extract(ctx context.Context, file string, src []byte) ([]route.Route, error) {
	tree, err := parse(ctx, file, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newFileContext(file, src)
	root := tree.RootNode()

	walk(root, func(n *sitter.Node) bool {
		if n.Type() == "variable_declarator" {
			name := n.ChildByFieldName("name")
			if name != nil && name.Type() == "identifier" && c.isRouterFactory(n.ChildByFieldName("value")) {
				c.routers[c.text(name)] = true
			}
		}
		return true
	})

	walk(root, func(n *sitter.Node) bool {
		if n.Type() == "call_expression" {
			c.expressCall(n)
		}
		return true
	})
	return c.routes, nil
}

// isRouterFactory matches express.Router(), require('express').Router() and
// a bare Router().
func (c *fileContext) isRouterFactory(value *sitter.Node) bool {
	if value == nil || value.Type() != "call_expression" {
		return false
	}
	fn := value.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	switch fn.Type() {
	case "identifier":
		return c.text(fn) == "Router"
	case "member_expression":
		return c.text(fn.ChildByFieldName("property")) == "Router"
	}
	return false
}

func (c *fileContext) expressCall(call *sitter.Node) {
	obj, prop := memberCall(call)
	if obj == nil || prop == nil {
		return
	}
	method := c.text(prop)
	args := callArgs(call)

	if method == "use" {
		if len(args) < 2 || args[1].Type() != "identifier" {
			return
		}
		mount, ok := c.jsString(args[0])
		if name := c.text(args[1]); ok && c.routers[name] {
			c.mounts[name] = mount
		}
		return
	}

	if !jsMethods[method] || obj.Type() != "identifier" {
		return
	}
	path, _ := c.firstStringArg(call)
	switch name := c.text(obj); {
	case name == "app":
		c.emit(method, path, "", call)
	case c.routers[name]:
		c.emit(method, path, c.mounts[name], call)
	}
}

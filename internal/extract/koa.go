package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Aman-s12345/routelens/internal/route"
)

// koaHooks are the calls a router is handed to when it is wired into an app.
var koaHooks = map[string]bool{
	"use":            true,
	"routes":         true,
	"allowedMethods": true,
}

// Koa extracts koa-router declarations. Prefixes come from router.prefix()
// and from the `new Router({ prefix })` constructor option.
type Koa struct{}

func (Koa) Extract(ctx context.Context, file string, src []byte) ([]route.Route, error) {
	tree, err := parse(ctx, file, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newFileContext(file, src)
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "variable_declarator":
			c.koaConstructor(n)
		case "call_expression":
			c.koaCall(n)
		}
		return true
	})
	return c.routes, nil
}

func (c *fileContext) koaConstructor(decl *sitter.Node) {
	name := decl.ChildByFieldName("name")
	value := decl.ChildByFieldName("value")
	if name == nil || name.Type() != "identifier" || value == nil || value.Type() != "new_expression" {
		return
	}
	if !strings.Contains(c.text(value.ChildByFieldName("constructor")), "Router") {
		return
	}
	args := callArgs(value)
	if len(args) == 0 {
		return
	}
	if prefix, ok := c.jsString(c.objectProperty(args[0], "prefix")); ok {
		c.prefixes[c.text(name)] = prefix
	}
}

func (c *fileContext) koaCall(call *sitter.Node) {
	obj, prop := memberCall(call)
	if obj == nil || prop == nil || obj.Type() != "identifier" {
		return
	}
	name, method := c.text(obj), c.text(prop)

	if method == "prefix" {
		if prefix, ok := c.firstStringArg(call); ok {
			c.prefixes[name] = prefix
		}
		return
	}
	if !jsMethods[method] {
		return
	}
	path, ok := c.firstStringArg(call)
	if !ok || !c.isRouterLike(call) {
		return
	}
	c.emit(method, path, c.prefixes[name], call)
}

// isRouterLike reports whether the route call's value is consumed: handed to
// a use/routes/allowedMethods call, bound to a variable or assigned.
func (c *fileContext) isRouterLike(call *sitter.Node) bool {
	parent := call.Parent()
	if parent == nil {
		return false
	}
	switch parent.Type() {
	case "arguments":
		outer := parent.Parent()
		_, prop := memberCall(outer)
		return prop != nil && koaHooks[c.text(prop)]
	case "variable_declarator":
		return sameNode(parent.ChildByFieldName("value"), call)
	case "assignment_expression":
		return sameNode(parent.ChildByFieldName("right"), call)
	}
	return false
}

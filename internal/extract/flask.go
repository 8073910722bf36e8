package extract

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Aman-s12345/routelens/internal/route"
)

// pyRouting describes how a decorator-based Python framework declares
// routers and mounts them.
type pyRouting struct {
	// multiMethod decorators take a methods=[...] list.
	multiMethod map[string]bool
	// pathKeywords may carry the path instead of the first positional argument.
	pathKeywords []string

	routerFactory  string
	routerPrefixKw string
	mountCall      string
	mountKw        string

	// prefixInPath joins the router's own prefix into Route.Path rather than
	// reporting it as the base path.
	prefixInPath bool
}

var flaskRouting = &pyRouting{
	multiMethod:    map[string]bool{"route": true},
	pathKeywords:   []string{"rule"},
	routerFactory:  "Blueprint",
	routerPrefixKw: "url_prefix",
	mountCall:      "register_blueprint",
	mountKw:        "url_prefix",
}

// Flask extracts @app.route / @bp.route declarations, method shortcut
// decorators and MethodView-style classes.
type Flask struct{}

func (Flask) Extract(ctx context.Context, file string, src []byte) ([]route.Route, error) {
	return extractPython(ctx, file, src, flaskRouting)
}

func extractPython(ctx context.Context, file string, src []byte, r *pyRouting) ([]route.Route, error) {
	tree, err := parse(ctx, file, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newFileContext(file, src)
	root := tree.RootNode()

	c.pyAssignments(root, func(name string, call *pyCall) {
		if call.name() != r.routerFactory {
			return
		}
		c.routers[name] = true
		if prefix, ok := c.pyString(call.keywords[r.routerPrefixKw]); ok {
			c.prefixes[name] = prefix
		}
	})
	c.pyCalls(root, func(call *pyCall) {
		if call.name() != r.mountCall || len(call.positional) == 0 || call.positional[0].Type() != "identifier" {
			return
		}
		if prefix, ok := c.pyString(call.keywords[r.mountKw]); ok {
			c.mounts[c.text(call.positional[0])] = prefix
		}
	})

	c.pyWalk(root, "", r)
	return c.routes, nil
}

func (c *fileContext) pyWalk(n *sitter.Node, base string, r *pyRouting) {
	for _, child := range namedChildren(n) {
		c.pyNode(child, base, r)
	}
}

func (c *fileContext) pyNode(n *sitter.Node, base string, r *pyRouting) {
	switch n.Type() {
	case "decorated_definition":
		def := n.ChildByFieldName("definition")
		decorators := pyDecorators(n)
		if def != nil && def.Type() == "class_definition" {
			c.pyClass(def, decorators, base, r)
			return
		}
		c.pyRoutes(decorators, base, r)
		c.pyWalk(def, base, r)
	case "class_definition":
		c.pyClass(n, nil, base, r)
	default:
		c.pyWalk(n, base, r)
	}
}

// pyRoutes emits the routes declared by a function's decorators.
func (c *fileContext) pyRoutes(decorators []*sitter.Node, base string, r *pyRouting) {
	for _, dec := range decorators {
		call := c.decodeCall(decoratorExpr(dec))
		if call == nil {
			continue
		}
		name := call.name()
		if !r.multiMethod[name] && !route.IsMethod(name) {
			continue
		}
		prefix, basePath := c.pyResolve(call.receiver, r)
		path := joinPath(prefix, base, c.stringArg(call, r.pathKeywords...))
		if r.multiMethod[name] {
			for _, method := range c.methodsArg(call) {
				c.emit(method, path, basePath, dec)
			}
			continue
		}
		c.emit(name, path, basePath, dec)
	}
}

// pyResolve returns the path prefix and base path contributed by the
// decorator's receiver.
func (c *fileContext) pyResolve(receiver string, r *pyRouting) (string, string) {
	if receiver == "" {
		return "", ""
	}
	prefix := c.prefixes[receiver]
	mount, mounted := c.mounts[receiver]
	if r.prefixInPath {
		return prefix, mount
	}
	if mounted {
		return "", mount
	}
	return "", prefix
}

func (c *fileContext) pyClass(class *sitter.Node, decorators []*sitter.Node, base string, r *pyRouting) {
	body := class.ChildByFieldName("body")
	if !c.isViewClass(class, decorators, r) {
		c.pyWalk(body, base, r)
		return
	}

	classBase, basePath := base, ""
	for _, dec := range decorators {
		call := c.decodeCall(decoratorExpr(dec))
		if call == nil || !r.multiMethod[call.name()] {
			continue
		}
		if p := c.stringArg(call, r.pathKeywords...); p != "" {
			var prefix string
			prefix, basePath = c.pyResolve(call.receiver, r)
			classBase = joinPath(prefix, classBase, p)
		}
	}

	for _, member := range namedChildren(body) {
		switch member.Type() {
		case "function_definition":
			c.pyViewMethod(member, classBase, basePath)
		case "decorated_definition":
			def := member.ChildByFieldName("definition")
			if def == nil || def.Type() != "function_definition" {
				c.pyNode(member, classBase, r)
				continue
			}
			c.pyRoutes(pyDecorators(member), classBase, r)
			c.pyViewMethod(def, classBase, basePath)
		default:
			c.pyNode(member, classBase, r)
		}
	}
}

// pyViewMethod emits a route for a view method named after an HTTP method.
// basePath comes from the router the class is registered on.
func (c *fileContext) pyViewMethod(fn *sitter.Node, classBase, basePath string) {
	name := c.text(fn.ChildByFieldName("name"))
	if route.IsMethod(name) {
		c.emit(name, classBase, basePath, fn)
	}
}

// isViewClass reports whether a class routes by method name: it carries a
// path decorator or extends a View/Resource base.
func (c *fileContext) isViewClass(class *sitter.Node, decorators []*sitter.Node, r *pyRouting) bool {
	for _, dec := range decorators {
		call := c.decodeCall(decoratorExpr(dec))
		if call != nil && r.multiMethod[call.name()] && c.stringArg(call, r.pathKeywords...) != "" {
			return true
		}
	}
	for _, super := range namedChildren(class.ChildByFieldName("superclasses")) {
		name := c.text(super)
		if i := strings.LastIndex(name, "."); i >= 0 {
			name = name[i+1:]
		}
		if strings.HasSuffix(name, "View") || strings.HasSuffix(name, "Resource") {
			return true
		}
	}
	return false
}

package extract

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Aman-s12345/routelens/internal/route"
)

var nestMethods = map[string]bool{
	"Get":     true,
	"Post":    true,
	"Put":     true,
	"Delete":  true,
	"Patch":   true,
	"Head":    true,
	"Options": true,
}

// NestJS extracts @Controller classes and their method decorators.
type NestJS struct{}

func (NestJS) Extract(ctx context.Context, file string, src []byte) ([]route.Route, error) {
	tree, err := parse(ctx, file, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	c := newFileContext(file, src)
	walk(tree.RootNode(), func(n *sitter.Node) bool {
		switch n.Type() {
		case "class_declaration", "abstract_class_declaration":
			c.nestController(n)
		}
		return true
	})
	return c.routes, nil
}

func (c *fileContext) nestController(class *sitter.Node) {
	decorators := childDecorators(class)
	// `@Controller() export class X {}` attaches the decorators to the export.
	if parent := class.Parent(); parent != nil && parent.Type() == "export_statement" {
		decorators = append(childDecorators(parent), decorators...)
	}

	base := ""
	for _, dec := range decorators {
		if name, args := c.decoratorCall(dec); name == "Controller" {
			base = c.controllerPath(args)
		}
	}

	body := class.ChildByFieldName("body")
	var pending []*sitter.Node
	for _, member := range namedChildren(body) {
		switch member.Type() {
		case "decorator":
			pending = append(pending, member)
		case "method_definition":
			for _, dec := range append(pending, childDecorators(member)...) {
				c.nestRoute(dec, base)
			}
			pending = nil
		default:
			pending = nil
		}
	}
}

func (c *fileContext) nestRoute(dec *sitter.Node, base string) {
	name, args := c.decoratorCall(dec)
	if !nestMethods[name] {
		return
	}
	path := ""
	if len(args) > 0 {
		path, _ = c.jsString(args[0])
	}
	c.emit(name, withLeadingSlash(path), base, dec)
}

// controllerPath reads @Controller('path') or @Controller({ path: 'path' }).
func (c *fileContext) controllerPath(args []*sitter.Node) string {
	if len(args) == 0 {
		return ""
	}
	path, ok := c.jsString(args[0])
	if !ok {
		path, _ = c.jsString(c.objectProperty(args[0], "path"))
	}
	if path == "" {
		return ""
	}
	return withLeadingSlash(path)
}

// decoratorCall returns the callee name and arguments of `@Name(args)`.
// Decorators that are not calls yield an empty name.
func (c *fileContext) decoratorCall(dec *sitter.Node) (string, []*sitter.Node) {
	for _, child := range namedChildren(dec) {
		if child.Type() != "call_expression" {
			continue
		}
		fn := child.ChildByFieldName("function")
		if fn == nil || fn.Type() != "identifier" {
			return "", nil
		}
		return c.text(fn), callArgs(child)
	}
	return "", nil
}

func childDecorators(n *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range namedChildren(n) {
		if child.Type() == "decorator" {
			out = append(out, child)
		}
	}
	return out
}

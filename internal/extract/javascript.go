package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// jsMethods are the router methods Express and Koa route declarations use.
var jsMethods = map[string]bool{
	"get":    true,
	"post":   true,
	"put":    true,
	"delete": true,
	"patch":  true,
}

// jsString returns the value of a string literal or a template literal
// without substitutions.
func (c *fileContext) jsString(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string":
		return trimQuotes(c.text(n), `'"`), true
	case "template_string":
		for _, child := range namedChildren(n) {
			if child.Type() == "template_substitution" {
				return "", false
			}
		}
		return trimQuotes(c.text(n), "`"), true
	}
	return "", false
}

func trimQuotes(s, quotes string) string {
	if len(s) >= 2 && strings.ContainsRune(quotes, rune(s[0])) && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// memberCall splits `obj.prop(...)` into its object and property nodes.
// Both are nil when the callee is not a member expression.
func memberCall(call *sitter.Node) (obj, prop *sitter.Node) {
	if call == nil || call.Type() != "call_expression" {
		return nil, nil
	}
	fn := call.ChildByFieldName("function")
	if fn == nil || fn.Type() != "member_expression" {
		return nil, nil
	}
	return fn.ChildByFieldName("object"), fn.ChildByFieldName("property")
}

// callArgs returns the argument expressions of a call or new expression.
func callArgs(call *sitter.Node) []*sitter.Node {
	if call == nil {
		return nil
	}
	return namedChildren(call.ChildByFieldName("arguments"))
}

// objectProperty returns the value of key in an object literal.
func (c *fileContext) objectProperty(obj *sitter.Node, key string) *sitter.Node {
	if obj == nil || obj.Type() != "object" {
		return nil
	}
	for _, pair := range namedChildren(obj) {
		if pair.Type() != "pair" {
			continue
		}
		k := pair.ChildByFieldName("key")
		name := c.text(k)
		if k != nil && k.Type() == "string" {
			name, _ = c.jsString(k)
		}
		if name == key {
			return pair.ChildByFieldName("value")
		}
	}
	return nil
}

// firstStringArg returns the first argument when it is a string literal.
func (c *fileContext) firstStringArg(call *sitter.Node) (string, bool) {
	args := callArgs(call)
	if len(args) == 0 {
		return "", false
	}
	return c.jsString(args[0])
}

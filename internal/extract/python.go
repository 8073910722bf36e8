package extract

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/Aman-s12345/routelens/internal/route"
)

// pyString returns the value of a Python string literal. Implicitly
// concatenated literals are joined.
func (c *fileContext) pyString(n *sitter.Node) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Type() {
	case "string":
		return unquotePython(c.text(n)), true
	case "concatenated_string":
		var b strings.Builder
		for _, part := range namedChildren(n) {
			s, ok := c.pyString(part)
			if !ok {
				return "", false
			}
			b.WriteString(s)
		}
		return b.String(), true
	}
	return "", false
}

func unquotePython(s string) string {
	s = strings.TrimLeft(s, "rRbBuUfF")
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && strings.HasPrefix(s, q) && strings.HasSuffix(s, q) {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// pyCall is a decoded `callee(args)` expression.
type pyCall struct {
	node *sitter.Node
	// callee is the dotted callee text, e.g. "app.route".
	callee string
	// receiver is the identifier before the last dot, "" when absent.
	receiver   string
	positional []*sitter.Node
	keywords   map[string]*sitter.Node
}

func (c *fileContext) decodeCall(n *sitter.Node) *pyCall {
	if n == nil || n.Type() != "call" {
		return nil
	}
	fn := n.ChildByFieldName("function")
	if fn == nil {
		return nil
	}
	call := &pyCall{
		node:     n,
		callee:   strings.Join(strings.Fields(c.text(fn)), ""),
		keywords: make(map[string]*sitter.Node),
	}
	if fn.Type() == "attribute" {
		if obj := fn.ChildByFieldName("object"); obj != nil && obj.Type() == "identifier" {
			call.receiver = c.text(obj)
		}
	}
	for _, arg := range namedChildren(n.ChildByFieldName("arguments")) {
		switch arg.Type() {
		case "keyword_argument":
			call.keywords[c.text(arg.ChildByFieldName("name"))] = arg.ChildByFieldName("value")
		case "list_splat", "dictionary_splat":
		default:
			call.positional = append(call.positional, arg)
		}
	}
	return call
}

// name is the callee's trailing segment ("route" for "app.route").
func (p *pyCall) name() string {
	if i := strings.LastIndex(p.callee, "."); i >= 0 {
		return p.callee[i+1:]
	}
	return p.callee
}

// stringArg returns the first positional argument when it is a string,
// falling back to the given keywords.
func (c *fileContext) stringArg(p *pyCall, keywords ...string) string {
	if len(p.positional) > 0 {
		if s, ok := c.pyString(p.positional[0]); ok {
			return s
		}
	}
	for _, kw := range keywords {
		if s, ok := c.pyString(p.keywords[kw]); ok {
			return s
		}
	}
	return ""
}

// methodsArg reads methods=[...] keeping known HTTP methods. The route
// answers GET unless the keyword is a list literal naming at least one
// known method.
func (c *fileContext) methodsArg(p *pyCall) []string {
	list := p.keywords["methods"]
	if list == nil || (list.Type() != "list" && list.Type() != "tuple") {
		return []string{"GET"}
	}
	var methods []string
	for _, item := range namedChildren(list) {
		s, ok := c.pyString(item)
		if ok && route.IsMethod(s) {
			methods = append(methods, strings.ToUpper(s))
		}
	}
	if len(methods) == 0 {
		return []string{"GET"}
	}
	return methods
}

// decoratorExpr returns the expression a decorator applies.
func decoratorExpr(dec *sitter.Node) *sitter.Node {
	children := namedChildren(dec)
	if len(children) == 0 {
		return nil
	}
	return children[0]
}

func pyDecorators(def *sitter.Node) []*sitter.Node {
	var out []*sitter.Node
	for _, child := range namedChildren(def) {
		if child.Type() == "decorator" {
			out = append(out, child)
		}
	}
	return out
}

// pyAssignments visits `name = call(...)` statements anywhere in the file.
func (c *fileContext) pyAssignments(root *sitter.Node, fn func(name string, call *pyCall)) {
	walk(root, func(n *sitter.Node) bool {
		if n.Type() != "assignment" {
			return true
		}
		left := n.ChildByFieldName("left")
		if left == nil || left.Type() != "identifier" {
			return true
		}
		if call := c.decodeCall(n.ChildByFieldName("right")); call != nil {
			fn(c.text(left), call)
		}
		return true
	})
}

// pyCalls visits every call expression in the file.
func (c *fileContext) pyCalls(root *sitter.Node, fn func(call *pyCall)) {
	walk(root, func(n *sitter.Node) bool {
		if call := c.decodeCall(n); call != nil {
			fn(call)
		}
		return true
	})
}

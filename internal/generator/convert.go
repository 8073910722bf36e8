package generator

import (
	"regexp"
	"strings"
)

var (
	// (?P<slug>[\w-]+) in Django re_path patterns.
	namedGroupParam = regexp.MustCompile(`\(\?P<([a-zA-Z_][a-zA-Z0-9_]*)>[^)]*\)`)
	// <int:id> and <id> in Flask and Django paths.
	angleParam = regexp.MustCompile(`<(?:[a-zA-Z_]+:)?([a-zA-Z_][a-zA-Z0-9_]*)>`)
	// :id in Express, Koa and NestJS paths.
	colonParam = regexp.MustCompile(`:([a-zA-Z_][a-zA-Z0-9_]*)`)
	pathParam  = regexp.MustCompile(`\{([^}]+)\}`)
)

// convertPathFormat rewrites a framework path into OpenAPI {param} form.
func (g *Generator) convertPathFormat(path string) string {
	converted := namedGroupParam.ReplaceAllString(path, "{$1}")
	converted = angleParam.ReplaceAllString(converted, "{$1}")
	converted = colonParam.ReplaceAllString(converted, "{$1}")
	converted = strings.TrimSuffix(strings.TrimPrefix(converted, "^"), "$")

	// Ensure the path starts with /
	if !strings.HasPrefix(converted, "/") {
		converted = "/" + converted
	}
	return converted
}

func pathParameters(path string) []string {
	var names []string
	seen := make(map[string]bool)
	for _, m := range pathParam.FindAllStringSubmatch(path, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

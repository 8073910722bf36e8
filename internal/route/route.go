package route

import (
	"sort"
	"strings"
)

// Methods is the fixed HTTP method vocabulary an extractor may emit.
var Methods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// Django URL dispatch functions. They are emitted as the method of a Django
// route because a view does not map to a single HTTP verb.
const (
	DjangoPath   = "PATH"
	DjangoRePath = "RE_PATH"
)

// Route is a single HTTP route declaration found in a source file.
type Route struct {
	Method   string `json:"method" yaml:"method"`
	Path     string `json:"path" yaml:"path"`
	BasePath string `json:"basePath" yaml:"basePath"`
	File     string `json:"file" yaml:"file"`
	FileLine int    `json:"fileLine" yaml:"fileLine"`
}

// FullPath is the externally visible path: BasePath followed by Path.
func (r Route) FullPath() string {
	return r.BasePath + r.Path
}

// ID returns the method-path-file identity key used for starring routes.
func (r Route) ID() string {
	return r.Method + "-" + r.FullPath() + "-" + r.File
}

// IsMethod reports whether method, uppercased, is in the HTTP vocabulary.
func IsMethod(method string) bool {
	method = strings.ToUpper(method)
	for _, m := range Methods {
		if m == method {
			return true
		}
	}
	return false
}

// Filter returns the routes whose method, full path or file contains query,
// ignoring case. An empty query returns routes unchanged.
func Filter(routes []Route, query string) []Route {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return routes
	}
	var out []Route
	for _, r := range routes {
		if strings.Contains(strings.ToLower(r.Method), query) ||
			strings.Contains(strings.ToLower(r.FullPath()), query) ||
			strings.Contains(strings.ToLower(r.File), query) {
			out = append(out, r)
		}
	}
	return out
}

// FilterMethod keeps only routes with the given method. An empty method keeps everything.
func FilterMethod(routes []Route, method string) []Route {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return routes
	}
	var out []Route
	for _, r := range routes {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}

// Sort orders routes by file, line and method for display.
func Sort(routes []Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		if routes[i].File != routes[j].File {
			return routes[i].File < routes[j].File
		}
		if routes[i].FileLine != routes[j].FileLine {
			return routes[i].FileLine < routes[j].FileLine
		}
		return routes[i].Method < routes[j].Method
	})
}

// Package generator renders an extracted route set as an OpenAPI 3.0.3 document.
package generator

import (
	"slices"
	"sort"
	"strings"

	"github.com/Aman-s12345/routelens/internal/route"
)

func New(config Config) *Generator {
	return &Generator{config: config}
}

// Generate builds the document. Routes are visited in display order and the
// first route for a method and path wins.
func (g *Generator) Generate(routes []route.Route) *OpenAPISpec {
	spec := &OpenAPISpec{
		OpenAPI: "3.0.3",
		Info: Info{
			Title:       g.config.Title,
			Description: g.config.Description,
			Version:     g.config.Version,
		},
		Paths: make(map[string]PathItem),
		Components: Components{
			Schemas: map[string]Schema{
				"ErrorResponse": {
					Type: "object",
					Properties: map[string]Schema{
						"error": {Type: "string", Description: "Error message"},
					},
				},
			},
		},
	}
	if g.config.ServerURL != "" {
		spec.Servers = []Server{{URL: g.config.ServerURL, Description: "Development server"}}
	}

	sorted := slices.Clone(routes)
	route.Sort(sorted)

	tags := make(map[string]bool)
	processedPaths := make(map[string]bool)

	for _, r := range sorted {
		method := operationMethod(r.Method)
		if method == "" {
			continue
		}
		openAPIPath := g.convertPathFormat(r.FullPath())

		pathKey := method + ":" + openAPIPath
		if processedPaths[pathKey] {
			continue
		}
		processedPaths[pathKey] = true

		operation := g.generateOperation(r, openAPIPath)
		for _, tag := range operation.Tags {
			tags[tag] = true
		}

		pathItem := spec.Paths[openAPIPath]
		pathItem.set(method, operation)
		spec.Paths[openAPIPath] = pathItem
	}

	for tagName := range tags {
		spec.Tags = append(spec.Tags, Tag{
			Name:        tagName,
			Description: g.generateTagDescription(tagName),
		})
	}
	sort.Slice(spec.Tags, func(i, j int) bool { return spec.Tags[i].Name < spec.Tags[j].Name })

	g.validatePaths(spec)
	return spec
}

// operationMethod maps a route method to its path item field name. Django
// path()/re_path() entries are exported as GET.
func operationMethod(method string) string {
	switch method {
	case route.DjangoPath, route.DjangoRePath:
		return "get"
	}
	if !route.IsMethod(method) {
		return ""
	}
	return strings.ToLower(method)
}

func (p *PathItem) set(method string, op *Operation) {
	switch method {
	case "get":
		p.Get = op
	case "post":
		p.Post = op
	case "put":
		p.Put = op
	case "delete":
		p.Delete = op
	case "patch":
		p.Patch = op
	case "head":
		p.Head = op
	case "options":
		p.Options = op
	}
}

func (p PathItem) operations() []*Operation {
	return []*Operation{p.Get, p.Post, p.Put, p.Delete, p.Patch, p.Head, p.Options}
}

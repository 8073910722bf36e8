package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/Aman-s12345/routelens/internal/route"
)

func (g *Generator) generateOperation(r route.Route, openAPIPath string) *Operation {
	source := g.relativeFile(r.File)
	operation := &Operation{
		Tags:        []string{g.tagFor(source)},
		Summary:     g.generateSummary(r.Method, openAPIPath),
		Description: fmt.Sprintf("%s %s declared in %s:%d", r.Method, r.FullPath(), source, r.FileLine),
		OperationID: g.generateOperationID(r),
		Responses:   make(map[string]Response),
		SourceFile:  source,
		SourceLine:  r.FileLine,
	}

	operation.Responses["200"] = Response{
		Description: "Successful operation",
	}
	operation.Responses["400"] = Response{
		Description: "Bad request",
		Content: map[string]MediaType{
			"application/json": {
				Schema: Schema{
					Ref: "#/components/schemas/ErrorResponse",
				},
			},
		},
	}
	operation.Responses["500"] = Response{
		Description: "Internal server error",
		Content: map[string]MediaType{
			"application/json": {
				Schema: Schema{
					Ref: "#/components/schemas/ErrorResponse",
				},
			},
		},
	}
	return operation
}

func (g *Generator) generateOperationID(r route.Route) string {
	method := strings.ToLower(r.Method)
	path := g.convertPathFormat(r.FullPath())

	// Clean the path for operation ID
	path = strings.ReplaceAll(path, "/", "_")
	path = strings.ReplaceAll(path, "{", "")
	path = strings.ReplaceAll(path, "}", "")
	path = strings.ReplaceAll(path, "-", "_")
	path = strings.ReplaceAll(path, ".", "_")

	path = strings.Trim(path, "_")
	if path == "" {
		return method
	}
	return method + "_" + path
}

func (g *Generator) generateSummary(method, path string) string {
	return g.getActionFromMethod(method) + " " + g.getResourceFromPath(path)
}

func (g *Generator) generateTagDescription(tagName string) string {
	if tagName == rootTag {
		return "Routes declared at the workspace root"
	}
	return "Routes declared under " + tagName
}

func (g *Generator) getActionFromMethod(method string) string {
	actions := map[string]string{
		"GET":     "Get",
		"POST":    "Create",
		"PUT":     "Update",
		"DELETE":  "Delete",
		"PATCH":   "Patch",
		"HEAD":    "Check",
		"OPTIONS": "Describe",
		"PATH":    "Get",
		"RE_PATH": "Get",
	}

	if action, exists := actions[method]; exists {
		return action
	}
	return method
}

func (g *Generator) getResourceFromPath(path string) string {
	parts := strings.Split(path, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" && !strings.HasPrefix(parts[i], "{") {
			return capitalize(parts[i])
		}
	}
	return "Root"
}

const rootTag = "root"

// tagFor groups operations by the directory of their source file.
func (g *Generator) tagFor(source string) string {
	if filepath.IsAbs(source) {
		return filepath.Base(filepath.Dir(source))
	}
	dir := filepath.ToSlash(filepath.Dir(source))
	if dir == "." {
		return rootTag
	}
	return dir
}

func (g *Generator) relativeFile(file string) string {
	if g.config.Root == "" {
		return file
	}
	rel, err := filepath.Rel(g.config.Root, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		return file
	}
	return filepath.ToSlash(rel)
}

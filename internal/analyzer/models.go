package analyzer

import (
	"fmt"
	"strings"

	"github.com/Aman-s12345/routelens/internal/route"
)

// Framework names a supported web framework.
type Framework string

const (
	Express Framework = "express"
	NestJS  Framework = "nestjs"
	Koa     Framework = "koa"
	Flask   Framework = "flask"
	FastAPI Framework = "fastapi"
	Django  Framework = "django"
)

// Frameworks lists every supported framework in display order.
var Frameworks = []Framework{Express, NestJS, Koa, Flask, FastAPI, Django}

var displayNames = map[Framework]string{
	Express: "Express",
	NestJS:  "NestJS",
	Koa:     "Koa",
	Flask:   "Flask",
	FastAPI: "FastAPI",
	Django:  "Django",
}

// ParseFramework resolves a framework name case-insensitively.
func ParseFramework(name string) (Framework, error) {
	f := Framework(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := displayNames[f]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFramework, name)
	}
	return f, nil
}

// String returns the framework's display name.
func (f Framework) String() string {
	if name, ok := displayNames[f]; ok {
		return name
	}
	return string(f)
}

// Analysis is the result of one extraction run.
type Analysis struct {
	Framework Framework
	// Files maps each scanned file's absolute path to its routes. Files that
	// failed to read or parse map to an empty list.
	Files map[string][]route.Route
	// Scanned counts files handed to the extractor.
	Scanned int
	// Failed counts files that could not be read or parsed.
	Failed int
}

// Routes concatenates every file's routes. Order across files is unspecified;
// duplicates are kept.
func (a *Analysis) Routes() []route.Route {
	if a == nil {
		return nil
	}
	n := 0
	for _, routes := range a.Files {
		n += len(routes)
	}
	all := make([]route.Route, 0, n)
	for _, routes := range a.Files {
		all = append(all, routes...)
	}
	return all
}

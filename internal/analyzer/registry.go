package analyzer

import (
	"log/slog"

	"github.com/Aman-s12345/routelens/internal/extract"
)

// Binding ties a framework to its extractor and the files it reads.
type Binding struct {
	Extractor  extract.Extractor
	Extensions []string
	// Globs, when set, restrict files to workspace-relative matches.
	Globs []string
}

var jsExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"}

func registry(logger *slog.Logger) map[Framework]Binding {
	return map[Framework]Binding{
		Express: {Extractor: extract.Express{}, Extensions: jsExtensions},
		Koa:     {Extractor: extract.Koa{}, Extensions: jsExtensions},
		NestJS: {
			Extractor:  extract.NestJS{},
			Extensions: []string{".ts", ".js"},
			Globs:      []string{"**/*.controller.ts", "**/*.controller.js"},
		},
		Flask:   {Extractor: extract.Flask{}, Extensions: []string{".py"}},
		FastAPI: {Extractor: extract.FastAPI{}, Extensions: []string{".py"}},
		Django: {
			Extractor:  extract.Django{Logger: logger},
			Extensions: []string{".py"},
			Globs:      []string{"**/urls.py"},
		},
	}
}

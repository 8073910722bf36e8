package extract

import (
	"context"

	"github.com/Aman-s12345/routelens/internal/route"
)

var fastapiRouting = &pyRouting{
	multiMethod:    map[string]bool{"api_route": true, "route": true},
	pathKeywords:   []string{"path"},
	routerFactory:  "APIRouter",
	routerPrefixKw: "prefix",
	mountCall:      "include_router",
	mountKw:        "prefix",
	prefixInPath:   true,
}

// FastAPI extracts path operation decorators. An APIRouter(prefix=...) is
// joined into the route path; include_router(router, prefix=...) in the same
// file becomes the base path.
type FastAPI struct{}

func (FastAPI) Extract(ctx context.Context, file string, src []byte) ([]route.Route, error) {
	return extractPython(ctx, file, src, fastapiRouting)
}

package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/Aman-s12345/routelens/internal/analyzer"
	"github.com/Aman-s12345/routelens/internal/generator"
	"github.com/Aman-s12345/routelens/internal/metrics"
	"github.com/Aman-s12345/routelens/internal/route"
)

// Options configures the browse handler.
type Options struct {
	Indexer   *analyzer.Indexer
	Metrics   *metrics.Metrics
	Generator generator.Config
	Logger    *slog.Logger
}

type handler struct {
	indexer   *analyzer.Indexer
	generator generator.Config
	logger    *slog.Logger
}

// Handler builds the chi router:
//
//	GET  /healthz
//	GET  /metrics
//	GET  /api/routes?q=&method=
//	POST /api/refresh
//	GET  /api/openapi?format=
//	PUT  /api/framework
func Handler(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h := &handler{indexer: opts.Indexer, generator: opts.Generator, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", opts.Metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/routes", h.listRoutes)
		r.Post("/refresh", h.refresh)
		r.Get("/openapi", h.openapi)
		r.Get("/framework", h.framework)
		r.Put("/framework", h.setFramework)
	})
	return r
}

func (h *handler) listRoutes(w http.ResponseWriter, r *http.Request) {
	routes := h.indexer.Routes()
	routes = route.Filter(routes, r.URL.Query().Get("q"))
	routes = route.FilterMethod(routes, r.URL.Query().Get("method"))
	if routes == nil {
		routes = []route.Route{}
	}
	respondJSON(w, http.StatusOK, routes)
}

type refreshResponse struct {
	Framework string `json:"framework"`
	Scanned   int    `json:"scanned"`
	Failed    int    `json:"failed"`
	Routes    int    `json:"routes"`
}

func (h *handler) refresh(w http.ResponseWriter, r *http.Request) {
	analysis, err := h.indexer.Refresh(r.Context())
	switch {
	case errors.Is(err, analyzer.ErrSuperseded):
		respondError(w, h.logger, http.StatusConflict, err)
		return
	case err != nil:
		respondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}
	respondJSON(w, http.StatusOK, refreshResponse{
		Framework: string(analysis.Framework),
		Scanned:   analysis.Scanned,
		Failed:    analysis.Failed,
		Routes:    len(analysis.Routes()),
	})
}

func (h *handler) openapi(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "json"
	}
	spec := generator.New(h.generator).Generate(h.indexer.Routes())

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "yaml", "yml":
		w.Header().Set("Content-Type", "application/yaml")
	default:
		respondError(w, h.logger, http.StatusBadRequest, errors.New("unsupported format: "+format))
		return
	}
	if err := generator.Write(w, spec, format); err != nil {
		h.logger.Error("openapi encode failed", "error", err)
	}
}

type frameworkBody struct {
	Framework string `json:"framework"`
}

func (h *handler) framework(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, frameworkBody{Framework: string(h.indexer.Framework())})
}

// setFramework switches the framework and repopulates the cache.
func (h *handler) setFramework(w http.ResponseWriter, r *http.Request) {
	var body frameworkBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	f, err := analyzer.ParseFramework(body.Framework)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	if err := h.indexer.SetFramework(f); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	h.refresh(w, r)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Warn("handler error", "error", err, "status", status)
	respondJSON(w, status, map[string]string{"error": err.Error()})
}

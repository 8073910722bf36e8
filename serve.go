package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/Aman-s12345/routelens/internal/server"
	"github.com/Aman-s12345/routelens/internal/watch"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	var noWatch bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the route index over HTTP",
		Long: `Serve the route index over HTTP.

Endpoints:
  GET  /api/routes?q=&method=   routes as JSON
  POST /api/refresh             re-extract the workspace
  GET  /api/openapi?format=     OpenAPI document (json|yaml)
  GET  /api/framework           current framework
  PUT  /api/framework           switch framework: {"framework": "flask"}
  GET  /healthz
  GET  /metrics                 Prometheus metrics

The index follows file changes unless --no-watch is given.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd.Context())
			defer stop()

			if err := a.refresh(ctx); err != nil {
				return err
			}

			handler := server.Handler(server.Options{
				Indexer:   a.indexer,
				Metrics:   a.metrics,
				Generator: a.cfg.Generator(),
				Logger:    a.logger,
			})
			srv := server.NewServer(a.cfg.Server.Addr, handler, a.cfg.Server.ShutdownTimeoutDuration(), a.logger)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				return srv.Run(ctx)
			})
			if !noWatch {
				w := watch.New(a.indexer, a.logger)
				g.Go(func() error {
					return w.Start(ctx)
				})
			}
			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&flags.addr, "addr", "", "Listen address (default :7420)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not follow file changes")

	return cmd
}

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Aman-s12345/routelens/internal/watch"
)

func watchCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Keep the route index current as files change",
		Long: `Index the workspace, then re-extract files as they are created, written
or removed. Each applied change is printed with the file's current route count.`,
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
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Watching %s (%s, %d routes)\n", a.indexer.Selector().Root, a.indexer.Framework(), len(a.indexer.Routes()))

			w := watch.New(a.indexer, a.logger)
			w.OnChange(func(c watch.Change) {
				routes, _ := a.indexer.Cache().File(c.Path)
				fmt.Fprintf(out, "%-6s %s (%d routes)\n", c.Op, relativeTo(a.indexer.Selector().Root, c.Path), len(routes))
			})
			return w.Start(ctx)
		},
	}
	return cmd
}

// signalContext is cancelled on interrupt or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags rootFlags

	rootCmd := &cobra.Command{
		Use:   "routelens",
		Short: "Extract HTTP routes from web application source code",
		Long: `routelens statically reads an application's source files and lists the
HTTP routes it declares, with the file and line of each declaration.

Supported frameworks: Express, NestJS, Koa, Flask, FastAPI and Django.

Configuration is read from routelens.toml (plus routelens.<env>.toml when
ROUTELENS_ENV is set), then ROUTELENS_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&flags.config, "config", "c", "", "Path to configuration file (default routelens.toml)")
	pf.StringVarP(&flags.framework, "framework", "f", "", "Framework to extract (express|nestjs|koa|flask|fastapi|django)")
	pf.StringVarP(&flags.path, "path", "p", "", "Workspace root")
	pf.StringVar(&flags.dir, "dir", ".", "Directory to scan, relative to the workspace root")
	pf.IntVar(&flags.concurrency, "concurrency", 0, "Files extracted in parallel")
	pf.StringVar(&flags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log format (text|json)")

	rootCmd.AddCommand(
		listCmd(&flags),
		exportCmd(&flags),
		watchCmd(&flags),
		serveCmd(&flags),
		frameworksCmd(),
		versionCmd(),
	)
	return rootCmd
}

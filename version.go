package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/Aman-s12345/routelens/internal/analyzer"
)

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if short {
				fmt.Fprintln(out, version)
				return
			}
			fmt.Fprintf(out, "routelens %s\n", version)
			fmt.Fprintf(out, "  Commit:     %s\n", commit)
			fmt.Fprintf(out, "  Built:      %s\n", date)
			fmt.Fprintf(out, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}

func frameworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "frameworks",
		Short: "List supported frameworks",
		Run: func(cmd *cobra.Command, args []string) {
			for _, f := range analyzer.Frameworks {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", string(f), f.String())
			}
		},
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-s12345/routelens/internal/route"
)

func listCmd(flags *rootFlags) *cobra.Command {
	var (
		query  string
		method string
		output string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the routes declared in the workspace",
		Long: `List every route the configured framework declares, sorted by file and line.

Examples:
  routelens list
  routelens list -f flask -p ./backend
  routelens list -q users --method get -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(flags)
			if err != nil {
				return err
			}
			if err := a.refresh(cmd.Context()); err != nil {
				return err
			}
			routes := route.FilterMethod(route.Filter(a.indexer.Routes(), query), method)
			return printRoutes(cmd.OutOrStdout(), routes, output, a.indexer.Selector().Root)
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Keep routes whose method, path or file contains this text")
	cmd.Flags().StringVar(&method, "method", "", "Keep routes with this method")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table|json|yaml)")

	return cmd
}

func printRoutes(w io.Writer, routes []route.Route, format, root string) error {
	if routes == nil {
		routes = []route.Route{}
	}
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(routes)
	case "yaml", "yml":
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(routes); err != nil {
			return err
		}
		return encoder.Close()
	case "table":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "METHOD\tPATH\tSOURCE")
		for _, r := range routes {
			fmt.Fprintf(tw, "%s\t%s\t%s:%d\n", r.Method, r.FullPath(), relativeTo(root, r.File), r.FileLine)
		}
		return tw.Flush()
	default:
		return fmt.Errorf("unsupported output format: %s (supported: table, json, yaml)", format)
	}
}

func relativeTo(root, file string) string {
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}

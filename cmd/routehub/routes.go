package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/routehub-io/routehub/pkg/registry"
	"github.com/routehub-io/routehub/pkg/scanner"
)

func routesCmd() *cobra.Command {
	var routesDir string

	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Print the aggregated route table",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New(nil)
			s := scanner.New(routesDir, scanner.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
			if err := s.Scan(reg); err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAMESPACE\tKIND\tPATH\tLOCATION")
			for _, ns := range reg.Namespaces() {
				for _, rt := range ns.PageRoutes() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ns.Name, rt.Kind, rt.Path, rt.Location)
				}
				for _, rt := range ns.APIRoutes() {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", ns.Name, rt.Kind, rt.Path, rt.Location)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&routesDir, "routes", "routes", "route units directory")

	return cmd
}

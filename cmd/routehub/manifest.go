package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/routehub-io/routehub/pkg/manifest"
	"github.com/routehub-io/routehub/pkg/registry"
	"github.com/routehub-io/routehub/pkg/scanner"
)

func manifestCmd() *cobra.Command {
	var (
		routesDir string
		out       string
	)

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Scan route units and write the prebuilt routes manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New(nil)
			if err := scanner.New(routesDir).Scan(reg); err != nil {
				return err
			}

			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return err
			}
			if err := manifest.Write(out, reg.Snapshot()); err != nil {
				return err
			}
			fmt.Printf("wrote %s (%d namespaces)\n", out, reg.Len())
			return nil
		},
	}

	cmd.Flags().StringVar(&routesDir, "routes", "routes", "route units directory")
	cmd.Flags().StringVarP(&out, "out", "o", manifest.DefaultPath, "manifest output path")

	return cmd
}

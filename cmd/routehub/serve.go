package main

import (
	"github.com/spf13/cobra"

	routehub "github.com/routehub-io/routehub"
)

func serveCmd() *cobra.Command {
	var (
		addr      string
		routesDir string
		staticDir string
		manifest  string
		debug     bool
		reload    bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Aggregate the route table and serve it",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := routehub.New(routehub.Config{
				Mode:      routehub.ModeFromEnv(),
				RoutesDir: routesDir,
				Manifest:  manifest,
				Static:    routehub.StaticConfig{Dir: staticDir},
				Debug:     debug,
				Dev:       routehub.DevConfig{Reload: reload},
			})
			if err != nil {
				return err
			}
			return app.Run(addr)
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "listen address")
	cmd.Flags().StringVar(&routesDir, "routes", "routes", "route units directory")
	cmd.Flags().StringVar(&staticDir, "static", "public", "static files directory")
	cmd.Flags().StringVar(&manifest, "manifest", "", "routes manifest path (production mode)")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable /metrics and request tracing")
	cmd.Flags().BoolVar(&reload, "reload", false, "watch routes and notify browsers (development)")

	return cmd
}

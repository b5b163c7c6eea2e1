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
	rootCmd := &cobra.Command{
		Use:   "routehub",
		Short: "Namespaced route aggregation and dispatch server",
		Long: `Routehub assembles route definition units scattered across namespace
directories into a single routing table and serves it.

  • File-based route units, one directory per namespace
  • Literal-before-parameter page route ordering
  • Lazy handler loading with per-request memoization
  • Prebuilt manifest loading in production`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		routesCmd(),
		manifestCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

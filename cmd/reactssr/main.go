package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "reactssr",
		Short: "Server-side rendering for React pages",
		Long: `reactssr renders pages on the server, collects their head tags and
critical CSS, and serves documents ready for client hydration.

Examples:
  reactssr serve --config react-ssr.yaml
  reactssr render home --props '{"name":"Ada"}'
  reactssr entry ./pages/home.tsx -o .react-ssr/home.entry.tsx`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default ./react-ssr.yaml)")

	root.AddCommand(
		serveCmd(&configPath),
		renderCmd(),
		entryCmd(),
		doctorCmd(&configPath),
		versionCmd(),
	)
	return root
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "reactssr %s (%s)\n", version, commit)
		},
	}
}

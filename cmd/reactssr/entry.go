package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactssr/internal/adapters/cli"
	"github.com/3-lines-studio/reactssr/internal/core"
	"github.com/3-lines-studio/reactssr/internal/hydrate"
)

func entryCmd() *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "entry <component>...",
		Short: "Generate client hydration entries",
		Long: `Write one browser entry per component. Each entry reads the props from
the hydration script, rehydrates critical CSS and hydrates the page.
Bundle the entries with your bundler of choice.

Examples:
  reactssr entry ./pages/home.tsx ./pages/blog.tsx -o .react-ssr`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cli.NewOutputTo(cmd.OutOrStdout())
			out.PrintHeader("Client entries")

			for _, component := range args {
				path := filepath.Join(outDir, core.PageIDForPath(component)+".entry.tsx")
				if err := hydrate.WriteClientEntry(path, entryImport(path, component)); err != nil {
					out.PrintError("%s: %v", component, err)
					return err
				}
				out.PrintSuccess("%s", component)
				out.PrintFile(path)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outDir, "out", "o", ".react-ssr", "Output directory")

	return cmd
}

// entryImport returns the import path of component relative to the entry.
func entryImport(entryPath, component string) string {
	rel, err := filepath.Rel(filepath.Dir(entryPath), component)
	if err != nil {
		return component
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

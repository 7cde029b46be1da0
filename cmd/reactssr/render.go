package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactssr"
)

func renderCmd() *cobra.Command {
	var (
		props    string
		strategy string
	)

	cmd := &cobra.Command{
		Use:   "render <page>",
		Short: "Render a built-in page to stdout",
		Long: `Render one of the built-in pages and print the assembled document.

Examples:
  reactssr render about
  reactssr render home --props '{"name":"Ada"}' --strategy emotion`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := reactssr.ParseStrategy(strategy)
			if err != nil {
				return err
			}
			return runRender(cmd.Context(), cmd.OutOrStdout(), args[0], props, s)
		},
	}

	cmd.Flags().StringVar(&props, "props", "{}", "Page props as a JSON object")
	cmd.Flags().StringVarP(&strategy, "strategy", "s", "default", "CSS strategy: default, emotion or material-ui")

	return cmd
}

func runRender(ctx context.Context, w io.Writer, pageID, rawProps string, strategy reactssr.Strategy) error {
	page, ok := demoPages[pageID]
	if !ok {
		ids := make([]string, 0, len(demoPages))
		for id := range demoPages {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		return fmt.Errorf("unknown page %q (available: %s)", pageID, strings.Join(ids, ", "))
	}

	props := map[string]any{}
	if err := json.Unmarshal([]byte(rawProps), &props); err != nil {
		return fmt.Errorf("invalid --props: %w", err)
	}

	tree := reactssr.Comp(func(ctx context.Context) *reactssr.Node {
		return page.component(ctx, props)
	})

	doc, err := reactssr.RenderWithStrategy(ctx, tree, pageID, props, strategy)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, doc)
	return err
}

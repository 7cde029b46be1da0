package main

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/3-lines-studio/reactssr/internal/adapters/cli"
	"github.com/3-lines-studio/reactssr/internal/config"
	"github.com/3-lines-studio/reactssr/internal/core"
)

var errDoctor = errors.New("doctor found problems")

func doctorCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check config, assets and the Bun runtime",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDoctor(cli.NewOutputTo(cmd.OutOrStdout()), *configPath)
		},
	}
}

func runDoctor(out *cli.Output, configPath string) error {
	out.PrintHeader("React SSR Doctor")

	cfg, err := config.Load(configPath)
	if err != nil {
		out.PrintError("config: %v", err)
		return errDoctor
	}
	out.PrintSuccess("config ok (strategy %s, cache %s)", cfg.StyleStrategy(), cfg.CacheTTL)

	ok := true

	if info, err := os.Stat(cfg.AssetsDir); err != nil || !info.IsDir() {
		out.PrintWarning("assets dir %s not found, pages will use conventional asset paths", cfg.AssetsDir)
	} else {
		out.PrintSuccess("assets dir %s", cfg.AssetsDir)
		if cfg.Manifest != "" {
			m, err := core.LoadManifest(os.DirFS(cfg.AssetsDir), cfg.Manifest)
			if err != nil {
				out.PrintError("manifest: %v", err)
				ok = false
			} else {
				out.PrintSuccess("manifest %s (%d entries)", filepath.Join(cfg.AssetsDir, cfg.Manifest), len(m.Entries))
			}
		}
	}

	if cfg.Runtime.Enabled {
		if path, err := exec.LookPath(cfg.Runtime.Bun); err != nil {
			out.PrintError("bun executable %q not found", cfg.Runtime.Bun)
			ok = false
		} else {
			out.PrintSuccess("bun %s", path)
		}
	}

	if !ok {
		return errDoctor
	}
	return nil
}

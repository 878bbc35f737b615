package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"arbor/internal/store"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or initialise config.yaml",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			panel := app.cfg.PanelOrDefault()
			restore := app.cfg.RestoreViewOrDefault()
			eff := store.Config{
				DefaultFile: app.cfg.TreeFile(),
				ContentDir:  app.cfg.ContentDirOrDefault(),
				Theme:       app.cfg.ThemeOrDefault(),
				Style:       app.cfg.Style,
				Panel:       &panel,
				Opener:      app.cfg.Opener,
				RestoreView: &restore,
			}
			if eff.Style == "" {
				eff.Style = "regular"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", filepath.Join(app.store.Dir, "config.yaml"))
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(&eff); err != nil {
				return writeErr(cmd, err)
			}
			return enc.Close()
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config.yaml with the defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(app.store.Dir, "config.yaml")
			if _, err := os.Stat(path); err == nil && !force {
				return writeErr(cmd, fmt.Errorf("%s already exists (use --force to overwrite)", path))
			}
			panel, restore := true, true
			cfg := &store.Config{
				DefaultFile: store.DefaultTreeFile,
				ContentDir:  store.DefaultContentDir,
				Theme:       "auto",
				Style:       "regular",
				Panel:       &panel,
				RestoreView: &restore,
			}
			if err := app.store.SaveConfig(cfg); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config.yaml")
	cmd.AddCommand(initCmd)

	return cmd
}

func newForgetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "forget [file]",
		Short: "Forget the remembered selection and pan for a tree file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.treePath(args)
			if err := app.store.ForgetViewState(context.Background(), path); err != nil {
				return writeErr(cmd, err)
			}
			app.log.Info("forgot view", "tree", path)
			return nil
		},
	}
}

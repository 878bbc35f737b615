package cli

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"arbor/internal/session"
	"arbor/internal/store"
	"arbor/internal/tui"

	"github.com/spf13/cobra"
)

type App struct {
	ConfigDir string
	LogPath   string
	Debug     bool

	store  store.Store
	cfg    *store.Config
	log    *slog.Logger
	closer func()
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "arbor [file]",
		Short:        "Keyboard-driven tree editor",
		SilenceUsage: true,
		Args:         cobra.MaximumNArgs(1),
		Example: strings.TrimSpace(`
  # Edit tree.txt (or default_file from config.yaml)
  arbor

  # Edit a specific tree
  arbor notes/garden.txt

  # Non-interactive
  arbor print garden.txt
  arbor check garden.txt
  arbor check --format json garden.txt
  arbor export garden.txt --svg garden.svg --png garden.png
  arbor export garden.txt --md site --pages
  arbor docs format
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, app, args)
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.closer != nil {
			app.closer()
		}
		return nil
	}

	cmd.PersistentFlags().StringVar(&app.ConfigDir, "config-dir", envOr("ARBOR_CONFIG_DIR", ""), "Config/state directory (default ~/.arbor)")
	cmd.PersistentFlags().StringVar(&app.LogPath, "log", envOr("ARBOR_LOG", ""), "Write the editor's log to this file")
	cmd.PersistentFlags().BoolVar(&app.Debug, "debug", false, "Log at debug level")

	cmd.AddCommand(newPrintCmd(app))
	cmd.AddCommand(newCheckCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newForgetCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) setup(cmd *cobra.Command) error {
	st, err := store.Open(app.ConfigDir)
	if err != nil {
		return writeErr(cmd, err)
	}
	cfg, err := st.LoadConfig()
	if err != nil {
		return writeErr(cmd, err)
	}
	app.store = st
	app.cfg = cfg
	app.log = newCLILogger(cmd.ErrOrStderr(), app.Debug)
	return nil
}

// treePath is the positional file argument, or the configured default.
func (app *App) treePath(args []string) string {
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		return args[0]
	}
	return app.cfg.TreeFile()
}

func runTUI(cmd *cobra.Command, app *App, args []string) error {
	// The editor owns the terminal: log to --log or nowhere.
	log, closer, err := newFileLogger(app.LogPath, app.Debug)
	if err != nil {
		return writeErr(cmd, err)
	}
	app.closer = closer

	path := app.treePath(args)
	s, issues, err := session.Load(path, session.Options{
		ContentDir: app.cfg.ContentDirOrDefault(),
		Logger:     log,
	})
	if err != nil {
		return writeErr(cmd, err)
	}

	w, err := store.NewWatcher()
	if err != nil {
		log.Warn("file watching disabled", "err", err)
		w = nil
	}

	return tui.Run(tui.Options{
		Session: s,
		Store:   app.store,
		Config:  app.cfg,
		Logger:  log,
		Issues:  issues,
		Watcher: w,
		Stdout:  cmd.OutOrStdout(),
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}

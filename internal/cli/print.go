package cli

import (
	"arbor/internal/codec"
	"arbor/internal/store"

	"github.com/spf13/cobra"
)

func newPrintCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "print [file]",
		Short: "Load a tree and write its canonical serialization to stdout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := app.treePath(args)
			res, err := store.LoadTree(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, issue := range res.Issues {
				app.log.Warn("skipped record", "path", path, "err", issue)
			}
			return codec.Write(cmd.OutOrStdout(), res.Tree)
		},
	}
}

package cli

import (
	"fmt"
	"strings"

	"arbor/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
	"github.com/spf13/cobra"
)

func newDocsCmd(app *App) *cobra.Command {
	var (
		render bool
		width  int
	)

	cmd := &cobra.Command{
		Use:   "docs [topic]",
		Short: "Show built-in documentation (lists topics without an argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, t := range docs.Topics() {
					fmt.Fprintln(out, t)
				}
				return nil
			}
			md, ok := docs.Get(args[0])
			if !ok {
				return writeErr(cmd, fmt.Errorf("unknown topic %q (have: %s)", args[0], strings.Join(docs.Topics(), ", ")))
			}
			if !render {
				_, err := fmt.Fprint(out, md)
				return err
			}

			style := styles.LightStyleConfig
			if app.cfg.ThemeOrDefault() == "dark" {
				style = styles.DarkStyleConfig
			}
			r, err := glamour.NewTermRenderer(glamour.WithStyles(style), glamour.WithWordWrap(width))
			if err != nil {
				return writeErr(cmd, err)
			}
			s, err := r.Render(md)
			if err != nil {
				return writeErr(cmd, err)
			}
			_, err = fmt.Fprint(out, s)
			return err
		},
	}

	cmd.Flags().BoolVar(&render, "render", false, "Render the Markdown for a terminal")
	cmd.Flags().IntVar(&width, "width", 80, "Wrap width with --render")
	return cmd
}

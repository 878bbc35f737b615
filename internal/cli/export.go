package cli

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"

	"arbor/internal/canvas"
	"arbor/internal/layout"
	"arbor/internal/model"
	"arbor/internal/publish"
	"arbor/internal/render"
	"arbor/internal/store"
	"arbor/internal/view"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errNothingToExport = errors.New("nothing to export: pass --svg, --png or --md")

type exportOptions struct {
	style  layout.Style
	scheme view.Scheme
	width  int
	height int
}

func newExportCmd(app *App) *cobra.Command {
	var (
		svgPath string
		pngPath string
		mdDir   string
		mdOpt   publish.WriteOptions
		slim    bool
		scheme  string
		o       exportOptions
	)

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Render a tree to SVG, PNG or a Markdown outline",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if svgPath == "" && pngPath == "" && mdDir == "" {
				return writeErr(cmd, errNothingToExport)
			}
			switch scheme {
			case "light", "dark":
			default:
				return writeErr(cmd, fmt.Errorf("invalid --scheme %q (want light|dark)", scheme))
			}
			o.scheme = view.ParseScheme(scheme)
			if slim {
				o.style = layout.StyleSlim
			}

			path := app.treePath(args)
			res, err := store.LoadTree(path)
			if err != nil {
				return writeErr(cmd, err)
			}
			for _, issue := range res.Issues {
				app.log.Warn("skipped record", "path", path, "err", issue)
			}

			// Layout writes into the nodes, so each renderer gets its own copy.
			var g errgroup.Group
			if svgPath != "" {
				t := res.Tree.Clone()
				g.Go(func() error { return exportSVG(svgPath, t, o) })
			}
			if pngPath != "" {
				t := res.Tree.Clone()
				g.Go(func() error { return exportPNG(pngPath, t, o) })
			}
			if mdDir != "" {
				mdOpt.TreePath = path
				g.Go(func() error {
					w, err := publish.WriteTree(res.Tree, mdDir, mdOpt)
					if err != nil {
						return err
					}
					app.log.Debug("wrote markdown", "files", len(w.Written))
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return writeErr(cmd, err)
			}
			for _, p := range []string{svgPath, pngPath, mdDir} {
				if p != "" {
					app.log.Info("exported", "tree", path, "out", p)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&svgPath, "svg", "", "Write an SVG image to this path")
	cmd.Flags().StringVar(&pngPath, "png", "", "Write a PNG image to this path")
	cmd.Flags().StringVar(&mdDir, "md", "", "Write a Markdown outline (index.md) into this directory")
	cmd.Flags().BoolVar(&mdOpt.Pages, "pages", false, "With --md, also write a page per node with a content file")
	cmd.Flags().StringVar(&mdOpt.Title, "title", "", "With --md, the outline heading (default: the tree file name)")
	cmd.Flags().BoolVar(&mdOpt.Overwrite, "overwrite", false, "With --md, replace existing files")
	cmd.Flags().BoolVar(&slim, "slim", false, "Use compact boxes")
	cmd.Flags().StringVar(&scheme, "scheme", "light", "Colour scheme (light|dark)")
	cmd.Flags().IntVar(&o.width, "width", 0, "Image width in pixels (default: fit the tree)")
	cmd.Flags().IntVar(&o.height, "height", 0, "Image height in pixels (default: fit the tree)")
	return cmd
}

// exportScene lays t out and sizes the image to fit it unless a size was
// given.
func exportScene(t *model.Tree, m layout.Measurer, o exportOptions) (render.Scene, int, int) {
	metrics := layout.PixelMetrics()
	v := view.New()
	v.Panel = false
	v.Style = o.style
	v.Scheme = o.scheme

	sc := render.Scene{
		Tree:     t,
		View:     v,
		Metrics:  metrics,
		Measurer: m,
		Palette:  canvas.PaletteFor(o.scheme == view.SchemeDark),
		Bare:     true,
	}
	b := render.Layout(sc)
	w, h := o.width, o.height
	if w <= 0 {
		w = int(math.Ceil(b.X2 + metrics.OriginX))
	}
	if h <= 0 {
		h = int(math.Ceil(b.Y2 + metrics.OriginY))
	}
	v.Resize(float64(w), float64(h))
	return sc, w, h
}

func exportSVG(path string, t *model.Tree, o exportOptions) error {
	face, err := canvas.MonoFace()
	if err != nil {
		return err
	}
	sc, w, h := exportScene(t, canvas.FaceMeasurer{Face: face}, o)

	var buf bytes.Buffer
	s := canvas.NewSVG(&buf, w, h)
	render.Frame(s, sc)
	s.Close()
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	return nil
}

func exportPNG(path string, t *model.Tree, o exportOptions) error {
	face, err := canvas.MonoFace()
	if err != nil {
		return err
	}
	sc, w, h := exportScene(t, canvas.FaceMeasurer{Face: face}, o)

	p, err := canvas.NewPNG(w, h)
	if err != nil {
		return err
	}
	sc.Measurer = p.Measurer()
	render.Frame(p, sc)
	if err := p.Save(path); err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	return nil
}

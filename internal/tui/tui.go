// Package tui is the interactive terminal editor: a Bubble Tea program that
// draws the tree on a cell grid and forwards keys and mouse events to a
// session.
package tui

import (
	"context"
	"io"
	"os"
	"time"

	"arbor/internal/layout"
	"arbor/internal/store"
	"arbor/internal/view"

	tea "github.com/charmbracelet/bubbletea"
)

const viewStateTimeout = 2 * time.Second

// Run starts the editor and blocks until it exits. Printed trees are written
// to Stdout afterwards, and the view is remembered for the next run.
func Run(opts Options) error {
	applyColorProfilePreference()
	cfg := opts.Config
	if cfg == nil {
		cfg = &store.Config{}
	}
	dark := applyThemePreference(cfg.ThemeOrDefault())

	m := newAppModel(opts)
	prepareView(m, opts, dark)

	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	if opts.Watcher != nil {
		_ = opts.Watcher.Close()
	}
	if fm, ok := final.(appModel); ok {
		m = fm
	}

	out := opts.Stdout
	if out == nil {
		out = os.Stdout
	}
	if m.printed.Len() > 0 {
		if _, werr := io.Copy(out, m.printed); werr != nil && err == nil {
			err = werr
		}
	}

	if cfg.RestoreViewOrDefault() {
		ctx, cancel := context.WithTimeout(context.Background(), viewStateTimeout)
		defer cancel()
		if serr := opts.Store.SaveViewState(ctx, m.sess.Snapshot()); serr != nil {
			m.log.Warn("save view state", "err", serr)
		}
	}
	return err
}

// prepareView applies config defaults, then the remembered view for this tree
// file when there is one.
func prepareView(m appModel, opts Options, dark bool) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &store.Config{}
	}
	v := m.sess.View
	v.Style = layout.ParseStyle(cfg.Style)
	v.Panel = cfg.PanelOrDefault()
	v.Scheme = view.SchemeLight
	if dark {
		v.Scheme = view.SchemeDark
	}

	if !cfg.RestoreViewOrDefault() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), viewStateTimeout)
	defer cancel()
	st, ok, err := opts.Store.LoadViewState(ctx, m.sess.Path)
	if err != nil {
		m.log.Warn("load view state", "err", err)
		return
	}
	if ok {
		m.sess.Restore(st)
		m.rewatch()
	}
}

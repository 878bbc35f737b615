package tui

import (
	"context"
	"errors"

	"arbor/internal/store"

	tea "github.com/charmbracelet/bubbletea"
)

type fileChangedMsg struct{ path string }

type watchErrMsg struct{ err error }

// waitForChange blocks on the watcher in a command goroutine. It never touches
// the session; Update re-arms it after every message.
func waitForChange(w *store.Watcher) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		p, err := w.Next(context.Background())
		if err != nil {
			return watchErrMsg{err: err}
		}
		return fileChangedMsg{path: p}
	}
}

func (m appModel) onFileChanged(msg fileChangedMsg) (tea.Model, tea.Cmd) {
	next := waitForChange(m.watcher)
	m.content.forget(msg.path)
	if msg.path != m.treeAbs {
		return m, next
	}

	if m.sess.Modified() {
		m.minibuffer = "Tree file changed on disk; unsaved edits kept"
		return m, next
	}
	res, err := store.LoadTree(m.sess.Path)
	if err != nil {
		m.log.Warn("reload failed", "path", m.sess.Path, "err", err)
		m.minibuffer = "Reload failed: " + err.Error()
		return m, next
	}
	if res.Checksum == m.sess.SavedChecksum() {
		return m, next
	}
	m.sess.Reload(res)
	m.rewatch()
	m.minibuffer = "Reloaded " + m.sess.Path
	if len(res.Issues) > 0 {
		m.minibuffer += " (" + issueCount(len(res.Issues)) + ")"
	}
	m.log.Info("reloaded", "path", m.sess.Path, "issues", len(res.Issues))
	return m, next
}

func (m appModel) onWatchErr(msg watchErrMsg) (tea.Model, tea.Cmd) {
	if errors.Is(msg.err, context.Canceled) {
		return m, nil
	}
	m.log.Warn("watch", "err", msg.err)
	return m, waitForChange(m.watcher)
}

// rewatch points the watcher at the tree file and the selection's content.
func (m *appModel) rewatch() {
	if m.watcher == nil {
		return
	}
	paths := []string{m.treeAbs}
	if sel := m.sess.Tree.Selected(); sel.Filename != "" {
		paths = append(paths, m.sess.ContentPath(sel))
	}
	if err := m.watcher.Set(paths...); err != nil {
		m.log.Warn("watch", "err", err)
	}
}

package tui

import (
	"arbor/internal/canvas"
	"arbor/internal/render"
	"arbor/internal/view"

	"github.com/charmbracelet/lipgloss"
)

func (m appModel) scene() render.Scene {
	return render.Scene{
		Tree:     m.sess.Tree,
		View:     m.sess.View,
		Metrics:  m.sess.Metrics(),
		Measurer: m.sess.Measurer(),
		Palette:  canvas.PaletteFor(m.sess.View.Scheme == view.SchemeDark),
		Modified: m.sess.Modified(),
		Frame:    m.frame,
		Content:  m.contentLines,
	}
}

func (m appModel) View() string {
	if m.quit || m.width <= 0 || m.height <= 0 {
		return ""
	}
	h := m.canvasHeight()
	g := canvas.NewGrid(m.width, h)
	g.Plain = plainOutput()
	render.Frame(g, m.scene())
	screen := g.String()

	if modal := m.renderModal(); modal != "" {
		screen = overlayCenter(screen, modal, m.width, h)
	}
	return screen + "\n" + m.renderStatusLine()
}

func (m appModel) renderModal() string {
	switch m.modal {
	case modalPrompt:
		if m.prompt == nil {
			return ""
		}
		return renderPromptModal(m.width, m.prompt.Title, m.input.View())
	case modalConfirm:
		if m.prompt == nil {
			return ""
		}
		return renderConfirmModal(m.width, m.prompt.Title, "Yes", "No", m.confirmFocus)
	case modalDoc:
		return renderModalBox(m.width, m.docTitle, m.doc.View())
	}
	return ""
}

func (m appModel) renderStatusLine() string {
	if m.minibuffer != "" {
		st := lipgloss.NewStyle().Foreground(colorAccent)
		return normalizePane(st.Render(m.minibuffer), m.width, 1)
	}
	return normalizePane(m.help.View(m.keys), m.width, 1)
}

package tui

import (
	"strings"

	"arbor/internal/session"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m.frame++

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.sess.Resize(float64(m.width), float64(m.canvasHeight()))
		m.help.Width = m.width
		m.input.Width = modalBodyWidth(m.width) - 6
		m.resizeDoc()
		return m, nil

	case fileChangedMsg:
		return m.onFileChanged(msg)

	case watchErrMsg:
		return m.onWatchErr(msg)

	case openDoneMsg:
		m.content.forget(msg.path)
		if msg.err != nil {
			m.log.Warn("open content", "path", msg.path, "err", msg.err)
			m.minibuffer = "Open failed: " + msg.err.Error()
		}
		return m, nil

	case clipboardDoneMsg:
		if msg.err != nil {
			m.minibuffer = "Copy failed: " + msg.err.Error()
		} else {
			m.minibuffer = "Copied " + msg.text
		}
		return m, nil

	case tea.MouseMsg:
		if m.modal != modalNone {
			return m, nil
		}
		return m.updateMouse(msg)

	case tea.KeyMsg:
		switch m.modal {
		case modalPrompt:
			return m.updatePrompt(msg)
		case modalConfirm:
			return m.updateConfirm(msg)
		case modalDoc:
			return m.updateDoc(msg)
		default:
			return m.updateMain(msg)
		}
	}
	return m, nil
}

func (m appModel) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.minibuffer = ""
	if n, ok := m.keys.nthChild(msg); ok {
		return m.apply(m.sess.JumpToChild(n))
	}
	op, ok := m.keys.lookup(msg)
	if !ok {
		return m, nil
	}
	return m.apply(m.sess.Dispatch(op))
}

// apply turns a command result into modal state and side-effect commands.
func (m appModel) apply(res session.Result) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if res.Message != "" {
		m.minibuffer = res.Message
	}
	if res.Prompt != nil {
		cmds = append(cmds, m.openPrompt(res.Prompt))
	}
	switch res.Show {
	case session.ShowHelp:
		m.openDoc("Help", helpMarkdown(m.keys))
	case session.ShowAbout:
		m.openDoc("About", aboutMarkdown())
	}
	if res.Yank != "" {
		cmds = append(cmds, copyToClipboard(res.Yank))
	}
	if res.Open != "" {
		m.content.forget(res.Open)
		cmds = append(cmds, openContent(m.opener, res.Open))
	}
	m.rewatch()
	if res.Quit {
		m.quit = true
		cmds = append(cmds, tea.Quit)
	}
	return m, tea.Batch(cmds...)
}

func (m *appModel) openPrompt(p *session.Prompt) tea.Cmd {
	m.prompt = p
	switch p.Kind {
	case session.PromptConfirm:
		m.modal = modalConfirm
		m.confirmFocus = confirmFocusCancel
		return nil
	default:
		m.modal = modalPrompt
		m.input.SetValue(p.Initial)
		m.input.CursorEnd()
		return tea.Batch(m.input.Focus(), textinput.Blink)
	}
}

func (m *appModel) closeModal() {
	m.modal = modalNone
	m.prompt = nil
	m.input.Blur()
	m.input.SetValue("")
}

func (m appModel) answer(a session.Answer) (tea.Model, tea.Cmd) {
	p := m.prompt
	m.closeModal()
	return m.apply(m.sess.Answer(p, a))
}

func (m appModel) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		return m.answer(session.Answer{OK: true, Text: strings.TrimSpace(m.input.Value())})
	case "esc", "ctrl+g", "ctrl+c":
		return m.answer(session.Answer{OK: false})
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m appModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		return m.answer(session.Answer{OK: true, Yes: true})
	case "n", "N":
		return m.answer(session.Answer{OK: true, Yes: false})
	case "esc", "ctrl+g", "ctrl+c", "q":
		return m.answer(session.Answer{OK: false})
	case "tab", "shift+tab", "left", "right", "h", "l":
		if m.confirmFocus == confirmFocusConfirm {
			m.confirmFocus = confirmFocusCancel
		} else {
			m.confirmFocus = confirmFocusConfirm
		}
		return m, nil
	case "enter":
		return m.answer(session.Answer{OK: true, Yes: m.confirmFocus == confirmFocusConfirm})
	}
	return m, nil
}

func (m *appModel) openDoc(title, md string) {
	m.modal = modalDoc
	m.docTitle = title
	m.resizeDoc()
	m.doc.SetContent(renderMarkdown(md, m.doc.Width))
	m.doc.GotoTop()
}

func (m *appModel) resizeDoc() {
	m.doc.Width = modalBodyWidth(m.width) - 2
	h := m.canvasHeight() - 8
	if h < 3 {
		h = 3
	}
	m.doc.Height = h
}

func (m appModel) updateDoc(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "q", "?", "enter", "ctrl+c", "ctrl+g":
		m.closeModal()
		return m, nil
	}
	var cmd tea.Cmd
	m.doc, cmd = m.doc.Update(msg)
	return m, cmd
}

func (m appModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		return m.apply(m.sess.Dispatch(session.OpPanUp))
	case msg.Button == tea.MouseButtonWheelDown:
		return m.apply(m.sess.Dispatch(session.OpPanDown))
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.dragging = true
		m.dragMoved = false
		m.dragX, m.dragY = msg.X, msg.Y
	case msg.Action == tea.MouseActionMotion && m.dragging:
		dx, dy := msg.X-m.dragX, msg.Y-m.dragY
		if dx != 0 || dy != 0 {
			m.sess.Drag(float64(dx), float64(dy))
			m.dragMoved = true
			m.dragX, m.dragY = msg.X, msg.Y
		}
	case msg.Action == tea.MouseActionRelease:
		wasClick := m.dragging && !m.dragMoved
		m.dragging = false
		if wasClick && msg.Y < m.canvasHeight() {
			m.minibuffer = ""
			return m.apply(m.sess.Click(float64(msg.X), float64(msg.Y)))
		}
	}
	return m, nil
}

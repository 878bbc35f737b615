package tui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

type openDoneMsg struct {
	path string
	err  error
}

type clipboardDoneMsg struct {
	text string
	err  error
}

// openerArgs builds the argv that opens path. A configured opener wins over
// the platform default.
func openerArgs(override, path string) ([]string, error) {
	if strings.TrimSpace(override) != "" {
		args, err := splitCommand(override)
		if err != nil {
			return nil, fmt.Errorf("opener %q: %w", override, err)
		}
		if len(args) == 0 {
			return nil, fmt.Errorf("opener %q: empty command", override)
		}
		return append(args, path), nil
	}
	switch runtime.GOOS {
	case "darwin":
		return []string{"open", path}, nil
	case "windows":
		return []string{"cmd", "/c", "start", "", path}, nil
	default:
		return []string{"xdg-open", path}, nil
	}
}

// openContent hands path to the external viewer. A configured opener may be a
// terminal editor, so it gets the terminal via tea.ExecProcess; the platform
// default is a GUI launcher and is only started.
func openContent(override, path string) tea.Cmd {
	args, err := openerArgs(override, path)
	if err != nil {
		return func() tea.Msg { return openDoneMsg{path: path, err: err} }
	}
	cmd := exec.Command(args[0], args[1:]...)
	if strings.TrimSpace(override) != "" {
		return tea.ExecProcess(cmd, func(err error) tea.Msg {
			return openDoneMsg{path: path, err: err}
		})
	}
	return func() tea.Msg {
		if err := cmd.Start(); err != nil {
			return openDoneMsg{path: path, err: err}
		}
		go func() { _ = cmd.Wait() }()
		return openDoneMsg{path: path}
	}
}

func copyToClipboard(s string) tea.Cmd {
	return func() tea.Msg {
		return clipboardDoneMsg{text: s, err: clipboard.WriteAll(s)}
	}
}

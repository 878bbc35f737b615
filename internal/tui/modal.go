package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

type confirmModalFocus int

const (
	confirmFocusConfirm confirmModalFocus = iota
	confirmFocusCancel
)

func modalBodyWidth(width int) int {
	w := width - 12
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

func renderModalBox(width int, title, content string) string {
	bodyW := modalBodyWidth(width)
	header := lipgloss.NewStyle().
		Width(bodyW).
		Padding(0, 1).
		Bold(true).
		Foreground(colorModalHeaderFg).
		Background(colorModalHeaderBg).
		Render(title)
	body := lipgloss.NewStyle().
		Width(bodyW).
		Padding(1, 1).
		Foreground(colorSurfaceFg).
		Background(colorSurfaceBg).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body)
}

func renderInputLine(bodyW int, inputView string) string {
	if bodyW < 10 {
		bodyW = 10
	}
	// A prompt must stay on one visual line or typing looks like newline insertion.
	inputView = strings.ReplaceAll(inputView, "\n", " ")
	inputView = strings.ReplaceAll(inputView, "\r", " ")

	line := lipgloss.PlaceHorizontal(
		bodyW,
		lipgloss.Left,
		" "+inputView+" ",
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceBackground(colorInputBg),
	)
	if xansi.StringWidth(line) > bodyW {
		line = xansi.Cut(line, 0, bodyW) + "\x1b[0m"
	}
	return line
}

func renderPromptModal(width int, title, inputView string) string {
	bodyW := modalBodyWidth(width) - 2
	help := styleMuted().Width(bodyW).Render("enter: ok   esc/ctrl+g: cancel")
	return renderModalBox(width, title, strings.Join([]string{
		renderInputLine(bodyW, inputView),
		"",
		help,
	}, "\n"))
}

func renderConfirmModal(width int, title, confirmLabel, cancelLabel string, focus confirmModalFocus) string {
	btnBase := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorSurfaceFg).
		Background(colorControlBg)
	btnActive := btnBase.
		Foreground(colorSelectedFg).
		Background(colorSelectedBg).
		Bold(true)

	confirm := btnBase.Render(confirmLabel)
	cancel := btnBase.Render(cancelLabel)
	if focus == confirmFocusConfirm {
		confirm = btnActive.Render(confirmLabel)
	} else {
		cancel = btnActive.Render(cancelLabel)
	}
	sep := lipgloss.NewStyle().Background(colorControlBg).Render(" ")
	controls := lipgloss.JoinHorizontal(lipgloss.Top, confirm, sep, cancel)

	bodyW := modalBodyWidth(width) - 2
	help := styleMuted().Width(bodyW).Render("y/n   tab: focus   enter: select   esc: cancel")
	return renderModalBox(width, title, strings.Join([]string{controls, "", help}, "\n"))
}

// overlayCenter draws fg centred on top of bg, keeping the bg cells to the
// left and right of each fg line.
func overlayCenter(bg, fg string, width, height int) string {
	bgLines := strings.Split(normalizePane(bg, width, height), "\n")
	fgLines := strings.Split(fg, "\n")
	fw := 0
	for _, l := range fgLines {
		if w := xansi.StringWidth(l); w > fw {
			fw = w
		}
	}
	if fw > width {
		fw = width
	}
	x := (width - fw) / 2
	y := (height - len(fgLines)) / 2
	if y < 0 {
		y = 0
	}
	for i, l := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		l = normalizePane(l, fw, 1)
		left := xansi.Cut(bgLines[row], 0, x)
		right := xansi.Cut(bgLines[row], x+fw, width)
		bgLines[row] = left + "\x1b[0m" + l + "\x1b[0m" + right
	}
	return strings.Join(bgLines, "\n")
}

// normalizePane forces s to exactly width columns (ANSI-aware) and height
// lines.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	lines := strings.Split(s, "\n")
	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}
	for i, ln := range lines {
		w := xansi.StringWidth(ln)
		if w > width {
			switch {
			case width <= 0:
				ln = ""
			case width == 1:
				ln = xansi.Cut(ln, 0, 1)
			default:
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln += strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}
	return strings.Join(lines, "\n")
}

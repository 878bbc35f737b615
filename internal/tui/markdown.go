package tui

import (
	"fmt"
	"strings"
	"sync"

	"arbor/internal/docs"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	mdRendererMu sync.Mutex
	// Cache renderers by wrap width + style. WithAutoStyle can block on
	// terminal background queries, so a fixed style is picked instead.
	mdRenderers = map[string]*glamour.TermRenderer{}
)

func markdownStyle() (string, ansi.StyleConfig) {
	switch {
	case plainOutput():
		return "ascii", styles.ASCIIStyleConfig
	case lipgloss.HasDarkBackground():
		return "dark", styles.DarkStyleConfig
	default:
		return "light", styles.LightStyleConfig
	}
}

func renderMarkdown(md string, width int) string {
	md = strings.TrimSpace(md)
	if md == "" {
		return ""
	}
	if width < 10 {
		width = 10
	}

	style, cfg := markdownStyle()
	key := fmt.Sprintf("%s:%d", style, width)

	mdRendererMu.Lock()
	r := mdRenderers[key]
	mdRendererMu.Unlock()

	if r == nil {
		rr, err := glamour.NewTermRenderer(
			glamour.WithStyles(cfg),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return md
		}
		mdRendererMu.Lock()
		if existing := mdRenderers[key]; existing != nil {
			r = existing
		} else {
			mdRenderers[key] = rr
			r = rr
		}
		mdRendererMu.Unlock()
	}

	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return strings.TrimRight(out, "\n")
}

// helpMarkdown lists every binding, grouped like the full help view.
func helpMarkdown(k keyMap) string {
	titles := []string{"Navigate", "Edit", "View", "File"}
	var b strings.Builder
	b.WriteString("# Keys\n")
	for i, group := range k.FullHelp() {
		fmt.Fprintf(&b, "\n## %s\n\n| Key | Action |\n|---|---|\n", titles[i])
		for _, kb := range group {
			h := kb.Help()
			fmt.Fprintf(&b, "| `%s` | %s |\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n## Mouse\n\nClick a node to select it. Drag to pan. The wheel pans vertically.\n")
	return b.String()
}

func aboutMarkdown() string {
	md, ok := docs.Get("about")
	if !ok {
		return "# arbor\n"
	}
	return md
}

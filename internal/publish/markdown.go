package publish

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"arbor/internal/model"
	"arbor/internal/store"
)

// DefaultContentLines bounds how much of a content file lands on a node page.
const DefaultContentLines = 200

type RenderOptions struct {
	// Title heads the index; defaults to the tree file's base name.
	Title string
	// LinkPages makes nodes with a content file link to nodes/<id>.md.
	LinkPages bool
	// TreePath resolves relative content filenames.
	TreePath        string
	MaxContentLines int
}

var colorNames = [...]string{"", "green", "red", "blue"}

// RenderIndexMarkdown writes the tree as a nested list. The root is the
// heading; its children are the top-level items.
func RenderIndexMarkdown(t *model.Tree, opt RenderOptions) (string, error) {
	if t == nil || t.Root == nil {
		return "", fmt.Errorf("missing tree")
	}

	var buf bytes.Buffer
	buf.WriteString("# " + escapeInline(indexTitle(opt)) + "\n")
	if len(t.Root.Children) == 0 {
		return buf.String(), nil
	}
	buf.WriteString("\n")
	for _, c := range t.Root.Children {
		renderIndexLine(&buf, c, 0, opt)
	}
	return buf.String(), nil
}

func renderIndexLine(buf *bytes.Buffer, n *model.Node, depth int, opt RenderOptions) {
	label := escapeInline(displayName(n))
	if opt.LinkPages && n.Filename != "" {
		label = "[" + label + "](" + pagePath(n) + ")"
	}
	buf.WriteString(strings.Repeat("  ", depth))
	buf.WriteString("- " + label)
	if n.Color > model.ColorNone && n.Color < len(colorNames) {
		buf.WriteString(" _(" + colorNames[n.Color] + ")_")
	}
	buf.WriteString("\n")
	for _, c := range n.Children {
		renderIndexLine(buf, c, depth+1, opt)
	}
}

// RenderNodeMarkdown renders one node's page: its path from the root, its
// children and the head of its content file.
func RenderNodeMarkdown(t *model.Tree, id int, opt RenderOptions) (string, error) {
	if t == nil || t.Root == nil {
		return "", fmt.Errorf("missing tree")
	}
	n := t.Find(id)
	if n == nil {
		return "", fmt.Errorf("node not found: %d", id)
	}

	var buf bytes.Buffer
	writeLn := func(s string) {
		buf.WriteString(s)
		buf.WriteString("\n")
	}

	writeLn("# " + escapeInline(displayName(n)))
	writeLn("")
	writeLn("- Path: " + escapeInline(ancestry(n)))
	if n.Filename != "" {
		writeLn("- Content: `" + n.Filename + "`")
	}
	if n.Color > model.ColorNone && n.Color < len(colorNames) {
		writeLn("- Colour: " + colorNames[n.Color])
	}

	if len(n.Children) > 0 {
		writeLn("")
		writeLn("## Children")
		writeLn("")
		for _, c := range n.Children {
			writeLn("- " + escapeInline(displayName(c)))
		}
	}

	if n.Filename != "" {
		max := opt.MaxContentLines
		if max <= 0 {
			max = DefaultContentLines
		}
		lines, err := store.ReadContentLines(store.ResolveContent(opt.TreePath, n.Filename), max)
		if err != nil {
			return "", err
		}
		if len(lines) > 0 {
			writeLn("")
			writeLn("## Content")
			writeLn("")
			writeLn("```")
			for _, l := range lines {
				writeLn(l)
			}
			writeLn("```")
		}
	}

	return buf.String(), nil
}

func indexTitle(opt RenderOptions) string {
	if s := strings.TrimSpace(opt.Title); s != "" {
		return s
	}
	if opt.TreePath != "" {
		base := filepath.Base(opt.TreePath)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return model.RootName
}

func displayName(n *model.Node) string {
	if strings.TrimSpace(n.Name) == "" {
		return "(unnamed " + strconv.Itoa(n.ID) + ")"
	}
	return n.Name
}

func ancestry(n *model.Node) string {
	var parts []string
	for p := n; p != nil && p.Parent != nil; p = p.Parent {
		parts = append(parts, displayName(p))
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	return "/" + strings.Join(parts, "/")
}

func pagePath(n *model.Node) string {
	return "nodes/" + strconv.Itoa(n.ID) + ".md"
}

var inlineEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"<", `\<`,
)

func escapeInline(s string) string {
	s = inlineEscaper.Replace(s)
	// A leading marker would turn the item into a heading or nested list.
	if s != "" && strings.ContainsRune("#-+>", rune(s[0])) {
		s = `\` + s
	}
	return s
}

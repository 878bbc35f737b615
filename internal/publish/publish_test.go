package publish

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arbor/internal/model"
)

func gardenTree() *model.Tree {
	t := model.NewTree()
	garden := &model.Node{ID: 1, Name: "Garden"}
	tomatoes := &model.Node{ID: 2, Name: "Tomatoes", Color: 1, Filename: "content/Tomatoes.txt"}
	beans := &model.Node{ID: 3, Name: "*Beans*"}
	garden.AddChild(tomatoes)
	garden.AddChild(beans)
	t.Root.AddChild(garden)
	t.RecomputeParents()
	return t
}

func TestRenderIndexMarkdown_NestsChildren(t *testing.T) {
	t.Parallel()

	md, err := RenderIndexMarkdown(gardenTree(), RenderOptions{TreePath: "/tmp/plants.txt"})
	if err != nil {
		t.Fatalf("RenderIndexMarkdown: %v", err)
	}
	want := "# plants\n\n- Garden\n  - Tomatoes _(green)_\n  - \\*Beans\\*\n"
	if md != want {
		t.Fatalf("unexpected index\nwant %q\ngot  %q", want, md)
	}
}

func TestRenderIndexMarkdown_EmptyTree(t *testing.T) {
	t.Parallel()

	md, err := RenderIndexMarkdown(model.NewTree(), RenderOptions{Title: "Empty"})
	if err != nil {
		t.Fatalf("RenderIndexMarkdown: %v", err)
	}
	if md != "# Empty\n" {
		t.Fatalf("expected only a heading; got %q", md)
	}
}

func TestRenderNodeMarkdown_IncludesPathAndContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "content"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "content", "Tomatoes.txt"), []byte("water daily\nstake at 30cm\n"), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}

	md, err := RenderNodeMarkdown(gardenTree(), 2, RenderOptions{TreePath: filepath.Join(dir, "tree.txt")})
	if err != nil {
		t.Fatalf("RenderNodeMarkdown: %v", err)
	}
	for _, want := range []string{"# Tomatoes", "- Path: /Garden/Tomatoes", "- Colour: green", "## Content", "water daily\nstake at 30cm\n"} {
		if !strings.Contains(md, want) {
			t.Fatalf("expected %q in:\n%s", want, md)
		}
	}
	if strings.Contains(md, "## Children") {
		t.Fatalf("leaf should have no children section")
	}
}

func TestRenderNodeMarkdown_UnknownNode(t *testing.T) {
	t.Parallel()

	if _, err := RenderNodeMarkdown(gardenTree(), 42, RenderOptions{}); err == nil {
		t.Fatalf("expected error for unknown node")
	}
}

func TestWriteTree_PagesAndOverwrite(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	out := filepath.Join(dir, "md")
	opt := WriteOptions{TreePath: filepath.Join(dir, "tree.txt"), Pages: true}

	res, err := WriteTree(gardenTree(), out, opt)
	if err != nil {
		t.Fatalf("WriteTree: %v", err)
	}
	if len(res.Written) != 2 {
		t.Fatalf("expected index plus one page; got %v", res.Written)
	}
	index, err := os.ReadFile(filepath.Join(out, "index.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	if !strings.Contains(string(index), "[Tomatoes](nodes/2.md)") {
		t.Fatalf("expected a page link in:\n%s", index)
	}
	if _, err := os.Stat(filepath.Join(out, "nodes", "2.md")); err != nil {
		t.Fatalf("expected node page: %v", err)
	}

	if _, err := WriteTree(gardenTree(), out, opt); err == nil {
		t.Fatalf("expected existing files to block a second write")
	}
	opt.Overwrite = true
	if _, err := WriteTree(gardenTree(), out, opt); err != nil {
		t.Fatalf("WriteTree with overwrite: %v", err)
	}
}

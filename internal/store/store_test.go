package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"arbor/internal/codec"
	"arbor/internal/model"
)

func TestConfig_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	cfg, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.TreeFile() != DefaultTreeFile || cfg.ContentDirOrDefault() != DefaultContentDir {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
	if !cfg.PanelOrDefault() || !cfg.RestoreViewOrDefault() || cfg.ThemeOrDefault() != "auto" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
}

func TestConfig_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	s := Store{Dir: t.TempDir()}
	off := false
	want := &Config{DefaultFile: "notes.tree", ContentDir: "pages", Theme: "dark", Style: "slim", Panel: &off, Opener: "less"}
	if err := s.SaveConfig(want); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.DefaultFile != "notes.tree" || got.ContentDir != "pages" || got.Theme != "dark" ||
		got.Style != "slim" || got.PanelOrDefault() || got.Opener != "less" {
		t.Fatalf("roundtrip mismatch: %#v", got)
	}
}

func TestConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("theme: purple\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := (Store{Dir: dir}).LoadConfig(); err == nil {
		t.Fatalf("expected invalid theme to fail")
	}
}

func TestConfigDir_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("ARBOR_CONFIG_DIR", dir)
	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Fatalf("expected %q; got %q (%v)", dir, got, err)
	}
}

func TestLoadTree_MissingFileIsFresh(t *testing.T) {
	t.Parallel()

	res, err := LoadTree(filepath.Join(t.TempDir(), "nope.txt"))
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	if res.Tree.Len() != 1 || !res.Tree.Root.Selected {
		t.Fatalf("expected a fresh tree")
	}
	if res.Checksum != codec.Checksum("") {
		t.Fatalf("expected checksum of the empty document")
	}
}

func TestLoadTree_UnreadableIsLoadError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var le codec.LoadError
	if _, err := LoadTree(dir); !errors.As(err, &le) {
		t.Fatalf("expected LoadError when the path is a directory; got %v", err)
	}
}

func TestSaveTree_ThenLoad(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sub", "tree.txt")
	tr := model.NewTree()
	n := model.NewNode(1)
	n.Name = "a"
	n.Color = 2
	tr.Root.AddChild(n)

	sum, err := SaveTree(path, tr)
	if err != nil {
		t.Fatalf("SaveTree: %v", err)
	}
	res, err := LoadTree(path)
	if err != nil {
		t.Fatalf("LoadTree: %v", err)
	}
	if res.Checksum != sum {
		t.Fatalf("expected saved checksum to match loaded checksum")
	}
	if got := res.Tree.Find(1); got == nil || got.Name != "a" || got.Color != 2 {
		t.Fatalf("unexpected node %+v", got)
	}
	ents, _ := os.ReadDir(filepath.Dir(path))
	if len(ents) != 1 {
		t.Fatalf("expected no temp files left behind; got %d entries", len(ents))
	}
}

func TestContentFilename(t *testing.T) {
	cases := map[string]string{
		"ideas":       "content/ideas.txt",
		"a/b":         "content/a_b.txt",
		"  ":          "content/untitled.txt",
		"..":          "content/untitled.txt",
		"trip plan":   "content/trip plan.txt",
		`back\\slash`: "content/back__slash.txt",
	}
	for name, want := range cases {
		if got := ContentFilename("content", name); got != want {
			t.Fatalf("ContentFilename(%q): expected %q; got %q", name, want, got)
		}
	}
}

func TestEnsureAndReadContent(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	treePath := filepath.Join(dir, "tree.txt")
	p := ResolveContent(treePath, "content/x.txt")
	if p != filepath.Join(dir, "content", "x.txt") {
		t.Fatalf("unexpected resolved path %q", p)
	}
	if lines, err := ReadContentLines(p, 10); err != nil || lines != nil {
		t.Fatalf("expected missing content to read as nil; got %v %v", lines, err)
	}
	if err := EnsureContentFile(p); err != nil {
		t.Fatalf("EnsureContentFile: %v", err)
	}
	if err := os.WriteFile(p, []byte("one\r\ntwo\nthree\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	// Ensuring again must not truncate.
	if err := EnsureContentFile(p); err != nil {
		t.Fatalf("EnsureContentFile: %v", err)
	}
	lines, err := ReadContentLines(p, 2)
	if err != nil {
		t.Fatalf("ReadContentLines: %v", err)
	}
	if len(lines) != 2 || lines[0] != "one" || lines[1] != "two" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestViewState_SaveLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := Store{Dir: t.TempDir()}
	treePath := filepath.Join(t.TempDir(), "tree.txt")

	if _, ok, err := s.LoadViewState(ctx, treePath); err != nil || ok {
		t.Fatalf("expected no state yet; got ok=%v err=%v", ok, err)
	}

	want := &ViewState{TreePath: treePath, SelectedID: 7, DrawRootID: 3, XOffset: -12.5, YOffset: 40, Scheme: "dark", Style: "slim", Panel: true}
	if err := s.SaveViewState(ctx, want); err != nil {
		t.Fatalf("SaveViewState: %v", err)
	}
	got, ok, err := s.LoadViewState(ctx, treePath)
	if err != nil || !ok {
		t.Fatalf("LoadViewState: ok=%v err=%v", ok, err)
	}
	if got.SelectedID != 7 || got.DrawRootID != 3 || got.XOffset != -12.5 || got.YOffset != 40 ||
		got.Scheme != "dark" || got.Style != "slim" || !got.Panel {
		t.Fatalf("roundtrip mismatch: %#v", got)
	}
	if got.UpdatedAt.IsZero() {
		t.Fatalf("expected updated timestamp")
	}

	want.SelectedID = 8
	if err := s.SaveViewState(ctx, want); err != nil {
		t.Fatalf("SaveViewState (replace): %v", err)
	}
	got, _, _ = s.LoadViewState(ctx, treePath)
	if got.SelectedID != 8 {
		t.Fatalf("expected replace; got %d", got.SelectedID)
	}

	if err := s.ForgetViewState(ctx, treePath); err != nil {
		t.Fatalf("ForgetViewState: %v", err)
	}
	if _, ok, _ := s.LoadViewState(ctx, treePath); ok {
		t.Fatalf("expected state to be gone")
	}
}

func TestWatcher_ReportsWrites(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "tree.txt")
	other := filepath.Join(dir, "other.txt")
	if err := os.WriteFile(watched, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	w, err := NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()
	if err := w.Set(watched); err != nil {
		t.Fatalf("Set: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan string, 1)
	go func() {
		p, _ := w.Next(ctx)
		done <- p
	}()

	if err := os.WriteFile(other, []byte("x"), 0o644); err != nil {
		t.Fatalf("write other: %v", err)
	}
	if err := os.WriteFile(watched, []byte("edge\t0\t1\n"), 0o644); err != nil {
		t.Fatalf("write watched: %v", err)
	}

	select {
	case p := <-done:
		abs, _ := filepath.Abs(watched)
		if p != abs {
			t.Fatalf("expected change on %q; got %q", abs, p)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for watcher")
	}
}

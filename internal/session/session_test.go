package session

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"arbor/internal/codec"
	"arbor/internal/layout"
	"arbor/internal/model"
	"arbor/internal/store"
)

const threeNodes = "edge\t0\t1\nnode\t1\ta\nedge\t1\t2\nnode\t2\tb\nedge\t1\t3\nnode\t3\tc\n"

func newTestSession(t *testing.T, doc string) (*Session, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "tree.txt")
	if doc != "" {
		if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	var out bytes.Buffer
	s, issues, err := Load(path, Options{Out: &out, Rand: rand.New(rand.NewSource(3))})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(issues) != 0 {
		t.Fatalf("unexpected issues %v", issues)
	}
	s.Resize(120, 40)
	return s, &out
}

func TestScenario_Navigation(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(1))

	steps := []struct {
		op   Op
		want int
	}{
		{OpNextSibling, 1},
		{OpFirstChild, 2},
		{OpNextSibling, 3},
		{OpParent, 1},
	}
	for i, st := range steps {
		s.Dispatch(st.op)
		if got := s.Tree.Selected().ID; got != st.want {
			t.Fatalf("step %d: expected selection %d; got %d", i, st.want, got)
		}
	}
	if s.Modified() {
		t.Fatalf("expected navigation not to modify the tree")
	}
}

func TestJumpToChild(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(1))
	s.JumpToChild(2)
	if s.Tree.Selected().ID != 3 {
		t.Fatalf("expected 2nd child")
	}
}

func TestAddChild_PromptFlow(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	res := s.Dispatch(OpAddChild)
	if res.Prompt == nil || res.Prompt.Kind != PromptText {
		t.Fatalf("expected a text prompt; got %+v", res)
	}

	// Dismissal cancels.
	if res2 := s.Answer(res.Prompt, Answer{OK: false, Text: "x"}); res2.Changed || s.Tree.Len() != 4 {
		t.Fatalf("expected dismissal to cancel")
	}
	// Empty input is a no-op.
	if res2 := s.Answer(res.Prompt, Answer{OK: true, Text: ""}); res2.Changed {
		t.Fatalf("expected empty name to be ignored")
	}

	res2 := s.Answer(res.Prompt, Answer{OK: true, Text: "d"})
	if !res2.Changed || s.Tree.Len() != 5 {
		t.Fatalf("expected node added; got %+v", res2)
	}
	if n := s.Tree.Find(4); n == nil || n.Parent != s.Tree.Root || n.Name != "d" {
		t.Fatalf("expected d(4) under root")
	}
	if !s.Modified() {
		t.Fatalf("expected Modified after add")
	}
}

func TestRename_PrefillsCurrentName(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(2))
	res := s.Dispatch(OpRename)
	if res.Prompt == nil || res.Prompt.Initial != "b" {
		t.Fatalf("expected prefilled prompt; got %+v", res.Prompt)
	}
	s.Answer(res.Prompt, Answer{OK: true, Text: "bee"})
	if s.Tree.Find(2).Name != "bee" {
		t.Fatalf("expected rename")
	}
}

func TestInsertAbove(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(2))
	res := s.Dispatch(OpInsertAbove)
	s.Answer(res.Prompt, Answer{OK: true, Text: "group"})
	b := s.Tree.Find(2)
	if b.Parent.Name != "group" || b.Parent.Parent.ID != 1 || s.Tree.Find(1).IndexOf(b.Parent) != 0 {
		t.Fatalf("expected group spliced above b at index 0")
	}

	s.Tree.Select(s.Tree.Root)
	if res := s.Dispatch(OpInsertAbove); res.Prompt != nil {
		t.Fatalf("expected insert-above on root to be a no-op")
	}
}

func TestDelete_ConfirmsOnlyWithChildren(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)

	s.Tree.Select(s.Tree.Find(3))
	if res := s.Dispatch(OpDelete); res.Prompt != nil || !res.Changed {
		t.Fatalf("expected leaf delete without confirmation; got %+v", res)
	}
	if s.Tree.Selected().ID != 1 {
		t.Fatalf("expected parent selected after delete")
	}

	res := s.Dispatch(OpDelete)
	if res.Prompt == nil || res.Prompt.Kind != PromptConfirm {
		t.Fatalf("expected confirmation for a node with children")
	}
	s.Answer(res.Prompt, Answer{OK: true, Yes: false})
	if s.Tree.Find(1) == nil {
		t.Fatalf("expected 'no' to keep the node")
	}
	s.Answer(res.Prompt, Answer{OK: true, Yes: true})
	if s.Tree.Find(1) != nil || s.Tree.Find(2) != nil {
		t.Fatalf("expected subtree removed")
	}
	if s.Tree.Selected() != s.Tree.Root {
		t.Fatalf("expected root selected")
	}

	if res := s.Dispatch(OpDelete); res.Prompt != nil || res.Changed {
		t.Fatalf("expected deleting root to be a no-op")
	}
}

func TestRecolorPromoteReorder(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(3))

	s.Dispatch(OpRecolor)
	if s.Tree.Find(3).Color != 1 {
		t.Fatalf("expected color 1")
	}
	s.Dispatch(OpMoveEarlier)
	if s.Tree.Find(1).Children[0].ID != 3 {
		t.Fatalf("expected c moved first")
	}
	if res := s.Dispatch(OpMoveEarlier); res.Changed {
		t.Fatalf("expected boundary move to be a no-op")
	}
	s.Dispatch(OpPromote)
	if s.Tree.Find(3).Parent != s.Tree.Root {
		t.Fatalf("expected c promoted under root")
	}
	if err := s.Tree.Validate(); err != nil {
		t.Fatalf("invalid tree: %v", err)
	}
}

func TestSavePrintAndQuit(t *testing.T) {
	s, out := newTestSession(t, threeNodes)

	if res := s.Dispatch(OpQuit); !res.Quit {
		t.Fatalf("expected clean quit without prompt")
	}

	s.Tree.Select(s.Tree.Find(1))
	s.Dispatch(OpRecolor)
	s.Dispatch(OpPrint)
	if !strings.Contains(out.String(), "edge\t0\t1\n") {
		t.Fatalf("expected serialization on Out; got %q", out.String())
	}
	if !s.Modified() {
		t.Fatalf("expected print to leave the tree modified")
	}

	res := s.Dispatch(OpQuit)
	if res.Quit || res.Prompt == nil || res.Prompt.Title != "Discard unsaved changes?" {
		t.Fatalf("expected discard confirmation; got %+v", res)
	}
	if r := s.Answer(res.Prompt, Answer{OK: true, Yes: false}); r.Quit {
		t.Fatalf("expected 'no' to keep running")
	}
	if r := s.Answer(res.Prompt, Answer{OK: true, Yes: true}); !r.Quit {
		t.Fatalf("expected 'yes' to quit")
	}

	if res := s.Dispatch(OpSave); !strings.HasPrefix(res.Message, "Saved") {
		t.Fatalf("expected save message; got %q", res.Message)
	}
	if s.Modified() {
		t.Fatalf("expected clean after save")
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if codec.Checksum(string(b)) != s.SavedChecksum() {
		t.Fatalf("expected saved checksum to match the file")
	}
}

func TestSaveRefusesInvalidTree(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Find(2).Color = 9

	res := s.Dispatch(OpSave)
	if !strings.Contains(res.Message, "color 9 out of range") {
		t.Fatalf("expected the validation error; got %q", res.Message)
	}
	b, err := os.ReadFile(s.Path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(b) != threeNodes {
		t.Fatalf("expected the file untouched; got %q", b)
	}
}

func TestRootAttributeEditsAreNoOps(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	if s.Tree.Selected() != s.Tree.Root {
		t.Fatalf("expected the root selected after load")
	}

	if res := s.Dispatch(OpRename); res.Prompt != nil || res.Changed {
		t.Fatalf("expected renaming the root to be a no-op; got %+v", res)
	}
	if res := s.Dispatch(OpRecolor); res.Changed {
		t.Fatalf("expected recoloring the root to be a no-op")
	}
	if res := s.Dispatch(OpEditContent); res.Open != "" || res.Changed {
		t.Fatalf("expected editing root content to be a no-op; got %+v", res)
	}
	root := s.Tree.Root
	if root.Name != model.RootName || root.Color != model.ColorNone || root.Filename != "" {
		t.Fatalf("expected the root untouched; got %+v", root)
	}
	if s.Modified() {
		t.Fatalf("expected no unsaved changes")
	}
}

func TestEditContent(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(2))

	res := s.Dispatch(OpEditContent)
	if !res.Changed || s.Tree.Find(2).Filename != "content/b.txt" {
		t.Fatalf("expected derived filename; got %+v %q", res, s.Tree.Find(2).Filename)
	}
	want := filepath.Join(filepath.Dir(s.Path), "content", "b.txt")
	if res.Open != want {
		t.Fatalf("expected open %q; got %q", want, res.Open)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected content file created: %v", err)
	}
	if err := os.WriteFile(want, []byte("hello\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if lines := s.ContentLines(s.Tree.Find(2), 10); len(lines) != 1 || lines[0] != "hello" {
		t.Fatalf("unexpected content %q", lines)
	}

	if res := s.Dispatch(OpEditContent); res.Changed {
		t.Fatalf("expected second edit to keep the filename")
	}
}

func TestSearch(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	res := s.Dispatch(OpSearch)
	if res.Prompt == nil {
		t.Fatalf("expected search prompt")
	}
	s.Answer(res.Prompt, Answer{OK: true, Text: "c"})
	if s.Tree.Selected().ID != 3 {
		t.Fatalf("expected c selected; got %d", s.Tree.Selected().ID)
	}
	if r := s.Answer(res.Prompt, Answer{OK: true, Text: "zz"}); r.Message == "" {
		t.Fatalf("expected no-match message")
	}
}

func TestDrillInOut(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(1))
	s.Dispatch(OpDrillIn)
	if s.View.Root(s.Tree).ID != 1 {
		t.Fatalf("expected draw root a")
	}
	s.Dispatch(OpParent)
	if s.View.Root(s.Tree) != s.Tree.Root {
		t.Fatalf("expected selecting outside the draw root to move it")
	}
	s.Tree.Select(s.Tree.Find(2))
	s.Dispatch(OpDrillIn)
	s.Dispatch(OpDrillOut)
	if s.View.Root(s.Tree) != s.Tree.Root {
		t.Fatalf("expected drill out to reset the draw root")
	}
}

func TestViewCommands(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	x := s.View.XOffset
	s.Dispatch(OpPanLeft)
	if s.View.XOffset != x+s.Metrics().PanStep {
		t.Fatalf("expected pan")
	}
	s.Dispatch(OpPanRight)
	if s.View.XOffset != x {
		t.Fatalf("expected pan back")
	}
	s.Dispatch(OpToggleStyle)
	if s.View.Style != layout.StyleSlim {
		t.Fatalf("expected slim")
	}
	if res := s.Dispatch(OpHelp); res.Show != ShowHelp {
		t.Fatalf("expected help")
	}
	if res := s.Dispatch(OpYank); res.Yank != "root" {
		t.Fatalf("expected yank of the selected name; got %q", res.Yank)
	}
	s.Tree.Select(s.Tree.Find(3))
	s.Dispatch(OpCenter)
	c := s.Tree.Find(3)
	if s.View.XOffset != -c.Rect.X1+120.0/8 || s.View.YOffset != -c.Rect.Y1+40.0/4 {
		t.Fatalf("expected centre on c")
	}
}

func TestClickSelects(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Relayout()
	b := s.Tree.Find(2)
	res := s.Click(b.Rect.X1+1+s.View.XOffset, b.Rect.Y1+1+s.View.YOffset)
	if res.Changed || s.Tree.Selected() != b {
		t.Fatalf("expected click to select b")
	}
	s.Drag(5, 0)
	if s.View.XOffset != 5 {
		t.Fatalf("expected drag to pan; got %v", s.View.XOffset)
	}
}

func TestSnapshotRestore(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(3))
	s.Dispatch(OpToggleScheme)
	s.Dispatch(OpTogglePanel)
	snap := s.Snapshot()

	s2, _ := newTestSession(t, threeNodes)
	s2.Restore(snap)
	if s2.Tree.Selected().ID != 3 || s2.View.Panel || s2.View.Scheme != s.View.Scheme {
		t.Fatalf("expected restored view; got sel=%d %+v", s2.Tree.Selected().ID, s2.View)
	}

	s2.Restore(&store.ViewState{SelectedID: 99, DrawRootID: 98})
	if s2.Tree.Selected().ID != 3 {
		t.Fatalf("expected unknown ids to be ignored")
	}
}

func TestReloadKeepsSelection(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	s.Tree.Select(s.Tree.Find(2))
	res, err := codec.DecodeString(threeNodes + "edge\t0\t9\nnode\t9\tnew\n")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	s.Reload(res)
	if s.Tree.Selected().ID != 2 || s.Tree.Find(9) == nil {
		t.Fatalf("expected reload to keep the selection")
	}
	if s.Modified() {
		t.Fatalf("expected reloaded tree to be clean")
	}
}

func TestSelectionInvariantAcrossCommands(t *testing.T) {
	s, _ := newTestSession(t, threeNodes)
	ops := []Op{OpFirstChild, OpRandom, OpRecolor, OpMoveLater, OpPromote, OpParent, OpRandom, OpDelete, OpRoot, OpNextSibling}
	for _, op := range ops {
		res := s.Dispatch(op)
		if res.Prompt != nil {
			s.Answer(res.Prompt, Answer{OK: true, Yes: true, Text: "x"})
		}
		if err := s.Tree.Validate(); err != nil {
			t.Fatalf("after %v: %v", op, err)
		}
	}
	var selected []*model.Node
	s.Tree.Root.Walk(func(n *model.Node) bool {
		if n.Selected {
			selected = append(selected, n)
		}
		return true
	})
	if len(selected) != 1 {
		t.Fatalf("expected exactly one selected node; got %d", len(selected))
	}
}

package session

import (
	"arbor/internal/codec"
	"arbor/internal/layout"
	"arbor/internal/model"
	"arbor/internal/mutate"
	"arbor/internal/nav"
	"arbor/internal/store"
)

// Dispatch runs op against the current selection.
func (s *Session) Dispatch(op Op) Result {
	sel := s.Tree.Selected()

	switch op {
	case OpParent:
		return s.moved(nav.Parent(s.Tree))
	case OpFirstChild:
		return s.moved(nav.FirstChild(s.Tree))
	case OpNextSibling:
		return s.moved(nav.NextSibling(s.Tree))
	case OpPrevSibling:
		return s.moved(nav.PrevSibling(s.Tree))
	case OpRoot:
		return s.moved(nav.Root(s.Tree))
	case OpRandom:
		return s.moved(nav.Random(s.Tree, s.rng))

	case OpSearch:
		return s.ask(PromptText, "Search", "", op, nil)
	case OpAddChild:
		return s.ask(PromptText, "Name of new child", "", op, sel)
	case OpInsertAbove:
		if sel.Parent == nil {
			return Result{}
		}
		return s.ask(PromptText, "Name of new parent", "", op, sel)
	case OpRename:
		if sel.Parent == nil {
			return Result{}
		}
		return s.ask(PromptText, "Rename", sel.Name, op, sel)
	case OpDelete:
		if sel.Parent == nil {
			return Result{}
		}
		if len(sel.Children) > 0 {
			return s.ask(PromptConfirm, "Delete node with children?", "", op, sel)
		}
		return s.applyEdit(mutate.Delete(s.Tree, sel))

	case OpRecolor:
		return s.applyEdit(mutate.Recolor(s.Tree, sel))
	case OpPromote:
		return s.applyEdit(mutate.Promote(s.Tree, sel))
	case OpMoveEarlier:
		return s.applyEdit(mutate.MoveEarlier(s.Tree, sel))
	case OpMoveLater:
		return s.applyEdit(mutate.MoveLater(s.Tree, sel))
	case OpEditContent:
		if sel.Parent == nil {
			return Result{}
		}
		return s.editContent(sel)

	case OpToggleScheme:
		s.View.ToggleScheme()
		return Result{}
	case OpToggleStyle:
		s.View.ToggleStyle()
		s.follow()
		return Result{}
	case OpTogglePanel:
		s.View.TogglePanel()
		return Result{}
	case OpCenter:
		s.Relayout()
		s.View.Center(sel)
		return Result{}
	case OpPanLeft:
		s.View.Pan(s.metrics.PanStep, 0)
		return Result{}
	case OpPanRight:
		s.View.Pan(-s.metrics.PanStep, 0)
		return Result{}
	case OpPanUp:
		s.View.Pan(0, s.metrics.PanStep)
		return Result{}
	case OpPanDown:
		s.View.Pan(0, -s.metrics.PanStep)
		return Result{}
	case OpDrillIn:
		s.View.DrawRoot = sel
		s.follow()
		return Result{}
	case OpDrillOut:
		s.View.DrawRoot = s.Tree.Root
		s.follow()
		return Result{}

	case OpSave:
		return s.Save()
	case OpPrint:
		return s.Print()
	case OpHelp:
		return Result{Show: ShowHelp}
	case OpAbout:
		return Result{Show: ShowAbout}
	case OpYank:
		return Result{Yank: sel.Name, Message: "Copied name"}
	case OpQuit:
		if s.Modified() {
			return s.ask(PromptConfirm, "Discard unsaved changes?", "", op, nil)
		}
		return Result{Quit: true}
	}
	return Result{}
}

// JumpToChild selects the n-th (1-based) child of the selection.
func (s *Session) JumpToChild(n int) Result {
	return s.moved(nav.NthChild(s.Tree, n))
}

// Answer resumes the command behind p.
func (s *Session) Answer(p *Prompt, a Answer) Result {
	if p == nil || !a.OK {
		return Result{}
	}
	if p.Kind == PromptConfirm && !a.Yes {
		return Result{}
	}
	if p.target != nil && !model.IsDescendant(s.Tree.Root, p.target) {
		// The tree was replaced (reload) while the prompt was open.
		return Result{}
	}

	switch p.op {
	case OpSearch:
		if a.Text == "" {
			return Result{}
		}
		if nav.Search(s.Tree, a.Text) {
			s.follow()
			return Result{}
		}
		if nav.Find(s.Tree, a.Text) == nil {
			return Result{Message: "No match for " + a.Text}
		}
		return Result{}
	case OpAddChild:
		return s.applyEdit(mutate.AddChild(s.Tree, p.target, a.Text))
	case OpInsertAbove:
		return s.applyEdit(mutate.InsertAbove(s.Tree, p.target, a.Text))
	case OpRename:
		return s.applyEdit(mutate.Rename(s.Tree, p.target, a.Text))
	case OpDelete:
		return s.applyEdit(mutate.Delete(s.Tree, p.target))
	case OpQuit:
		return Result{Quit: true}
	}
	return Result{}
}

func (s *Session) ask(kind PromptKind, title, initial string, op Op, target *model.Node) Result {
	return Result{Prompt: &Prompt{Kind: kind, Title: title, Initial: initial, op: op, target: target}}
}

func (s *Session) moved(changed bool) Result {
	if changed {
		s.follow()
	}
	return Result{}
}

// applyEdit folds a mutate result in. Rejected edits are silent no-ops.
func (s *Session) applyEdit(res mutate.Result, err error) Result {
	if err != nil {
		s.log.Debug("edit rejected", "err", err)
		return Result{}
	}
	s.follow()
	return Result{Changed: res.Changed}
}

func (s *Session) editContent(n *model.Node) Result {
	changed := false
	if n.Filename == "" {
		res, err := mutate.SetFilename(s.Tree, n, store.ContentFilename(s.ContentDir, n.Name))
		if err != nil {
			return s.errorf("edit content: %v", err)
		}
		changed = res.Changed
	}
	path := s.ContentPath(n)
	if err := store.EnsureContentFile(path); err != nil {
		return s.errorf("edit content: %v", err)
	}
	return Result{Open: path, Changed: changed}
}

// Save writes the tree file and records its checksum.
func (s *Session) Save() Result {
	if s.Path == "" {
		return s.errorf("save: no tree file")
	}
	if err := s.Tree.Validate(); err != nil {
		return s.errorf("save %s: %v", s.Path, err)
	}
	sum, err := store.SaveTree(s.Path, s.Tree)
	if err != nil {
		return s.errorf("save %s: %v", s.Path, err)
	}
	s.saved = sum
	s.log.Info("saved", "path", s.Path, "nodes", s.Tree.Len())
	return Result{Message: "Saved " + s.Path}
}

// Print writes the serialization to Out. The saved checksum is untouched.
func (s *Session) Print() Result {
	if err := codec.Write(s.Out, s.Tree); err != nil {
		return s.errorf("print: %v", err)
	}
	return Result{Message: "Printed tree"}
}

// Click selects the node under a viewport point.
func (s *Session) Click(x, y float64) Result {
	s.Relayout()
	wx, wy := s.View.ToWorld(x, y)
	n := layout.Hit(s.View.Root(s.Tree), wx, wy)
	if n == nil {
		return Result{}
	}
	prev := s.Tree.Selected()
	s.Tree.Select(n)
	return s.moved(n != prev)
}

// Drag pans the view by a viewport delta.
func (s *Session) Drag(dx, dy float64) Result {
	s.View.Pan(dx, dy)
	return Result{}
}

package tui

import (
	"arbor/internal/session"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type keyMap struct {
	Parent      key.Binding
	FirstChild  key.Binding
	NextSibling key.Binding
	PrevSibling key.Binding
	NthChild    key.Binding
	Root        key.Binding
	Random      key.Binding
	Search      key.Binding
	DrillIn     key.Binding
	DrillOut    key.Binding

	AddChild    key.Binding
	InsertAbove key.Binding
	Rename      key.Binding
	Delete      key.Binding
	Recolor     key.Binding
	Promote     key.Binding
	MoveEarlier key.Binding
	MoveLater   key.Binding
	EditContent key.Binding

	Center   key.Binding
	PanLeft  key.Binding
	PanRight key.Binding
	PanUp    key.Binding
	PanDown  key.Binding
	Style    key.Binding
	Panel    key.Binding
	Scheme   key.Binding

	Save  key.Binding
	Print key.Binding
	Yank  key.Binding
	Help  key.Binding
	About key.Binding
	Quit  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Parent:      key.NewBinding(key.WithKeys("h", "left"), key.WithHelp("h/←", "parent")),
		FirstChild:  key.NewBinding(key.WithKeys("l", "right"), key.WithHelp("l/→", "first child")),
		NextSibling: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "next sibling")),
		PrevSibling: key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "previous sibling")),
		NthChild:    key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "nth child")),
		Root:        key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "root")),
		Random:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "random node")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		DrillIn:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "draw from selection")),
		DrillOut:    key.NewBinding(key.WithKeys("backspace"), key.WithHelp("backspace", "draw from root")),

		AddChild:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "add child")),
		InsertAbove: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "insert parent")),
		Rename:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename")),
		Delete:      key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Recolor:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "cycle colour")),
		Promote:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "promote")),
		MoveEarlier: key.NewBinding(key.WithKeys("K"), key.WithHelp("K", "move earlier")),
		MoveLater:   key.NewBinding(key.WithKeys("J"), key.WithHelp("J", "move later")),
		EditContent: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit content")),

		Center:   key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "centre")),
		PanLeft:  key.NewBinding(key.WithKeys("shift+left", "alt+h"), key.WithHelp("⇧←/alt+h", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("shift+right", "alt+l"), key.WithHelp("⇧→/alt+l", "pan right")),
		PanUp:    key.NewBinding(key.WithKeys("shift+up", "alt+k"), key.WithHelp("⇧↑/alt+k", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("shift+down", "alt+j"), key.WithHelp("⇧↓/alt+j", "pan down")),
		Style:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "compact boxes")),
		Panel:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "info panel")),
		Scheme:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "light/dark")),

		Save:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Print: key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "print")),
		Yank:  key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy name")),
		Help:  key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		About: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "about")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Parent, k.FirstChild, k.NextSibling, k.AddChild, k.Rename, k.Delete, k.Save, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Parent, k.FirstChild, k.NextSibling, k.PrevSibling, k.NthChild, k.Root, k.Random, k.Search, k.DrillIn, k.DrillOut},
		{k.AddChild, k.InsertAbove, k.Rename, k.Delete, k.Recolor, k.Promote, k.MoveEarlier, k.MoveLater, k.EditContent},
		{k.Center, k.PanLeft, k.PanRight, k.PanUp, k.PanDown, k.Style, k.Panel, k.Scheme},
		{k.Save, k.Print, k.Yank, k.Help, k.About, k.Quit},
	}
}

func (k keyMap) bindings() []struct {
	b  key.Binding
	op session.Op
} {
	return []struct {
		b  key.Binding
		op session.Op
	}{
		{k.Parent, session.OpParent},
		{k.FirstChild, session.OpFirstChild},
		{k.NextSibling, session.OpNextSibling},
		{k.PrevSibling, session.OpPrevSibling},
		{k.Root, session.OpRoot},
		{k.Random, session.OpRandom},
		{k.Search, session.OpSearch},
		{k.DrillIn, session.OpDrillIn},
		{k.DrillOut, session.OpDrillOut},
		{k.AddChild, session.OpAddChild},
		{k.InsertAbove, session.OpInsertAbove},
		{k.Rename, session.OpRename},
		{k.Delete, session.OpDelete},
		{k.Recolor, session.OpRecolor},
		{k.Promote, session.OpPromote},
		{k.MoveEarlier, session.OpMoveEarlier},
		{k.MoveLater, session.OpMoveLater},
		{k.EditContent, session.OpEditContent},
		{k.Center, session.OpCenter},
		{k.PanLeft, session.OpPanLeft},
		{k.PanRight, session.OpPanRight},
		{k.PanUp, session.OpPanUp},
		{k.PanDown, session.OpPanDown},
		{k.Style, session.OpToggleStyle},
		{k.Panel, session.OpTogglePanel},
		{k.Scheme, session.OpToggleScheme},
		{k.Save, session.OpSave},
		{k.Print, session.OpPrint},
		{k.Yank, session.OpYank},
		{k.Help, session.OpHelp},
		{k.About, session.OpAbout},
		{k.Quit, session.OpQuit},
	}
}

// lookup maps a key press to an editor command. Digits are handled by the
// caller since they carry an argument.
func (k keyMap) lookup(msg tea.KeyMsg) (session.Op, bool) {
	for _, e := range k.bindings() {
		if key.Matches(msg, e.b) {
			return e.op, true
		}
	}
	return session.OpNone, false
}

// nthChild reports the 1-based child index for a digit key.
func (k keyMap) nthChild(msg tea.KeyMsg) (int, bool) {
	if !key.Matches(msg, k.NthChild) {
		return 0, false
	}
	s := msg.String()
	return int(s[0] - '0'), true
}

// Package session is the command dispatcher. It owns the tree, the view state
// and the saved checksum, and turns editor commands into tree edits and view
// changes. Commands that need user input return a Prompt and finish when the
// caller answers it.
package session

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"

	"arbor/internal/codec"
	"arbor/internal/layout"
	"arbor/internal/model"
	"arbor/internal/store"
	"arbor/internal/view"
)

// Op names an editor command.
type Op int

const (
	OpNone Op = iota
	OpParent
	OpFirstChild
	OpNextSibling
	OpPrevSibling
	OpRoot
	OpRandom
	OpSearch
	OpAddChild
	OpInsertAbove
	OpRename
	OpDelete
	OpRecolor
	OpToggleScheme
	OpPromote
	OpMoveEarlier
	OpMoveLater
	OpEditContent
	OpCenter
	OpPanLeft
	OpPanRight
	OpPanUp
	OpPanDown
	OpToggleStyle
	OpTogglePanel
	OpSave
	OpPrint
	OpHelp
	OpAbout
	OpQuit
	OpDrillIn
	OpDrillOut
	OpYank
)

type PromptKind int

const (
	PromptText PromptKind = iota
	PromptConfirm
)

// Prompt is a suspended command waiting for input.
type Prompt struct {
	Kind  PromptKind
	Title string
	// Initial pre-fills a text prompt.
	Initial string

	op     Op
	target *model.Node
}

// Answer resumes a prompt. OK=false means the user dismissed it.
type Answer struct {
	OK   bool
	Text string
	Yes  bool
}

type Show int

const (
	ShowNone Show = iota
	ShowHelp
	ShowAbout
)

// Result tells the front end what to do after a command.
type Result struct {
	Prompt *Prompt
	Quit   bool
	// Open is a content file to hand to the external viewer.
	Open    string
	Message string
	// Changed reports a tree edit (as opposed to a view or selection change).
	Changed bool
	Show    Show
	// Yank is text to place on the clipboard.
	Yank string
}

type Options struct {
	Path       string
	ContentDir string
	Out        io.Writer
	Rand       *rand.Rand
	Measurer   layout.Measurer
	Metrics    layout.Metrics
	Logger     *slog.Logger
}

type Session struct {
	Tree *model.Tree
	View *view.View

	Path       string
	ContentDir string
	Out        io.Writer

	rng      *rand.Rand
	measurer layout.Measurer
	metrics  layout.Metrics
	log      *slog.Logger

	saved uint64
}

// New wraps a loaded tree. saved is the checksum of what is on disk.
func New(t *model.Tree, saved uint64, opts Options) *Session {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(rand.Int63()))
	}
	if opts.Measurer == nil {
		opts.Measurer = layout.CellMeasurer{}
	}
	if opts.Metrics == (layout.Metrics{}) {
		opts.Metrics = layout.CellMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if opts.ContentDir == "" {
		opts.ContentDir = store.DefaultContentDir
	}
	s := &Session{
		Tree:       t,
		View:       view.New(),
		Path:       opts.Path,
		ContentDir: opts.ContentDir,
		Out:        opts.Out,
		rng:        opts.Rand,
		measurer:   opts.Measurer,
		metrics:    opts.Metrics,
		log:        opts.Logger,
		saved:      saved,
	}
	t.Selected()
	return s
}

// Load opens path (fresh tree when missing) and builds a session on it.
func Load(path string, opts Options) (*Session, []error, error) {
	res, err := store.LoadTree(path)
	if err != nil {
		return nil, nil, err
	}
	opts.Path = path
	s := New(res.Tree, res.Checksum, opts)
	for _, issue := range res.Issues {
		s.log.Warn("tree file issue", "path", path, "err", issue)
	}
	return s, res.Issues, nil
}

func (s *Session) Metrics() layout.Metrics   { return s.metrics }
func (s *Session) Measurer() layout.Measurer { return s.measurer }

// Modified reports whether the live tree differs from the last save.
func (s *Session) Modified() bool {
	return codec.TreeChecksum(s.Tree) != s.saved
}

// SavedChecksum is the checksum of the last load or save.
func (s *Session) SavedChecksum() uint64 { return s.saved }

// Relayout refreshes every cached rect from the draw root.
func (s *Session) Relayout() model.Rect {
	root := s.View.Root(s.Tree)
	return layout.Layout(root, s.metrics.OriginX, s.metrics.OriginY, s.measurer, s.metrics, s.View.Style)
}

func (s *Session) follow() {
	s.View.Follow(s.Tree, func(root *model.Node) {
		layout.Layout(root, s.metrics.OriginX, s.metrics.OriginY, s.measurer, s.metrics, s.View.Style)
	}, s.metrics.VisibleMargin)
}

// Resize records the viewport size in layout units.
func (s *Session) Resize(w, h float64) {
	s.View.Resize(w, h)
}

// ContentPath resolves n's linked file on disk.
func (s *Session) ContentPath(n *model.Node) string {
	return store.ResolveContent(s.Path, n.Filename)
}

// ContentLines reads up to max lines of n's linked file for display.
func (s *Session) ContentLines(n *model.Node, max int) []string {
	if n == nil || n.Filename == "" {
		return nil
	}
	lines, err := store.ReadContentLines(s.ContentPath(n), max)
	if err != nil {
		s.log.Debug("read content", "path", n.Filename, "err", err)
		return nil
	}
	return lines
}

// Reload replaces the tree with one read from disk, keeping the selection by
// id when the node still exists.
func (s *Session) Reload(res *codec.Result) {
	selID := s.Tree.Selected().ID
	drawID := -1
	if s.View.DrawRoot != nil {
		drawID = s.View.DrawRoot.ID
	}
	s.Tree = res.Tree
	s.saved = res.Checksum
	if n := s.Tree.Find(selID); n != nil {
		s.Tree.Select(n)
	}
	s.View.DrawRoot = nil
	if n := s.Tree.Find(drawID); n != nil {
		s.View.DrawRoot = n
	}
	s.follow()
}

// Restore applies a saved view state. Ids that no longer exist are ignored.
func (s *Session) Restore(st *store.ViewState) {
	if st == nil {
		return
	}
	if n := s.Tree.Find(st.SelectedID); n != nil {
		s.Tree.Select(n)
	}
	if n := s.Tree.Find(st.DrawRootID); n != nil {
		s.View.DrawRoot = n
	}
	s.View.XOffset, s.View.YOffset = st.XOffset, st.YOffset
	s.View.Scheme = view.ParseScheme(st.Scheme)
	s.View.Style = layout.ParseStyle(st.Style)
	s.View.Panel = st.Panel
}

// Snapshot captures the view state for persistence.
func (s *Session) Snapshot() *store.ViewState {
	return &store.ViewState{
		TreePath:   s.Path,
		SelectedID: s.Tree.Selected().ID,
		DrawRootID: s.View.Root(s.Tree).ID,
		XOffset:    s.View.XOffset,
		YOffset:    s.View.YOffset,
		Scheme:     s.View.Scheme.String(),
		Style:      s.View.Style.String(),
		Panel:      s.View.Panel,
	}
}

func (s *Session) errorf(format string, args ...any) Result {
	msg := fmt.Sprintf(format, args...)
	s.log.Error(msg)
	return Result{Message: msg}
}

package tui

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync"

	"arbor/internal/model"
	"arbor/internal/session"
	"arbor/internal/store"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

type modalKind int

const (
	modalNone modalKind = iota
	modalPrompt
	modalConfirm
	modalDoc
)

// Options wires an editor session to the terminal front end.
type Options struct {
	Session *session.Session
	Store   store.Store
	Config  *store.Config
	Logger  *slog.Logger
	// Issues are non-fatal load problems to report on the status line.
	Issues []error
	// Watcher is optional; without it external edits are not picked up.
	Watcher *store.Watcher
	// Stdout receives printed trees after the program exits.
	Stdout io.Writer
}

type appModel struct {
	sess    *session.Session
	log     *slog.Logger
	watcher *store.Watcher
	treeAbs string
	opener  string

	width  int
	height int
	// frame counts processed messages; shown in the overlay.
	frame int

	keys keyMap
	help help.Model

	modal        modalKind
	prompt       *session.Prompt
	input        textinput.Model
	confirmFocus confirmModalFocus
	doc          viewport.Model
	docTitle     string

	dragging  bool
	dragMoved bool
	dragX     int
	dragY     int

	minibuffer string
	// printed collects S output; the alt screen owns stdout until exit.
	printed *bytes.Buffer
	content *contentCache
	quit    bool
}

func newAppModel(opts Options) appModel {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = &store.Config{}
	}

	treeAbs := opts.Session.Path
	if abs, err := filepath.Abs(treeAbs); err == nil {
		treeAbs = abs
	}

	in := textinput.New()
	in.Prompt = ""
	in.CharLimit = 1024

	m := appModel{
		sess:    opts.Session,
		log:     log,
		watcher: opts.Watcher,
		treeAbs: filepath.Clean(treeAbs),
		opener:  cfg.Opener,
		keys:    defaultKeyMap(),
		help:    help.New(),
		input:   in,
		doc:     viewport.New(0, 0),
		printed: &bytes.Buffer{},
		content: newContentCache(),
	}
	m.sess.Out = m.printed
	if n := len(opts.Issues); n > 0 {
		m.minibuffer = fmt.Sprintf("%s loading %s (run arbor check)", issueCount(n), opts.Session.Path)
	}
	m.rewatch()
	return m
}

func (m appModel) Init() tea.Cmd {
	return waitForChange(m.watcher)
}

// canvasHeight leaves the last row for the status line.
func (m appModel) canvasHeight() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

func issueCount(n int) string {
	if n == 1 {
		return "1 issue"
	}
	return fmt.Sprintf("%d issues", n)
}

// contentCache keeps content file lines between frames. Entries are dropped
// when the watcher reports a change or the viewer returns.
type contentCache struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newContentCache() *contentCache {
	return &contentCache{lines: map[string][]string{}}
}

func (c *contentCache) get(path string, load func() []string) []string {
	key := cacheKey(path)
	c.mu.Lock()
	defer c.mu.Unlock()
	if lines, ok := c.lines[key]; ok {
		return lines
	}
	lines := load()
	c.lines[key] = lines
	return lines
}

func (c *contentCache) forget(path string) {
	c.mu.Lock()
	delete(c.lines, cacheKey(path))
	c.mu.Unlock()
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return filepath.Clean(abs)
	}
	return filepath.Clean(path)
}

func (m appModel) contentLines(n *model.Node) []string {
	if n == nil || n.Filename == "" {
		return nil
	}
	max := m.height
	if max < 1 {
		max = 1
	}
	return m.content.get(m.sess.ContentPath(n), func() []string {
		return m.sess.ContentLines(n, max)
	})
}

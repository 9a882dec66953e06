package tui

import (
	"context"
	"io"
	"log/slog"

	"project_switcher/internal/discovery"
	"project_switcher/internal/picker"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

// Scanner produces catalog entries (name → path)
type Scanner interface {
	Scan(ctx context.Context) (map[string]string, error)
}

// SessionFunc resolves the name of the session the picker runs in
type SessionFunc func(ctx context.Context) (string, error)

// Choice is the project the user committed to
type Choice struct {
	Name string
	Path string
}

// Options configures a Model
type Options struct {
	// Defaults seed the catalog before the first scan completes
	Defaults map[string]string

	// Scanner runs discovery; nil disables scanning
	Scanner Scanner

	// CurrentSession resolves the running session; nil means none
	CurrentSession SessionFunc

	// Theme is a catppuccin flavor name
	Theme string

	// Context bounds the setup and scan commands; defaults to Background
	Context context.Context

	// Logger receives model events; nil discards them
	Logger *slog.Logger
}

// Model represents the application state
type Model struct {
	// Core state
	engine  *picker.Engine
	scanner Scanner
	resolve SessionFunc
	ctx     context.Context
	log     *slog.Logger

	// Keys received before setup finished, replayed in arrival order
	ready   bool
	pending []tea.KeyMsg

	// Discovery state
	scanning      bool
	rescanPending bool
	scans         int

	// UI components
	list     list.Model
	delegate *projectDelegate
	help     help.Model
	keys     keyMap
	styles   *styles

	// Status line
	status    string
	statusErr bool

	choice   *Choice
	quitting bool

	// UI dimensions
	width  int
	height int
}

// NewModel creates a new Model with initialized state
func NewModel(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	st := newStyles(opts.Theme)
	del := newProjectDelegate(&st)

	m := Model{
		engine:   picker.New(opts.Defaults, ""),
		scanner:  opts.Scanner,
		resolve:  opts.CurrentSession,
		ctx:      ctx,
		log:      logger,
		delegate: del,
		help:     newHelp(&st),
		keys:     defaultKeyMap(),
		styles:   &st,
		scanning: opts.Scanner != nil, // Init starts the first scan
	}

	m.list = list.New([]list.Item{}, del, 0, 0)
	m.list.SetShowTitle(false)
	m.list.SetShowHelp(false)
	m.list.SetShowStatusBar(false)
	m.list.SetShowPagination(false)
	m.list.SetFilteringEnabled(false)
	m.list.DisableQuitKeybindings()

	m.syncList()
	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.setupCmd(),
		m.scanCmd(),
	)
}

// Message types
type (
	setupDoneMsg struct {
		current string
		err     error
	}
	scanDoneMsg map[string]string
	scanErrMsg  struct{ error }

	// RescanMsg asks the model to run discovery again
	RescanMsg discovery.RescanEvent
)

// setupCmd resolves the current session
func (m Model) setupCmd() tea.Cmd {
	resolve, ctx := m.resolve, m.ctx
	return func() tea.Msg {
		if resolve == nil {
			return setupDoneMsg{}
		}
		current, err := resolve(ctx)
		return setupDoneMsg{current: current, err: err}
	}
}

// scanCmd runs one discovery pass
func (m Model) scanCmd() tea.Cmd {
	if m.scanner == nil {
		return nil
	}
	scanner, ctx := m.scanner, m.ctx
	return func() tea.Msg {
		entries, err := scanner.Scan(ctx)
		if err != nil {
			return scanErrMsg{err}
		}
		return scanDoneMsg(entries)
	}
}

// startScan runs a scan unless one is in flight, in which case another is
// queued for when it finishes
func (m Model) startScan() (Model, tea.Cmd) {
	if m.scanner == nil {
		return m, nil
	}
	if m.scanning {
		m.rescanPending = true
		return m, nil
	}
	m.scanning = true
	return m, m.scanCmd()
}

// syncList mirrors the engine's filtered view and selection into the list
func (m *Model) syncList() {
	names := m.engine.Filtered()
	m.list.SetItems(buildItems(names, m.engine.Catalog(), m.engine.SearchTerm()))
	if idx, ok := m.engine.SelectedIndex(); ok {
		m.list.Select(idx)
	}
}

// newHelp builds the footer using the theme's muted help style
func newHelp(st *styles) help.Model {
	h := help.New()
	h.Styles.ShortKey = st.help.Bold(true)
	h.Styles.ShortDesc = st.help
	h.Styles.ShortSeparator = st.help
	h.Styles.FullKey = st.help.Bold(true)
	h.Styles.FullDesc = st.help
	h.Styles.FullSeparator = st.help
	h.Styles.Ellipsis = st.help
	return h
}

// updateListSizes updates list dimensions based on terminal size
func (m Model) updateListSizes() Model {
	// Reserve space for header (1), prompt (1), gap (1), status (1), help (1)
	listHeight := m.height - 5
	if listHeight < 3 {
		listHeight = 3
	}
	listWidth := m.width - 2
	if listWidth < 20 {
		listWidth = 20
	}

	m.delegate.SetWidth(listWidth)
	m.list.SetSize(listWidth, listHeight)
	m.help.Width = listWidth
	return m
}

// Choice returns the committed project, if any
func (m Model) Choice() (Choice, bool) {
	if m.choice == nil {
		return Choice{}, false
	}
	return *m.choice, true
}

// Engine exposes the selection engine
func (m Model) Engine() *picker.Engine {
	return m.engine
}

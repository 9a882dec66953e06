package tui

import (
	"fmt"
	"log/slog"

	"project_switcher/internal/mux"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles incoming messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.updateListSizes()
		return m, nil

	case tea.KeyMsg:
		// ctrl+c must work even if setup hangs
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		if !m.ready {
			m.pending = append(m.pending, msg)
			return m, nil
		}
		return m.handleKey(msg)

	case setupDoneMsg:
		return m.finishSetup(msg)

	case scanDoneMsg:
		m.scans++
		m.scanning = false
		m.engine.Merge(msg)
		m.syncList()
		m.log.Debug("catalog updated", slog.Int("entries", len(msg)), slog.Int("visible", m.engine.Len()))
		m.clearStatus()
		return m.afterScan()

	case scanErrMsg:
		m.scanning = false
		m.log.Error("project scan failed", slog.Any("error", msg.error))
		m.setError(fmt.Sprintf("scan failed: %v", msg.error))
		return m.afterScan()

	case RescanMsg:
		m.log.Debug("rescan requested", slog.String("root", msg.Root), slog.String("reason", msg.Reason))
		return m.startScan()
	}

	return m, nil
}

// finishSetup records the current session and replays queued keys in order.
// Replay stops once a key ends the program.
func (m Model) finishSetup(msg setupDoneMsg) (tea.Model, tea.Cmd) {
	m.ready = true
	if msg.err != nil {
		m.log.Warn("could not resolve current session", slog.Any("error", msg.err))
	}
	if msg.current != "" {
		m.engine.SetCurrentSession(msg.current)
		m.syncList()
	}

	queued := m.pending
	m.pending = nil

	var cmds []tea.Cmd
	for _, k := range queued {
		next, cmd := m.handleKey(k)
		m = next.(Model)
		cmds = append(cmds, cmd)
		if m.done() {
			break
		}
	}
	return m, tea.Batch(cmds...)
}

func (m Model) afterScan() (tea.Model, tea.Cmd) {
	if m.rescanPending {
		m.rescanPending = false
		return m.startScan()
	}
	return m, nil
}

// handleKey processes keyboard input once setup has finished
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.choice = nil
		return m.quit()

	case key.Matches(msg, m.keys.Commit):
		return m.commit()

	case key.Matches(msg, m.keys.Up):
		m.engine.MoveUp()

	case key.Matches(msg, m.keys.Down):
		m.engine.MoveDown()

	case key.Matches(msg, m.keys.Backspace):
		m.engine.RemoveLastSearchChar()

	case key.Matches(msg, m.keys.Clear):
		m.engine.ClearSearch()

	case key.Matches(msg, m.keys.Rescan):
		m.setInfo("rescanning…")
		next, cmd := m.startScan()
		return next, cmd

	case msg.Type == tea.KeySpace:
		m.engine.AppendSearchChar(' ')

	case msg.Type == tea.KeyRunes && !msg.Alt:
		for _, r := range msg.Runes {
			m.engine.AppendSearchChar(r)
		}

	default:
		return m, nil
	}

	m.syncList()
	return m, nil
}

// commit records the selection and quits. Choosing the session we are
// already in is refused with a status message.
func (m Model) commit() (tea.Model, tea.Cmd) {
	name, ok := m.engine.SelectedItem()
	if !ok {
		return m, nil
	}

	current := m.engine.CurrentSession()
	if current != "" && mux.SessionName(name) == mux.SessionName(current) {
		m.log.Warn("refusing to switch to the current session", slog.String("session", current))
		m.setError(fmt.Sprintf("already in session %q", current))
		return m, nil
	}

	path, _ := m.engine.Path(name)
	m.choice = &Choice{Name: name, Path: path}
	m.log.Info("project chosen", slog.String("name", name), slog.String("path", path))
	return m.quit()
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.pending = nil
	m.quitting = true
	return m, tea.Quit
}

func (m Model) done() bool { return m.quitting }

func (m *Model) setError(s string) {
	m.status = s
	m.statusErr = true
}

func (m *Model) setInfo(s string) {
	m.status = s
	m.statusErr = false
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusErr = false
}

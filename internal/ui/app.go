package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/five82/pshhmi/internal/control"
	"github.com/five82/pshhmi/internal/logtail"
	"github.com/five82/pshhmi/internal/prefs"
	"github.com/five82/pshhmi/internal/state"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Gateway   *control.Gateway
	Endpoint  string // coordinator address shown in the header
	LogPath   string // HMI log file read by the event pane
	PollTick  time.Duration
	ThemeName string
	PrefsPath string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	gateway   *control.Gateway
	endpoint  string
	logPath   string
	prefsPath string
	pollTick  time.Duration
	now       func() time.Time

	// UI state
	theme    Theme
	keys     keyMap
	help     help.Model
	width    int
	height   int
	ready    bool
	showHelp bool
	notice   string

	// Event pane
	showEvents bool
	events     []logtail.Entry
	eventsErr  error

	// Data state
	snapshot state.Snapshot
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = time.Second
	}

	themeName := opts.ThemeName
	if themeName == "" {
		themeName = themeOrder[0]
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	m := Model{
		ctx:       ctx,
		store:     opts.Store,
		gateway:   opts.Gateway,
		endpoint:  opts.Endpoint,
		logPath:   opts.LogPath,
		prefsPath: prefsPath,
		pollTick:  pollTick,
		now:       time.Now,
		theme:     GetTheme(themeName),
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	if m.store != nil {
		m.snapshot = m.store.Snapshot()
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		return m, nil

	case eventsMsg:
		m.events = msg.entries
		m.eventsErr = msg.err
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.showHelp {
		return m.renderHelp()
	}

	return m.renderMain()
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.Events):
		m.showEvents = !m.showEvents
		if m.showEvents {
			return m, loadEventsCmd(m.logPath)
		}
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		if m.prefsPath != "" {
			if err := prefs.Save(m.prefsPath, prefs.Prefs{Theme: m.theme.Name}); err != nil {
				log.Warn().Err(err).Str("path", m.prefsPath).Msg("save prefs")
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleMode):
		return m.toggle(control.TargetMode)

	case key.Matches(msg, m.keys.ToggleGate):
		return m.toggle(control.TargetGate)

	case key.Matches(msg, m.keys.TogglePump):
		return m.toggle(control.TargetPump)
	}

	return m, nil
}

// toggle flips target through the gateway. The view never writes the store
// itself; it re-reads the store afterwards so the change shows immediately.
func (m Model) toggle(target control.Target) (tea.Model, tea.Cmd) {
	if m.store == nil || m.gateway == nil {
		return m, nil
	}

	snap := m.store.Snapshot()
	if target == control.TargetMode && !snap.ModeAware() {
		m.notice = "coordinator has no manual override"
		return m, nil
	}

	next := !snap.State.Value(target.Field())
	if _, ok := m.gateway.Toggle(m.ctx, target, next); ok {
		m.notice = ""
	} else {
		m.notice = fmt.Sprintf("%s is locked in AUTO, press m for MANUAL", strings.ToUpper(target.String()))
	}
	m.snapshot = m.store.Snapshot()
	return m, nil
}

// handleTick processes the refresh tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.showEvents {
		cmds = append(cmds, loadEventsCmd(m.logPath))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	styles := m.theme.Styles()

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderReadouts())
	b.WriteString("\n\n")
	b.WriteString(m.renderPipe())
	b.WriteString("\n")
	if m.notice != "" {
		b.WriteString(styles.WarningText.Padding(0, 1).Render(m.notice))
	}
	b.WriteString("\n")
	if m.showEvents {
		b.WriteString(m.renderEvents())
		b.WriteString("\n")
	}
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	h := m.help
	h.Styles.ShortKey = styles.AccentText
	h.Styles.ShortDesc = styles.MutedText
	h.Styles.ShortSeparator = styles.FaintText
	return styles.Footer.Render(h.View(m.keys))
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type eventsMsg struct {
	entries []logtail.Entry
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func loadEventsCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if path == "" {
			return eventsMsg{}
		}
		entries, err := logtail.Tail(path, eventLines)
		return eventsMsg{entries: entries, err: err}
	}
}

// Run starts the Bubble Tea program and blocks until the operator quits or
// the context is cancelled.
func Run(opts Options) error {
	m := New(opts)
	progOpts := []tea.ProgramOption{tea.WithAltScreen()}
	if opts.Context != nil {
		progOpts = append(progOpts, tea.WithContext(opts.Context))
	}
	p := tea.NewProgram(m, progOpts...)
	_, err := p.Run()
	return err
}

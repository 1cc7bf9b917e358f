// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the terminal chat view for farmdesk.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/farmdesk/internal/conversation"
	"github.com/jeranaias/farmdesk/internal/render"
	"github.com/jeranaias/farmdesk/internal/scrollspy"
	"github.com/jeranaias/farmdesk/internal/sidebar"
	"github.com/jeranaias/farmdesk/internal/theme"
	"github.com/jeranaias/farmdesk/internal/ui/components"
	"github.com/jeranaias/farmdesk/internal/ui/styles"
	"github.com/jeranaias/farmdesk/internal/user"
)

// =============================================================================
// OPTIONS
// =============================================================================

// DefaultSidebarWidth is used when Options.SidebarWidth is zero.
const DefaultSidebarWidth = 28

// eventQueueSize bounds queued store events. Events carry no state the view
// needs, so a full queue drops them: the queued ones already force a redraw.
const eventQueueSize = 64

// Options wires the stores into the view.
type Options struct {
	Conversations *conversation.Store
	Theme         *theme.Store
	Sidebar       *sidebar.Store
	User          *user.Store

	// ScrollSpy configures the current-message correlator.
	ScrollSpy    scrollspy.Options
	DateFormat   render.DateStyle
	SidebarWidth int
	Logger       *slog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

type focus int

const (
	focusInput focus = iota
	focusHistory
	focusFilter
)

// renderState is shared by every copy of the model.
type renderState struct {
	cache    map[string]string
	observed map[string]scrollspy.Element
	spans    map[string]scrollspy.Span
	wrap     int
}

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// Stores
	convs *conversation.Store
	theme *theme.Store
	nav   *sidebar.Store
	users *user.Store

	// Rendering
	styles    *styles.Theme
	formatter *render.TerminalFormatter
	spy       *scrollspy.Correlator
	render    *renderState
	dateStyle render.DateStyle
	logger    *slog.Logger

	// UI Components
	viewport viewport.Model
	input    textinput.Model
	filter   textinput.Model
	spinner  spinner.Model
	list     *components.ConversationList
	status   *components.StatusBar
	rail     *components.NavRail
	keys     KeyMap

	// Store event bridge
	events      chan conversation.Event
	unsubscribe func()

	// State
	focus        focus
	width        int
	height       int
	sidebarWidth int
	loading      bool
	spinning     bool
	errText      string
	notice       string
	noticeSeq    int
}

// New creates the chat model and mounts its correlator. Close releases both
// the store subscription and the correlator.
func New(opts Options) (Model, error) {
	if opts.Conversations == nil || opts.Theme == nil || opts.Sidebar == nil || opts.User == nil {
		return Model{}, errors.New("chat: conversations, theme, sidebar and user stores are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sidebarWidth := opts.SidebarWidth
	if sidebarWidth <= 0 {
		sidebarWidth = DefaultSidebarWidth
	}

	spy := scrollspy.New(scrollspy.ViewportObserverFactory, opts.ScrollSpy).WithLogger(logger)
	if err := spy.Mount(); err != nil {
		return Model{}, fmt.Errorf("mount scroll spy: %w", err)
	}

	th := styles.New(opts.Theme.Applied())

	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.PromptStyle = th.InputPrompt
	ti.PlaceholderStyle = th.Placeholder
	ti.Focus()

	fi := textinput.New()
	fi.Prompt = "/ "
	fi.Placeholder = "filter conversations"
	fi.CharLimit = 128

	sp := spinner.New(spinner.WithSpinner(styles.LineSpinner), spinner.WithStyle(th.Spinner))

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	m := Model{
		convs:        opts.Conversations,
		theme:        opts.Theme,
		nav:          opts.Sidebar,
		users:        opts.User,
		styles:       th,
		formatter:    render.NewTerminalFormatter(opts.Theme.GlamourStyle(), render.DefaultWordWrap),
		spy:          spy,
		render:       &renderState{cache: map[string]string{}, observed: map[string]scrollspy.Element{}, wrap: render.DefaultWordWrap},
		dateStyle:    opts.DateFormat,
		logger:       logger.With("component", "tui"),
		viewport:     vp,
		input:        ti,
		filter:       fi,
		spinner:      sp,
		list:         components.NewConversationList(th),
		status:       components.NewStatusBar(th),
		rail:         components.NewNavRail(th),
		keys:         DefaultKeyMap(),
		events:       make(chan conversation.Event, eventQueueSize),
		sidebarWidth: sidebarWidth,
		width:        80,
		height:       24,
	}
	m.status.Shortcuts = m.keys.Shortcuts()

	events := m.events
	m.unsubscribe = opts.Conversations.Subscribe(func(ev conversation.Event) {
		select {
		case events <- ev:
		default:
		}
	})

	m.refresh()
	return m, nil
}

// Close unsubscribes from the store and releases the correlator.
func (m Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.spy != nil {
		m.spy.Cleanup()
	}
}

// Run shows the chat view until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	m, err := New(opts)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("run chat view: %w", err)
	}
	return nil
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the cursor blink and the store event loop.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, waitForEvent(m.events)}
	if m.loading {
		cmds = append(cmds, m.spinner.Tick)
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ACCESSORS
// =============================================================================

// CurrentMessage returns the ID and snippet of the user message in view.
func (m Model) CurrentMessage() (id, snippet string) {
	return m.spy.Current()
}

// Loading reports whether a reply is pending.
func (m Model) Loading() bool {
	return m.loading
}

// Notice returns the status bar notice.
func (m Model) Notice() string {
	return m.notice
}

// historyVisible reports whether the conversation list is drawn.
func (m Model) historyVisible() bool {
	return m.nav.ShouldShowSecondary()
}

// Package tui provides a Bubble Tea terminal user interface for artworker.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/artworker/internal/config"
	"github.com/handiism/artworker/internal/model"
	"github.com/handiism/artworker/internal/pipeline"
	"github.com/handiism/artworker/internal/template"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	albumStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F8B500"))
)

// renderStages is the number of success events a complete render emits:
// tracks, palette and the saved card.
const renderStages = 3

// visibleAlbums caps how many search results are listed at once.
const visibleAlbums = 10

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateSearching
	StateSelect
	StateRendering
	StateComplete
	StateError
)

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   pipeline.ProgressLevel
}

// Factory builds a pipeline manager reporting progress to onProgress.
type Factory func(onProgress func(pipeline.ProgressEvent)) *pipeline.Manager

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	template  *template.Template
	logs      []LogEntry
	albums    []*model.Album
	cursor    int
	selected  *model.Album
	path      string
	stages    int
	err       error

	ctx    context.Context
	cancel context.CancelFunc

	manager *pipeline.Manager
	events  chan pipeline.ProgressEvent

	verbose bool

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings, tpl *template.Template, factory Factory) Model {
	ti := textinput.New()
	ti.Placeholder = "artist and album, e.g. pink floyd animals"
	ti.Focus()
	ti.CharLimit = 200
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	events := make(chan pipeline.ProgressEvent, 64)
	manager := factory(func(e pipeline.ProgressEvent) {
		select {
		case events <- e:
		default:
		}
	})

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		template:  tpl,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		manager:   manager,
		events:    events,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick, m.waitForEvent())
}

// Message types
type (
	// ProgressMsg is sent for every pipeline progress event.
	ProgressMsg struct {
		Event pipeline.ProgressEvent
	}

	// SearchDoneMsg is sent when the catalog search completes.
	SearchDoneMsg struct {
		Albums []*model.Album
		Err    error
	}

	// RenderDoneMsg is sent when the card is saved or rendering failed.
	RenderDoneMsg struct {
		Path string
		Err  error
	}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			switch m.state {
			case StateInput:
				return m, tea.Quit
			case StateSelect:
				m.state = StateInput
				m.textInput.Focus()
				return m, nil
			case StateSearching, StateRendering:
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
				return m, nil
			}

		case "tab":
			if m.state == StateInput {
				m.verbose = !m.verbose
				return m, nil
			}

		case "up", "k":
			if m.state == StateSelect && m.cursor > 0 {
				m.cursor--
				return m, nil
			}

		case "down", "j":
			if m.state == StateSelect && m.cursor < len(m.albums)-1 {
				m.cursor++
				return m, nil
			}

		case "enter":
			switch {
			case m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "":
				m.state = StateSearching
				m.logs = nil
				return m, tea.Batch(m.search(strings.TrimSpace(m.textInput.Value())), m.spinner.Tick)
			case m.state == StateSelect:
				m.selected = m.albums[m.cursor]
				m.state = StateRendering
				m.stages = 0
				return m, tea.Batch(m.render(m.selected), m.spinner.Tick, m.progress.SetPercent(0))
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new card
				m.state = StateInput
				m.logs = nil
				m.albums = nil
				m.cursor = 0
				m.selected = nil
				m.path = ""
				m.stages = 0
				m.err = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				m.textInput.Focus()
				return m, nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case ProgressMsg:
		cmds = append(cmds, m.waitForEvent())
		if msg.Event.Level == pipeline.LevelSuccess && m.state == StateRendering {
			m.stages++
			cmds = append(cmds, m.progress.SetPercent(float64(m.stages)/renderStages))
		}
		// Filter verbose messages if not in verbose mode
		if msg.Event.Level == pipeline.LevelVerbose && !m.verbose {
			break
		}
		m.logs = append(m.logs, LogEntry{
			Message: msg.Event.Message,
			Level:   msg.Event.Level,
		})
		// Keep only last 10 logs
		if len(m.logs) > 10 {
			m.logs = m.logs[len(m.logs)-10:]
		}

	case SearchDoneMsg:
		if m.state != StateSearching {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.albums = msg.Albums
			m.cursor = 0
			m.state = StateSelect
			m.textInput.Blur()
		}

	case RenderDoneMsg:
		if m.state != StateRendering {
			break
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.path = msg.Path
			m.state = StateComplete
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("◐ Artworker"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Album cards from the iTunes catalog"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateSearching:
		b.WriteString(m.viewWorking("Searching albums..."))
	case StateSelect:
		b.WriteString(m.viewSelect())
	case StateRendering:
		b.WriteString(m.viewRendering())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Search an album:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	verboseCheck := "[ ]"
	if m.verbose {
		verboseCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Verbose output (tab)\n", verboseCheck))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Store: %s • Template: %s", m.settings.Country, m.template.Name)))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output path: %s", m.settings.OutputPath)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewWorking(text string) string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(text))
	b.WriteString("\n\n")
	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewSelect() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d album(s):", len(m.albums))))
	b.WriteString("\n")

	start := max(0, min(m.cursor-visibleAlbums/2, len(m.albums)-visibleAlbums))
	end := min(len(m.albums), start+visibleAlbums)
	for i := start; i < end; i++ {
		label := m.albums[i].Label()
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("› " + label))
		} else {
			b.WriteString(albumStyle.Render("  " + label))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewRendering() string {
	var b strings.Builder

	b.WriteString(albumStyle.Render(fmt.Sprintf("♪ %s", m.selected.Label())))
	b.WriteString("\n\n")
	b.WriteString(m.progress.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewWorking("Rendering card..."))

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	swatches := make([]string, 0, len(m.selected.Palette))
	for _, c := range m.selected.Palette {
		swatches = append(swatches, lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex())).Render("██"))
	}

	box := boxStyle.Render(fmt.Sprintf(
		"✨ Card saved!\n\n"+
			"Album:   %s\n"+
			"Length:  %s\n"+
			"Palette: %s\n"+
			"File:    %s",
		m.selected.Label(),
		m.selected.FormattedLength(),
		strings.Join(swatches, " "),
		m.path,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("✗ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString(fmt.Sprintf("  %s", m.err.Error()))
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case pipeline.LevelError:
			style = errorStyle
			prefix = "✗"
		case pipeline.LevelWarning:
			style = warningStyle
			prefix = "!"
		case pipeline.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case pipeline.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		return "enter: search • tab: verbose • esc: quit"
	case StateSelect:
		return "↑/↓: choose • enter: render • esc: back"
	case StateSearching, StateRendering:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new card • q: quit"
	}
	return ""
}

// waitForEvent delivers the next pipeline progress event.
func (m Model) waitForEvent() tea.Cmd {
	events := m.events
	return func() tea.Msg {
		return ProgressMsg{Event: <-events}
	}
}

// search looks query up in the catalog.
func (m Model) search(query string) tea.Cmd {
	ctx, manager := m.ctx, m.manager
	return func() tea.Msg {
		albums, err := manager.Search(ctx, query)
		return SearchDoneMsg{Albums: albums, Err: err}
	}
}

// render runs the pipeline for album in the background.
func (m Model) render(album *model.Album) tea.Cmd {
	ctx, manager, tpl := m.ctx, m.manager, m.template
	return func() tea.Msg {
		path, err := manager.Render(ctx, album, tpl)
		return RenderDoneMsg{Path: path, Err: err}
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, tpl *template.Template, factory Factory) error {
	p := tea.NewProgram(NewModel(settings, tpl, factory), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

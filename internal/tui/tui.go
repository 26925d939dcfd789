// Package tui provides a Bubble Tea terminal user interface for hls-downloader.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/handiism/hls-downloader/internal/config"
	"github.com/handiism/hls-downloader/internal/download"
	"github.com/handiism/hls-downloader/internal/input"
	"github.com/handiism/hls-downloader/internal/model"
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

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StateDownloading
	StateComplete
)

type rowStatus int

const (
	rowRunning rowStatus = iota
	rowSucceeded
	rowFailed
)

// Message types
type (
	// RowMsg carries a row update from a running job.
	RowMsg struct {
		Index int
		Text  string
	}

	// OutcomeMsg is sent when a job finishes.
	OutcomeMsg struct {
		Outcome model.Outcome
	}

	// DoneMsg is sent when all jobs have finished.
	DoneMsg struct {
		Summary model.Summary
	}
)

// channelRenderer forwards row updates to the Bubble Tea event loop.
// Sends are dropped once done is closed so jobs never block on a UI that
// has gone away. Cancelling the downloads does not close done: the rows and
// outcomes of the cancelled jobs still reach the screen.
type channelRenderer struct {
	ch   chan<- tea.Msg
	done <-chan struct{}
}

func (r channelRenderer) UpdateRow(index int, text string) {
	r.send(RowMsg{Index: index, Text: text})
}

func (r channelRenderer) send(msg tea.Msg) {
	select {
	case r.ch <- msg:
	case <-r.done:
	}
}

// listen waits for the next message of a run. It returns nil once the run
// has closed the channel, which ends the listen loop.
func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	opts      []download.Option
	err       error

	// Download context
	ctx    context.Context
	cancel context.CancelFunc
	events chan tea.Msg

	// quit is closed once when the program exits.
	quit      chan struct{}
	closeQuit func()

	// Download progress
	rows      []string
	status    []rowStatus
	finished  int
	failed    int
	cancelled bool
	summary   *model.Summary

	// Options
	playlist bool

	width int
}

// NewModel creates a new TUI model. opts are passed to every Manager the
// model creates.
func NewModel(settings *config.Settings, opts ...download.Option) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}

	ti := textinput.New()
	ti.Placeholder = "https://example.com/lecture1/index.m3u8, https://example.com/lecture2/index.m3u8"
	ti.Focus()
	ti.CharLimit = 4000
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan struct{})

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		opts:      opts,
		playlist:  settings.CreatePlaylist,
		ctx:       ctx,
		cancel:    cancel,
		quit:      quit,
		closeQuit: sync.OnceFunc(func() { close(quit) }),
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = min(max(msg.Width-20, 20), 80)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m.exit()

		case "esc":
			if m.state == StateInput {
				return m.exit()
			}
			if m.state == StateDownloading && !m.cancelled {
				m.cancel()
				m.cancelled = true
			}

		case "enter":
			if m.state == StateInput {
				locators := parseLocators(m.textInput.Value())
				if len(locators) == 0 {
					m.err = input.ErrNoLocators
					return m, nil
				}
				next, cmd := m.start(locators)
				return next, cmd
			}

		case "tab":
			if m.state == StateInput {
				m.playlist = !m.playlist
				return m, nil
			}

		case "q":
			if m.state == StateComplete {
				return m.exit()
			}

		case "r":
			if m.state == StateComplete {
				return m.reset(), nil
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case RowMsg:
		m.setRow(msg.Index, msg.Text)
		cmds = append(cmds, listen(m.events))

	case OutcomeMsg:
		m.finished++
		status := rowSucceeded
		if !msg.Outcome.Succeeded {
			m.failed++
			status = rowFailed
		}
		m.setStatus(msg.Outcome.Index, status)
		cmds = append(cmds, listen(m.events))

	case DoneMsg:
		summary := msg.Summary
		m.summary = &summary
		m.state = StateComplete
	}

	// Update text input
	if m.state == StateInput {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// start creates a Manager for locators and returns the commands that run
// it and pump its row updates into the event loop.
func (m Model) start(locators []string) (Model, tea.Cmd) {
	settings := *m.settings
	settings.CreatePlaylist = m.playlist

	events := make(chan tea.Msg, 64)
	renderer := channelRenderer{ch: events, done: m.quit}

	opts := append(append([]download.Option(nil), m.opts...),
		download.WithOnOutcome(func(o model.Outcome) {
			renderer.send(OutcomeMsg{Outcome: o})
		}))
	manager := download.NewManager(&settings, renderer, opts...)

	m.state = StateDownloading
	m.err = nil
	m.events = events
	m.rows = make([]string, len(locators))
	m.status = make([]rowStatus, len(locators))
	m.textInput.Blur()

	ctx := m.ctx
	run := func() tea.Msg {
		summary := manager.RunAll(ctx, locators)
		// every job has finished, so nothing sends on events any more
		close(events)
		return DoneMsg{Summary: summary}
	}

	return m, tea.Batch(run, listen(events), m.spinner.Tick)
}

// exit stops any running downloads and ends the program.
func (m Model) exit() (Model, tea.Cmd) {
	m.cancel()
	m.closeQuit()
	return m, tea.Quit
}

func (m Model) reset() Model {
	m.cancel()
	m.state = StateInput
	m.err = nil
	m.events = nil
	m.rows = nil
	m.status = nil
	m.finished = 0
	m.failed = 0
	m.cancelled = false
	m.summary = nil
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.textInput.SetValue("")
	m.textInput.Focus()
	return m
}

func (m *Model) setRow(index int, text string) {
	if index < 1 {
		return
	}
	for len(m.rows) < index {
		m.rows = append(m.rows, "")
		m.status = append(m.status, rowRunning)
	}
	m.rows[index-1] = text
}

func (m *Model) setStatus(index int, status rowStatus) {
	if index < 1 || index > len(m.status) {
		return
	}
	m.status[index-1] = status
}

func (m Model) percent() float64 {
	if len(m.rows) == 0 {
		return 0
	}
	return float64(m.finished) / float64(len(m.rows))
}

// parseLocators accepts locators separated by whitespace or commas.
func parseLocators(value string) []string {
	return input.Parse(strings.Join(strings.Fields(value), "\n"))
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("▶ HLS Downloader"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Download HLS streams with ffmpeg"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter stream URLs:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	playlistCheck := "[ ]"
	if m.playlist {
		playlistCheck = "[x]"
	}

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s Create playlist (tab)\n", playlistCheck))
	b.WriteString("\n")

	outputDir := m.settings.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("Output directory: %s", outputDir)))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("✗ " + m.err.Error()))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	if m.cancelled {
		b.WriteString(errorStyle.Render("Stopping downloads..."))
	} else {
		b.WriteString(subtitleStyle.Render(fmt.Sprintf("Downloading %d stream(s)", len(m.rows))))
	}
	b.WriteString("\n\n")

	b.WriteString(m.renderRows())
	b.WriteString("\n")

	b.WriteString(m.progress.ViewAs(m.percent()))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("Finished: %d/%d | Failed: %d", m.finished, len(m.rows), m.failed)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	b.WriteString(m.renderRows())
	b.WriteString("\n")

	var elapsed float64
	succeeded, failed := m.finished-m.failed, m.failed
	playlist := ""
	if m.summary != nil {
		elapsed = m.summary.Elapsed.Seconds()
		succeeded, failed = m.summary.Succeeded(), m.summary.Failed()
		if m.summary.PlaylistPath != "" {
			playlist = "\nPlaylist: " + m.summary.PlaylistPath
		}
	}

	title := "✨ Download Complete!"
	if m.cancelled {
		title = "Download Cancelled"
	}

	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Succeeded: %d\n"+
			"Failed: %d\n"+
			"Total download time: %.2f seconds%s",
		title,
		succeeded,
		failed,
		elapsed,
		playlist,
	))
	b.WriteString(box)

	return b.String()
}

func (m Model) renderRows() string {
	var b strings.Builder

	for i, row := range m.rows {
		if row == "" {
			continue
		}
		var style lipgloss.Style
		switch m.status[i] {
		case rowSucceeded:
			style = successStyle
		case rowFailed:
			style = errorStyle
		default:
			style = infoStyle
		}
		b.WriteString(style.Render(row))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateInput:
		return "enter: start • tab: playlist • esc: quit"
	case StateDownloading:
		return "esc: cancel • ctrl+c: quit"
	case StateComplete:
		return "r: new download • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings, opts ...download.Option) error {
	p := tea.NewProgram(NewModel(settings, opts...), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

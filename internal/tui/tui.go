// Package tui provides a Bubble Tea terminal user interface for windl.
package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/getwindl/windl/internal/config"
	"github.com/getwindl/windl/internal/download"
	ioutils "github.com/getwindl/windl/internal/io"
	"github.com/getwindl/windl/internal/model"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#4ECDC4")).
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

	optionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))
)

// State represents the current UI state.
type State int

const (
	StateSelect State = iota
	StateLoading
	StateDownloading
	StateComplete
	StateError
)

// Stage is the selection funnel step being answered.
type Stage int

const (
	StageVersion Stage = iota
	StageRelease
	StageEdition
	StageLanguage
	StageArchitecture
)

var stageLabels = map[Stage]string{
	StageVersion:      "version",
	StageRelease:      "release",
	StageEdition:      "edition",
	StageLanguage:     "language",
	StageArchitecture: "architecture",
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	stage     Stage
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	manager   *download.Manager
	err       error

	selection model.Selection

	// options shown for the current stage; for the architecture stage
	// urls maps each option to its resolved download link
	options []string
	urls    map[string]string

	destination   string
	receivedBytes int64
	totalBytes    int64

	ctx    context.Context
	cancel context.CancelFunc

	width  int
	height int
}

// NewModel creates a new TUI model.
func NewModel(settings *config.Settings) Model {
	ti := textinput.New()
	ti.Placeholder = "type to filter, enter to pick the first match"
	ti.Focus()
	ti.CharLimit = 120
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#4ECDC4"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	manager := download.NewManager(settings, log.New(io.Discard), nil)

	m := Model{
		state:     StateSelect,
		stage:     StageVersion,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		manager:   manager,
		ctx:       ctx,
		cancel:    cancel,
	}
	m.options = versionNames(manager)
	return m
}

func versionNames(manager *download.Manager) []string {
	var names []string
	for _, v := range manager.Versions() {
		names = append(names, v.Name)
	}
	return names
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// OptionsMsg delivers the choices for a funnel stage that needed
	// network discovery.
	OptionsMsg struct {
		Stage   Stage
		Options []string
		URLs    map[string]string
		Err     error
	}

	// DownloadDoneMsg is sent when the artifact download finishes.
	DownloadDoneMsg struct {
		Path string
		Err  error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateSelect && m.stage == StageVersion {
				return m, tea.Quit
			}
			if m.state == StateLoading || m.state == StateDownloading {
				m.cancel()
				m.state = StateError
				m.err = fmt.Errorf("cancelled by user")
			}

		case "enter":
			if m.state == StateSelect {
				return m.pick()
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new selection
				m.cancel()
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.manager = download.NewManager(m.settings, log.New(io.Discard), nil)
				m.state = StateSelect
				m.stage = StageVersion
				m.selection = model.Selection{}
				m.options = versionNames(m.manager)
				m.urls = nil
				m.err = nil
				m.destination = ""
				m.receivedBytes = 0
				m.totalBytes = 0
				m.textInput.SetValue("")
				m.textInput.Focus()
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case OptionsMsg:
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
		} else {
			m.state = StateSelect
			m.stage = msg.Stage
			m.options = msg.Options
			m.urls = msg.URLs
			m.textInput.SetValue("")
			m.textInput.Focus()
		}

	case DownloadDoneMsg:
		if msg.Err != nil && m.ctx.Err() == nil {
			m.state = StateError
			m.err = msg.Err
		} else if m.ctx.Err() != nil {
			m.state = StateError
			m.err = fmt.Errorf("cancelled by user")
		} else {
			m.state = StateComplete
			m.destination = msg.Path
			m.receivedBytes, m.totalBytes = m.manager.GetProgress()
		}

	case TickMsg:
		if m.state == StateDownloading {
			m.receivedBytes, m.totalBytes = m.manager.GetProgress()
			var percent float64
			if m.totalBytes > 0 {
				percent = float64(m.receivedBytes) / float64(m.totalBytes)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	if m.state == StateSelect {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// pick resolves the current input against the stage's options and
// advances the funnel. An empty input picks the first option.
func (m Model) pick() (tea.Model, tea.Cmd) {
	choice, ok := matchOption(m.options, m.textInput.Value())
	if !ok {
		return m, nil
	}

	switch m.stage {
	case StageVersion:
		m.selection.Version = choice
		releases, err := m.manager.Releases(choice)
		if err != nil {
			return m.fail(err)
		}
		m.stage = StageRelease
		m.options = nil
		for _, r := range releases {
			m.options = append(m.options, r.Name)
		}

	case StageRelease:
		m.selection.Release = choice
		editions, err := m.manager.Editions(m.selection.Version, choice)
		if err != nil {
			return m.fail(err)
		}
		m.stage = StageEdition
		m.options = nil
		for _, e := range editions {
			m.options = append(m.options, e.Name)
		}

	case StageEdition:
		m.selection.Edition = choice
		m.state = StateLoading
		return m, tea.Batch(m.loadLanguages(), m.spinner.Tick)

	case StageLanguage:
		m.selection.Language = choice
		m.state = StateLoading
		return m, tea.Batch(m.loadArchitectures(), m.spinner.Tick)

	case StageArchitecture:
		m.selection.Architecture = choice
		m.state = StateDownloading
		return m, tea.Batch(m.startDownload(m.urls[choice]), m.tickProgress())
	}

	m.textInput.SetValue("")
	return m, nil
}

func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	m.state = StateError
	m.err = err
	return m, nil
}

// matchOption picks the first option matching the fragment; an empty
// fragment picks the first option.
func matchOption(options []string, fragment string) (string, bool) {
	if len(options) == 0 {
		return "", false
	}
	if strings.TrimSpace(fragment) == "" {
		return options[0], true
	}
	for _, opt := range options {
		if model.MatchName(opt, fragment) {
			return opt, true
		}
	}
	return "", false
}

// loadLanguages discovers the languages of the chosen edition in the
// background.
func (m *Model) loadLanguages() tea.Cmd {
	sel := m.selection
	manager := m.manager
	ctx := m.ctx
	return func() tea.Msg {
		langs, err := manager.Languages(ctx, sel)
		if err != nil {
			return OptionsMsg{Err: err}
		}
		var options []string
		for _, l := range langs {
			options = append(options, l.Name)
		}
		return OptionsMsg{Stage: StageLanguage, Options: options}
	}
}

// loadArchitectures discovers the download options of the chosen
// language in the background.
func (m *Model) loadArchitectures() tea.Cmd {
	sel := m.selection
	manager := m.manager
	ctx := m.ctx
	return func() tea.Msg {
		archs, err := manager.Architectures(ctx, sel)
		if err != nil {
			return OptionsMsg{Err: err}
		}
		options := make([]string, 0, len(archs))
		urls := make(map[string]string, len(archs))
		for _, a := range archs {
			options = append(options, a.Name)
			urls[a.Name] = a.URL
		}
		return OptionsMsg{Stage: StageArchitecture, Options: options, URLs: urls}
	}
}

// startDownload streams the artifact in the background.
func (m *Model) startDownload(url string) tea.Cmd {
	manager := m.manager
	sel := m.selection
	ctx := m.ctx
	return func() tea.Msg {
		path, err := manager.Download(ctx, sel, url)
		return DownloadDoneMsg{Path: path, Err: err}
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("windl"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Windows and UEFI Shell ISO downloader"))
	b.WriteString("\n\n")

	switch m.state {
	case StateSelect:
		b.WriteString(m.viewSelect())
	case StateLoading:
		b.WriteString(m.viewLoading())
	case StateDownloading:
		b.WriteString(m.viewDownloading())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewSelect() string {
	var b strings.Builder

	if picked := m.selection.String(); picked != "" {
		b.WriteString(infoStyle.Render("Selected: " + picked))
		b.WriteString("\n\n")
	}

	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Choose a %s:", stageLabels[m.stage])))
	b.WriteString("\n\n")

	for _, opt := range m.options {
		marker := "  "
		if chosen, ok := matchOption(m.options, m.textInput.Value()); ok && chosen == opt {
			marker = "> "
		}
		b.WriteString(optionStyle.Render(marker + opt))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewLoading() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	switch m.stage {
	case StageEdition:
		b.WriteString(subtitleStyle.Render("Discovering languages..."))
	default:
		b.WriteString(subtitleStyle.Render("Resolving download links..."))
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewDownloading() string {
	var b strings.Builder

	b.WriteString(infoStyle.Render("Downloading " + m.selection.String()))
	b.WriteString("\n\n")

	var percent float64
	if m.totalBytes > 0 {
		percent = float64(m.receivedBytes) / float64(m.totalBytes)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")
	b.WriteString(infoStyle.Render(fmt.Sprintf("%s / %s",
		ioutils.HumanBytes(m.receivedBytes),
		ioutils.HumanBytes(m.totalBytes),
	)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewComplete() string {
	box := boxStyle.Render(fmt.Sprintf(
		"Download complete\n\n%s\n%s",
		m.destination,
		ioutils.HumanBytes(m.receivedBytes),
	))
	return box + "\n"
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("Error:"))
	b.WriteString("\n\n")
	if m.err != nil {
		b.WriteString("  " + m.err.Error())
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateSelect:
		return "enter: pick • esc: quit • ctrl+c: quit"
	case StateLoading, StateDownloading:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new selection • q: quit"
	}
	return ""
}

// Run starts the TUI application.
func Run(settings *config.Settings) error {
	p := tea.NewProgram(NewModel(settings), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

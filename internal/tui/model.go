package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"docrag/internal/corpus"
	"docrag/internal/presenter"
	"docrag/internal/service"
)

// RAGPort is the TUI-facing subset of the RAG service.
type RAGPort interface {
	Load(ctx context.Context) (*corpus.Corpus, error)
	Query(ctx context.Context, q string) (*service.Answer, error)
}

type phase int

const (
	phaseLoading phase = iota
	phaseReady
	phaseFatal
)

type loadedMsg struct {
	corpus *corpus.Corpus
	err    error
}

// Model is the Bubble Tea model for the TUI application.
type Model struct {
	service  RAGPort
	opts     presenter.Options
	phase    phase
	spinner  spinner.Model
	input    textinput.Model
	viewport viewport.Model
	warnings []corpus.Warning
	status   string
	fatal    string
	width    int
	height   int
}

// New creates a new TUI model instance. Loading starts from Init.
func New(svc RAGPort, opts presenter.Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask me anything and press Enter"
	ti.CharLimit = 0
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	opts.Mark = func(s string) string { return highlightStyle.Render(s) }
	opts.Label = func(s string) string { return labelStyle.Render(s) }
	return Model{
		service:  svc,
		opts:     opts,
		spinner:  sp,
		input:    ti,
		viewport: viewport.New(0, 0),
		status:   "Loading and encoding documents...",
	}
}

// Init starts the spinner and the one-time corpus load.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load)
}

func (m Model) load() tea.Msg {
	c, err := m.service.Load(context.Background())
	return loadedMsg{corpus: c, err: err}
}

// Update handles load completion, key and window events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.corpus != nil {
			m.warnings = msg.corpus.Warnings
		}
		m.layout()
		if msg.err != nil {
			m.phase = phaseFatal
			if errors.Is(msg.err, corpus.ErrEmptyCorpus) {
				m.fatal = presenter.EmptyCorpusText
			} else {
				m.fatal = "Failed to load documents: " + msg.err.Error()
			}
			m.status = "Press any key to exit."
			return m, nil
		}
		m.phase = phaseReady
		m.status = fmt.Sprintf("Loaded %d chunks from %d documents.", msg.corpus.Len(), len(msg.corpus.Documents()))
		m.viewport.SetContent("No results yet.")
		return m, m.input.Focus()
	case spinner.TickMsg:
		if m.phase != phaseLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		switch m.phase {
		case phaseFatal:
			return m, tea.Quit
		case phaseLoading:
			return m, nil
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q == "" {
				return m, nil
			}
			m.runQuery(q)
			return m, nil
		case "pgdown", "pgup":
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
	}
	if m.phase != phaseReady {
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// layout sizes the result viewport to what the header, warnings and input
// box leave free. Warnings arrive with the load, usually after the first size.
func (m *Model) layout() {
	if m.height == 0 {
		return
	}
	_, rh := resultBoxStyle.GetFrameSize()
	_, qh := queryBoxStyle.GetFrameSize()
	reserved := 2 + len(m.warnings) + 1 + qh + 1 + 1 // header, warnings, status, input box, spacers
	m.viewport.Width = max(20, m.width-4)
	m.viewport.Height = max(3, m.height-reserved-rh)
}

// runQuery embeds, retrieves and renders synchronously; input is blocked meanwhile.
func (m *Model) runQuery(q string) {
	ans, err := m.service.Query(context.Background(), q)
	if err != nil {
		m.status = "Error: " + err.Error()
		m.viewport.SetContent("")
		return
	}
	m.status = fmt.Sprintf("Results for %q", q)
	if ans.NoStrongMatch() {
		m.viewport.SetContent(infoStyle.Render(presenter.NoStrongMatchText))
	} else {
		m.viewport.SetContent(presenter.RenderAll(ans.Matches, q, m.opts))
	}
	m.viewport.GotoTop()
}

// View renders the layout for the current phase.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Multi-Doc RAG"))
	b.WriteString("\n")
	for _, w := range m.warnings {
		b.WriteString(warnStyle.Render(w.String()))
		b.WriteString("\n")
	}
	switch m.phase {
	case phaseLoading:
		b.WriteString(m.spinner.View() + " " + m.status)
		return b.String()
	case phaseFatal:
		b.WriteString(errorStyle.Render(m.fatal))
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(m.status))
		return b.String()
	}
	if m.height == 0 {
		b.WriteString(queryBoxStyle.Render(m.input.View()))
		return b.String()
	}
	b.WriteString(resultBoxStyle.Render(m.viewport.View()))
	b.WriteString("\n")
	b.WriteString(queryBoxStyle.Render(m.input.View()))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	return b.String()
}

var (
	titleStyle     = lipgloss.NewStyle().Bold(true)
	labelStyle     = lipgloss.NewStyle().Bold(true)
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	statusStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	infoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	warnStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

package chat

import (
	"context"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/lipgloss"

	"github.com/floatchat-ai/floatchat/internal/export"
	"github.com/floatchat-ai/floatchat/internal/metrics"
	"github.com/floatchat-ai/floatchat/internal/models"
)

// Theme holds the color scheme for the chat display.
type Theme struct {
	User      lipgloss.Color
	Assistant lipgloss.Color
	Notice    lipgloss.Color
	Error     lipgloss.Color
	Hint      lipgloss.Color
}

var defaultTheme = Theme{
	User:      lipgloss.Color("#00B4D8"), // cyan
	Assistant: lipgloss.Color("#90E0EF"), // light cyan
	Notice:    lipgloss.Color("#E0C46E"), // amber
	Error:     lipgloss.Color("#FF005F"), // red
	Hint:      lipgloss.Color("#6C6C6C"), // dim gray
}

func (t Theme) userStyle() lipgloss.Style      { return lipgloss.NewStyle().Foreground(t.User).Bold(true) }
func (t Theme) assistantStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(t.Assistant) }
func (t Theme) noticeStyle() lipgloss.Style    { return lipgloss.NewStyle().Foreground(t.Notice).Italic(true) }
func (t Theme) errorStyle() lipgloss.Style     { return lipgloss.NewStyle().Foreground(t.Error).Bold(true) }
func (t Theme) hintStyle() lipgloss.Style      { return lipgloss.NewStyle().Foreground(t.Hint).Italic(true) }

// eventKind discriminates the frames the pipeline goroutine sends to
// the UI loop.
type eventKind int

const (
	eventDelta eventKind = iota
	eventNotice
	eventDone
)

// pipelineMsg is one frame from the in-flight request.
type pipelineMsg struct {
	kind eventKind
	text string
	err  error
}

// transcriptLine is one rendered row of the chat log.
type transcriptLine struct {
	prefix string
	body   string
	style  lipgloss.Style
}

// chatModel is the bubbletea model for the interactive session.
type chatModel struct {
	session *Session
	input   textinput.Model
	spinner spinner.Model
	theme   Theme

	lines    []transcriptLine
	buffer   string
	busy     bool
	events   chan pipelineMsg
	quitting bool
}

// NewProgram builds the interactive chat program over a session.
func NewProgram(session *Session) *tea.Program {
	ti := textinput.New()
	ti.Placeholder = "Ask about temperature, salinity, regions, or water masses..."
	ti.Focus()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	m := chatModel{
		session: session,
		input:   ti,
		spinner: sp,
		theme:   defaultTheme,
	}
	return tea.NewProgram(m)
}

func (m chatModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m chatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		case "enter":
			if m.busy {
				// Single-flight: the in-flight query must finish first.
				return m, nil
			}
			return m.submit()
		}

	case pipelineMsg:
		return m.handlePipeline(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// submit dispatches the entered text: slash commands run inline,
// queries start the pipeline goroutine.
func (m chatModel) submit() (tea.Model, tea.Cmd) {
	text := strings.TrimSpace(m.input.Value())
	if text == "" {
		return m, nil
	}
	m.input.SetValue("")

	if strings.HasPrefix(text, "/") {
		return m.runCommand(text)
	}

	m.lines = append(m.lines, transcriptLine{"You", text, m.theme.userStyle()})
	m.busy = true
	m.buffer = ""
	m.events = make(chan pipelineMsg, 16)

	events := m.events
	session := m.session
	session.OnNotice = func(notice string) {
		events <- pipelineMsg{kind: eventNotice, text: notice}
	}

	go func() {
		_, err := session.Ask(context.Background(), text, func(delta string) {
			events <- pipelineMsg{kind: eventDelta, text: delta}
		})
		events <- pipelineMsg{kind: eventDone, err: err}
	}()

	return m, tea.Batch(m.spinner.Tick, waitPipeline(events))
}

func (m chatModel) handlePipeline(msg pipelineMsg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case eventDelta:
		// Re-render the growing buffer; partial output is visible
		// before the stream completes.
		m.buffer += msg.text
		return m, waitPipeline(m.events)

	case eventNotice:
		m.lines = append(m.lines, transcriptLine{"·", msg.text, m.theme.noticeStyle()})
		return m, waitPipeline(m.events)

	default: // eventDone
		m.busy = false
		if msg.err != nil {
			m.lines = append(m.lines, transcriptLine{"✗", msg.err.Error(), m.theme.errorStyle()})
		} else if m.buffer != "" {
			m.lines = append(m.lines, transcriptLine{"FloatChat", m.buffer, m.theme.assistantStyle()})
		}
		m.buffer = ""
		m.events = nil
		return m, nil
	}
}

// runCommand executes a slash command.
func (m chatModel) runCommand(text string) (tea.Model, tea.Cmd) {
	fields := strings.Fields(text)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit":
		m.quitting = true
		return m, tea.Quit

	case "/reset":
		m.session.Reset()
		m.lines = nil
		return m, nil

	case "/file":
		m.session.ClearActiveFile()
		m.lines = append(m.lines, transcriptLine{"·", "Active file cleared.", m.theme.noticeStyle()})
		return m, nil

	case "/upload":
		if len(args) != 1 {
			m.lines = append(m.lines, transcriptLine{"✗", "Usage: /upload <file.json>", m.theme.errorStyle()})
			return m, nil
		}
		if err := m.session.Upload(args[0]); err != nil {
			m.lines = append(m.lines, transcriptLine{"✗", err.Error(), m.theme.errorStyle()})
			return m, nil
		}
		m.lines = append(m.lines, transcriptLine{"·",
			fmt.Sprintf("Uploaded %s (now the active file).", m.session.ActiveFile()), m.theme.noticeStyle()})
		return m, nil

	case "/export":
		if len(args) != 1 {
			m.lines = append(m.lines, transcriptLine{"✗", "Usage: /export <ascii|csv|json|xlsx>", m.theme.errorStyle()})
			return m, nil
		}
		format, err := export.ParseFormat(args[0])
		if err != nil {
			m.lines = append(m.lines, transcriptLine{"✗", err.Error(), m.theme.errorStyle()})
			return m, nil
		}
		path, err := m.session.Export(format)
		if err != nil {
			m.lines = append(m.lines, transcriptLine{"✗", err.Error(), m.theme.errorStyle()})
			return m, nil
		}
		m.lines = append(m.lines, transcriptLine{"·", "Exported to " + path, m.theme.noticeStyle()})
		return m, nil

	case "/stats":
		for _, line := range statsLines(m.session) {
			m.lines = append(m.lines, transcriptLine{"·", line, m.theme.noticeStyle()})
		}
		return m, nil

	default:
		m.lines = append(m.lines, transcriptLine{"✗", "Unknown command " + cmd, m.theme.errorStyle()})
		return m, nil
	}
}

func (m chatModel) View() tea.View {
	return tea.NewView(m.renderContent())
}

func (m chatModel) renderContent() string {
	var b strings.Builder

	stats := m.session.Stats()
	header := fmt.Sprintf("FloatChat — %d profiles, %d uploaded, %d years, %d regions",
		stats.Profiles, stats.Uploaded, stats.Years, stats.Regions)
	b.WriteString(m.theme.hintStyle().Render(header))
	if active := m.session.ActiveFile(); active != "" {
		b.WriteString(m.theme.noticeStyle().Render("  [active file: " + active + "]"))
	}
	b.WriteString("\n\n")

	for _, line := range m.lines {
		b.WriteString(line.style.Render(line.prefix+": ") + line.body + "\n")
	}

	if m.busy {
		if m.buffer != "" {
			b.WriteString(m.theme.assistantStyle().Render("FloatChat: ") + m.buffer + "▋\n")
		} else {
			b.WriteString(m.spinner.View() + " Analyzing...\n")
		}
	} else {
		b.WriteString("\n" + m.input.View() + "\n")
		b.WriteString(m.theme.hintStyle().Render("/upload /file /export /stats /reset /quit — Ctrl+C to exit") + "\n")
	}

	return b.String()
}

// waitPipeline waits for the next frame from the in-flight request.
// One suspension point per delta.
func waitPipeline(events chan pipelineMsg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

// statsLines renders the dataset counts and pipeline timing aggregates
// for the /stats command.
func statsLines(s *Session) []string {
	st := s.Stats()
	lines := []string{
		fmt.Sprintf("Dataset: %d profiles (%d uploaded), %d years, %d regions",
			st.Profiles, st.Uploaded, st.Years, st.Regions),
	}

	snap := s.Metrics()
	appendOp := func(name string, op *metrics.OpSnapshot) {
		if op == nil {
			return
		}
		lines = append(lines, fmt.Sprintf("%s: %d runs, avg %.0fms (min %dms, max %dms)",
			name, op.Count, op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs))
	}
	appendOp("Search", snap.Search)
	appendOp("LLM", snap.Dispatch)
	appendOp("Upload", snap.Upload)
	appendOp("Export", snap.Export)
	if snap.Dispatch != nil && snap.Dispatch.AvgReplyChars != nil {
		lines = append(lines, fmt.Sprintf("Replies: %.0f chars on average", *snap.Dispatch.AvgReplyChars))
	}
	return lines
}

// Transcript renders a finished session's messages for non-interactive
// output.
func Transcript(msgs []models.Message) string {
	var b strings.Builder
	for _, msg := range msgs {
		switch msg.Role {
		case models.RoleUser:
			b.WriteString("You: " + msg.Content + "\n")
		default:
			b.WriteString("FloatChat: " + msg.Content + "\n")
		}
	}
	return b.String()
}

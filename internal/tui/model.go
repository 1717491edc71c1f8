package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"ytexpert/internal/domain"
)

// ExpertPort is the TUI-facing subset of the expert service.
type ExpertPort interface {
	Ask(channel, query string, topK int) (domain.Answer, error)
}

// Model is the Bubble Tea model for the interactive question loop.
type Model struct {
	expert   ExpertPort
	channel  string
	topK     int
	input    textinput.Model
	viewport viewport.Model
	answer   *domain.Answer
	status   string
	ready    bool
}

// New creates a TUI model bound to one channel. The digest, when non-empty,
// is shown as the opening viewport content.
func New(expert ExpertPort, channel, digest string, topK int) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about the channel and press Enter"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	m := Model{
		expert:   expert,
		channel:  channel,
		topK:     topK,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("Channel %q loaded. Type a question.", channel),
	}
	if digest != "" {
		m.viewport.SetContent("About this channel:\n\n" + digest)
	}
	return m
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, ah := answerBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 1 + 1 + qh + 1 // header, status, query box, spacer
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-ah)
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			q := strings.TrimSpace(m.input.Value())
			if q != "" {
				ans, err := m.expert.Ask(m.channel, q, m.topK)
				switch {
				case errors.Is(err, domain.ErrIndexNotFound):
					m.status = fmt.Sprintf("No index built for %q yet. Run with -build first.", m.channel)
					m.answer = nil
				case err != nil:
					m.status = "Error: " + err.Error()
					m.answer = nil
				default:
					m.status = fmt.Sprintf("Answered %q with %d sources.", q, len(ans.Sources))
					m.answer = &ans
					m.input.Reset()
				}
				m.viewport.SetContent(m.renderAnswer())
				m.viewport.GotoTop()
				return m, nil
			}
		case "down":
			m.viewport.LineDown(1)
			return m, nil
		case "up":
			m.viewport.LineUp(1)
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the TUI layout and current answer.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Channel Expert: " + m.channel)
	answerBox := answerBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + answerBox + "\n" + input + "\n" + status
}

func (m Model) renderAnswer() string {
	if m.answer == nil {
		return "No answer yet."
	}
	body := m.answer.Text
	if m.answer.HasSources {
		cited := make([]string, 0, len(m.answer.Sources))
		for _, s := range m.answer.Sources {
			cited = append(cited, sourceStyle.Render(fmt.Sprintf("%s (%s)", s.VideoTitle, s.Timestamp)))
		}
		body += "\n\nCited videos: " + strings.Join(cited, ", ")
	}
	return body
}

var (
	answerBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	sourceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

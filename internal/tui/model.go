package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wintriage/internal/domain"
	"wintriage/internal/output"
)

var (
	youStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	machineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	metaStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// AskFunc sends a question about the loaded snapshot to the model and
// returns its answer.
type AskFunc func(ctx context.Context, question string) (string, time.Duration, error)

// Model represents the chat TUI state
type Model struct {
	ask       AskFunc
	snap      *domain.Snapshot
	modelName string

	transcript []string
	viewport   viewport.Model
	textinput  textinput.Model
	width      int
	height     int
	ready      bool
	thinking   bool
}

// answerMsg carries a completed model response
type answerMsg struct {
	text    string
	latency time.Duration
}

// answerErrMsg carries a failed model request
type answerErrMsg struct{ err error }

// New creates a new chat model
func New(ask AskFunc, snap *domain.Snapshot, modelName string) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask about the collected events... (/help for commands)"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	return Model{
		ask:       ask,
		snap:      snap,
		modelName: modelName,
		textinput: ti,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			if m.thinking {
				return m, nil
			}
			question := strings.TrimSpace(m.textinput.Value())
			if question == "" {
				return m, nil
			}
			m.textinput.SetValue("")
			if handled, quit := m.handleMeta(question); handled {
				if quit {
					return m, tea.Quit
				}
				m.updateViewport()
				return m, nil
			}
			m.appendLine(youStyle.Render("You: ") + question)
			m.thinking = true
			m.updateViewport()
			return m, askCmd(m.ask, question)
		default:
			m.textinput, cmd = m.textinput.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 3
		viewportHeight := m.height - headerHeight - footerHeight

		if !m.ready {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.ready = true
			m.appendLine(metaStyle.Render(m.greeting()))
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}
		m.updateViewport()

	case answerMsg:
		m.thinking = false
		name := m.snap.SystemFacts.ComputerName
		if name == "" || name == "Unknown" {
			name = "Machine"
		}
		m.appendLine(machineStyle.Render(name+": ") + msg.text)
		m.appendLine(metaStyle.Render(fmt.Sprintf("(%s in %s)", m.modelName, msg.latency.Round(100*time.Millisecond))))
		m.appendLine("")
		m.updateViewport()

	case answerErrMsg:
		m.thinking = false
		m.appendLine(errorStyle.Render("Error: " + msg.err.Error()))
		m.appendLine("")
		m.updateViewport()
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View renders the UI
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return fmt.Sprintf("%s\n%s\n%s", m.renderHeader(), m.viewport.View(), m.renderFooter())
}

func (m *Model) renderHeader() string {
	titleStyle := output.Styles.Title.Width(m.width)
	title := fmt.Sprintf("wintriage chat: %s | %d events | %s",
		m.snap.SystemFacts.ComputerName, m.snap.EventCount(), m.modelName)
	if m.thinking {
		title += " [thinking...]"
	}
	return titleStyle.Render(title) + "\n"
}

func (m *Model) renderFooter() string {
	help := output.Styles.Help.Render("enter:send /help:commands esc:quit")
	return "\n" + m.textinput.View() + "\n" + help
}

// handleMeta processes slash commands locally without a model round
// trip. Returns (handled, quit).
func (m *Model) handleMeta(input string) (bool, bool) {
	if !strings.HasPrefix(input, "/") {
		return false, false
	}
	switch strings.ToLower(strings.Fields(input)[0]) {
	case "/quit", "/exit":
		return true, true
	case "/help":
		m.appendLine(metaStyle.Render("Commands: /status (snapshot vitals), /clear (reset transcript), /quit"))
		m.appendLine("")
	case "/status":
		m.appendLine(metaStyle.Render(fmt.Sprintf("Snapshot: %d events collected at %s from %s",
			m.snap.EventCount(), m.snap.CollectionTime, m.snap.SystemFacts.ComputerName)))
		m.appendLine("")
	case "/clear":
		m.transcript = m.transcript[:0]
		m.appendLine(metaStyle.Render(m.greeting()))
	default:
		m.appendLine(metaStyle.Render("Unknown command: " + input + " (try /help)"))
		m.appendLine("")
	}
	return true, false
}

func (m *Model) greeting() string {
	return fmt.Sprintf("Loaded %d events from %s. Ask anything about them.",
		m.snap.EventCount(), m.snap.SystemFacts.ComputerName)
}

func (m *Model) appendLine(line string) {
	m.transcript = append(m.transcript, line)
}

func (m *Model) updateViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(strings.Join(m.transcript, "\n"))
	m.viewport.GotoBottom()
}

// askCmd runs the model request off the update loop
func askCmd(ask AskFunc, question string) tea.Cmd {
	return func() tea.Msg {
		answer, latency, err := ask(context.Background(), question)
		if err != nil {
			return answerErrMsg{err: err}
		}
		return answerMsg{text: answer, latency: latency}
	}
}

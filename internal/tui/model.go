package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"newsrag/internal/domain"
	"newsrag/internal/session"
)

// focus identifies which part of the UI receives key input.
type focus int

const (
	focusURL0 focus = iota
	focusURL1
	focusURL2
	focusSuggestions
	focusQuestion
)

// URLSlots is how many article URLs one session accepts.
const URLSlots = 3

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")).Background(lipgloss.Color("#7D56F4")).Padding(0, 1)
	sectionStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	summaryStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	sourceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	answerBox     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// Model is the Bubble Tea model for the interactive research session.
type Model struct {
	service domain.ResearchService
	state   *session.State

	urlInputs     []textinput.Model
	questionInput textinput.Model
	viewport      viewport.Model
	spinner       spinner.Model

	focus   focus
	busy    bool
	status  string
	errText string
	ready   bool
}

// New creates the TUI model around the research service and session state.
func New(service domain.ResearchService, state *session.State) Model {
	inputs := make([]textinput.Model, URLSlots)
	for i := range inputs {
		ti := textinput.New()
		ti.Prompt = fmt.Sprintf("URL %d> ", i+1)
		ti.Placeholder = "https://example.com/article"
		ti.CharLimit = 0
		ti.SetValue(state.URLs[i])
		inputs[i] = ti
	}
	inputs[0].Focus()

	qi := textinput.New()
	qi.Prompt = "? "
	qi.Placeholder = "Ask your own question"
	qi.CharLimit = 0

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))

	status := "Enter up to 3 article URLs, then ctrl+p to process."
	if state.Processed {
		status = "Index found from a previous session. Ask away, or process new URLs."
	}
	return Model{
		service:       service,
		state:         state,
		urlInputs:     inputs,
		questionInput: qi,
		viewport:      viewport.New(0, 0),
		spinner:       sp,
		status:        status,
	}
}

func (m Model) Init() tea.Cmd { return textinput.Blink }

type processDoneMsg struct {
	urls   []string
	result *domain.ProcessResult
	err    error
}

type answerDoneMsg struct {
	question string
	answer   *domain.Answer
	err      error
}

func (m *Model) processCmd() tea.Cmd {
	urls := make([]string, URLSlots)
	for i, in := range m.urlInputs {
		urls[i] = strings.TrimSpace(in.Value())
	}
	svc := m.service
	return func() tea.Msg {
		res, err := svc.Process(context.Background(), urls)
		return processDoneMsg{urls: urls, result: res, err: err}
	}
}

func (m *Model) askCmd(question string) tea.Cmd {
	svc := m.service
	return func() tea.Msg {
		ans, err := svc.Ask(context.Background(), question)
		return answerDoneMsg{question: question, answer: ans, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		m.viewport.Width = max(40, msg.Width-4)
		m.viewport.Height = max(5, msg.Height-18)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case processDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		m.errText = ""
		m.state.ApplyProcess(msg.urls, msg.result)
		m.status = fmt.Sprintf("Processed %d document(s) into %d chunks. %d suggested questions.",
			msg.result.Documents, msg.result.Chunks, len(msg.result.Questions))
		m.focus = focusSuggestions
		m.blurAll()
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case answerDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.errText = msg.err.Error()
			m.status = ""
			return m, nil
		}
		m.errText = ""
		m.state.ApplyAnswer(msg.question, msg.answer)
		m.status = fmt.Sprintf("Answered %q", msg.question)
		m.viewport.SetContent(m.renderAnswer())
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		if m.busy {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+p":
			m.busy = true
			m.status = "Fetching, chunking and indexing content..."
			m.errText = ""
			return m, tea.Batch(m.spinner.Tick, m.processCmd())
		case "ctrl+r":
			if err := m.service.Clear(); err != nil {
				m.errText = err.Error()
				return m, nil
			}
			m.state.ApplyClear()
			m.errText = ""
			m.status = "Cleared. Enter URLs and ctrl+p to process again."
			m.viewport.SetContent(m.renderAnswer())
			return m, nil
		case "tab", "shift+tab":
			m.cycleFocus(msg.String() == "shift+tab")
			return m, nil
		case "/":
			// Only a shortcut outside text inputs; typing a URL or a
			// question that contains "/" must still work.
			if m.focus == focusSuggestions {
				m.focus = focusQuestion
				m.blurAll()
				m.questionInput.Focus()
				return m, textinput.Blink
			}
		case "up", "down":
			if m.focus == focusSuggestions && len(m.state.Questions) > 0 {
				delta := 1
				if msg.String() == "up" {
					delta = len(m.state.Questions) - 1
				}
				m.state.Selected = (m.state.Selected + delta) % len(m.state.Questions)
				return m, nil
			}
		case "enter":
			switch m.focus {
			case focusSuggestions:
				if len(m.state.Questions) > 0 {
					q := m.state.Questions[m.state.Selected]
					m.busy = true
					m.status = "Analyzing: " + q
					m.errText = ""
					return m, tea.Batch(m.spinner.Tick, m.askCmd(q))
				}
			case focusQuestion:
				q := strings.TrimSpace(m.questionInput.Value())
				if q != "" {
					m.busy = true
					m.status = "Answering your question..."
					m.errText = ""
					return m, tea.Batch(m.spinner.Tick, m.askCmd(q))
				}
			}
		}
	}

	var cmd tea.Cmd
	switch m.focus {
	case focusURL0, focusURL1, focusURL2:
		m.urlInputs[m.focus], cmd = m.urlInputs[m.focus].Update(msg)
	case focusQuestion:
		m.questionInput, cmd = m.questionInput.Update(msg)
	default:
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, vpCmd
	}
	return m, cmd
}

func (m *Model) cycleFocus(backwards bool) {
	order := []focus{focusURL0, focusURL1, focusURL2, focusSuggestions, focusQuestion}
	cur := 0
	for i, f := range order {
		if f == m.focus {
			cur = i
			break
		}
	}
	if backwards {
		cur = (cur + len(order) - 1) % len(order)
	} else {
		cur = (cur + 1) % len(order)
	}
	m.focus = order[cur]
	m.blurAll()
	switch m.focus {
	case focusURL0, focusURL1, focusURL2:
		m.urlInputs[m.focus].Focus()
	case focusQuestion:
		m.questionInput.Focus()
	}
}

func (m *Model) blurAll() {
	for i := range m.urlInputs {
		m.urlInputs[i].Blur()
	}
	m.questionInput.Blur()
}

func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	var b strings.Builder
	b.WriteString(titleStyle.Render("News Research Tool"))
	b.WriteString("\n\n")

	for i := range m.urlInputs {
		b.WriteString(m.urlInputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.state.Summary != "" {
		b.WriteString(summaryStyle.Render("Digest: " + m.state.Summary))
		b.WriteString("\n\n")
	}

	b.WriteString(sectionStyle.Render("Suggested questions"))
	b.WriteString("\n")
	if len(m.state.Questions) == 0 {
		b.WriteString(summaryStyle.Render("  (none yet — process URLs first)"))
		b.WriteString("\n")
	} else {
		for i, q := range m.state.Questions {
			line := fmt.Sprintf("  %2d. %s", i+1, q)
			if m.focus == focusSuggestions && i == m.state.Selected {
				line = selectedStyle.Render("> " + strings.TrimLeft(line, " "))
			}
			b.WriteString(line)
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(m.questionInput.View())
	b.WriteString("\n\n")

	b.WriteString(answerBox.Render(m.viewport.View()))
	b.WriteString("\n")

	switch {
	case m.busy:
		b.WriteString(m.spinner.View() + " " + m.status)
	case m.errText != "":
		b.WriteString(errorStyle.Render("Error: " + m.errText))
	default:
		b.WriteString(statusStyle.Render(m.status))
	}
	if m.state.Notice != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Notice: " + m.state.Notice))
	}
	b.WriteString("\n")
	b.WriteString(summaryStyle.Render("tab: switch focus • /: ask your own • enter: analyze/ask • ctrl+p: process • ctrl+r: clear • esc: quit"))
	return b.String()
}

func (m Model) renderAnswer() string {
	if m.state.LastAnswer == nil {
		return "No analysis yet. Pick a suggested question or ask your own."
	}
	var b strings.Builder
	b.WriteString(sectionStyle.Render("Q: " + m.state.LastAsked))
	b.WriteString("\n\n")
	b.WriteString(m.state.LastAnswer.Text)
	if len(m.state.LastAnswer.Sources) > 0 {
		b.WriteString("\n\n")
		b.WriteString(sectionStyle.Render("Sources"))
		b.WriteString("\n")
		for _, u := range m.state.LastAnswer.Sources {
			b.WriteString(sourceStyle.Render("  " + u))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

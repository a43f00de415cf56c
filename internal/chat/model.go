// Package chat is the terminal version of the checklist assistant: a
// scrolling transcript driven by checklist.State, one step at a time.
package chat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"checklist/internal/checklist"
	"checklist/internal/client"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const submitTimeout = 30 * time.Second

// Submitter delivers a completed checklist to the backend.
type Submitter interface {
	Submit(ctx context.Context, sub checklist.Submission) (*client.Ack, error)
}

type sender int

const (
	fromBot sender = iota
	fromUser
)

type line struct {
	from sender
	text string
}

type submittedMsg struct {
	ack *client.Ack
	err error
}

// choices is the order the process menu offers.
var choices = []checklist.Process{checklist.Onboarding, checklist.Offboarding}

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")).Background(lipgloss.Color("63")).Padding(0, 1)
	botStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	userStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	linkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Underline(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

// Model is the bubbletea model of one checklist session.
type Model struct {
	state      checklist.State
	transcript []line
	input      textinput.Model
	submitter  Submitter
	sending    bool
	failed     bool
	width      int
}

func New(submitter Submitter) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 512
	ti.Focus()

	m := Model{
		state:     checklist.Start(),
		input:     ti,
		submitter: submitter,
	}
	m.say("Good morning! What is your name?")
	return m
}

// State exposes the engine state, mostly for tests and the caller's exit
// status.
func (m Model) State() checklist.State {
	return m.state
}

// Failed reports whether the submission was rejected or never arrived.
func (m Model) Failed() bool {
	return m.failed
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			m.input.Reset()
			if text == "" {
				return m, nil
			}
			return m.handle(text)
		}

	case submittedMsg:
		m.sending = false
		if msg.err != nil {
			m.failed = true
			m.say("Sorry, your responses could not be saved. Please try again by restarting the checklist.")
			m.say(fmt.Sprintf("(%v)", msg.err))
			return m, nil
		}
		m.say(fmt.Sprintf("Your %d responses were saved. Press esc to exit.", msg.ack.Count))
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handle(text string) (tea.Model, tea.Cmd) {
	m.transcript = append(m.transcript, line{from: fromUser, text: text})

	switch m.state.Phase {
	case checklist.PhaseAwaitingName:
		next, err := m.state.EnterName(text)
		if err != nil {
			return m, nil
		}
		m.state = next
		m.say(fmt.Sprintf("Nice to meet you, %s!", next.Name))
		m.say("Would you like to perform an onboarding or offboarding process? [1] Onboarding  [2] Offboarding")

	case checklist.PhaseChooseProcess:
		p, ok := parseChoice(text)
		if !ok {
			m.say("Please choose onboarding (1) or offboarding (2).")
			return m, nil
		}
		next, err := m.state.ChooseProcess(p)
		if err != nil {
			return m, nil
		}
		m.state = next
		m.say(fmt.Sprintf("Great! Let's start the %s process.", p))
		m.askCurrent()

	case checklist.PhaseAskingStep:
		next, err := m.state.AnswerText(text)
		if err != nil {
			return m, nil
		}
		if next.Phase == checklist.PhaseAwaitingUpload {
			m.state = next
			m.say("Please upload the signed acknowledgment: type the path of the file.")
			return m, nil
		}
		return m.advance(next)

	case checklist.PhaseAwaitingUpload:
		path := expandHome(strings.Trim(text, `"'`))
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			m.say(fmt.Sprintf("I could not find a file at %q. Please type the path again.", path))
			return m, nil
		}
		next, err := m.state.SupplyFile(path)
		if err != nil {
			return m, nil
		}
		m.say(fmt.Sprintf("File %q uploaded successfully.", filepath.Base(path)))
		return m.advance(next)

	case checklist.PhaseCompleted:
		m.say("This checklist is already complete. Press esc to exit.")
	}
	return m, nil
}

func (m Model) advance(next checklist.State) (tea.Model, tea.Cmd) {
	m.state = next
	if next.Phase != checklist.PhaseCompleted {
		m.askCurrent()
		return m, nil
	}
	m.say("Thank you for completing the process!")
	return m.submit()
}

// submit latches the state before handing the network call to bubbletea,
// so a repeated trigger finds the latch already set and sends nothing.
func (m Model) submit() (Model, tea.Cmd) {
	next, sub, err := m.state.Latch()
	if err != nil {
		return m, nil
	}
	m.state = next
	m.sending = true
	m.say("Saving your responses...")

	submitter := m.submitter
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), submitTimeout)
		defer cancel()
		ack, err := submitter.Submit(ctx, sub)
		return submittedMsg{ack: ack, err: err}
	}
}

func (m *Model) askCurrent() {
	step, ok := m.state.Current()
	if !ok {
		return
	}
	if step.ReferenceURL != "" {
		label := strings.ToUpper(string(m.state.Process[:1])) + string(m.state.Process[1:])
		m.say(fmt.Sprintf("Download %s Acknowledgment: %s", label, linkStyle.Render(step.ReferenceURL)))
	}
	m.say(step.Prompt)
}

func (m *Model) say(text string) {
	m.transcript = append(m.transcript, line{from: fromBot, text: text})
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("IT Process Checklist"))
	b.WriteString("\n\n")

	wrap := lipgloss.NewStyle()
	if m.width > 4 {
		wrap = wrap.Width(m.width - 2)
	}
	for _, l := range m.transcript {
		if l.from == fromUser {
			b.WriteString(wrap.Render(userStyle.Render("you: ") + l.text))
		} else {
			b.WriteString(wrap.Render(botStyle.Render("bot: " + l.text)))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	switch {
	case m.sending:
		b.WriteString(hintStyle.Render("sending..."))
	case m.failed:
		b.WriteString(errStyle.Render("submission failed - esc to exit"))
	case m.state.Phase == checklist.PhaseCompleted:
		b.WriteString(hintStyle.Render("esc to exit"))
	default:
		b.WriteString(m.input.View())
		b.WriteString("\n")
		b.WriteString(hintStyle.Render(m.hint()))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) hint() string {
	switch m.state.Phase {
	case checklist.PhaseChooseProcess:
		return "1 onboarding · 2 offboarding · esc quit"
	case checklist.PhaseAwaitingUpload:
		return "path to the signed file · esc quit"
	default:
		return "enter send · esc quit"
	}
}

func parseChoice(text string) (checklist.Process, bool) {
	for i, p := range choices {
		if text == fmt.Sprint(i+1) {
			return p, true
		}
	}
	p, err := checklist.ParseProcess(text)
	if err != nil {
		return "", false
	}
	return p, true
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

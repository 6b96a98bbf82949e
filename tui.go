package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// errAborted means the user left during startup: Ctrl+C, Esc or end of
// input while a question was open.
var errAborted = errors.New("aborted by user")

// Styles for the startup prompts
var (
	promptLabelStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#7C3AED")).
				Bold(true)

	promptErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#EF4444"))

	promptHintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280")).
			Faint(true)
)

var splashArt = []string{
	"ooooo        ooooo ooooo      ooo oooo    oooo oooooo   oooo",
	"`888'        `888' `888b.     `8' `888   .8P'   `888.   .8' ",
	" 888          888   8 `88b.    8   888  d8'      `888. .8'  ",
	" 888          888   8   `88b.  8   88888[         `888.8'   ",
	" 888          888   8     `88b.8   888`88b.        `888'    ",
	" 888       o  888   8       `888   888  `88b.       888     ",
	"o888ooooood8 o888o o8o        `8  o888o  o888o     o888o    ",
}

const splashCredit = "                         Made by ΞΖ"

func showSplash(c *Console) {
	c.ClearScreen()
	c.Println(c.styles.art.Render(strings.Join(splashArt, "\n")))
	c.Println("")
	c.Println(c.styles.credit.Render(splashCredit))
	c.Println("")
	time.Sleep(splashDelay)
}

// question is one startup prompt. check returns the message to show when an
// answer is rejected, or "" when it is accepted.
type question struct {
	label string
	check func(answer string) string
}

var (
	nameQuestion = question{
		label: "Please enter your name to begin: ",
		check: checkName,
	}
	portQuestion = question{
		label: fmt.Sprintf("Please enter a port to use (%d-%d): ", minPort, maxPort),
		check: func(answer string) string {
			_, problem := parsePort(answer)
			return problem
		},
	}
)

func checkName(answer string) string {
	if strings.TrimSpace(answer) == "" {
		return "Name cannot be empty."
	}
	return ""
}

// parsePort validates a typed port number.
func parsePort(answer string) (int, string) {
	port, err := strconv.Atoi(strings.TrimSpace(answer))
	if err != nil {
		return 0, "Invalid port number."
	}
	if !validPort(port) {
		return 0, fmt.Sprintf("Port must be between %d and %d.", minPort, maxPort)
	}
	return port, ""
}

func validPort(port int) bool {
	return port >= minPort && port <= maxPort
}

type prompter interface {
	Ask(ctx context.Context, q question) (string, error)
}

// promptModel asks a single question with a text input.
type promptModel struct {
	q       question
	input   textinput.Model
	problem string
	value   string
	done    bool
	aborted bool
}

func newPromptModel(q question) promptModel {
	ti := textinput.New()
	ti.Prompt = q.label
	ti.PromptStyle = promptLabelStyle
	ti.Focus()

	return promptModel{q: q, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit

		case tea.KeyEnter:
			answer := strings.TrimSpace(m.input.Value())
			if problem := m.q.check(answer); problem != "" {
				m.problem = problem
				m.input.Reset()
				return m, nil
			}
			m.value = answer
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done {
		return promptLabelStyle.Render(m.q.label) + m.value + "\n"
	}
	if m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.problem != "" {
		b.WriteString(promptErrorStyle.Render(m.problem))
	} else {
		b.WriteString(promptHintStyle.Render("enter to confirm, esc to quit"))
	}
	b.WriteString("\n")
	return b.String()
}

// teaPrompter asks questions with a bubbletea program; used when stdin is
// a terminal.
type teaPrompter struct {
	in  io.Reader
	out io.Writer
}

func (p teaPrompter) Ask(ctx context.Context, q question) (string, error) {
	program := tea.NewProgram(newPromptModel(q),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
		tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", errAborted
		}
		return "", fmt.Errorf("prompt: %w", err)
	}

	m, ok := final.(promptModel)
	if !ok || m.aborted || !m.done {
		return "", errAborted
	}
	return m.value, nil
}

// linePrompter asks questions on plain lines, for piped input.
type linePrompter struct {
	console *Console
	lines   <-chan string
}

func (p linePrompter) Ask(ctx context.Context, q question) (string, error) {
	for {
		p.console.Print(q.label)

		select {
		case <-ctx.Done():
			return "", errAborted
		case line, ok := <-p.lines:
			if !ok {
				return "", errAborted
			}
			answer := strings.TrimSpace(line)
			if problem := q.check(answer); problem != "" {
				p.console.Println(problem)
				continue
			}
			return answer, nil
		}
	}
}

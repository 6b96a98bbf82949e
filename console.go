package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Console renders chat output to a terminal. It is not safe for concurrent
// use; the session serializes access with its mutex.
type Console struct {
	w      io.Writer
	term   *termenv.Output
	styles consoleStyles
}

type consoleStyles struct {
	system lipgloss.Style
	sender lipgloss.Style
	self   lipgloss.Style
	art    lipgloss.Style
	credit lipgloss.Style
}

// NewConsole writes to w. Colors are used only when w is a terminal.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	return &Console{
		w:    w,
		term: termenv.NewOutput(w),
		styles: consoleStyles{
			system: r.NewStyle().Foreground(lipgloss.Color("#10B981")).Italic(true),
			sender: r.NewStyle().Foreground(lipgloss.Color("#3B82F6")),
			self:   r.NewStyle().Foreground(lipgloss.Color("#7C3AED")).Bold(true),
			art:    r.NewStyle().Foreground(lipgloss.Color("12")),
			credit: r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		},
	}
}

func (c *Console) Print(s string) {
	fmt.Fprint(c.w, s)
}

func (c *Console) Println(s string) {
	fmt.Fprintln(c.w, s)
}

// Notice prints a system line such as "[System: bob joined the chat.]".
func (c *Console) Notice(format string, args ...any) {
	c.Println(c.styles.system.Render("[System: " + fmt.Sprintf(format, args...) + "]"))
}

// Chat prints a line received from another peer.
func (c *Console) Chat(sender, text string) {
	c.Println(c.styles.sender.Render("<"+sender+">") + " " + text)
}

// Prompt draws the input prompt, without a newline.
func (c *Console) Prompt(username string) {
	c.Print(c.styles.self.Render("<"+username+">") + " ")
}

// EraseLine clears the line the cursor is on so asynchronous output does
// not land in the middle of a half typed prompt.
func (c *Console) EraseLine() {
	c.Print("\r")
	c.term.ClearLine()
	c.Print("\r")
}

func (c *Console) ClearScreen() {
	c.term.ClearScreen()
}

// chatLine is the transcript form of a chat message.
func chatLine(sender, text string) string {
	return "<" + sender + "> " + text
}

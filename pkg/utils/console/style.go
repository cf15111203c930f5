package console

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// lipgloss renders ANSI only when stdout is a terminal, so piped CLI
// output stays clean.
var (
	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("2"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("3"))
)

type message struct {
	content string
}

func (m *message) String() string {
	return m.content
}

func (m *message) Print() {
	fmt.Print(m.content)
}

func (m *message) Println() {
	fmt.Println(m.content)
}

// RenderMuted dims secondary output like progress lines.
func RenderMuted(msg string) *message {
	return &message{mutedStyle.Render(msg)}
}

func RenderSuccess(msg string) *message {
	return &message{successStyle.Render(msg)}
}

func RenderWarning(msg string) *message {
	return &message{warningStyle.Render(msg)}
}

func RenderError(msg string) *message {
	return &message{errorStyle.Render(msg)}
}

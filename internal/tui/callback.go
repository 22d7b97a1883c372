// Package tui provides terminal output, progress rendering and the setup
// wizard for the WhiteSource publisher CLI.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// IsInteractive reports whether stdout is a terminal. Styled output and the
// wizard are only offered on a TTY; CI transcripts stay plain.
func IsInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// PrintError displays an error message with styled output.
func PrintError(title, msg string) {
	fmt.Println(styleErr.Render("✖ " + title))
	fmt.Println(msg)
}

// PrintSuccess displays a success message with styled output.
func PrintSuccess(msg string) { fmt.Println(styleSuccess.Render("✔ " + msg)) }

// PrintInfo displays an informational message.
func PrintInfo(msg string) {
	fmt.Println(styleDim.Render(msg))
}

// PrintWarning displays a warning message with styled output.
func PrintWarning(title, msg string) { fmt.Println(styleWarn.Render("! " + title)); fmt.Println(msg) }

// StyleTitle returns a styled title string for terminal output.
func StyleTitle(text string) string { return styleTitle.Render(text) }

// StyledBuildLog implements core.BuildLog with lipgloss-styled output for
// interactive terminal runs.
type StyledBuildLog struct{}

// NewStyledBuildLog creates a StyledBuildLog.
func NewStyledBuildLog() *StyledBuildLog {
	return &StyledBuildLog{}
}

// Info implements core.BuildLog
func (l *StyledBuildLog) Info(format string, args ...interface{}) {
	fmt.Println(styleDim.Render(fmt.Sprintf(format, args...)))
}

// Error implements core.BuildLog
func (l *StyledBuildLog) Error(format string, args ...interface{}) {
	fmt.Println(styleErr.Render(fmt.Sprintf(format, args...)))
}

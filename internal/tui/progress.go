package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	progressStyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	progressStyleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	progressStyleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	progressStyleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
)

// ProgressTracker reports progress of the watch loop as the workspace
// changes and policy checks re-run. The loop is open ended, so trackers
// count checks rather than render a percentage. Implementations exist
// for TTY, plain text and quiet modes.
type ProgressTracker interface {
	Increment(message string)
	Complete()
	Fail(err error)
}

// NewProgressTracker picks the tracker for the current terminal: bubbletea
// rendering on a TTY, plain text otherwise.
func NewProgressTracker(label string) ProgressTracker {
	if IsInteractive() {
		return NewBubbleteaProgressTracker(label)
	}
	return NewTextProgressTracker(label)
}

// ========================================
// Bubbletea Watch Model
// ========================================

// watchModel is a bubbletea model for rendering the watch loop state
type watchModel struct {
	label     string
	checks    int
	lastEvent string
	started   time.Time
	done      bool
	failed    bool
	err       error
}

func (m watchModel) Init() tea.Cmd {
	return nil
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchCheckMsg:
		m.checks++
		m.lastEvent = msg.message
	case watchCompleteMsg:
		m.done = true
		return m, tea.Quit
	case watchFailMsg:
		m.failed = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.done {
		return progressStyleSuccess.Render(fmt.Sprintf("✓ %s stopped after %d check(s)", m.label, m.checks))
	}

	if m.failed {
		return progressStyleErr.Render(fmt.Sprintf("✗ %s failed after %d check(s): %v", m.label, m.checks, m.err))
	}

	elapsed := time.Since(m.started).Round(time.Second)
	status := fmt.Sprintf("%d check(s) in %s", m.checks, elapsed)
	if m.lastEvent != "" {
		status += fmt.Sprintf(" - %s", m.lastEvent)
	}

	return fmt.Sprintf("%s\n%s", progressStyleTitle.Render(m.label), progressStyleDim.Render(status))
}

// ========================================
// Bubbletea Messages
// ========================================

type watchCheckMsg struct {
	message string
}

type watchCompleteMsg struct{}

type watchFailMsg struct {
	err error
}

// ========================================
// BubbleteaProgressTracker Implementation
// ========================================

// BubbleteaProgressTracker renders watch progress using bubbletea
type BubbleteaProgressTracker struct {
	program *tea.Program
}

// NewBubbleteaProgressTracker creates a new bubbletea progress tracker
func NewBubbleteaProgressTracker(label string) *BubbleteaProgressTracker {
	m := watchModel{
		label:   label,
		started: time.Now(),
	}

	p := tea.NewProgram(m)

	tracker := &BubbleteaProgressTracker{
		program: p,
	}

	// Start program in background
	go func() {
		_, _ = p.Run()
	}()

	return tracker
}

// Increment records one completed check with a message.
func (t *BubbleteaProgressTracker) Increment(message string) {
	t.program.Send(watchCheckMsg{message: message})
}

// Complete marks the watch loop as finished.
func (t *BubbleteaProgressTracker) Complete() {
	t.program.Send(watchCompleteMsg{})
	time.Sleep(100 * time.Millisecond) // Allow final render
}

// Fail marks the watch loop as failed with an error.
func (t *BubbleteaProgressTracker) Fail(err error) {
	t.program.Send(watchFailMsg{err: err})
	time.Sleep(100 * time.Millisecond) // Allow final render
}

// ========================================
// Text Progress (Non-TTY)
// ========================================

// TextProgressTracker provides simple text-based watch progress
type TextProgressTracker struct {
	checks int
	label  string
}

// NewTextProgressTracker creates a new text progress tracker
func NewTextProgressTracker(label string) *TextProgressTracker {
	fmt.Printf("Watching: %s\n", label)
	return &TextProgressTracker{
		label: label,
	}
}

// Increment records one completed check with a message.
func (t *TextProgressTracker) Increment(message string) {
	t.checks++
	msg := fmt.Sprintf("  [check %d]", t.checks)
	if message != "" {
		msg += " " + message
	}
	fmt.Println(msg)
}

// Complete marks the watch loop as finished.
func (t *TextProgressTracker) Complete() {
	fmt.Printf("✓ %s: stopped after %d check(s)\n", t.label, t.checks)
}

// Fail marks the watch loop as failed with an error.
func (t *TextProgressTracker) Fail(err error) {
	fmt.Printf("✗ %s: failed - %v\n", t.label, err)
}

// ========================================
// No-Op Progress (Quiet/JSON)
// ========================================

// NoOpProgressTracker does nothing (for quiet/JSON/testing modes)
type NoOpProgressTracker struct{}

// NewNoOpProgressTracker creates a new no-op progress tracker
func NewNoOpProgressTracker() *NoOpProgressTracker {
	return &NoOpProgressTracker{}
}

// Increment does nothing (no-op implementation).
func (t *NoOpProgressTracker) Increment(_ string) {}

// Complete does nothing (no-op implementation).
func (t *NoOpProgressTracker) Complete() {}

// Fail does nothing (no-op implementation).
func (t *NoOpProgressTracker) Fail(_ error) {}

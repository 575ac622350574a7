// ABOUTME: Shared lipgloss palette and text styles for the hostdesk TUI
// ABOUTME: Also used by the CLI for its session-expired notice

package styles

import "github.com/charmbracelet/lipgloss"

var (
	Primary   = lipgloss.Color("#0EA5E9") // Sky
	Secondary = lipgloss.Color("#10B981") // Green
	Warning   = lipgloss.Color("#F59E0B") // Amber
	Danger    = lipgloss.Color("#EF4444") // Red
	Muted     = lipgloss.Color("#6B7280") // Gray
	Text      = lipgloss.Color("#F9FAFB")
	Accent    = lipgloss.Color("#38BDF8")
	Surface   = lipgloss.Color("#374151")
	Info      = lipgloss.Color("#3B82F6")

	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		MarginBottom(1)

	Subtitle = lipgloss.NewStyle().
			Foreground(Muted)

	StatusOK = lipgloss.NewStyle().
			Foreground(Secondary).
			Bold(true)

	StatusWarning = lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true)

	Help = lipgloss.NewStyle().
		Foreground(Muted).
		MarginTop(1)

	// Keyboard shortcut keys in the footer
	KeyStyle = lipgloss.NewStyle().
			Foreground(Accent).
			Bold(true)

	ValueStyle = lipgloss.NewStyle().
			Foreground(Text).
			Bold(true)

	// Toast is the one-line result message under the active screen
	Toast = lipgloss.NewStyle().
		Foreground(Text).
		Background(Surface).
		Padding(0, 1)

	ToastError = lipgloss.NewStyle().
			Foreground(Text).
			Background(Danger).
			Padding(0, 1)
)

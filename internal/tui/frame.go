// ABOUTME: Header and footer frame around every TUI screen
// ABOUTME: Footer shortcuts follow the active screen

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/hostdesk/internal/tui/icons"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

// frameWidth leaves one column free so the frame never wraps
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

func (a *App) contentWidth() int {
	return a.frameWidth() - 2
}

func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	left := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("hostdesk"))
	right := ""
	if a.greeting != "" {
		right = " " + contextStyle.Render(a.greeting) + " "
	}

	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╭─" + left + strings.Repeat("─", fill) + right + "─╮")
}

func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenProperties:
		return []string{"↑↓ Navigate", "Enter Open", "r Refresh", "q Quit"}
	case ScreenDashboard:
		return []string{"↑↓ Select", "Enter Info", "b Block", "u Unblock", "Esc Back", "q Quit"}
	case ScreenBlockForm:
		return []string{"Tab Next", "Enter Confirm", "Esc Cancel"}
	case ScreenExpired:
		return []string{"q Exit"}
	default:
		return []string{"q Quit"}
	}
}

func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styled := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		key, label, ok := strings.Cut(s, " ")
		if !ok {
			styled = append(styled, s)
			continue
		}
		styled = append(styled, styles.KeyStyle.Render(key)+" "+labelStyle.Render(label))
	}
	left := " " + strings.Join(styled, "  ") + " "

	right := ""
	if a.list != nil && a.screen == ScreenProperties {
		right = " " + statusStyle.Render("Updated "+formatSince(a.now().Sub(a.list.FetchedAt()))) + " "
	}

	fill := max(0, width-4-lipgloss.Width(left)-lipgloss.Width(right))
	return borderStyle.Render("╰─" + left + strings.Repeat("─", fill) + right + "─╯")
}

func formatSince(d time.Duration) string {
	switch {
	case d < 5*time.Second:
		return "just now"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	default:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	}
}

func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(lipgloss.NewStyle().Padding(0, 1).Render(content))
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}

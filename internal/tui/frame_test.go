// ABOUTME: Verifies header and footer render at the terminal width
// ABOUTME: Covers every screen the footer has shortcuts for

package tui

import (
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestFrameAlignment(t *testing.T) {
	screens := []Screen{ScreenLoading, ScreenProperties, ScreenDashboard, ScreenExpired}

	for _, width := range []int{60, 80, 100, 120} {
		for _, screen := range screens {
			t.Run(fmt.Sprintf("%d/%d", width, screen), func(t *testing.T) {
				app := loaded(t, newFakeBackend())
				app.Update(tea.WindowSizeMsg{Width: width, Height: 30})
				app.screen = screen

				expected := max(width-1, minTerminalWidth)
				lines := strings.Split(app.View(), "\n")

				header := lines[0]
				if !strings.HasPrefix(header, "╭") {
					t.Fatalf("expected header first, got %q", header)
				}
				if w := lipgloss.Width(header); w != expected {
					t.Errorf("header width %d, want %d", w, expected)
				}

				footer := lines[len(lines)-1]
				if !strings.HasPrefix(footer, "╰") {
					t.Fatalf("expected footer last, got %q", footer)
				}
				if w := lipgloss.Width(footer); w != expected {
					t.Errorf("footer width %d, want %d", w, expected)
				}
			})
		}
	}
}

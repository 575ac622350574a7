// ABOUTME: Bordered metric blocks for the property dashboard
// ABOUTME: Title sits in the top border, value and detail lines below

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/hostdesk/internal/tui/icons"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

const defaultBlockWidth = 24

// BlockConfig controls a metric block's size and colors
type BlockConfig struct {
	Width       int
	BorderColor lipgloss.Color
	TitleColor  lipgloss.Color
	ValueColor  lipgloss.Color
}

// DefaultBlockConfig returns the dashboard defaults
func DefaultBlockConfig() BlockConfig {
	return BlockConfig{
		Width:       defaultBlockWidth,
		BorderColor: styles.Muted,
		TitleColor:  styles.Primary,
		ValueColor:  styles.Text,
	}
}

// frame draws the border around pre-rendered body lines
type frame struct {
	cfg   BlockConfig
	inner int
}

func newFrame(cfg BlockConfig) frame {
	if cfg.Width <= 0 {
		cfg.Width = defaultBlockWidth
	}
	return frame{cfg: cfg, inner: cfg.Width - 4}
}

func (f frame) render(icon icons.Icon, title string, body ...string) string {
	border := lipgloss.NewStyle().Foreground(f.cfg.BorderColor)
	label := truncate(fmt.Sprintf("%s %s", icon.String(), title), f.inner-1)

	lines := make([]string, 0, len(body)+2)
	lines = append(lines, border.Render("┌─ ")+
		lipgloss.NewStyle().Foreground(f.cfg.TitleColor).Render(label)+
		border.Render(" "+strings.Repeat("─", max(0, f.inner-lipgloss.Width(label)-1))+"┐"))
	for _, line := range body {
		pad := max(0, f.inner-lipgloss.Width(line))
		lines = append(lines, border.Render("│  ")+line+strings.Repeat(" ", pad)+border.Render("│"))
	}
	lines = append(lines, border.Render("└"+strings.Repeat("─", f.cfg.Width-2)+"┘"))
	return strings.Join(lines, "\n")
}

func muted(s string) string {
	return lipgloss.NewStyle().Foreground(styles.Muted).Render(s)
}

// MetricBlock renders a single value with a detail line
func MetricBlock(icon icons.Icon, title, value, subtitle string, cfg BlockConfig) string {
	f := newFrame(cfg)
	v := lipgloss.NewStyle().Foreground(f.cfg.ValueColor).Bold(true).Render(truncate(value, f.inner))
	return f.render(icon, title, v, muted(truncate(subtitle, f.inner)))
}

// MetricBlockWithSparkline renders a value followed by a trend sparkline
func MetricBlockWithSparkline(icon icons.Icon, title, value string, series []float64, subtitle string, cfg BlockConfig) string {
	f := newFrame(cfg)
	value = truncate(value, f.inner)
	v := lipgloss.NewStyle().Foreground(f.cfg.ValueColor).Bold(true).Render(value)
	sparkWidth := max(0, min(len(series), f.inner-lipgloss.Width(value)-2))
	line := v
	if sparkWidth > 0 {
		line += "  " + Sparkline(series, sparkWidth, styles.Accent)
	}
	return f.render(icon, title, line, muted(truncate(subtitle, f.inner)))
}

// OccupancyBlock renders a percentage with a compact bar. Low occupancy is
// the warning case for a rental, so the colors run the other way from a
// utilization gauge.
func OccupancyBlock(icon icons.Icon, title string, percent float64, details string, cfg BlockConfig) string {
	f := newFrame(cfg)
	percent = max(0, min(percent, 100))

	level := LevelOK
	switch {
	case percent < 25:
		level = LevelCritical
	case percent < 50:
		level = LevelWarning
	}
	color, _ := level.colors()

	value := lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%3.0f%%", percent)) +
		" " + StatusIcon(level)
	bar := compactBar(percent, f.inner, color)
	return f.render(icon, title, value, bar, muted(truncate(details, f.inner)))
}

func compactBar(percent float64, width int, color lipgloss.Color) string {
	filled := int(percent / 100 * float64(width))
	return lipgloss.NewStyle().Foreground(color).Render(strings.Repeat("▓", filled)) +
		lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s
	}
	r := []rune(s)
	if n <= 3 {
		return string(r[:min(n, len(r))])
	}
	for lipgloss.Width(string(r)) > n-3 {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

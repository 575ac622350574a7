// ABOUTME: Inline colored badges for ratings and booking states
// ABOUTME: Maps review scores and booking types onto status levels

package widgets

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/tui/icons"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

// Level is the severity a badge is drawn with
type Level int

const (
	LevelOK Level = iota
	LevelWarning
	LevelCritical
	LevelInfo
	LevelNeutral
)

func (l Level) colors() (bg, fg lipgloss.Color) {
	switch l {
	case LevelOK:
		return styles.Secondary, lipgloss.Color("#FFFFFF")
	case LevelWarning:
		return styles.Warning, lipgloss.Color("#000000")
	case LevelCritical:
		return styles.Danger, lipgloss.Color("#FFFFFF")
	case LevelInfo:
		return styles.Info, lipgloss.Color("#FFFFFF")
	default:
		return styles.Muted, lipgloss.Color("#FFFFFF")
	}
}

// Badge renders text on a colored background
func Badge(text string, level Level) string {
	bg, fg := level.colors()
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// RatingLevel grades a review score out of 5
func RatingLevel(score float64) Level {
	switch {
	case score <= 0:
		return LevelNeutral
	case score >= 4.5:
		return LevelOK
	case score >= 4.0:
		return LevelWarning
	default:
		return LevelCritical
	}
}

// RatingBadge renders "<channel> 4.8★ (12)"
func RatingBadge(channel string, r hostapi.Rating) string {
	text := fmt.Sprintf("%s %.1f%s (%d)", channel, r.Rating, icons.Star.String(), r.Reviews)
	return Badge(text, RatingLevel(r.Rating))
}

// BookingLevel picks the badge color for a booking type
func BookingLevel(bookingType string) Level {
	switch bookingType {
	case hostapi.BookingTypeGuest:
		return LevelOK
	case hostapi.BookingTypeOwner:
		return LevelInfo
	case hostapi.BookingTypeMaintenance:
		return LevelWarning
	default:
		return LevelNeutral
	}
}

// StatusIcon returns the colored icon for a level
func StatusIcon(level Level) string {
	bg, _ := level.colors()
	style := lipgloss.NewStyle().Foreground(bg)
	switch level {
	case LevelOK:
		return style.Render(icons.CheckOK.String())
	case LevelWarning:
		return style.Render(icons.Warning.String())
	case LevelCritical:
		return style.Render(icons.Critical.String())
	case LevelInfo:
		return style.Render(icons.Info.String())
	default:
		return style.Render("•")
	}
}

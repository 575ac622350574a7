// ABOUTME: Icon set with Nerd Font detection and plain Unicode fallback
// ABOUTME: HOSTDESK_NERD_FONTS forces the choice either way

package icons

import (
	"os"
	"strings"
	"sync"
)

var (
	useNerdFonts bool
	detectOnce   sync.Once
)

var nerdFontTerminals = []string{"iTerm.app", "alacritty", "WezTerm", "kitty", "ghostty"}

func detectNerdFonts() bool {
	if env := os.Getenv("HOSTDESK_NERD_FONTS"); env != "" {
		return env == "1" || strings.EqualFold(env, "true")
	}

	term := os.Getenv("TERM")
	termProgram := os.Getenv("TERM_PROGRAM")
	for _, t := range nerdFontTerminals {
		if strings.Contains(termProgram, t) || strings.Contains(term, strings.ToLower(t)) {
			return true
		}
	}
	return false
}

// HasNerdFonts reports whether Nerd Font glyphs should be rendered
func HasNerdFonts() bool {
	detectOnce.Do(func() {
		useNerdFonts = detectNerdFonts()
	})
	return useNerdFonts
}

// Icon pairs a Nerd Font glyph with a Unicode fallback
type Icon struct {
	NerdFont string
	Fallback string
}

func (i Icon) String() string {
	if HasNerdFonts() {
		return i.NerdFont
	}
	return i.Fallback
}

var (
	// Listings
	Home     = Icon{"󰋜", "⌂"} // nf-md-home
	Calendar = Icon{"󰃭", "▦"} // nf-md-calendar
	Money    = Icon{"󰄔", "$"} // nf-md-cash
	Moon     = Icon{"󰖔", "☾"} // nf-md-weather_night
	Star     = Icon{"󰓎", "★"} // nf-md-star
	Lock     = Icon{"󰌾", "▣"} // nf-md-lock

	// Status
	CheckOK  = Icon{"", "✓"} // nf-oct-check_circle
	Warning  = Icon{"", "⚠"} // nf-oct-alert
	Critical = Icon{"", "✗"} // nf-oct-x_circle
	Info     = Icon{"", "ℹ"} // nf-oct-info

	App = Icon{"󰋜", "◈"}
)

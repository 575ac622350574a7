// ABOUTME: Property dashboard screen with earnings, occupancy and ratings
// ABOUTME: Lists upcoming stays and blocks with keys to block, unblock and inspect

package dashboard

import (
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/schedule"
	"github.com/markalston/hostdesk/internal/tui/icons"
	"github.com/markalston/hostdesk/internal/tui/styles"
	"github.com/markalston/hostdesk/internal/tui/widgets"
)

// Data is everything the dashboard shows for one property
type Data struct {
	Property hostapi.Property
	Earnings hostapi.Earnings
	Ratings  hostapi.Ratings
	Calendar hostapi.Calendar
}

// BackMsg returns to the property list
type BackMsg struct{}

// BlockMsg opens the block form for the property
type BlockMsg struct {
	Property hostapi.Property
}

// UnblockMsg asks the app to remove an owner or maintenance block
type UnblockMsg struct {
	Booking hostapi.Booking
}

// DetailsMsg asks the app to fetch details for a guest booking
type DetailsMsg struct {
	Booking hostapi.Booking
}

const maxUpcoming = 8

// Dashboard renders one property
type Dashboard struct {
	data     Data
	upcoming []hostapi.Booking
	cursor   int
	width    int
}

// New builds a dashboard; bookings that ended before now are hidden
func New(data Data, now time.Time) *Dashboard {
	return &Dashboard{data: data, upcoming: upcoming(data.Calendar.Bookings, now)}
}

func upcoming(bookings []hostapi.Booking, now time.Time) []hostapi.Booking {
	today := now.Format(schedule.DateLayout)
	var out []hostapi.Booking
	for _, b := range bookings {
		if b.EndDate >= today {
			out = append(out, b)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StartDate < out[j].StartDate })
	if len(out) > maxUpcoming {
		out = out[:maxUpcoming]
	}
	return out
}

// Property returns the property on screen
func (d *Dashboard) Property() hostapi.Property {
	return d.data.Property
}

// SetWidth sets the render width
func (d *Dashboard) SetWidth(width int) {
	d.width = width
}

func (d *Dashboard) Init() tea.Cmd {
	return nil
}

func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}

	switch key.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.upcoming)-1 {
			d.cursor++
		}
	case "esc", "backspace":
		return d, func() tea.Msg { return BackMsg{} }
	case "b":
		p := d.data.Property
		return d, func() tea.Msg { return BlockMsg{Property: p} }
	case "u":
		if b, ok := d.selected(); ok && b.Type != hostapi.BookingTypeGuest {
			return d, func() tea.Msg { return UnblockMsg{Booking: b} }
		}
	case "enter":
		if b, ok := d.selected(); ok && b.Type == hostapi.BookingTypeGuest {
			return d, func() tea.Msg { return DetailsMsg{Booking: b} }
		}
	}
	return d, nil
}

func (d *Dashboard) selected() (hostapi.Booking, bool) {
	if d.cursor < 0 || d.cursor >= len(d.upcoming) {
		return hostapi.Booking{}, false
	}
	return d.upcoming[d.cursor], true
}

func (d *Dashboard) View() string {
	var sb strings.Builder
	p := d.data.Property

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s %s", icons.Home.String(), p.Name)))
	sb.WriteString("\n")
	sb.WriteString(styles.Subtitle.Render(address(p)))
	sb.WriteString("\n\n")

	sb.WriteString(d.renderMetrics())
	sb.WriteString("\n\n")
	sb.WriteString(d.renderRatings())
	sb.WriteString("\n\n")
	sb.WriteString(d.renderUpcoming())
	return sb.String()
}

func address(p hostapi.Property) string {
	parts := []string{}
	for _, s := range []string{p.Address, p.City, p.State} {
		if s != "" {
			parts = append(parts, s)
		}
	}
	line := strings.Join(parts, ", ")
	return fmt.Sprintf("%s · %d guests · %d bedrooms · %g baths", line, p.Guests, p.Bedrooms, p.Bathrooms)
}

func (d *Dashboard) renderMetrics() string {
	cfg := widgets.DefaultBlockConfig()
	e := d.data.Earnings

	series := make([]float64, len(e.Earnings))
	for i, m := range e.Earnings {
		series[i] = m.Amount
	}
	latest := "no earnings yet"
	value := widgets.Money(0)
	if n := len(e.Earnings); n > 0 {
		value = widgets.Money(e.Earnings[n-1].Amount)
		latest = "this month, " + e.Earnings[n-1].Month
	}

	occupancy, nights, days := Occupancy(e.Nights)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.MetricBlock(icons.Money, "Net booking value", widgets.Money(d.data.Property.NBV),
			fmt.Sprintf("%d nights booked", d.data.Property.NightsBooked), cfg),
		" ",
		widgets.MetricBlockWithSparkline(icons.Calendar, "Earnings", value, series, latest, cfg),
		" ",
		widgets.OccupancyBlock(icons.Moon, "Occupancy", occupancy, fmt.Sprintf("%d of %d nights", nights, days), cfg),
	)
}

// Occupancy is the share of nights booked in the most recent month of the series
func Occupancy(series []hostapi.MonthlyNights) (percent float64, nights, days int) {
	if len(series) == 0 {
		return 0, 0, 0
	}
	last := series[len(series)-1]
	month, err := time.Parse("2006-01", last.Month)
	if err != nil {
		return 0, last.Nights, 0
	}
	days = month.AddDate(0, 1, -1).Day()
	return float64(last.Nights) / float64(days) * 100, last.Nights, days
}

func (d *Dashboard) renderRatings() string {
	if len(d.data.Ratings) == 0 {
		return styles.Subtitle.Render(icons.Star.String() + " No ratings yet")
	}

	channels := make([]string, 0, len(d.data.Ratings))
	for ch := range d.data.Ratings {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	badges := make([]string, 0, len(channels))
	for _, ch := range channels {
		badges = append(badges, widgets.RatingBadge(ch, d.data.Ratings[ch]))
	}
	return strings.Join(badges, " ")
}

func (d *Dashboard) renderUpcoming() string {
	var sb strings.Builder
	sb.WriteString(styles.ValueStyle.Render("Upcoming"))
	sb.WriteString("\n")

	if len(d.upcoming) == 0 {
		sb.WriteString(styles.Subtitle.Render("Nothing on the calendar."))
		return sb.String()
	}

	cursorStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	for i, b := range d.upcoming {
		marker := "  "
		if i == d.cursor {
			marker = cursorStyle.Render("▸ ")
		}
		who := b.GuestName
		if who == "" {
			who = b.Type
		}
		sb.WriteString(fmt.Sprintf("%s%s → %s  %s %s\n",
			marker, b.StartDate, b.EndDate,
			widgets.Badge(b.Type, widgets.BookingLevel(b.Type)), who))
	}
	return strings.TrimRight(sb.String(), "\n")
}

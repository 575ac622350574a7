// ABOUTME: Property list screen backed by a bubbles table
// ABOUTME: Shows portfolio totals and emits a message when a row is chosen

package properties

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/tui/icons"
	"github.com/markalston/hostdesk/internal/tui/styles"
	"github.com/markalston/hostdesk/internal/tui/widgets"
)

// SelectedMsg is sent when the host opens a property
type SelectedMsg struct {
	Property hostapi.Property
}

// RefreshMsg asks the app to drop the cache and reload the list
type RefreshMsg struct{}

var columns = []table.Column{
	{Title: "Property", Width: 24},
	{Title: "City", Width: 14},
	{Title: "Beds", Width: 5},
	{Title: "Nights", Width: 7},
	{Title: "Net value", Width: 12},
}

// List is the property table screen
type List struct {
	data      hostapi.PropertyList
	fetchedAt time.Time
	table     table.Model
	width     int
}

// New builds the screen for a loaded property list
func New(data hostapi.PropertyList, fetchedAt time.Time) *List {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows(data.Properties)),
		table.WithFocused(true),
		table.WithHeight(min(len(data.Properties)+1, 12)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(styles.Muted).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(styles.Text).
		Background(styles.Primary).
		Bold(false)
	t.SetStyles(s)

	return &List{data: data, fetchedAt: fetchedAt, table: t}
}

func rows(props []hostapi.Property) []table.Row {
	out := make([]table.Row, 0, len(props))
	for _, p := range props {
		out = append(out, table.Row{
			p.Name,
			p.City,
			strconv.Itoa(p.Beds),
			strconv.Itoa(p.NightsBooked),
			widgets.Money(p.NBV),
		})
	}
	return out
}

// Selected returns the property under the cursor
func (l *List) Selected() (hostapi.Property, bool) {
	i := l.table.Cursor()
	if i < 0 || i >= len(l.data.Properties) {
		return hostapi.Property{}, false
	}
	return l.data.Properties[i], true
}

// FetchedAt is when the list was loaded
func (l *List) FetchedAt() time.Time {
	return l.fetchedAt
}

// SetWidth sets the render width
func (l *List) SetWidth(width int) {
	l.width = width
}

func (l *List) Init() tea.Cmd {
	return nil
}

func (l *List) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			if p, ok := l.Selected(); ok {
				return l, func() tea.Msg { return SelectedMsg{Property: p} }
			}
			return l, nil
		case "r":
			return l, func() tea.Msg { return RefreshMsg{} }
		}
	}

	var cmd tea.Cmd
	l.table, cmd = l.table.Update(msg)
	return l, cmd
}

func (l *List) View() string {
	var sb strings.Builder

	sb.WriteString(styles.Title.Render(fmt.Sprintf("%s Your properties", icons.Home.String())))
	sb.WriteString("\n")

	if len(l.data.Properties) == 0 {
		sb.WriteString(styles.Subtitle.Render("No properties yet."))
		return sb.String()
	}

	cfg := widgets.DefaultBlockConfig()
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		widgets.MetricBlock(icons.Money, "Net booking value", widgets.Money(l.data.TotalNBV),
			fmt.Sprintf("%d properties", len(l.data.Properties)), cfg),
		" ",
		widgets.MetricBlock(icons.Moon, "Nights booked", strconv.Itoa(l.data.TotalNights), "all properties", cfg),
	))
	sb.WriteString("\n\n")
	sb.WriteString(l.table.View())
	return sb.String()
}

// ABOUTME: Block dates form as a bubbletea model
// ABOUTME: huh fields for type and date range, checked before any request is sent

package blockform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/schedule"
	"github.com/markalston/hostdesk/internal/tui/icons"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

// CompleteMsg carries a validated block request
type CompleteMsg struct {
	Request hostapi.BlockRequest
}

// InvalidMsg reports a range that failed the final check
type InvalidMsg struct {
	Err error
}

// CancelledMsg is sent when the host backs out of the form
type CancelledMsg struct{}

// Form collects an owner or maintenance block for one property
type Form struct {
	property hostapi.Property
	form     *huh.Form
	width    int

	blockType string
	start     string
	end       string
}

var typeOptions = []huh.Option[string]{
	huh.NewOption("Owner stay", hostapi.BookingTypeOwner),
	huh.NewOption("Maintenance", hostapi.BookingTypeMaintenance),
}

// New builds the form with tomorrow through three nights later preselected
func New(property hostapi.Property, now time.Time) *Form {
	start := now.AddDate(0, 0, 1)
	f := &Form{
		property:  property,
		blockType: hostapi.BookingTypeOwner,
		start:     start.Format(schedule.DateLayout),
		end:       start.AddDate(0, 0, 3).Format(schedule.DateLayout),
	}
	f.form = f.build()
	return f
}

func (f *Form) build() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Block type").
				Description("Use ↑/↓ to select, Enter to confirm").
				Options(typeOptions...).
				Value(&f.blockType),
			huh.NewInput().
				Title("First day").
				Placeholder(schedule.DateLayout).
				CharLimit(10).
				Value(&f.start).
				Validate(validateDate),
			huh.NewInput().
				Title("Last day").
				Description(fmt.Sprintf("At most %d days after the first day", schedule.MaxBlockDays)).
				Placeholder(schedule.DateLayout).
				CharLimit(10).
				Value(&f.end).
				Validate(f.validateRange),
		).Title(fmt.Sprintf("Block dates at %s", f.property.Name)).
			Description("Blocked dates cannot be booked by guests"),
	).WithTheme(styles.FormTheme())
}

func validateDate(s string) error {
	_, err := schedule.ParseDate(s)
	return err
}

func (f *Form) validateRange(end string) error {
	_, err := schedule.ValidateBlock(f.start, end, f.blockType)
	return err
}

// Request returns the request the current field values describe
func (f *Form) Request() hostapi.BlockRequest {
	return hostapi.BlockRequest{
		PropertyID: f.property.ID,
		Type:       f.blockType,
		StartDate:  strings.TrimSpace(f.start),
		EndDate:    strings.TrimSpace(f.end),
	}
}

// SetWidth sets the render width
func (f *Form) SetWidth(width int) {
	f.width = width
	f.form = f.form.WithWidth(width)
}

func (f *Form) Init() tea.Cmd {
	return f.form.Init()
}

func (f *Form) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "esc" {
		return f, func() tea.Msg { return CancelledMsg{} }
	}

	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}

	switch f.form.State {
	case huh.StateCompleted:
		req := f.Request()
		if _, err := schedule.ValidateBlock(req.StartDate, req.EndDate, req.Type); err != nil {
			// the range can go stale if the first day was edited after the last
			f.form = f.build()
			return f, tea.Batch(f.form.Init(), func() tea.Msg { return InvalidMsg{Err: err} })
		}
		return f, func() tea.Msg { return CompleteMsg{Request: req} }
	case huh.StateAborted:
		return f, func() tea.Msg { return CancelledMsg{} }
	}
	return f, cmd
}

func (f *Form) View() string {
	var sb strings.Builder
	sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("%s %s", icons.Lock.String(), f.summary())))
	sb.WriteString("\n\n")
	sb.WriteString(f.form.View())
	return sb.String()
}

func (f *Form) summary() string {
	b, err := schedule.ValidateBlock(f.start, f.end, f.blockType)
	if err != nil {
		return err.Error()
	}
	return fmt.Sprintf("%s block, %d days", b.Type, b.Days())
}

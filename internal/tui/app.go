// ABOUTME: Root bubbletea model for the host TUI
// ABOUTME: Manages screen state and routes keyboard input to child screens

package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/session"
	"github.com/markalston/hostdesk/internal/tui/blockform"
	"github.com/markalston/hostdesk/internal/tui/dashboard"
	"github.com/markalston/hostdesk/internal/tui/icons"
	"github.com/markalston/hostdesk/internal/tui/properties"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

// ErrSessionExpired is returned by Run when the TUI exited from the expired screen
var ErrSessionExpired = errors.New(hostapi.SessionExpiredMessage)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLoading Screen = iota
	ScreenProperties
	ScreenDashboard
	ScreenBlockForm
	ScreenExpired
)

const minTerminalWidth = 80

// Backend is the part of the host access layer the TUI drives
type Backend interface {
	Profile(ctx context.Context) (session.Profile, error)
	ListProperties(ctx context.Context) (hostapi.Result[hostapi.PropertyList], error)
	ClearCache()
	CachedProperties() (hostapi.PropertyList, time.Time, bool)
	GetProperty(ctx context.Context, id string) (hostapi.Result[hostapi.Property], error)
	EarningsByMonth(ctx context.Context, propertyID string) (hostapi.Result[hostapi.Earnings], error)
	PropertyCalendar(ctx context.Context, propertyID string) (hostapi.Calendar, error)
	RatingDetails(ctx context.Context, propertyID string) (hostapi.Ratings, error)
	BlockBooking(ctx context.Context, req hostapi.BlockRequest) (hostapi.Result[hostapi.BlockResult], error)
	UnblockBooking(ctx context.Context, blockID string) (hostapi.Result[hostapi.UnblockResult], error)
	BookingDetails(ctx context.Context, bookingID, startDate, endDate string) (hostapi.Result[hostapi.BookingDetails], error)
}

// App is the root model
type App struct {
	ctx     context.Context
	backend Backend
	logger  *slog.Logger
	now     func() time.Time

	screen Screen
	width  int
	height int

	greeting  string
	list      *properties.List
	dash      *dashboard.Dashboard
	form      *blockform.Form
	loadingID string

	toast      string
	toastError bool
}

// Option configures an App
type Option func(*App)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(a *App) {
		a.now = now
	}
}

// WithLogger sets the logger; the TUI owns the terminal so this should not write to it
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		a.logger = logger
	}
}

// New creates the root model
func New(ctx context.Context, backend Backend, opts ...Option) *App {
	a := &App{
		ctx:     ctx,
		backend: backend,
		logger:  slog.Default(),
		now:     time.Now,
		screen:  ScreenLoading,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Screen returns the active screen
func (a *App) Screen() Screen {
	return a.screen
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadProfile(), a.loadProperties())
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		if a.form != nil {
			return a.updateForm(msg)
		}
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.clearToast()

		switch a.screen {
		case ScreenExpired:
			return a, tea.Quit
		case ScreenLoading:
			if msg.String() == "q" {
				return a, tea.Quit
			}
		case ScreenProperties:
			return a.updateProperties(msg)
		case ScreenDashboard:
			return a.updateDashboard(msg)
		case ScreenBlockForm:
			return a.updateForm(msg)
		}
		return a, nil

	case sessionExpiredMsg:
		a.expire()
		return a, nil

	case profileLoadedMsg:
		if msg.err == nil {
			if name := msg.profile.FirstName(); name != "" {
				a.greeting = "Hi, " + name
			}
		}
		return a, nil

	case propertiesLoadedMsg:
		return a.handlePropertiesLoaded(msg)

	case properties.SelectedMsg:
		a.dash = nil
		a.loadingID = msg.Property.ID
		a.screen = ScreenDashboard
		return a, a.loadDashboard(msg.Property.ID)

	case properties.RefreshMsg:
		a.backend.ClearCache()
		a.setToast("Refreshing properties...", false)
		return a, a.loadProperties()

	case dashboardLoadedMsg:
		return a.handleDashboardLoaded(msg)

	case dashboard.BackMsg:
		a.dash = nil
		a.screen = ScreenProperties
		return a, nil

	case dashboard.BlockMsg:
		a.form = blockform.New(msg.Property, a.now())
		a.form.SetWidth(a.contentWidth())
		a.screen = ScreenBlockForm
		return a, a.form.Init()

	case dashboard.UnblockMsg:
		a.setToast("Removing block...", false)
		return a, a.unblock(msg.Booking)

	case dashboard.DetailsMsg:
		return a, a.loadDetails(msg.Booking)

	case blockform.CompleteMsg:
		a.form = nil
		a.screen = ScreenDashboard
		a.setToast("Blocking dates...", false)
		return a, a.submitBlock(msg.Request)

	case blockform.CancelledMsg:
		a.form = nil
		a.screen = ScreenDashboard
		return a, nil

	case blockform.InvalidMsg:
		a.setToast(msg.Err.Error(), true)
		return a, nil

	case blockSubmittedMsg:
		return a.handleBlockSubmitted(msg)

	case unblockedMsg:
		return a.handleUnblocked(msg)

	case detailsLoadedMsg:
		return a.handleDetailsLoaded(msg)

	default:
		// huh forms run on their own internal messages
		if a.screen == ScreenBlockForm && a.form != nil {
			return a.updateForm(msg)
		}
	}

	return a, nil
}

func (a *App) updateProperties(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return a, tea.Quit
	}
	if a.list == nil {
		return a, nil
	}
	_, cmd := a.list.Update(msg)
	return a, cmd
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return a, tea.Quit
	}
	if a.dash == nil {
		if msg.String() == "esc" {
			a.screen = ScreenProperties
		}
		return a, nil
	}
	_, cmd := a.dash.Update(msg)
	return a, cmd
}

func (a *App) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.form == nil {
		return a, nil
	}
	_, cmd := a.form.Update(msg)
	return a, cmd
}

func (a *App) handlePropertiesLoaded(msg propertiesLoadedMsg) (tea.Model, tea.Cmd) {
	if a.screen == ScreenExpired {
		return a, nil
	}
	if msg.err != nil {
		a.logger.Error("Failed to load properties", "error", msg.err)
		a.setToast(errorText(msg.err), true)
		if a.list == nil {
			a.screen = ScreenProperties
		}
		return a, nil
	}
	if msg.result.AuthError {
		a.expire()
		return a, nil
	}

	a.list = properties.New(msg.result.Value, msg.fetchedAt)
	a.list.SetWidth(a.contentWidth())
	if a.screen == ScreenLoading {
		a.screen = ScreenProperties
	}
	if a.toast == "Refreshing properties..." {
		a.clearToast()
	}
	return a, nil
}

func (a *App) handleDashboardLoaded(msg dashboardLoadedMsg) (tea.Model, tea.Cmd) {
	if a.screen == ScreenExpired || msg.propertyID != a.loadingID {
		return a, nil
	}
	if msg.authError {
		a.expire()
		return a, nil
	}
	if msg.err != nil {
		a.logger.Error("Failed to load dashboard", "property", msg.propertyID, "error", msg.err)
		a.setToast(errorText(msg.err), true)
		if a.dash == nil {
			a.screen = ScreenProperties
		}
		return a, nil
	}

	a.dash = dashboard.New(msg.data, a.now())
	a.dash.SetWidth(a.contentWidth())
	return a, nil
}

func (a *App) handleBlockSubmitted(msg blockSubmittedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		a.logger.Error("Block failed", "property", msg.request.PropertyID, "error", msg.err)
		a.setToast(errorText(msg.err), true)
		return a, nil
	case msg.result.AuthError:
		a.expire()
		return a, nil
	case !msg.result.Value.Success:
		a.setToast(fmt.Sprintf("Block was not accepted (status %d)", msg.result.Value.Status), true)
		return a, nil
	}
	a.setToast(fmt.Sprintf("%s Blocked %s to %s", icons.CheckOK.String(), msg.request.StartDate, msg.request.EndDate), false)
	return a, a.reloadDashboard()
}

func (a *App) handleUnblocked(msg unblockedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		a.logger.Error("Unblock failed", "block", msg.booking.ID, "error", msg.err)
		a.setToast(errorText(msg.err), true)
		return a, nil
	case msg.result.AuthError:
		a.expire()
		return a, nil
	case !msg.result.Value.Success:
		a.setToast("Block could not be removed", true)
		return a, nil
	}
	a.setToast(fmt.Sprintf("%s Removed block %s to %s", icons.CheckOK.String(), msg.booking.StartDate, msg.booking.EndDate), false)
	return a, a.reloadDashboard()
}

func (a *App) handleDetailsLoaded(msg detailsLoadedMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.err != nil:
		a.setToast(errorText(msg.err), true)
		return a, nil
	case msg.result.AuthError:
		a.expire()
		return a, nil
	}
	a.setToast(describeBooking(msg.result.Value), false)
	return a, nil
}

func (a *App) reloadDashboard() tea.Cmd {
	if a.dash == nil {
		return nil
	}
	a.loadingID = a.dash.Property().ID
	return a.loadDashboard(a.loadingID)
}

func (a *App) expire() {
	a.screen = ScreenExpired
	a.form = nil
	a.clearToast()
}

func (a *App) setToast(text string, isError bool) {
	a.toast = text
	a.toastError = isError
}

func (a *App) clearToast() {
	a.toast = ""
	a.toastError = false
}

func (a *App) resize() {
	w := a.contentWidth()
	if a.list != nil {
		a.list.SetWidth(w)
	}
	if a.dash != nil {
		a.dash.SetWidth(w)
	}
	if a.form != nil {
		a.form.SetWidth(w)
	}
}

func (a *App) View() string {
	var content string

	switch a.screen {
	case ScreenLoading:
		content = styles.Subtitle.Render("Loading properties...")
	case ScreenProperties:
		if a.list != nil {
			content = a.list.View()
		} else {
			content = styles.Subtitle.Render("Properties unavailable. Press r to retry.")
		}
	case ScreenDashboard:
		if a.dash != nil {
			content = a.dash.View()
		} else {
			content = styles.Subtitle.Render("Loading property...")
		}
	case ScreenBlockForm:
		if a.form != nil {
			content = a.form.View()
		}
	case ScreenExpired:
		content = a.viewExpired()
	}

	if a.toast != "" {
		style := styles.Toast
		if a.toastError {
			style = styles.ToastError
		}
		content += "\n\n" + style.Render(a.toast)
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewExpired() string {
	var sb strings.Builder
	sb.WriteString(styles.StatusWarning.Render(icons.Lock.String() + " " + hostapi.SessionExpiredMessage))
	sb.WriteString("\n\n")
	sb.WriteString(styles.Subtitle.Render("Run `hostdesk login` and start the dashboard again."))
	sb.WriteString("\n")
	sb.WriteString(styles.Help.Render("Press any key to exit."))
	return sb.String()
}

func describeBooking(d hostapi.BookingDetails) string {
	parts := []string{}
	if d.Guest != nil {
		guests := fmt.Sprintf("%d adults", d.Guest.Adults)
		if d.Guest.Kids > 0 {
			guests += fmt.Sprintf(", %d kids", d.Guest.Kids)
		}
		parts = append(parts, d.Guest.Name, guests)
	}
	if d.Booking != nil {
		parts = append(parts, d.Booking.StartDate+" to "+d.Booking.EndDate)
	}
	if d.Amount > 0 {
		parts = append(parts, fmt.Sprintf("$%.2f", d.Amount))
	}
	if len(parts) == 0 {
		return "No details for this booking"
	}
	return strings.Join(parts, " · ")
}

func errorText(err error) string {
	if errors.Is(err, hostapi.ErrNoSession) {
		return "Not logged in. Run `hostdesk login` first."
	}
	return "Error: " + err.Error()
}

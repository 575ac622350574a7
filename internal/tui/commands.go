// ABOUTME: Async backend calls for the TUI, each returned as a tea.Cmd
// ABOUTME: The dashboard fans its four requests out with errgroup

package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/markalston/hostdesk/internal/client"
	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/session"
	"github.com/markalston/hostdesk/internal/tui/dashboard"
)

type profileLoadedMsg struct {
	profile session.Profile
	err     error
}

type propertiesLoadedMsg struct {
	result    hostapi.Result[hostapi.PropertyList]
	fetchedAt time.Time
	err       error
}

type dashboardLoadedMsg struct {
	propertyID string
	data       dashboard.Data
	authError  bool
	err        error
}

type blockSubmittedMsg struct {
	request hostapi.BlockRequest
	result  hostapi.Result[hostapi.BlockResult]
	err     error
}

type unblockedMsg struct {
	booking hostapi.Booking
	result  hostapi.Result[hostapi.UnblockResult]
	err     error
}

type detailsLoadedMsg struct {
	result hostapi.Result[hostapi.BookingDetails]
	err    error
}

func (a *App) loadProfile() tea.Cmd {
	return func() tea.Msg {
		p, err := a.backend.Profile(a.ctx)
		return profileLoadedMsg{profile: p, err: err}
	}
}

func (a *App) loadProperties() tea.Cmd {
	return func() tea.Msg {
		res, err := a.backend.ListProperties(a.ctx)
		if err != nil || res.AuthError {
			return propertiesLoadedMsg{result: res, err: err}
		}
		fetchedAt := a.now()
		if _, at, ok := a.backend.CachedProperties(); ok {
			fetchedAt = at
		}
		return propertiesLoadedMsg{result: res, fetchedAt: fetchedAt}
	}
}

// loadDashboard fetches everything the dashboard shows concurrently. A session
// rejection from any call sends the app to the expired screen.
func (a *App) loadDashboard(propertyID string) tea.Cmd {
	return func() tea.Msg {
		var (
			data                dashboard.Data
			propAuth, earnAuth bool
		)

		g, ctx := errgroup.WithContext(a.ctx)
		g.Go(func() error {
			res, err := a.backend.GetProperty(ctx, propertyID)
			data.Property, propAuth = res.Value, res.AuthError
			return err
		})
		g.Go(func() error {
			res, err := a.backend.EarningsByMonth(ctx, propertyID)
			data.Earnings, earnAuth = res.Value, res.AuthError
			return err
		})
		g.Go(func() error {
			ratings, err := a.backend.RatingDetails(ctx, propertyID)
			data.Ratings = ratings
			return err
		})
		g.Go(func() error {
			cal, err := a.backend.PropertyCalendar(ctx, propertyID)
			data.Calendar = cal
			return err
		})

		err := g.Wait()
		msg := dashboardLoadedMsg{propertyID: propertyID, data: data}
		switch {
		case propAuth || earnAuth || client.IsUnauthorized(err):
			msg.authError = true
		case err != nil:
			msg.err = err
		}
		return msg
	}
}

func (a *App) submitBlock(req hostapi.BlockRequest) tea.Cmd {
	return func() tea.Msg {
		res, err := a.backend.BlockBooking(a.ctx, req)
		return blockSubmittedMsg{request: req, result: res, err: err}
	}
}

func (a *App) unblock(b hostapi.Booking) tea.Cmd {
	return func() tea.Msg {
		res, err := a.backend.UnblockBooking(a.ctx, b.ID)
		return unblockedMsg{booking: b, result: res, err: err}
	}
}

func (a *App) loadDetails(b hostapi.Booking) tea.Cmd {
	return func() tea.Msg {
		res, err := a.backend.BookingDetails(a.ctx, b.ID, b.StartDate, b.EndDate)
		return detailsLoadedMsg{result: res, err: err}
	}
}

// ABOUTME: Property commands: list, show, earnings, calendar and ratings
// ABOUTME: Calendar can also be exported as an .ics file

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/schedule"
	"github.com/markalston/hostdesk/internal/tui/styles"
	"github.com/markalston/hostdesk/internal/tui/widgets"
)

var (
	icsPath      string
	refreshCache bool
)

var propertiesCmd = &cobra.Command{
	Use:     "properties",
	Aliases: []string{"props"},
	Short:   "List your properties with booking value and nights",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProperties(ctx, os.Stdout, refreshCache)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var propertiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your properties",
	Run:   propertiesCmd.Run,
}

var propertiesShowCmd = &cobra.Command{
	Use:   "show PROPERTY_ID",
	Short: "Show one property",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPropertyShow(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var earningsCmd = &cobra.Command{
	Use:   "earnings PROPERTY_ID",
	Short: "Show monthly earnings and nights for a property",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runEarnings(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var calendarCmd = &cobra.Command{
	Use:   "calendar PROPERTY_ID",
	Short: "Show bookings and blocks for a property",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCalendar(ctx, os.Stdout, args[0], icsPath)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var ratingsCmd = &cobra.Command{
	Use:   "ratings PROPERTY_ID",
	Short: "Show ratings per booking platform",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRatings(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	propertiesCmd.PersistentFlags().BoolVar(&refreshCache, "refresh", false, "Ignore the cached property list")
	calendarCmd.Flags().StringVar(&icsPath, "ics", "", "Write the calendar to this .ics file")

	propertiesCmd.AddCommand(propertiesListCmd, propertiesShowCmd)
	rootCmd.AddCommand(propertiesCmd, earningsCmd, calendarCmd, ratingsCmd)
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers(headers...)
}

func runProperties(ctx context.Context, w io.Writer, refresh bool) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	if refresh {
		svc.ClearCache()
	}
	res, err := svc.ListProperties(ctx)
	if err != nil {
		return fail(w, err)
	}
	if res.AuthError {
		return expired(w, res)
	}
	output(w, res, func() string { return formatPropertiesHuman(res.Value) })
	return exitOK
}

func formatPropertiesHuman(list hostapi.PropertyList) string {
	if len(list.Properties) == 0 {
		return "No properties yet."
	}

	t := newTable("ID", "Property", "City", "Beds", "Nights", "Net value")
	for _, p := range list.Properties {
		t.Row(p.ID, p.Name, p.City, strconv.Itoa(p.Beds), strconv.Itoa(p.NightsBooked), widgets.Money(p.NBV))
	}
	return fmt.Sprintf("%s\nTotal: %s across %d nights",
		t.String(), widgets.Money(list.TotalNBV), list.TotalNights)
}

func runPropertyShow(ctx context.Context, w io.Writer, id string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	res, err := svc.GetProperty(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if res.AuthError {
		return expired(w, res)
	}
	output(w, res, func() string { return formatPropertyHuman(res.Value) })
	return exitOK
}

func formatPropertyHuman(p hostapi.Property) string {
	location := strings.Join(nonEmpty(p.Address, p.City, p.State, p.ZipCode, p.Country), ", ")
	return fmt.Sprintf(`%s (%s)
Address:    %s
Sleeps:     %d guests, %d bedrooms, %d beds, %g baths
Booked:     %d nights, %s net booking value`,
		p.Name, p.ID,
		location,
		p.Guests, p.Bedrooms, p.Beds, p.Bathrooms,
		p.NightsBooked, widgets.Money(p.NBV))
}

func nonEmpty(values ...string) []string {
	out := values[:0:0]
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func runEarnings(ctx context.Context, w io.Writer, id string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	res, err := svc.EarningsByMonth(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	if res.AuthError {
		return expired(w, res)
	}
	output(w, res, func() string { return formatEarningsHuman(res.Value) })
	return exitOK
}

func formatEarningsHuman(e hostapi.Earnings) string {
	if len(e.Earnings) == 0 {
		return "No earnings yet."
	}

	nights := make(map[string]int, len(e.Nights))
	for _, n := range e.Nights {
		nights[n.Month] = n.Nights
	}

	t := newTable("Month", "Earnings", "Nights")
	var total float64
	series := make([]float64, 0, len(e.Earnings))
	for _, m := range e.Earnings {
		t.Row(m.Month, widgets.Money(m.Amount), strconv.Itoa(nights[m.Month]))
		total += m.Amount
		series = append(series, m.Amount)
	}
	return fmt.Sprintf("%s\nTotal: %s  %s", t.String(), widgets.Money(total),
		widgets.Sparkline(series, len(series), styles.Accent))
}

func runCalendar(ctx context.Context, w io.Writer, id, icsFile string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	cal, err := svc.PropertyCalendar(ctx, id)
	if err != nil {
		return fail(w, err)
	}

	if icsFile != "" {
		res, err := svc.GetProperty(ctx, id)
		if err != nil {
			return fail(w, err)
		}
		if res.AuthError {
			return expired(w, res)
		}
		doc, err := schedule.BuildCalendarICS(res.Value, cal.Bookings, time.Now())
		if err != nil {
			return fail(w, err)
		}
		if err := os.WriteFile(icsFile, []byte(doc), 0644); err != nil {
			return fail(w, fmt.Errorf("failed to write %s: %w", icsFile, err))
		}
		output(w, map[string]interface{}{"path": icsFile, "events": len(cal.Bookings)}, func() string {
			return fmt.Sprintf("Wrote %d events to %s", len(cal.Bookings), icsFile)
		})
		return exitOK
	}

	output(w, cal, func() string { return formatCalendarHuman(cal) })
	return exitOK
}

func formatCalendarHuman(cal hostapi.Calendar) string {
	if len(cal.Bookings) == 0 {
		return "Nothing on the calendar."
	}

	bookings := append([]hostapi.Booking(nil), cal.Bookings...)
	sort.SliceStable(bookings, func(i, j int) bool { return bookings[i].StartDate < bookings[j].StartDate })

	t := newTable("ID", "From", "To", "Type", "Status", "Guest")
	for _, b := range bookings {
		t.Row(b.ID, b.StartDate, b.EndDate, b.Type, b.Status, b.GuestName)
	}
	return t.String()
}

func runRatings(ctx context.Context, w io.Writer, id string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	ratings, err := svc.RatingDetails(ctx, id)
	if err != nil {
		return fail(w, err)
	}
	output(w, ratings, func() string { return formatRatingsHuman(ratings) })
	return exitOK
}

func formatRatingsHuman(ratings hostapi.Ratings) string {
	if len(ratings) == 0 {
		return "No ratings yet."
	}

	channels := make([]string, 0, len(ratings))
	for ch := range ratings {
		channels = append(channels, ch)
	}
	sort.Strings(channels)

	lines := make([]string, 0, len(channels))
	for _, ch := range channels {
		r := ratings[ch]
		lines = append(lines, fmt.Sprintf("%-10s %.1f / 5  (%d reviews)", ch, r.Rating, r.Reviews))
	}
	return strings.Join(lines, "\n")
}

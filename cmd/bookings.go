// ABOUTME: Booking commands: block dates, remove a block, booking details
// ABOUTME: Block ranges are validated locally before the backend is called

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/schedule"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

var (
	blockType  string
	blockStart string
	blockEnd   string
)

var blockCmd = &cobra.Command{
	Use:   "block PROPERTY_ID",
	Short: "Block dates for an owner stay or maintenance",
	Long: fmt.Sprintf(`Block dates so guests cannot book them.

Blocks are either "owner" or "maintenance" and may be at most %d days long.
Dates are YYYY-MM-DD.`, schedule.MaxBlockDays),
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runBlock(ctx, os.Stdout, args[0], blockType, blockStart, blockEnd)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var unblockCmd = &cobra.Command{
	Use:   "unblock BLOCK_ID",
	Short: "Remove an owner or maintenance block",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runUnblock(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var bookingCmd = &cobra.Command{
	Use:   "booking BOOKING_ID",
	Short: "Show guest, property and amount for a booking",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runBooking(ctx, os.Stdout, args[0], blockStart, blockEnd)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	blockCmd.Flags().StringVar(&blockType, "type", hostapi.BookingTypeOwner, "owner or maintenance")
	for _, c := range []*cobra.Command{blockCmd, bookingCmd} {
		c.Flags().StringVar(&blockStart, "start", "", "First day (YYYY-MM-DD)")
		c.Flags().StringVar(&blockEnd, "end", "", "Last day (YYYY-MM-DD)")
		c.MarkFlagRequired("start")
		c.MarkFlagRequired("end")
	}

	rootCmd.AddCommand(blockCmd, unblockCmd, bookingCmd)
}

func runBlock(ctx context.Context, w io.Writer, propertyID, kind, start, end string) int {
	b, err := schedule.ValidateBlock(start, end, kind)
	if err != nil {
		printError(w, "Invalid block: "+err.Error())
		return exitError
	}

	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	req := hostapi.BlockRequest{
		PropertyID: propertyID,
		Type:       b.Type,
		StartDate:  b.Start.Format(schedule.DateLayout),
		EndDate:    b.End.Format(schedule.DateLayout),
	}
	res, err := svc.BlockBooking(ctx, req)
	if err != nil {
		return fail(w, err)
	}
	if res.AuthError {
		return expired(w, res)
	}
	if !res.Value.Success {
		output(w, res, func() string { return fmt.Sprintf("Block was not accepted (status %d)", res.Value.Status) })
		return exitError
	}

	output(w, res, func() string {
		msg := styles.StatusOK.Render(fmt.Sprintf("Blocked %s to %s (%s, %d days)", req.StartDate, req.EndDate, req.Type, b.Days()))
		if ids := blockIDs(res.Value.Blocks); ids != "" {
			msg += "\nBlock ID: " + ids
		}
		return msg
	})
	return exitOK
}

func blockIDs(blocks []hostapi.Booking) string {
	ids := make([]string, 0, len(blocks))
	for _, b := range blocks {
		ids = append(ids, b.ID)
	}
	return strings.Join(ids, ", ")
}

func runUnblock(ctx context.Context, w io.Writer, blockID string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	res, err := svc.UnblockBooking(ctx, blockID)
	if err != nil {
		return fail(w, err)
	}
	if res.AuthError {
		return expired(w, res)
	}
	if !res.Value.Success {
		output(w, res, func() string { return "Block could not be removed." })
		return exitError
	}
	output(w, res, func() string { return styles.StatusOK.Render("Removed block " + blockID) })
	return exitOK
}

func runBooking(ctx context.Context, w io.Writer, bookingID, start, end string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	res, err := svc.BookingDetails(ctx, bookingID, start, end)
	if err != nil {
		return fail(w, err)
	}
	if res.AuthError {
		return expired(w, res)
	}
	output(w, res, func() string { return formatBookingHuman(res.Value) })
	return exitOK
}

func formatBookingHuman(d hostapi.BookingDetails) string {
	var sb strings.Builder
	if d.Booking != nil {
		fmt.Fprintf(&sb, "Booking:  %s (%s, %s)\n", d.Booking.ID, d.Booking.Type, d.Booking.Status)
		fmt.Fprintf(&sb, "Dates:    %s to %s\n", d.Booking.StartDate, d.Booking.EndDate)
	}
	if d.Property != nil {
		fmt.Fprintf(&sb, "Property: %s\n", d.Property.Name)
	}
	if d.Guest != nil {
		fmt.Fprintf(&sb, "Guest:    %s, %d adults, %d kids\n", d.Guest.Name, d.Guest.Adults, d.Guest.Kids)
		if d.Guest.Email != "" || d.Guest.Phone != "" {
			fmt.Fprintf(&sb, "Contact:  %s\n", strings.Join(nonEmpty(d.Guest.Email, d.Guest.Phone), ", "))
		}
	}
	if d.Amount > 0 {
		fmt.Fprintf(&sb, "Amount:   $%.2f\n", d.Amount)
	}
	if sb.Len() == 0 {
		return "No details for this booking."
	}
	return strings.TrimRight(sb.String(), "\n")
}

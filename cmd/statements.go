// ABOUTME: Statement and referral commands
// ABOUTME: Lists monthly statements, resolves download links, submits referrals

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

var (
	statementOutput string
	referral        hostapi.Referral
)

var statementsCmd = &cobra.Command{
	Use:   "statements",
	Short: "Monthly owner statements",
}

var statementsListCmd = &cobra.Command{
	Use:   "list PROPERTY_ID",
	Short: "List statements for a property",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStatementsList(ctx, os.Stdout, args[0])
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var statementsDownloadCmd = &cobra.Command{
	Use:   "download PROPERTY_ID FILENAME",
	Short: "Print the download link for a statement, or save it with --output",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runStatementDownload(ctx, os.Stdout, args[0], args[1], statementOutput)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var referCmd = &cobra.Command{
	Use:   "refer",
	Short: "Refer a property owner",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runRefer(ctx, os.Stdout, referral)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	statementsDownloadCmd.Flags().StringVarP(&statementOutput, "output", "o", "", "Save the statement to this file")
	statementsCmd.AddCommand(statementsListCmd, statementsDownloadCmd)

	referCmd.Flags().StringVar(&referral.OwnerName, "name", "", "Owner name")
	referCmd.Flags().StringVar(&referral.OwnerEmail, "email", "", "Owner email")
	referCmd.Flags().StringVar(&referral.OwnerPhone, "phone", "", "Owner phone")
	referCmd.Flags().StringVar(&referral.PropertyCity, "city", "", "City of the property")
	referCmd.Flags().StringVar(&referral.Address, "address", "", "Property address")
	referCmd.Flags().StringVar(&referral.Notes, "notes", "", "Anything else we should know")
	referCmd.MarkFlagRequired("name")
	referCmd.MarkFlagsOneRequired("email", "phone")

	rootCmd.AddCommand(statementsCmd, referCmd)
}

func runStatementsList(ctx context.Context, w io.Writer, propertyID string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	statements, err := svc.MonthlyStatements(ctx, propertyID)
	if err != nil {
		return fail(w, err)
	}
	output(w, statements, func() string {
		if len(statements) == 0 {
			return "No statements yet."
		}
		t := newTable("Month", "Year", "File")
		for _, s := range statements {
			t.Row(s.Month, strconv.Itoa(s.Year), s.Filename)
		}
		return t.String()
	})
	return exitOK
}

func runStatementDownload(ctx context.Context, w io.Writer, propertyID, filename, outPath string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	url, err := svc.DownloadStatement(ctx, propertyID, filename)
	if err != nil {
		return fail(w, err)
	}

	if outPath == "" {
		output(w, map[string]string{"url": url}, func() string { return url })
		return exitOK
	}

	n, err := saveStatement(ctx, svc, url, outPath)
	if err != nil {
		return fail(w, err)
	}
	output(w, map[string]interface{}{"url": url, "path": outPath, "bytes": n}, func() string {
		return fmt.Sprintf("Saved %s (%d bytes)", outPath, n)
	})
	return exitOK
}

// saveStatement downloads url to path via a temp file in the same directory,
// so a failed download never leaves a partial file behind.
func saveStatement(ctx context.Context, svc *hostapi.Service, url, path string) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	n, err := svc.FetchStatement(ctx, url, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("failed to write %s: %w", path, cerr)
	}
	if err != nil {
		return n, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return n, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return n, nil
}

func runRefer(ctx context.Context, w io.Writer, ref hostapi.Referral) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	status, err := svc.ReferProperty(ctx, ref)
	if err != nil {
		return fail(w, err)
	}
	output(w, map[string]interface{}{"success": true, "status": status}, func() string {
		return styles.StatusOK.Render(fmt.Sprintf("Thanks! We'll reach out to %s.", ref.OwnerName))
	})
	return exitOK
}

// ABOUTME: Interactive dashboard command
// ABOUTME: Starts the TUI with logs redirected to debug.log

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/logger"
	"github.com/markalston/hostdesk/internal/tui"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Browse properties, earnings and calendars interactively",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runDashboard(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func runDashboard(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig()
	if err != nil {
		return fail(w, err)
	}

	logFile, err := logger.InitFile(cfg.DebugLogPath(), slog.LevelInfo)
	if err != nil {
		return fail(w, err)
	}
	defer logFile.Close()

	notifier := &tui.ProgramNotifier{}
	svc, done, err := buildService(cfg, hostapi.WithNotifier(notifier))
	if err != nil {
		return fail(w, err)
	}
	defer done()

	if _, err := svc.Profile(ctx); err != nil {
		return fail(w, err)
	}

	err = tui.Run(ctx, svc, notifier)
	switch {
	case errors.Is(err, tui.ErrSessionExpired):
		fmt.Fprintln(w, hostapi.SessionExpiredMessage)
		return exitSession
	case err != nil:
		return fail(w, err)
	}
	return exitOK
}

// ABOUTME: Runs the in-memory development backend
// ABOUTME: Seed login and OTP are printed on start

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/markalston/hostdesk/internal/devserver"
	"github.com/markalston/hostdesk/internal/logger"
)

var devPort string

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local backend with seed data",
	Long: `Run a local backend with seed data for trying hostdesk without a real deployment.

Sessions expire after HOSTDESK_DEV_TOKEN_TTL (default 1h), after which every
host endpoint answers 401.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		logger.Init(os.Stderr, slog.LevelInfo)
		exitCode := runDevServer(ctx, os.Stdout, devPort)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	devserverCmd.Flags().StringVar(&devPort, "port", "", "Port to listen on (overrides HOSTDESK_DEV_PORT)")
	rootCmd.AddCommand(devserverCmd)
}

func runDevServer(ctx context.Context, w io.Writer, port string) int {
	cfg, err := loadConfig()
	if err != nil {
		return fail(w, err)
	}
	if port != "" {
		cfg.Dev.Port = port
	}

	srv, err := devserver.New(cfg.Dev)
	if err != nil {
		return fail(w, err)
	}

	fmt.Fprintf(w, "Dev backend on :%s\n", cfg.Dev.Port)
	fmt.Fprintf(w, "  login:  hostdesk login -u %s -p %s\n", devserver.SeedEmail, devserver.SeedPassword)
	fmt.Fprintf(w, "  otp:    hostdesk login otp verify --phone %s --code %s\n", devserver.SeedPhone, devserver.DevOTP)

	if err := srv.Run(ctx); err != nil {
		return fail(w, err)
	}
	return exitOK
}

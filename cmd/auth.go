// ABOUTME: Session commands: login (password or OTP), logout, whoami
// ABOUTME: Prompts for a password with huh when none is given

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/markalston/hostdesk/internal/client"
	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/otp"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

var (
	loginIdentifier string
	loginPassword   string
	otpPhone        string
	otpCode         string
	otpMessage      string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email or phone and password",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if loginIdentifier == "" || loginPassword == "" {
			if err := promptCredentials(&loginIdentifier, &loginPassword); err != nil {
				fmt.Fprintf(os.Stdout, "Error: %v\n", err)
				os.Exit(exitError)
			}
		}

		exitCode := runLogin(ctx, os.Stdout, loginIdentifier, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var otpCmd = &cobra.Command{
	Use:   "otp",
	Short: "Log in with a one-time code sent to your phone",
}

var otpRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Send a one-time code to your phone",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runOTPRequest(ctx, os.Stdout, otpPhone)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var otpVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Exchange a one-time code for a session",
	Long: `Exchange a one-time code for a session.

Pass the code with --code, or paste the whole SMS with --message and the
code is picked out of it.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runOTPVerify(ctx, os.Stdout, otpPhone, otpCode, otpMessage)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runLogout(context.Background(), os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runWhoami(context.Background(), os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginIdentifier, "identifier", "u", "", "Email or phone number")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")

	otpCmd.PersistentFlags().StringVar(&otpPhone, "phone", "", "Phone number the code is sent to")
	otpCmd.MarkPersistentFlagRequired("phone")
	otpVerifyCmd.Flags().StringVar(&otpCode, "code", "", "One-time code")
	otpVerifyCmd.Flags().StringVar(&otpMessage, "message", "", "SMS text containing the code")
	otpVerifyCmd.MarkFlagsOneRequired("code", "message")
	otpVerifyCmd.MarkFlagsMutuallyExclusive("code", "message")

	otpCmd.AddCommand(otpRequestCmd, otpVerifyCmd)
	loginCmd.AddCommand(otpCmd)
	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd)
}

func promptCredentials(identifier, password *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email or phone").
				Value(identifier).
				Validate(required("email or phone")),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(password).
				Validate(required("password")),
		),
	).WithTheme(styles.FormTheme()).Run()
}

func required(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func runLogin(ctx context.Context, w io.Writer, identifier, password string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	resp, err := svc.Login(ctx, identifier, password)
	if err != nil {
		return loginFailed(w, err)
	}
	return loggedIn(w, resp)
}

func runOTPRequest(ctx context.Context, w io.Writer, phone string) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	resp, err := svc.RequestOTP(ctx, phone)
	if err != nil {
		return fail(w, err)
	}
	output(w, resp, func() string {
		if resp.Message != "" {
			return resp.Message
		}
		return "Code sent to " + phone
	})
	return exitOK
}

func runOTPVerify(ctx context.Context, w io.Writer, phone, code, message string) int {
	if code == "" {
		extracted, err := otp.ExtractCode(message)
		if err != nil {
			printError(w, "No one-time code found in the message")
			return exitError
		}
		code = extracted
	}

	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	resp, err := svc.VerifyOTP(ctx, phone, code)
	if err != nil {
		return loginFailed(w, err)
	}
	return loggedIn(w, resp)
}

// loginFailed reports rejected credentials without the session-expired wording
func loginFailed(w io.Writer, err error) int {
	var serr *client.ServerError
	if errors.As(err, &serr) && serr.Status < 500 {
		msg := serr.Message
		if msg == "" {
			msg = "login rejected"
		}
		printError(w, "Login failed: "+msg)
		return exitSession
	}
	return fail(w, err)
}

func loggedIn(w io.Writer, resp hostapi.LoginResponse) int {
	output(w, resp.User, func() string {
		if name := resp.User.FirstName(); name != "" {
			return styles.StatusOK.Render(fmt.Sprintf("Welcome back, %s!", name))
		}
		return styles.StatusOK.Render("Logged in.")
	})
	return exitOK
}

func runLogout(ctx context.Context, w io.Writer) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	if err := svc.Logout(ctx); err != nil {
		return fail(w, err)
	}
	output(w, map[string]bool{"success": true}, func() string { return "Logged out." })
	return exitOK
}

func runWhoami(ctx context.Context, w io.Writer) int {
	svc, done, err := openService(w)
	if err != nil {
		return fail(w, err)
	}
	defer done()

	profile, err := svc.Profile(ctx)
	if err != nil {
		return fail(w, err)
	}
	output(w, profile, func() string {
		name := profile.FirstName()
		if name == "" {
			name = "(no name on profile)"
		}
		if email, ok := profile["email"].(string); ok && email != "" {
			return fmt.Sprintf("%s <%s>", name, email)
		}
		return name
	})
	return exitOK
}

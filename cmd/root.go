// ABOUTME: Root command for the hostdesk CLI
// ABOUTME: Global flags, config loading and access-layer wiring shared by every command

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/markalston/hostdesk/internal/client"
	"github.com/markalston/hostdesk/internal/config"
	"github.com/markalston/hostdesk/internal/hostapi"
	"github.com/markalston/hostdesk/internal/logger"
	"github.com/markalston/hostdesk/internal/session"
	"github.com/markalston/hostdesk/internal/tui/styles"
)

// Version is set at build time with -ldflags "-X .../cmd.Version=..."
var Version = "dev"

var (
	apiURL     string
	jsonOutput bool
	configDir  string
	ephemeral  bool
)

// Exit codes
const (
	exitOK      = 0
	exitSession = 1 // not logged in, or the backend rejected the session
	exitError   = 2
)

var rootCmd = &cobra.Command{
	Use:   "hostdesk",
	Short: "Manage your rental properties from the terminal",
	Long: `hostdesk talks to the host backend: properties, earnings, calendars,
owner and maintenance blocks, ratings, statements and referrals.

Log in once with 'hostdesk login'; the session is kept in the config dir
(or Redis, see HOSTDESK_SESSION_BACKEND) until you log out or it expires.

Environment Variables:
  HOSTDESK_API_URL          Backend API URL (default: http://localhost:8080)
  HOSTDESK_TIMEOUT          Request timeout (default: 30s)
  HOSTDESK_ALL_PROXY        ssh+socks5://user@bastion:22?private-key=/path/to/key
  HOSTDESK_SESSION_BACKEND  file (default), redis or memory
  HOSTDESK_TOKEN            Session token for memory sessions (see --ephemeral)
  HOSTDESK_REDIS_URL        redis://host:6379/0 when the backend is redis
  HOSTDESK_PROPERTIES_CACHE Serve the property list from a 1h cache (default: false)
  LOG_LEVEL, LOG_FORMAT     Logging to stderr (default: warn, text)`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(os.Stderr, slog.LevelWarn)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides HOSTDESK_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "Keep the session in memory only (seed it with HOSTDESK_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Config and session directory (default: ~/.config/hostdesk)")
	rootCmd.Version = Version
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// loadConfig reads the config and applies the --api-url and --ephemeral flags on top
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configDir)
	if err != nil {
		return nil, err
	}
	if ephemeral {
		cfg.SessionBackend = config.BackendMemory
	}
	if apiURL != "" {
		cfg.APIURL = apiURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// newClient builds the HTTP client for cfg
func newClient(cfg *config.Config) (*client.Client, error) {
	opts := []client.Option{
		client.WithTimeout(cfg.Timeout),
		client.WithHeader("User-Agent", "hostdesk/"+Version),
		client.WithLogger(slog.Default()),
	}
	if cfg.AllProxy != "" {
		dial, err := client.ProxyDialer(cfg.AllProxy)
		if err != nil {
			return nil, fmt.Errorf("HOSTDESK_ALL_PROXY: %w", err)
		}
		opts = append(opts, client.WithDialContext(dial))
	}
	return client.New(cfg.APIURL, opts...), nil
}

// newStore opens the configured session backend; close releases it
func newStore(cfg *config.Config) (*session.Store, func(), error) {
	switch cfg.SessionBackend {
	case config.BackendRedis:
		kv, err := session.NewRedisKV(cfg.RedisURL, cfg.RedisPrefix)
		if err != nil {
			return nil, nil, err
		}
		return session.NewStore(kv), func() { kv.Close() }, nil
	case config.BackendMemory:
		store := session.NewStore(session.NewMemoryKV())
		if cfg.Token != "" {
			if err := store.SetToken(context.Background(), cfg.Token); err != nil {
				return nil, nil, err
			}
		}
		return store, func() {}, nil
	default:
		return session.NewStore(session.NewFileKV(cfg.Dir)), func() {}, nil
	}
}

// openService wires config, client, session store and access layer.
// Session-expired notices are printed to w.
func openService(w io.Writer, opts ...hostapi.Option) (*hostapi.Service, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	return buildService(cfg, append([]hostapi.Option{hostapi.WithNotifier(expiredNotice(w))}, opts...)...)
}

func buildService(cfg *config.Config, opts ...hostapi.Option) (*hostapi.Service, func(), error) {
	c, err := newClient(cfg)
	if err != nil {
		return nil, nil, err
	}
	store, closeStore, err := newStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	opts = append([]hostapi.Option{
		hostapi.WithLogger(slog.Default()),
		hostapi.WithPropertiesCache(cfg.PropertiesCache),
	}, opts...)
	svc := hostapi.New(c, store, opts...)
	return svc, func() {
		svc.Close()
		closeStore()
	}, nil
}

func expiredNotice(w io.Writer) hostapi.Notifier {
	return hostapi.NotifierFunc(func(context.Context) {
		if IsJSONOutput() {
			return
		}
		fmt.Fprintln(w, styles.StatusWarning.Render(hostapi.SessionExpiredMessage))
	})
}

// fail prints err and maps it to an exit code
func fail(w io.Writer, err error) int {
	switch {
	case errors.Is(err, hostapi.ErrNoSession):
		printError(w, "Not logged in. Run 'hostdesk login' first.")
		return exitSession
	case client.IsUnauthorized(err):
		printError(w, hostapi.SessionExpiredMessage)
		return exitSession
	default:
		printError(w, fmt.Sprintf("Error: %v", err))
		return exitError
	}
}

func printError(w io.Writer, msg string) {
	if IsJSONOutput() {
		data, _ := json.Marshal(map[string]string{"error": msg})
		fmt.Fprintln(w, string(data))
		return
	}
	fmt.Fprintln(w, msg)
}

// expired reports a sentinel result: the notifier has already printed the notice
func expired(w io.Writer, v interface{}) int {
	if IsJSONOutput() {
		writeJSON(w, v)
	}
	return exitSession
}

func writeJSON(w io.Writer, v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}
	fmt.Fprintln(w, string(data))
}

// output writes v as JSON or the human rendering
func output(w io.Writer, v interface{}, human func() string) {
	if IsJSONOutput() {
		writeJSON(w, v)
		return
	}
	fmt.Fprintln(w, human())
}

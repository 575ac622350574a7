package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/markalston/hostdesk/internal/config"
	"github.com/markalston/hostdesk/internal/devserver"
)

var seedNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// withDevBackend points the package globals at a fresh dev server and config dir
func withDevBackend(t *testing.T) *testClock {
	t.Helper()
	for _, env := range os.Environ() {
		if key, _, _ := strings.Cut(env, "="); strings.HasPrefix(key, "HOSTDESK_") {
			t.Setenv(key, "")
		}
	}

	clock := &testClock{now: seedNow}
	srv, err := devserver.New(config.DevConfig{JWTSecret: "cmd-test-secret", TokenTTL: 30 * time.Minute},
		devserver.WithClock(clock.Now))
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	apiURL = ts.URL
	configDir = t.TempDir()
	jsonOutput = false
	ephemeral = false
	t.Cleanup(func() {
		apiURL = ""
		configDir = ""
		jsonOutput = false
		ephemeral = false
	})
	return clock
}

func run(t *testing.T, fn func(ctx context.Context, w *bytes.Buffer) int) (int, string) {
	t.Helper()
	var buf bytes.Buffer
	code := fn(context.Background(), &buf)
	return code, buf.String()
}

func mustLogin(t *testing.T) {
	t.Helper()
	code, out := run(t, func(ctx context.Context, w *bytes.Buffer) int {
		return runLogin(ctx, w, devserver.SeedEmail, devserver.SeedPassword)
	})
	require.Equal(t, exitOK, code, out)
}

func decodeJSON(t *testing.T, out string, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal([]byte(out), v), "output: %s", out)
}

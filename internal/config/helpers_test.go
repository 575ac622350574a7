// ABOUTME: Test helpers for config tests
// ABOUTME: Blanks every HOSTDESK_ variable so the host environment cannot leak in

package config

import (
	"os"
	"path/filepath"
	"testing"
)

var hostdeskEnvKeys = []string{
	"HOSTDESK_API_URL",
	"HOSTDESK_TIMEOUT",
	"HOSTDESK_ALL_PROXY",
	"HOSTDESK_SESSION_BACKEND",
	"HOSTDESK_REDIS_URL",
	"HOSTDESK_REDIS_PREFIX",
	"HOSTDESK_TOKEN",
	"HOSTDESK_PROPERTIES_CACHE",
	"HOSTDESK_DEV_PORT",
	"HOSTDESK_DEV_JWT_SECRET",
	"HOSTDESK_DEV_TOKEN_TTL",
}

// withCleanEnv blanks the HOSTDESK_ variables for the duration of the test.
// Empty values are treated as unset by the loader.
func withCleanEnv(t *testing.T, extra map[string]string) {
	t.Helper()
	for _, key := range hostdeskEnvKeys {
		t.Setenv(key, "")
	}
	for key, value := range extra {
		t.Setenv(key, value)
	}
}

// writeFile writes content under dir and returns the path
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
	return path
}

// ABOUTME: Tests for the hostdesk API client
// ABOUTME: Uses httptest to mock backend responses

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

type echoPayload struct {
	Token string `json:"token"`
	ID    string `json:"id"`
}

func TestDo_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/host/property" {
			t.Errorf("expected path /host/property, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		var in echoPayload
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(in)
	}))
	defer server.Close()

	c := New(server.URL)
	var out echoPayload
	status, err := c.Do(context.Background(), http.MethodPost, "/host/property", echoPayload{Token: "abc123", ID: "p-1"}, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusOK {
		t.Errorf("expected status 200, got %d", status)
	}
	if out.Token != "abc123" || out.ID != "p-1" {
		t.Errorf("unexpected echo: %+v", out)
	}
}

func TestDo_DefaultHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected Accept header, got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("User-Agent") != "hostdesk/test" {
			t.Errorf("expected custom user agent, got %q", r.Header.Get("User-Agent"))
		}
		if r.Header.Get("X-Tenant") != "north" {
			t.Errorf("expected X-Tenant header, got %q", r.Header.Get("X-Tenant"))
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-ID")); err != nil {
			t.Errorf("expected uuid request id, got %q", r.Header.Get("X-Request-ID"))
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	c := New(server.URL, WithHeader("User-Agent", "hostdesk/test"), WithHeader("X-Tenant", "north"))
	status, err := c.Do(context.Background(), http.MethodPost, "/anything", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if status != http.StatusNoContent {
		t.Errorf("expected 204, got %d", status)
	}
}

func TestDo_Hooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Hooked") != "yes" {
			t.Error("expected request hook to set header")
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	var seen int
	c := New(server.URL,
		WithRequestHook(func(req *http.Request) error {
			req.Header.Set("X-Hooked", "yes")
			return nil
		}),
		WithResponseHook(func(resp *http.Response) {
			seen = resp.StatusCode
		}),
	)

	var out map[string]interface{}
	if _, err := c.Do(context.Background(), http.MethodPost, "/", nil, &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != http.StatusOK {
		t.Errorf("expected response hook to see 200, got %d", seen)
	}
}

func TestDo_RequestHookAborts(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	c := New(server.URL, WithRequestHook(func(req *http.Request) error {
		return errors.New("blocked")
	}))
	if _, err := c.Do(context.Background(), http.MethodPost, "/", nil, nil); err == nil {
		t.Error("expected hook error, got nil")
	}
	if called {
		t.Error("expected no request to reach the server")
	}
}

func TestDo_ConnectionError(t *testing.T) {
	c := New("http://localhost:99999")
	_, err := c.Do(context.Background(), http.MethodPost, "/host/properties", nil, nil)
	if err == nil {
		t.Fatal("expected connection error, got nil")
	}
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Errorf("expected TransportError, got %T", err)
	}
}

func TestDo_NonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "internal error", "code": 500})
	}))
	defer server.Close()

	c := New(server.URL)
	status, err := c.Do(context.Background(), http.MethodPost, "/", nil, nil)
	if status != http.StatusInternalServerError {
		t.Errorf("expected status 500, got %d", status)
	}
	var serr *ServerError
	if !errors.As(err, &serr) {
		t.Fatalf("expected ServerError, got %T", err)
	}
	if serr.Message != "internal error" {
		t.Errorf("expected message from body, got %q", serr.Message)
	}
	if err.Error() != "backend error: internal error" {
		t.Errorf("unexpected error text: %s", err.Error())
	}
}

func TestDo_NonJSONErrorBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Do(context.Background(), http.MethodPost, "/", nil, nil)
	if err == nil || err.Error() != "backend returned status 502" {
		t.Errorf("expected status-only message, got %v", err)
	}
}

func TestDo_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]interface{}{"error": "token expired", "code": 401})
	}))
	defer server.Close()

	c := New(server.URL)
	_, err := c.Do(context.Background(), http.MethodPost, "/", nil, nil)
	if !IsUnauthorized(err) {
		t.Errorf("expected IsUnauthorized, got %v", err)
	}
	if IsUnauthorized(errors.New("plain")) {
		t.Error("plain errors are not unauthorized")
	}
}

func TestDo_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"properties": [`))
	}))
	defer server.Close()

	c := New(server.URL)
	var out map[string]interface{}
	_, err := c.Do(context.Background(), http.MethodPost, "/", nil, &out)
	var terr *TransportError
	if !errors.As(err, &terr) {
		t.Fatalf("expected TransportError for malformed body, got %v", err)
	}
}

func TestDo_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	_, err := c.Do(ctx, http.MethodPost, "/", nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected canceled error, got %v", err)
	}
}

func TestDo_ContextTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(100 * time.Millisecond)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := New(server.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, http.MethodPost, "/", nil, nil)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	c := New("http://localhost:8080/")
	if c.BaseURL() != "http://localhost:8080" {
		t.Errorf("expected trailing slash trimmed, got %s", c.BaseURL())
	}
}

func TestProxyDialer_InvalidInputs(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(keyPath, []byte("not-a-real-key"), 0600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name  string
		input string
	}{
		{"wrong scheme", "http://bastion:22?private-key=" + keyPath},
		{"missing host", "ssh+socks5://?private-key=" + keyPath},
		{"missing key param", "ssh+socks5://jump@bastion:22"},
		{"unreadable key", "ssh+socks5://jump@bastion:22?private-key=/does/not/exist"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ProxyDialer(tt.input); err == nil {
				t.Errorf("expected error for %q", tt.input)
			}
		})
	}
}

func TestProxyDialer_Valid(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(keyPath, []byte("key"), 0600); err != nil {
		t.Fatal(err)
	}

	dial, err := ProxyDialer("ssh+socks5://jump@bastion.example.com:22?private-key=" + keyPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dial == nil {
		t.Error("expected dial function")
	}
}

type countingTransport struct {
	calls int
	next  http.RoundTripper
}

func (t *countingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls++
	return t.next.RoundTrip(req)
}

func TestDownload_UsesConfiguredClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if ua := r.Header.Get("User-Agent"); ua != "hostdesk/test" {
			t.Errorf("expected configured User-Agent, got %q", ua)
		}
		if _, err := uuid.Parse(r.Header.Get("X-Request-ID")); err != nil {
			t.Errorf("expected uuid request id, got %q", r.Header.Get("X-Request-ID"))
		}
		w.Write([]byte("statement body"))
	}))
	defer server.Close()

	transport := &countingTransport{next: http.DefaultTransport}
	hooked := 0
	c := New("http://backend.invalid",
		WithHTTPClient(&http.Client{Transport: transport, Timeout: time.Second}),
		WithHeader("User-Agent", "hostdesk/test"),
		WithRequestHook(func(req *http.Request) error {
			hooked++
			return nil
		}),
	)

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), server.URL+"/files/statements/p1/2026-05.pdf", &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != int64(len("statement body")) || buf.String() != "statement body" {
		t.Errorf("unexpected download: n=%d body=%q", n, buf.String())
	}
	if transport.calls != 1 {
		t.Errorf("expected download through configured transport, got %d calls", transport.calls)
	}
	if hooked != 1 {
		t.Errorf("expected request hook to run once, got %d", hooked)
	}
}

func TestDownload_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"statement not found","code":404}`))
	}))
	defer server.Close()

	var buf bytes.Buffer
	_, err := New(server.URL).Download(context.Background(), server.URL+"/files/missing.pdf", &buf)
	var serverErr *ServerError
	if !errors.As(err, &serverErr) {
		t.Fatalf("expected ServerError, got %v", err)
	}
	if serverErr.Status != http.StatusNotFound || serverErr.Message != "statement not found" {
		t.Errorf("unexpected error: %+v", serverErr)
	}
	if buf.Len() != 0 {
		t.Errorf("expected nothing written, got %q", buf.String())
	}
}

func TestDownload_ConnectionError(t *testing.T) {
	var buf bytes.Buffer
	_, err := New("http://127.0.0.1:1").Download(context.Background(), "http://127.0.0.1:1/files/x.pdf", &buf)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

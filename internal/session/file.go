// ABOUTME: File-backed session key-value store
// ABOUTME: Keeps all keys in one JSON document under the XDG config directory

package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

// FileKV stores keys in a single JSON file
type FileKV struct {
	configDir string
	mu        sync.Mutex
}

// NewFileKV creates a file store in the given config directory
func NewFileKV(configDir string) *FileKV {
	return &FileKV{configDir: configDir}
}

// DefaultConfigDir returns the default config directory following XDG spec
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "hostdesk")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "hostdesk")
}

// Path returns the path to the session JSON document
func (f *FileKV) Path() string {
	return filepath.Join(f.configDir, "session.json")
}

// load reads the document; a missing or corrupt file is an empty store
func (f *FileKV) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(f.Path())
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, err
	}

	values := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &values); err != nil {
		// Invalid JSON, start fresh
		return map[string]json.RawMessage{}, nil
	}
	return values, nil
}

func (f *FileKV) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values, err := f.load()
	if err != nil {
		return nil, err
	}
	raw, ok := values[key]
	if !ok {
		return nil, ErrNotFound
	}

	var value string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (f *FileKV) Set(_ context.Context, key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(f.configDir, 0700); err != nil {
		return err
	}

	values, err := f.load()
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(string(value))
	if err != nil {
		return err
	}
	values[key] = encoded

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.Path(), data, 0600)
}

// Clear deletes the whole document
func (f *FileKV) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.Path())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

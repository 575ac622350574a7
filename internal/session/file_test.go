package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileKV_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "hostdesk")

	first := NewStore(NewFileKV(dir))
	require.NoError(t, first.SetToken(ctx, "abc123"))
	require.NoError(t, first.SetUserProfile(ctx, Profile{"firstname": "Asha"}))

	second := NewStore(NewFileKV(dir))
	token, err := second.Token(ctx)
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	profile, err := second.UserProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Asha", profile.FirstName())
}

func TestFileKV_FilePermissions(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "hostdesk")
	kv := NewFileKV(dir)

	require.NoError(t, kv.Set(ctx, TokenKey, []byte("secret")))

	info, err := os.Stat(kv.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileKV_MissingFileIsEmpty(t *testing.T) {
	kv := NewFileKV(t.TempDir())
	_, err := kv.Get(context.Background(), TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileKV_CorruptFileStartsFresh(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	kv := NewFileKV(dir)
	require.NoError(t, os.WriteFile(kv.Path(), []byte("{not json"), 0600))

	_, err := kv.Get(ctx, TokenKey)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, kv.Set(ctx, TokenKey, []byte("abc123")))
	got, err := kv.Get(ctx, TokenKey)
	require.NoError(t, err)
	assert.Equal(t, "abc123", string(got))
}

func TestFileKV_ClearRemovesFile(t *testing.T) {
	ctx := context.Background()
	kv := NewFileKV(t.TempDir())

	require.NoError(t, kv.Set(ctx, TokenKey, []byte("abc123")))
	require.NoError(t, kv.Set(ctx, "theme", []byte("dark")))
	require.NoError(t, kv.Clear(ctx))

	_, err := os.Stat(kv.Path())
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	require.NoError(t, kv.Clear(ctx))
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, filepath.Join("/tmp/xdg", "hostdesk"), DefaultConfigDir())
}

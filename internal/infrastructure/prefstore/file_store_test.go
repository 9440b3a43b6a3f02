package prefstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"likedao_wallet/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.yml")
	ctx := context.Background()

	store, err := NewFileStore(path)
	require.NoError(t, err)

	_, err = store.Get(ctx, "LS/AutoConnectWalletType")
	assert.ErrorIs(t, err, entity.ErrPreferenceNotFound)

	require.NoError(t, store.Set(ctx, "LS/AutoConnectWalletType", "keplr"))
	v, err := store.Get(ctx, "LS/AutoConnectWalletType")
	require.NoError(t, err)
	assert.Equal(t, "keplr", v)

	// survives a reopen
	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	v, err = reopened.Get(ctx, "LS/AutoConnectWalletType")
	require.NoError(t, err)
	assert.Equal(t, "keplr", v)

	require.NoError(t, reopened.Delete(ctx, "LS/AutoConnectWalletType"))
	require.NoError(t, reopened.Delete(ctx, "LS/AutoConnectWalletType"))
	_, err = reopened.Get(ctx, "LS/AutoConnectWalletType")
	assert.ErrorIs(t, err, entity.ErrPreferenceNotFound)

	again, err := NewFileStore(path)
	require.NoError(t, err)
	_, err = again.Get(ctx, "LS/AutoConnectWalletType")
	assert.ErrorIs(t, err, entity.ErrPreferenceNotFound)
}

func TestFileStore_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore(filepath.Join(dir, "prefs.yml"))
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "a", "1"))
	require.NoError(t, store.Set(context.Background(), "b", "2"))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "prefs.yml", entries[0].Name())
}

func TestFileStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yml")
	require.NoError(t, os.WriteFile(path, []byte("- not\n- a map\n"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.yml")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	store, err := NewFileStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Set(context.Background(), "k", "v"))
}

package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBackendRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")
	b := NewFileBackend(dir)
	ctx := context.Background()

	_, err := b.Read(ctx, "wishlist")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	require.NoError(t, b.Write(ctx, "wishlist", []byte(`{"kids":[]}`)))
	require.NoError(t, b.Write(ctx, "wishlist", []byte(`{"kids":[],"migrated":true}`)))

	got, err := b.Read(ctx, "wishlist")
	require.NoError(t, err)
	assert.JSONEq(t, `{"kids":[],"migrated":true}`, string(got))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temp files must not be left behind")
	assert.Equal(t, "wishlist.json", entries[0].Name())
}

func TestFileBackendReadErrorIsNotNotFound(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "users.json"), 0o755))

	_, err := NewFileBackend(dir).Read(context.Background(), "users")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDocumentNotFound)
}

package utils

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorePut(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "covers/abc.png", strings.NewReader("png"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/covers/abc.png", url)

	data, err := os.ReadFile(filepath.Join(root, "covers", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestLocalStoreKeepsKeysInsideRoot(t *testing.T) {
	root := t.TempDir()
	store, err := NewLocalStore(root, "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../../escape.txt", strings.NewReader("x"), "text/plain")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(root, "escape.txt"))
	assert.NoError(t, err)

	_, err = store.Put(context.Background(), "/", strings.NewReader("x"), "text/plain")
	assert.Error(t, err)
}

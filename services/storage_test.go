package services

import (
	"contact_flow_app_go/config"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()

	storage := NewLocalStorage(tempDir)
	ctx := context.Background()
	content := "hello storage"
	key := "test/file.txt"
	size := int64(len(content))

	t.Run("UploadReader creates file", func(t *testing.T) {
		result, err := storage.UploadReader(ctx, strings.NewReader(content), key, "text/plain", size)
		require.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, "file.txt", result.FileName)
		assert.Equal(t, size, result.FileSize)

		_, err = os.Stat(filepath.Join(tempDir, key))
		assert.NoError(t, err)
	})

	t.Run("Get retrieves file content", func(t *testing.T) {
		reader, contentType, err := storage.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		got, _ := io.ReadAll(reader)
		assert.Equal(t, content, string(got))
		assert.Equal(t, "application/octet-stream", contentType)
	})

	t.Run("Get detects transcript and export types", func(t *testing.T) {
		storage.UploadReader(ctx, strings.NewReader("{}"), "t/a.json", "application/json", 2)
		_, contentType, err := storage.Get(ctx, "t/a.json")
		require.NoError(t, err)
		assert.Equal(t, "application/json", contentType)

		storage.UploadReader(ctx, strings.NewReader("xlsx"), "t/a.xlsx", XLSXContentType, 4)
		_, contentType, err = storage.Get(ctx, "t/a.xlsx")
		require.NoError(t, err)
		assert.Equal(t, XLSXContentType, contentType)
	})

	t.Run("Delete removes file", func(t *testing.T) {
		assert.NoError(t, storage.Delete(ctx, key))

		_, err := os.Stat(filepath.Join(tempDir, key))
		assert.True(t, os.IsNotExist(err))

		// Deleting twice is not an error
		assert.NoError(t, storage.Delete(ctx, key))
	})

	t.Run("Get missing file", func(t *testing.T) {
		_, _, err := storage.Get(ctx, "nope.json")
		assert.ErrorIs(t, err, ErrObjectNotFound)
	})

	t.Run("public URL", func(t *testing.T) {
		assert.Equal(t, "/"+filepath.ToSlash(filepath.Join(tempDir, "some/key")), storage.GetPublicURL("some/key"))
	})
}

func TestNewStorageFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{UploadDir: t.TempDir()}
	_, ok := NewStorage(cfg).(*LocalStorage)
	assert.True(t, ok)
}

func TestR2PublicURL(t *testing.T) {
	r2 := &R2Storage{publicURL: "https://cdn.example.com/"}
	assert.Equal(t, "https://cdn.example.com/transcripts/feedback_7.json", r2.GetPublicURL(GenerateTranscriptKey(7)))

	assert.Empty(t, (&R2Storage{}).GetPublicURL("x"))
}

// internal/infrastructure/storage/file_storage_test.go
package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLocalFileStorage_SaveAndRead(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewLocalFileStorage(tempDir, zap.NewNop())
	ctx := context.Background()

	t.Run("saves receipt under its key", func(t *testing.T) {
		rel := ReceiptPath("test-key", "test.jpg")

		require.NoError(t, fs.Save(ctx, rel, []byte("file content")))

		assert.FileExists(t, filepath.Join(tempDir, "test-key", "test.jpg"))
		content, err := fs.Read(ctx, rel)
		require.NoError(t, err)
		assert.Equal(t, "file content", string(content))
		assert.True(t, fs.Exists(ctx, rel))
	})

	t.Run("overwrites existing file", func(t *testing.T) {
		rel := ReceiptPath("key", "receipt.png")
		require.NoError(t, fs.Save(ctx, rel, []byte("original")))
		require.NoError(t, fs.Save(ctx, rel, []byte("updated")))

		content, _ := os.ReadFile(fs.GetFullPath(rel))
		assert.Equal(t, "updated", string(content))
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		rel := ReceiptPath("gone", "receipt.png")
		require.NoError(t, fs.Save(ctx, rel, []byte("x")))

		require.NoError(t, fs.Delete(ctx, rel))
		require.NoError(t, fs.Delete(ctx, rel))
		assert.False(t, fs.Exists(ctx, rel))
	})
}

func TestLocalFileStorage_RejectsEscapingPaths(t *testing.T) {
	tempDir := t.TempDir()
	fs := NewLocalFileStorage(tempDir, zap.NewNop())
	ctx := context.Background()

	err := fs.Save(ctx, "../../etc/passwd", []byte("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes base directory")

	_, err = fs.Read(ctx, "../outside.txt")
	assert.Error(t, err)
	assert.False(t, fs.Exists(ctx, "../outside.txt"))
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"test.jpg", "test.jpg"},
		{"../../etc/passwd", "etcpasswd"},
		{"ma facture été.png", "mafacturet.png"},
		{`a\b`, "ab"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeName(tt.in))
		})
	}
}

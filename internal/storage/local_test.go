package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenDelete(t *testing.T) {
	s, err := NewLocalStore("http://localhost:54321/", t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	n, err := s.Save(ctx, "equipment/a.png", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, int64(9), n)

	rc, err := s.Open(ctx, "equipment/a.png")
	require.NoError(t, err)
	data, _ := io.ReadAll(rc)
	rc.Close()
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, s.Delete(ctx, "equipment/a.png"))
	_, err = s.Open(ctx, "equipment/a.png")
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting twice is fine.
	assert.NoError(t, s.Delete(ctx, "equipment/a.png"))
}

func TestLocalStore_Keys(t *testing.T) {
	s, err := NewLocalStore("http://localhost:54321/", t.TempDir())
	require.NoError(t, err)

	t.Run("Traversal stays inside root", func(t *testing.T) {
		p, err := s.path("../../etc/passwd")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(p, s.root))
	})

	t.Run("Bucket required", func(t *testing.T) {
		_, err := s.Save(context.Background(), "loose.png", strings.NewReader("x"))
		assert.Error(t, err)
	})

	t.Run("Cancelled upload", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := s.Save(ctx, "equipment/b.png", strings.NewReader("x"))
		assert.ErrorIs(t, err, context.Canceled)
		_, err = s.Open(context.Background(), "equipment/b.png")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Public URL", func(t *testing.T) {
		assert.Equal(t, "http://localhost:54321/storage/v1/object/equipment/a.png", s.PublicURL("equipment/a.png"))
	})

	t.Run("NewKey keeps extension", func(t *testing.T) {
		key := NewKey("equipment", "Drill.JPG")
		assert.True(t, strings.HasPrefix(key, "equipment/"))
		assert.True(t, strings.HasSuffix(key, ".jpg"))
	})
}

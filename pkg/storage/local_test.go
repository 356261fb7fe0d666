package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStore(t.TempDir(), "/uploads/")
	require.NoError(t, err)

	t.Run("Should put and read back an object", func(t *testing.T) {
		obj, err := s.Put(ctx, "interviews/1/q1.webm", strings.NewReader("video"), 5, "video/webm")
		require.NoError(t, err)
		assert.Equal(t, "/uploads/interviews/1/q1.webm", obj.URL)
		assert.EqualValues(t, 5, obj.Size)

		rc, err := s.Get(ctx, "interviews/1/q1.webm")
		require.NoError(t, err)
		defer rc.Close()
		data, _ := io.ReadAll(rc)
		assert.Equal(t, "video", string(data))
	})

	t.Run("Should keep keys inside the root", func(t *testing.T) {
		_, err := s.Put(ctx, "../../etc/passwd", strings.NewReader("x"), 1, "text/plain")
		require.NoError(t, err)
		_, err = s.Get(ctx, "etc/passwd")
		assert.NoError(t, err)
	})

	t.Run("Should report missing objects", func(t *testing.T) {
		_, err := s.Get(ctx, "nope")
		assert.ErrorIs(t, err, ErrObjectNotFound)
		assert.NoError(t, s.Delete(ctx, "nope"))
	})
}

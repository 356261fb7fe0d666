package security

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// minimal EBML header with a "webm" DocType
var webmHeader = []byte{
	0x1A, 0x45, 0xDF, 0xA3, 0x9F, 0x42, 0x86, 0x81, 0x01, 0x42, 0xF7, 0x81, 0x01,
	0x42, 0xF2, 0x81, 0x04, 0x42, 0xF3, 0x81, 0x08, 0x42, 0x82, 0x84, 'w', 'e', 'b', 'm',
	0x42, 0x87, 0x81, 0x04, 0x42, 0x85, 0x81, 0x02,
}

func pngBytes(t *testing.T) []byte {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateFile(t *testing.T) {
	t.Run("Should reject empty payloads", func(t *testing.T) {
		res := ValidateFile(KindVideo, nil, 0)
		assert.False(t, res.Valid)
		assert.Equal(t, "file is empty", res.Error)
	})

	t.Run("Should accept a webm video", func(t *testing.T) {
		data := append(append([]byte{}, webmHeader...), make([]byte, 64)...)
		res := ValidateFile(KindVideo, data, 1<<20)
		assert.True(t, res.Valid, res.Error)
		assert.Equal(t, ".webm", res.Extension)
	})

	t.Run("Should reject an image uploaded as video", func(t *testing.T) {
		res := ValidateFile(KindVideo, pngBytes(t), 1<<20)
		assert.False(t, res.Valid)
		assert.Equal(t, "image/png", res.DetectedMIME)
	})

	t.Run("Should accept png as image", func(t *testing.T) {
		res := ValidateFile(KindImage, pngBytes(t), 1<<20)
		assert.True(t, res.Valid)
		assert.Equal(t, ".png", res.Extension)
	})

	t.Run("Should enforce the size limit", func(t *testing.T) {
		res := ValidateFile(KindImage, pngBytes(t), 10)
		assert.False(t, res.Valid)
	})
}

func TestPassword(t *testing.T) {
	hash, err := HashPassword("s3nh@-forte")
	require.NoError(t, err)
	assert.NoError(t, CheckPassword(hash, "s3nh@-forte"))
	assert.ErrorIs(t, CheckPassword(hash, "errada"), ErrPasswordMismatch)
}

func TestLoginTrackerLocalFallback(t *testing.T) {
	lt := NewLoginTracker(LoginTrackerConfig{
		MaxAttempts:   3,
		AttemptWindow: time.Minute,
		BlockDuration: time.Minute,
	}, NewSecurityLogger(zap.NewNop(), "test", "test"))
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	lt.now = func() time.Time { return now }
	ctx := context.Background()

	for i := 1; i < 3; i++ {
		blocked, count, err := lt.RecordFailedAttempt(ctx, "ana@example.com", "1.1.1.1", "ua", "req")
		require.NoError(t, err)
		assert.False(t, blocked)
		assert.Equal(t, i, count)
	}

	blocked, _, err := lt.RecordFailedAttempt(ctx, "ana@example.com", "1.1.1.1", "ua", "req")
	require.NoError(t, err)
	assert.True(t, blocked)

	isBlocked, _ := lt.IsBlocked(ctx, "ana@example.com")
	assert.True(t, isBlocked)

	now = now.Add(2 * time.Minute)
	isBlocked, _ = lt.IsBlocked(ctx, "ana@example.com")
	assert.False(t, isBlocked)

	require.NoError(t, lt.ClearAttempts(ctx, "ana@example.com"))
}

func TestMaskEmail(t *testing.T) {
	assert.Equal(t, "j***@example.com", MaskEmail("joao@example.com"))
	assert.Equal(t, "***", MaskEmail("invalid"))
}

package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitWithin(t *testing.T) {
	w, h := FitWithin(2000, 1000, 500)
	assert.Equal(t, 500, w)
	assert.Equal(t, 250, h)

	w, h = FitWithin(300, 900, 300)
	assert.Equal(t, 100, w)
	assert.Equal(t, 300, h)

	w, h = FitWithin(100, 50, 500)
	assert.Equal(t, 100, w)
	assert.Equal(t, 50, h)
}

func TestResizeToJPEG(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 800, 400))
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	dataURL := "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())
	raw, err := DecodeDataURL(dataURL)
	require.NoError(t, err)

	out, err := ResizeToJPEG(raw, 200, 80)
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)
}

func TestDecodeDataURLRejectsGarbage(t *testing.T) {
	_, err := DecodeDataURL("data:image/png,notbase64")
	assert.ErrorIs(t, err, ErrInvalidDataURL)

	_, err = DecodeDataURL("%%%")
	assert.ErrorIs(t, err, ErrInvalidDataURL)
}

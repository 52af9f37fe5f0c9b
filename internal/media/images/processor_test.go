package images

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/bookclubapp/bookclub-server/internal/errors"
	"github.com/bookclubapp/bookclub-server/internal/logger"
)

func gradient(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, gradient(w, h)))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, gradient(w, h), nil))
	return buf.Bytes()
}

func newTestProcessor(maxBytes int64) *Processor {
	return NewProcessor(maxBytes, logger.Discard().Logger)
}

func TestProcessor_Process(t *testing.T) {
	p := newTestProcessor(5 << 20)

	t.Run("png", func(t *testing.T) {
		out, err := p.Process(encodePNG(t, 200, 100))
		require.NoError(t, err)
		assert.Equal(t, "image/png", out.ContentType)
		assert.Equal(t, 200, out.Width)
		assert.Equal(t, 100, out.Height)
		assert.NotEmpty(t, out.BlurHash)
	})

	t.Run("jpeg", func(t *testing.T) {
		out, err := p.Process(encodeJPEG(t, 32, 48))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", out.ContentType)
		assert.Equal(t, 32, out.Width)
		assert.Equal(t, 48, out.Height)
	})

	t.Run("not an image", func(t *testing.T) {
		_, err := p.Process([]byte("definitely not a picture"))
		require.Error(t, err)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
		field, _ := domainerrors.Field(err)
		assert.Equal(t, "data", field)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := p.Process(nil)
		assert.ErrorIs(t, err, domainerrors.ErrValidation)
	})
}

func TestProcessor_TooLarge(t *testing.T) {
	data := encodePNG(t, 64, 64)
	p := newTestProcessor(int64(len(data) - 1))

	_, err := p.Process(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too large")
}

func TestResizeForBlurHash(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		wantW, wantH int
	}{
		{"small image untouched", 40, 30, 40, 30},
		{"landscape", 640, 320, 64, 32},
		{"portrait", 300, 600, 32, 64},
		{"extreme ratio keeps one pixel", 6400, 10, 64, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resizeForBlurHash(gradient(tt.w, tt.h)).Bounds()
			assert.Equal(t, tt.wantW, got.Dx())
			assert.Equal(t, tt.wantH, got.Dy())
		})
	}
}

func TestDecodeDataURL(t *testing.T) {
	raw := []byte("\x89PNG fake")
	encoded := base64.StdEncoding.EncodeToString(raw)

	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{"data url", "data:image/png;base64," + encoded, raw, false},
		{"bare base64", encoded, raw, false},
		{"surrounding whitespace", "  data:image/png;base64," + encoded + "\n", raw, false},
		{"not base64 encoded", "data:image/png," + encoded, nil, true},
		{"missing comma", "data:image/png;base64", nil, true},
		{"garbage", "data:image/png;base64,@@@", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeDataURL(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domainerrors.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

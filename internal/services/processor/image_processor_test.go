package processor

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/phambaophuc/id-photo-studio/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProcessor() *ImageProcessor {
	return NewImageProcessor(config.StorageConfig{
		MaxFileSize:  1 << 20,
		MaxDimension: 64,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/webp"},
	})
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestValidateImage(t *testing.T) {
	p := newTestProcessor()

	contentType, err := p.ValidateImage(pngBytes(t, 10, 10))
	require.NoError(t, err)
	assert.Equal(t, "image/png", contentType)

	_, err = p.ValidateImage(nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = p.ValidateImage([]byte("just some text, not an image"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	small := NewImageProcessor(config.StorageConfig{MaxFileSize: 10})
	_, err = small.ValidateImage(pngBytes(t, 10, 10))
	assert.ErrorIs(t, err, ErrFileTooLarge)

	// Valid PNG signature followed by garbage.
	broken := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0}, 32)...)
	_, err = p.ValidateImage(broken)
	assert.ErrorIs(t, err, ErrInvalidImageData)
}

func TestPrepareUploadFitsAndReencodes(t *testing.T) {
	p := newTestProcessor()

	out, contentType, err := p.PrepareUpload(pngBytes(t, 200, 100))
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 32, img.Bounds().Dy())
}

func TestPrepareUploadKeepsSmallImages(t *testing.T) {
	p := newTestProcessor()

	out, _, err := p.PrepareUpload(pngBytes(t, 30, 40))
	require.NoError(t, err)

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
}

func TestExportResultCropsToAspect(t *testing.T) {
	p := newTestProcessor()

	tests := []struct {
		name  string
		size  models.PhotoSize
		w, h  int
		wantW int
		wantH int
	}{
		{"3x4 from square", models.Size3x4, 120, 120, 90, 120},
		{"4x6 from tall", models.Size4x6, 100, 300, 100, 150},
		{"passport from wide", models.SizePassport, 350, 90, 70, 90},
		{"already matching", models.Size3x4, 30, 40, 30, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, contentType, err := p.ExportResult(pngBytes(t, tt.w, tt.h), tt.size)
			require.NoError(t, err)
			assert.Equal(t, "image/png", contentType)

			cfg, err := png.DecodeConfig(bytes.NewReader(out))
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, cfg.Width)
			assert.Equal(t, tt.wantH, cfg.Height)
		})
	}
}

func TestExportResultRejectsGarbage(t *testing.T) {
	_, _, err := newTestProcessor().ExportResult([]byte("nope"), models.Size3x4)
	assert.Error(t, err)
}

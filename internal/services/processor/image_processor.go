package processor

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/id-photo-studio/internal/config"
	"github.com/phambaophuc/id-photo-studio/internal/models"
)

const (
	DefaultQuality      = 90
	DefaultMaxDimension = 1536
)

// ImageProcessor prepares uploads before they are sent to the provider and
// shapes generated photos for download.
type ImageProcessor struct {
	maxFileSize  int64
	maxDimension int
	allowedTypes []string
}

func NewImageProcessor(cfg config.StorageConfig) *ImageProcessor {
	maxDimension := cfg.MaxDimension
	if maxDimension <= 0 {
		maxDimension = DefaultMaxDimension
	}
	return &ImageProcessor{
		maxFileSize:  cfg.MaxFileSize,
		maxDimension: maxDimension,
		allowedTypes: cfg.AllowedTypes,
	}
}

// PrepareUpload validates an uploaded portrait and re-encodes it as JPEG,
// upright and no larger than the configured dimension.
func (p *ImageProcessor) PrepareUpload(data []byte) ([]byte, string, error) {
	if _, err := p.ValidateImage(data); err != nil {
		return nil, "", err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}

	img = p.fitImage(img)

	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, img, models.FormatJPEG, DefaultQuality); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buffer.Bytes(), "image/jpeg", nil
}

// ExportResult crops a generated photo to the aspect ratio of size and
// returns it as PNG.
func (p *ImageProcessor) ExportResult(data []byte, size models.PhotoSize) ([]byte, string, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode result: %w", err)
	}

	img = p.cropToAspect(img, size)

	buffer := &bytes.Buffer{}
	if err := p.encodeImage(buffer, img, models.FormatPNG, DefaultQuality); err != nil {
		return nil, "", fmt.Errorf("failed to encode result: %w", err)
	}
	return buffer.Bytes(), "image/png", nil
}

package processor

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	_ "golang.org/x/image/webp"
)

var (
	ErrEmptyImage       = errors.New("empty image")
	ErrFileTooLarge     = errors.New("file too large")
	ErrUnsupportedType  = errors.New("unsupported image type")
	ErrInvalidImageData = errors.New("invalid image data")
)

// ValidateImage checks size, sniffed content type and that the header
// decodes. It returns the detected content type.
func (p *ImageProcessor) ValidateImage(data []byte) (string, error) {
	if len(data) == 0 {
		return "", ErrEmptyImage
	}

	if p.maxFileSize > 0 && int64(len(data)) > p.maxFileSize {
		return "", fmt.Errorf("%w: %d bytes exceeds maximum %d", ErrFileTooLarge, len(data), p.maxFileSize)
	}

	contentType := http.DetectContentType(data)
	if !p.isAllowed(contentType) {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidImageData, err)
	}

	return contentType, nil
}

func (p *ImageProcessor) isAllowed(contentType string) bool {
	if len(p.allowedTypes) == 0 {
		return strings.HasPrefix(contentType, "image/")
	}
	for _, allowed := range p.allowedTypes {
		if strings.EqualFold(contentType, allowed) {
			return true
		}
	}
	return false
}

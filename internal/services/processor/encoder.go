package processor

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/phambaophuc/id-photo-studio/internal/models"
)

func (p *ImageProcessor) encodeImage(w io.Writer, img image.Image, format string, quality int) error {
	switch format {
	case models.FormatPNG:
		return png.Encode(w, img)
	default:
		return jpeg.Encode(w, img, &jpeg.Options{Quality: min(100, max(1, quality))})
	}
}

package processor

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/phambaophuc/id-photo-studio/internal/models"
)

// cropToAspect keeps the largest centered region matching the photo size.
func (p *ImageProcessor) cropToAspect(img image.Image, size models.PhotoSize) image.Image {
	aw, ah := size.AspectRatio()
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	cropW, cropH := width, width*ah/aw
	if cropH > height {
		cropW, cropH = height*aw/ah, height
	}
	if cropW == width && cropH == height {
		return img
	}

	return imaging.CropCenter(img, max(1, cropW), max(1, cropH))
}

func (p *ImageProcessor) fitImage(img image.Image) image.Image {
	bounds := img.Bounds()
	if bounds.Dx() <= p.maxDimension && bounds.Dy() <= p.maxDimension {
		return img
	}
	return imaging.Fit(img, p.maxDimension, p.maxDimension, imaging.Lanczos)
}

// Package imgnorm prepares document images for recognition: grayscale,
// contrast stretch, and a mild brightness lift, emitted as PNG. The steps are
// fixed and deterministic so the same input always produces the same bytes
// downstream.
package imgnorm

import (
	"bytes"
	"image"

	"github.com/disintegration/imaging"

	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
)

// Normalize decodes an input image in any supported format and returns the
// normalized PNG. Undecodable bytes are classified as an unreadable image;
// the caller routes those to review rather than failing the batch.
func Normalize(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, common.WrapError(common.ErrUnreadableImage, err.Error())
	}

	img := imaging.Grayscale(src)
	img = stretchContrast(img)
	img = imaging.AdjustContrast(img, 12)
	img = imaging.AdjustBrightness(img, 4)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, common.WrapError(common.ErrUnreadableImage, err.Error())
	}
	return buf.Bytes(), nil
}

// stretchContrast remaps the observed luminance range onto [0,255]. Scanned
// receipts often occupy a narrow band (gray paper, faded ink); stretching
// separates text from background before the fixed contrast bump.
func stretchContrast(img *image.NRGBA) *image.NRGBA {
	min, max := luminanceRange(img)
	if max <= min {
		return img // flat image, nothing to stretch
	}
	scale := 255.0 / float64(max-min)
	lut := make([]uint8, 256)
	for i := range lut {
		switch {
		case i <= int(min):
			lut[i] = 0
		case i >= int(max):
			lut[i] = 255
		default:
			lut[i] = uint8(float64(i-int(min))*scale + 0.5)
		}
	}

	out := imaging.Clone(img)
	for i := 0; i < len(out.Pix); i += 4 {
		out.Pix[i] = lut[out.Pix[i]]
		out.Pix[i+1] = lut[out.Pix[i+1]]
		out.Pix[i+2] = lut[out.Pix[i+2]]
	}
	return out
}

func luminanceRange(img *image.NRGBA) (uint8, uint8) {
	min, max := uint8(255), uint8(0)
	// after Grayscale, R==G==B; sampling the red channel is enough
	for i := 0; i < len(img.Pix); i += 4 {
		v := img.Pix[i]
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

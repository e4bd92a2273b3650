package imgnorm

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Farfive/expenseflow-pro-sub007/internal/common"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func grayImage(lo, hi uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			v := lo
			if (x+y)%2 == 0 {
				v = hi
			}
			img.Set(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestNormalizeProducesDecodablePNG(t *testing.T) {
	in := encodePNG(t, grayImage(100, 150))

	out, err := Normalize(in)
	require.NoError(t, err)
	require.NotEmpty(t, out)

	decoded, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 8, 8), decoded.Bounds())
}

func TestNormalizeUnreadableBytes(t *testing.T) {
	_, err := Normalize([]byte("not an image at all"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnreadableImage))

	_, err = Normalize(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrUnreadableImage))
}

func TestNormalizeDeterministic(t *testing.T) {
	in := encodePNG(t, grayImage(80, 200))

	first, err := Normalize(in)
	require.NoError(t, err)
	second, err := Normalize(in)
	require.NoError(t, err)

	assert.True(t, bytes.Equal(first, second))
}

func TestStretchContrastExpandsNarrowBand(t *testing.T) {
	img := grayImage(100, 150)

	out := stretchContrast(img)
	lo, hi := luminanceRange(out)
	assert.Equal(t, uint8(0), lo)
	assert.Equal(t, uint8(255), hi)
}

func TestStretchContrastFlatImageUnchanged(t *testing.T) {
	img := grayImage(120, 120)

	out := stretchContrast(img)
	lo, hi := luminanceRange(out)
	assert.Equal(t, uint8(120), lo)
	assert.Equal(t, uint8(120), hi)
}

package bjpeg

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildTestImage fills a width x height image with a smooth gradient (a
// realistic, compressible pattern) scaled from 8-bit samples up to the
// 16-bit plane range.
func buildTestImage(width, height int) *Image {
	img := NewImage(width, height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r := uint8(x * 255 / width)
			g := uint8(y * 255 / height)
			b := uint8((x + y) * 255 / (width + height))
			img.R.Set(x, y, uint16(r)*257)
			img.G.Set(x, y, uint16(g)*257)
			img.B.Set(x, y, uint16(b)*257)
		}
	}
	return img
}

func TestEncodeProducesDecodableJPEG(t *testing.T) {
	img := buildTestImage(64, 48)
	var buf bytes.Buffer
	opts := &Options{Quality: 50, Subsampling: Sampling420, DCTMode: DCTArai}
	require.NoError(t, Encode(context.Background(), &buf, img, opts))

	decoded, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 64, decoded.Bounds().Dx())
	assert.Equal(t, 48, decoded.Bounds().Dy())

	psnr := psnrRGB(img, decoded)
	assert.GreaterOrEqualf(t, psnr, 30.0, "PSNR too low: %v dB", psnr)
}

func TestEncodeAllSubsamplingModesProduceValidJPEG(t *testing.T) {
	img := buildTestImage(32, 32)
	for _, s := range []Subsampling{Sampling444, Sampling422, Sampling420} {
		var buf bytes.Buffer
		opts := &Options{Quality: 75, Subsampling: s}
		require.NoError(t, Encode(context.Background(), &buf, img, opts))
		_, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
		assert.NoErrorf(t, err, "subsampling %v produced an undecodable stream", s)
	}
}

func TestEncodeAllDCTModesAgree(t *testing.T) {
	img := buildTestImage(16, 16)
	var psnrs []float64
	for _, mode := range []DCTMode{DCTArai, DCTDirect, DCTMatrix} {
		var buf bytes.Buffer
		opts := &Options{Quality: 90, Subsampling: Sampling444, DCTMode: mode}
		require.NoError(t, Encode(context.Background(), &buf, img, opts))
		decoded, err := jpeg.Decode(bytes.NewReader(buf.Bytes()))
		require.NoError(t, err)
		psnrs = append(psnrs, psnrRGB(img, decoded))
	}
	for i := 1; i < len(psnrs); i++ {
		assert.InDelta(t, psnrs[0], psnrs[i], 1.0, "DCT modes should produce near-identical quality")
	}
}

func TestEncodeRejectsNilImage(t *testing.T) {
	var buf bytes.Buffer
	err := Encode(context.Background(), &buf, nil, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

// TestEncodeRejectsUnalignedDimensions confirms padding stays the
// external caller's responsibility: Encode must reject an image whose
// dimensions aren't already a multiple of the MCU pixel size rather
// than silently padding it, which would make DimensionError
// unreachable through this entry point.
func TestEncodeRejectsUnalignedDimensions(t *testing.T) {
	img := buildTestImage(20, 20)
	var buf bytes.Buffer
	err := Encode(context.Background(), &buf, img, &Options{Subsampling: Sampling420})
	assert.ErrorIs(t, err, ErrDimension)
}

func TestEncodeRejectsCancelledContext(t *testing.T) {
	img := buildTestImage(64, 64)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	err := Encode(ctx, &buf, img, &Options{})
	assert.Error(t, err)
}

// psnrRGB computes the PSNR, in dB, between the encoder's source image
// (16-bit planes) and a decoded image.Image (typically 8-bit YCbCr from
// image/jpeg), over the decoded image's bounds.
func psnrRGB(src *Image, decoded image.Image) float64 {
	bounds := decoded.Bounds()
	var sumSq float64
	n := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			dr, dg, db, _ := decoded.At(x, y).RGBA()
			sr := uint32(src.R.At(x, y)) >> 8
			sg := uint32(src.G.At(x, y)) >> 8
			sb := uint32(src.B.At(x, y)) >> 8
			sumSq += sqDiff(sr, dr>>8)
			sumSq += sqDiff(sg, dg>>8)
			sumSq += sqDiff(sb, db>>8)
			n += 3
		}
	}
	if sumSq == 0 {
		return math.Inf(1)
	}
	mse := sumSq / float64(n)
	return 20*math.Log10(255) - 10*math.Log10(mse)
}

func sqDiff(a, b uint32) float64 {
	d := float64(a) - float64(b)
	return d * d
}

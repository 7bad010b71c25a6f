package bjpeg

import "math"

// baseLuminanceQuant and baseChrominanceQuant are the standard Annex K
// JPEG example quantization tables, in natural (row-major) order, scaled
// per quality factor by NewQuantTable. Grounded on the teacher's
// unscaledQuant tables in writer.go, which carry the same values.
var baseLuminanceQuant = [64]uint16{
	16, 11, 10, 16, 24, 40, 51, 61,
	12, 12, 14, 19, 26, 58, 60, 55,
	14, 13, 16, 24, 40, 57, 69, 56,
	14, 17, 22, 29, 51, 87, 80, 62,
	18, 22, 37, 56, 68, 109, 103, 77,
	24, 35, 55, 64, 81, 104, 113, 92,
	49, 64, 78, 87, 103, 121, 120, 101,
	72, 92, 95, 98, 112, 100, 103, 99,
}

var baseChrominanceQuant = [64]uint16{
	17, 18, 24, 47, 99, 99, 99, 99,
	18, 21, 26, 66, 99, 99, 99, 99,
	24, 26, 56, 99, 99, 99, 99, 99,
	47, 66, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
	99, 99, 99, 99, 99, 99, 99, 99,
}

// QuantTable holds the reciprocal of each quantizer, in natural
// (row-major) order, so Quantize can multiply instead of divide — the
// same reciprocal-table optimization as
// original_source/src/quantization.rs::quantize.
type QuantTable struct {
	Values [64]uint16
	recip  [64]float32
}

// NewQuantTable scales base by the IJG quality-factor formula (quality
// in [1,100], clamped) and precomputes reciprocals.
func NewQuantTable(base [64]uint16, quality int) *QuantTable {
	if quality < 1 {
		quality = 1
	}
	if quality > 100 {
		quality = 100
	}
	scale := 200 - 2*quality
	if quality < 50 {
		scale = 5000 / quality
	}

	qt := &QuantTable{}
	for i, b := range base {
		v := (int(b)*scale + 50) / 100
		if v < 1 {
			v = 1
		}
		if v > 255 {
			v = 255
		}
		qt.Values[i] = uint16(v)
		qt.recip[i] = 1 / float32(v)
	}
	return qt
}

// LuminanceQuantTable builds the Y-channel quantization table at the
// given quality.
func LuminanceQuantTable(quality int) *QuantTable {
	return NewQuantTable(baseLuminanceQuant, quality)
}

// ChrominanceQuantTable builds the Cb/Cr-channel quantization table at
// the given quality.
func ChrominanceQuantTable(quality int) *QuantTable {
	return NewQuantTable(baseChrominanceQuant, quality)
}

// Quantize divides each DCT coefficient by its quantizer (as a
// reciprocal multiply) and rounds half-away-from-zero ties toward zero,
// matching original_source/src/quantization.rs::quantize's tie-break.
func Quantize(b *Block, q *QuantTable) [64]int32 {
	var out [64]int32
	for i := 0; i < 64; i++ {
		out[i] = quantizeRound(b[i] * q.recip[i])
	}
	return out
}

// quantizeRound rounds to the nearest integer, breaking exact .5 ties
// toward zero (not away from it, and not to even).
func quantizeRound(v float32) int32 {
	if v >= 0 {
		floor := float32(math.Floor(float64(v)))
		if v-floor > 0.5 {
			return int32(floor) + 1
		}
		return int32(floor)
	}
	ceil := float32(math.Ceil(float64(v)))
	if ceil-v > 0.5 {
		return int32(ceil) - 1
	}
	return int32(ceil)
}

// zigzagOrder maps zig-zag scan position -> natural row-major index,
// the standard JPEG scan order: zigzagOrder[k] is the row-major index
// of the coefficient that should appear at scan position k.
var zigzagOrder = [64]int{
	0, 1, 8, 16, 9, 2, 3, 10,
	17, 24, 32, 25, 18, 11, 4, 5,
	12, 19, 26, 33, 40, 48, 41, 34,
	27, 20, 13, 6, 7, 14, 21, 28,
	35, 42, 49, 56, 57, 50, 43, 36,
	29, 22, 15, 23, 30, 37, 44, 51,
	58, 59, 52, 45, 38, 31, 39, 46,
	53, 60, 61, 54, 47, 55, 62, 63,
}

// zigzag reorders 64 natural-order (row-major) coefficients into
// zig-zag scan order: out[k] is the natural-order coefficient at
// zigzagOrder[k], per
// original_source/src/quantization.rs::sample_zigzag.
func zigzag(m *[64]int32) [64]int32 {
	var out [64]int32
	for k, nat := range zigzagOrder {
		out[k] = m[nat]
	}
	return out
}

package bjpeg

// categorize returns the JPEG "category" (SIZE) of v — the number of
// bits needed to represent |v| — and the bit pattern used to encode it:
// v itself for v>0, and v's value biased into the category's lower half
// for v<0 (the classic one's-complement-style encoding where negative
// values occupy the bottom half of the category's range). categorize(0)
// is (0, 0). Ported from
// original_source/src/quantization.rs::categorize (duplicated verbatim
// in coefficient_encoder.rs in the original; this package keeps a single
// copy).
func categorize(v int32) (cat uint8, bits uint16) {
	av := v
	if av < 0 {
		av = -av
	}
	for av>>cat != 0 {
		cat++
	}
	if v >= 0 {
		bits = uint16(v)
		return cat, bits
	}
	bits = uint16(v + (1 << cat) - 1)
	return cat, bits
}

// decategorize is categorize's inverse: given a category and its raw
// bits, recover the signed coefficient value.
func decategorize(cat uint8, bits uint16) int32 {
	if cat == 0 {
		return 0
	}
	half := uint16(1) << (cat - 1)
	if bits < half {
		return int32(bits) - (1 << cat) + 1
	}
	return int32(bits)
}

// CoeffSymbol is one Huffman-coded unit in the entropy stream: Symbol is
// the byte looked up in the Huffman table (a DC category, or an AC
// RRRRSSSS run/category byte, or 0x00/0xF0 for EOB/ZRL); Bits/NBits are
// the verbatim extra bits that follow the Huffman code, not themselves
// Huffman-coded. Kept as an abstract (symbol, category, bits) triple
// rather than writing straight to the bit writer, so this stage can run
// before Huffman table construction (component G needs the whole
// symbol frequency table first). Grounded on
// original_source/src/coefficient_encoder.rs and the teacher's
// writeBlock/emitHuffRLE run-length loop in writer.go.
type CoeffSymbol struct {
	Symbol byte
	Bits   uint16
	NBits  uint8
}

// DCDiffs computes per-block DC differences from one channel's DC
// values in block order, predicting each from the previous block (zero
// before the first), per
// original_source/src/coefficient_encoder.rs::coefficients_to_diffs.
func DCDiffs(dc []int32) []int32 {
	diffs := make([]int32, len(dc))
	var prev int32
	for i, v := range dc {
		diffs[i] = v - prev
		prev = v
	}
	return diffs
}

// EncodeDC returns the single Huffman-coded symbol for one block's DC
// difference.
func EncodeDC(diff int32) CoeffSymbol {
	cat, bits := categorize(diff)
	return CoeffSymbol{Symbol: cat, Bits: bits, NBits: cat}
}

// symbolZRL is the run-length-16 escape (RRRR=15, SSSS=0); symbolEOB
// ends a block's AC run early (RRRR=0, SSSS=0 with no run pending).
const (
	symbolEOB byte = 0x00
	symbolZRL byte = 0xF0
)

// EncodeAC run-length encodes one block's 63 AC coefficients (zig-zag
// order, DC excluded) into ZRL/category symbols terminated by EOB when
// the block doesn't end in a nonzero coefficient. Ported from
// original_source/src/coefficient_encoder.rs::ac_coefficients and the
// teacher's writeBlock AC loop in writer.go.
func EncodeAC(ac []int32) []CoeffSymbol {
	var out []CoeffSymbol
	run := 0
	for _, v := range ac {
		if v == 0 {
			run++
			continue
		}
		for run >= 16 {
			out = append(out, CoeffSymbol{Symbol: symbolZRL})
			run -= 16
		}
		cat, bits := categorize(v)
		out = append(out, CoeffSymbol{Symbol: byte(run<<4) | cat, Bits: bits, NBits: cat})
		run = 0
	}
	if run > 0 {
		out = append(out, CoeffSymbol{Symbol: symbolEOB})
	}
	return out
}

package bjpeg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCategorizeBoundaries(t *testing.T) {
	cases := []struct {
		v   int32
		cat uint8
	}{
		{0, 0},
		{1, 1}, {-1, 1},
		{127, 7}, {-127, 7},
		{128, 8}, {-128, 8},
		{255, 8}, {-255, 8},
		{256, 9}, {-256, 9},
		{-3153, 12}, {3153, 12},
		{32767, 15}, {-32767, 15},
	}
	for _, c := range cases {
		cat, _ := categorize(c.v)
		assert.Equalf(t, c.cat, cat, "categorize(%d)", c.v)
	}
}

func TestCategorizeDecategorizeRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		v := int32(rapid.IntRange(-32767, 32767).Draw(rt, "v"))
		cat, bits := categorize(v)
		got := decategorize(cat, bits)
		if got != v {
			rt.Fatalf("round trip failed: v=%d cat=%d bits=%d got=%d", v, cat, bits, got)
		}
	})
}

func TestDCDiffs(t *testing.T) {
	diffs := DCDiffs([]int32{10, 12, 8, 8})
	assert.Equal(t, []int32{10, 2, -4, 0}, diffs)
}

func TestEncodeACZRLAndEOB(t *testing.T) {
	ac := make([]int32, 63)
	ac[20] = 5
	syms := EncodeAC(ac)
	// 20 zeros before the nonzero coefficient needs one ZRL (16) plus a
	// run of 4 in the category symbol, then an EOB since the remaining
	// 42 coefficients are all zero.
	if assert.Len(t, syms, 3) {
		assert.Equal(t, symbolZRL, syms[0].Symbol)
		cat, _ := categorize(5)
		assert.Equal(t, byte(4<<4)|cat, syms[1].Symbol)
		assert.Equal(t, symbolEOB, syms[2].Symbol)
	}
}

func TestEncodeACAllZeroIsJustEOB(t *testing.T) {
	ac := make([]int32, 63)
	syms := EncodeAC(ac)
	assert.Equal(t, []CoeffSymbol{{Symbol: symbolEOB}}, syms)
}

func TestEncodeACEndingNonzeroHasNoEOB(t *testing.T) {
	ac := make([]int32, 63)
	ac[62] = 1
	syms := EncodeAC(ac)
	for _, s := range syms {
		assert.NotEqual(t, symbolEOB, s.Symbol)
	}
}

package bjpeg

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestStuffingSinkInsertsZeroAfterFF(t *testing.T) {
	var buf bytes.Buffer
	sink := &stuffingSink{dst: &buf}
	_, err := sink.Write([]byte{0xFF, 0x12, 0xFF, 0xFF})
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFF, 0x00, 0x12, 0xFF, 0x00, 0xFF, 0x00}, buf.Bytes())
}

func TestBitWriterWriteFFFFBits(t *testing.T) {
	// Writing 0xFFFF as 16 bits must stuff after the completed 0xFF
	// byte. Shorter all-ones writes are stuffed the same way once Close's
	// 1-padding completes the 0xFF byte, since bitio only flushes whole
	// bytes.
	for _, n := range []uint8{5, 7, 12, 16} {
		var buf bytes.Buffer
		bw := newBitWriter(&buf)
		value := uint64(0xFFFF) & (uint64(1)<<n - 1)
		require.NoError(t, bw.WriteBits(value, n))
		require.NoError(t, bw.Close())
		assert.Contains(t, buf.Bytes(), byte(0xFF))
		// Every 0xFF byte in the output must be followed by 0x00.
		out := buf.Bytes()
		for i, b := range out {
			if b == 0xFF {
				require.Lessf(t, i+1, len(out), "0xFF at end with no stuffed 0x00, n=%d", n)
				assert.Equalf(t, byte(0x00), out[i+1], "missing stuff byte after 0xFF, n=%d", n)
			}
		}
	}
}

func TestBitWriterRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	bw := newBitWriter(&buf)
	require.NoError(t, bw.WriteBits(0b101, 3))
	require.NoError(t, bw.WriteBits(0b11110000, 8))
	require.NoError(t, bw.Close())

	// Strip stuffed 0x00 bytes and re-read the bits to recover the
	// original, unstuffed bitstream.
	stripped := stripStuffing(buf.Bytes())
	var got uint64
	nbits := 0
	for _, b := range stripped {
		got = got<<8 | uint64(b)
		nbits += 8
	}
	// first 11 bits (3+8) should equal 101 11110000, the rest is 1-padding.
	top11 := got >> uint(nbits-11)
	assert.EqualValues(t, 0b10111110000, top11)
}

// TestBitWriterStuffingRoundTrip checks the law underlying component J:
// stripping the inserted 0x00 stuff bytes from a bitWriter's output
// recovers exactly the original bits that were written, up to Close's
// trailing 1-padding to the next byte boundary.
func TestBitWriterStuffingRoundTrip(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		writes := rapid.SliceOfN(rapid.IntRange(1, 16), 1, 40).Draw(rt, "widths")

		var want []byte // one bit per entry, MSB-first per write
		var buf bytes.Buffer
		bw := newBitWriter(&buf)
		for _, n := range writes {
			value := rapid.Uint64Range(0, uint64(1)<<uint(n)-1).Draw(rt, "value")
			if err := bw.WriteBits(value, uint8(n)); err != nil {
				rt.Fatalf("WriteBits(%d, %d): %v", value, n, err)
			}
			for i := n - 1; i >= 0; i-- {
				want = append(want, byte((value>>uint(i))&1))
			}
		}
		if err := bw.Close(); err != nil {
			rt.Fatalf("Close: %v", err)
		}

		stripped := stripStuffing(buf.Bytes())
		var got []byte
		for _, b := range stripped {
			for i := 7; i >= 0; i-- {
				got = append(got, (b>>uint(i))&1)
			}
		}

		if len(got) < len(want) {
			rt.Fatalf("output shorter than input: got %d bits, want at least %d", len(got), len(want))
		}
		for i, bit := range want {
			if got[i] != bit {
				rt.Fatalf("bit %d differs after stripping stuff bytes: want %d got %d", i, bit, got[i])
			}
		}
		// Everything after the original bits is Close's 1-padding.
		for i, bit := range got[len(want):] {
			if bit != 1 {
				rt.Fatalf("padding bit %d is %d, want 1", i, bit)
			}
		}
	})
}

func stripStuffing(b []byte) []byte {
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		out = append(out, b[i])
		if b[i] == 0xFF && i+1 < len(b) && b[i+1] == 0x00 {
			i++
		}
	}
	return out
}
